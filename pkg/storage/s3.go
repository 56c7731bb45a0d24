package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	jbtypes "github.com/barrygolden/juliabox/pkg/types"
)

// backupTimeKey is the S3 user-metadata field name the original stored
// as k.set_metadata('backup_time', ...).
const backupTimeKey = "backup_time"

// S3Bucket is a Bucket backed by a single AWS S3 bucket.
type S3Bucket struct {
	client *s3.Client
	bucket string
}

// NewS3Bucket builds an S3Bucket against bucketName, loading credentials
// and region from the standard AWS environment/config chain. cloudHost,
// when non-empty, overrides the endpoint (for S3-compatible stores or
// region pinning); it is optional.
func NewS3Bucket(ctx context.Context, bucketName, cloudHost string) (*S3Bucket, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cloudHost != "" {
			o.BaseEndpoint = &cloudHost
		}
	})

	return &S3Bucket{client: client, bucket: bucketName}, nil
}

func (b *S3Bucket) Put(ctx context.Context, localPath string, meta jbtypes.BackupMetadata) (bool, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return false, fmt.Errorf("open %s for upload: %w", localPath, err)
	}
	defer f.Close()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:   &b.bucket,
		Key:      awsString(KeyOf(localPath)),
		Body:     f,
		Metadata: map[string]string{backupTimeKey: jbtypes.FormatBackupTime(meta.BackupTime)},
	})
	if err != nil {
		return false, fmt.Errorf("put %s to s3: %w", localPath, err)
	}
	return true, nil
}

func (b *S3Bucket) Head(ctx context.Context, key string) (jbtypes.BackupMetadata, bool, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if isNotFound(err) {
		return jbtypes.BackupMetadata{}, false, nil
	}
	if err != nil {
		return jbtypes.BackupMetadata{}, false, fmt.Errorf("head %s in s3: %w", key, err)
	}
	return jbtypes.BackupMetadata{BackupTime: jbtypes.ParseBackupTime(out.Metadata[backupTimeKey])}, true, nil
}

func (b *S3Bucket) Get(ctx context.Context, key, localPath string) (bool, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s from s3: %w", key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return false, fmt.Errorf("create %s for download: %w", localPath, err)
	}
	defer f.Close()

	if _, err := f.ReadFrom(out.Body); err != nil {
		return false, fmt.Errorf("write %s from s3: %w", localPath, err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == 404
	}
	return false
}

func awsString(s string) *string { return &s }

package types

import "time"

// BackupMetadata is the single user metadata field carried by an object
// store entry for a backup artifact: the UTC instant the artifact was
// produced, ISO-8601 encoded.
type BackupMetadata struct {
	BackupTime time.Time
}

const iso8601 = time.RFC3339

// ParseBackupTime parses an ISO-8601 UTC timestamp. A malformed or empty
// timestamp is "never" (the zero time), not an error.
func ParseBackupTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(iso8601, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// FormatBackupTime renders a UTC instant as the ISO-8601 string stored in
// the backup_time metadata field.
func FormatBackupTime(t time.Time) string {
	return t.UTC().Format(iso8601)
}

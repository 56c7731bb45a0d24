package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barrygolden/juliabox/pkg/backup"
	"github.com/barrygolden/juliabox/pkg/config"
	"github.com/barrygolden/juliabox/pkg/log"
	"github.com/barrygolden/juliabox/pkg/manager"
	"github.com/barrygolden/juliabox/pkg/metrics"
	"github.com/barrygolden/juliabox/pkg/reconciler"
	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/storage"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sessiond",
	Short:   "sessiond - session-container lifecycle manager",
	Long:    "sessiond maps user session names to per-user Docker containers, sweeps stale ones, and backs up their home directories to an object store.",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"sessiond version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	serveCmd.Flags().String("config", "/etc/jbox/jbox.yaml", "path to the mandatory configuration document")
	serveCmd.Flags().String("override-config", "", "path to an optional user-overrides configuration document")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the session manager: backup engine, maintenance sweep, and metrics endpoint",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	overridePath, _ := cmd.Flags().GetString("override-config")

	cfg, err := config.Load(configPath, overridePath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})
	logger := log.WithComponent("sessiond")

	ctx := context.Background()

	rt, err := runtime.NewDockerClient()
	if err != nil {
		metrics.RegisterComponent("runtime", false, err.Error())
		return fmt.Errorf("connect to container runtime: %w", err)
	}
	metrics.RegisterComponent("runtime", true, "connected")

	var bucket storage.Bucket = storage.Nil()
	if cfg.BackupBucket != "" {
		s3bucket, err := storage.NewS3Bucket(ctx, cfg.BackupBucket, cfg.CloudHost)
		if err != nil {
			metrics.RegisterComponent("objectstore", false, err.Error())
			return fmt.Errorf("connect to object store: %w", err)
		}
		bucket = s3bucket
		metrics.RegisterComponent("objectstore", true, "connected")
	} else {
		metrics.RegisterComponent("objectstore", true, "backup_bucket not configured, local-only")
	}

	staging := backup.Staging{Root: cfg.BackupLocation}
	backupEngine := backup.New(rt, bucket, staging, "juser")

	mgr := manager.New(rt, backupEngine, staging, cfg)
	recon := reconciler.NewReconciler(rt, mgr, cfg)
	recon.Start()
	logger.Info().Msg("maintenance sweep started")

	collector := metrics.NewCollector(mgr)
	collector.Start()

	metrics.SetVersion(Version)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("metrics endpoint listening")
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("metrics server failed")
	}

	recon.Stop()
	collector.Stop()
	if err := rt.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close container runtime client")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/seedapi/pkg/api"
	"github.com/getmockd/seedapi/pkg/config"
	"github.com/getmockd/seedapi/pkg/logging"
	"github.com/getmockd/seedapi/pkg/seed"
	"github.com/getmockd/seedapi/pkg/stateful"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveFlags holds the values bound to the serve command's flags.
type serveFlags struct {
	port         int
	host         string
	seedFile     string
	readTimeout  int
	writeTimeout int
	maxBodyBytes int64
	corsOrigins  []string
	logLevel     string
	logFormat    string
	logFile      string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server (foreground)",
		Example: `  # Serve ./seed.json on port 3000
  seedapi serve

  # Serve a YAML seed on another port with JSON logs
  seedapi serve --seed data/seed.yaml --port 8080 --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.ErrOrStderr())
		},
	}

	bindServeFlags(cmd, f)
	return cmd
}

func bindServeFlags(cmd *cobra.Command, f *serveFlags) {
	fl := cmd.Flags()
	fl.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	fl.StringVar(&f.host, "host", config.DefaultHost, "Bind address (default: all interfaces)")
	fl.StringVarP(&f.seedFile, "seed", "s", config.DefaultSeedFile, "Seed document (.json, .yaml or .yml)")
	fl.IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Read timeout in seconds")
	fl.IntVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "Write timeout in seconds")
	fl.Int64Var(&f.maxBodyBytes, "max-body-bytes", config.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	fl.StringSliceVar(&f.corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")
	fl.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fl.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")
	fl.StringVar(&f.logFile, "log-file", "", "Also write JSON logs to this file")
}

// resolveConfig loads file and environment configuration and applies every
// flag the user set explicitly on top.
func resolveConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, error) {
	cfg, err := config.LoadAll(configFile)
	if err != nil {
		return nil, err
	}

	override := &config.Config{Sources: map[string]string{}}
	changed := func(flag, key string) bool {
		if cmd.Flags().Changed(flag) {
			override.Sources[key] = config.SourceFlag
			return true
		}
		return false
	}
	if changed("port", "port") {
		override.Port = f.port
	}
	if changed("host", "host") {
		override.Host = f.host
	}
	if changed("seed", "seedFile") {
		override.SeedFile = f.seedFile
	}
	if changed("read-timeout", "readTimeout") {
		override.ReadTimeout = f.readTimeout
	}
	if changed("write-timeout", "writeTimeout") {
		override.WriteTimeout = f.writeTimeout
	}
	if changed("max-body-bytes", "maxBodyBytes") {
		override.MaxBodyBytes = f.maxBodyBytes
	}
	if changed("cors-origins", "corsOrigins") {
		override.CORSOrigins = f.corsOrigins
	}
	if changed("log-level", "logLevel") {
		override.LogLevel = f.logLevel
	}
	if changed("log-format", "logFormat") {
		override.LogFormat = f.logFormat
	}
	if changed("log-file", "logFile") {
		override.LogFile = f.logFile
	}
	config.MergeConfig(cfg, override, config.SourceFlag)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. The returned closer releases the log
// file, if any.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	lc := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: stderr,
	}
	closeFn := func() {}
	if cfg.LogFile != "" {
		file, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		lc.Extra = file
		closeFn = func() { _ = file.Close() }
	}
	return logging.New(lc), closeFn, nil
}

// buildServer wires the seed source, store and HTTP server for cfg.
func buildServer(ctx context.Context, cfg *config.Config, log *slog.Logger) *api.Server {
	metrics := stateful.NewMetricsObserver()
	store := stateful.NewStore(
		seed.NewFileSource(cfg.SeedFile),
		stateful.WithLogger(log),
		stateful.WithObserver(stateful.MultiObserver{metrics, stateful.NewLoggingObserver(log)}),
	)
	// A missing or broken seed is logged by Load; the server starts empty.
	_ = store.Load(ctx)

	return api.NewServer(store,
		api.WithLogger(log),
		api.WithMetrics(metrics),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
		api.WithCORS(corsConfig(cfg.CORSOrigins)),
	)
}

func corsConfig(origins []string) api.CORSConfig {
	c := api.DefaultCORSConfig()
	if len(origins) > 0 {
		c.AllowedOrigins = origins
	}
	return c
}

// runServe serves until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, stderr io.Writer) error {
	log, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	srv := buildServer(ctx, cfg, log)
	log.Info("starting seedapi",
		"version", Version,
		"addr", cfg.Addr(),
		"seed", cfg.SeedFile,
	)

	err = srv.ListenAndServe(ctx, cfg.Addr(),
		time.Duration(cfg.ReadTimeout)*time.Second,
		time.Duration(cfg.WriteTimeout)*time.Second,
		shutdownTimeout,
	)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("stopped")
	return nil
}

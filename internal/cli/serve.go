package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/server"
)

const defaultEnvFile = ".env"

// NewServeCmd creates the serve command, which runs the HTTP API until
// interrupted.
func NewServeCmd() *cobra.Command {
	var (
		envFile string
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Serves a JSON API over HTTP:

  GET  /healthz             liveness
  GET  /api/v1/tables       reference tables
  POST /api/v1/calc         one calculation
  POST /api/v1/calc/batch   many calculations
  POST /api/v1/report/pdf   PDF quote sheet

Request bodies are decoded over the configured defaults. Variables in the
--env-file (default .env, if present) are loaded before configuration, so
STEELCALC_* settings can live there.`,
		Example: `  steelcalc serve
  steelcalc serve --addr :9090 --env-file deploy/steelcalc.env`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(cmd, envFile); err != nil {
				return err
			}
			return cmd.Root().PersistentPreRunE(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file loaded before configuration; a missing default file is ignored")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

// loadEnvFile loads envFile without overriding variables already set. A
// missing file is only an error when --env-file was given explicitly.
func loadEnvFile(cmd *cobra.Command, envFile string) error {
	if envFile == "" {
		return nil
	}
	err := godotenv.Load(envFile)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return fmt.Errorf("loading %s: %w", envFile, err)
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	cfg := rt.cfg.Server
	if addr != "" {
		cfg.Addr = addr
	}

	srv := server.New(cfg, rt.tables, *log, server.WithDefaults(rt.defaults))
	cmd.Printf("Listening on %s\n", cfg.Addr)
	if err = srv.Run(ctx); err != nil {
		return err
	}
	log.Info().Ctx(ctx).Str("component", "server").Msg("server stopped")
	return nil
}

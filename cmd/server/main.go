package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/notekeeper/internal/config"
	"github.com/iudanet/notekeeper/internal/logger"
	"github.com/iudanet/notekeeper/internal/server"
	"github.com/iudanet/notekeeper/internal/server/handlers"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		v       *viper.Viper
	)

	root := &cobra.Command{
		Use:           "notekeeper-server",
		Short:         "Authoritative note store with optimistic concurrency control",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			v, err = config.NewViper(cfgFile)
			if err != nil {
				return err
			}
			config.SetServerDefaults(v)
			return v.BindPFlags(cmd.Flags())
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer(v)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	serve.Flags().String("addr", ":8080", "listen address")
	serve.Flags().String("db", "notekeeper-server.db", "path to SQLite database")

	var ttl time.Duration
	token := &cobra.Command{
		Use:   "token <editor>",
		Short: "Issue an editor access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer(v)
			if err != nil {
				return err
			}
			if err := cfg.RequireSecret(); err != nil {
				return err
			}
			if cmd.Flags().Changed("ttl") {
				cfg.JWT.TokenTTL = ttl
			}

			tokenString, expiresAt, err := handlers.GenerateAccessToken(handlers.JWTConfig{
				Secret:   []byte(cfg.JWT.Secret),
				TokenTTL: cfg.JWT.TokenTTL,
			}, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tokenString)
			if !expiresAt.IsZero() {
				fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	token.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (0 = never expires; default from jwt.token_ttl)")

	version := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "NoteKeeper Server\n")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}

	root.AddCommand(serve, token, version)
	return root
}

func runServe(parent context.Context, cfg *config.Server) error {
	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, *cfg, Version, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error("Failed to close server", "error", err)
		}
	}()

	return srv.Run(ctx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"kingdoms/internal/app"
	"kingdoms/pkg/config"
	"kingdoms/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kingdoms-server",
		Short:        "Authoritative server for the kingdoms conquest game",
		SilenceUsage: true,
		RunE:         runServer,
	}
	serverFlags(cmd.Flags())
	return cmd
}

func serverFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.String("host", "", "listen host, overrides the config file")
	flags.Int("port", 0, "listen port, overrides the config file")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("db-path", "", "path to the SQLite name store")
}

func runServer(cmd *cobra.Command, _ []string) error {
	// a missing .env file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("KINGDOMS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return err
	}
	if host := v.GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port := v.GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if level := v.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := v.GetString("log-format"); format != "" {
		cfg.Logging.Format = format
	}
	if path := v.GetString("db-path"); path != "" {
		cfg.Database.Path = path
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := app.NewServer(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"addr":    cfg.GetAddr(),
		"lobbies": len(cfg.Game.LobbyCapacities),
	}).Info("kingdoms server starting")

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	log.Info("server stopped")
	return nil
}

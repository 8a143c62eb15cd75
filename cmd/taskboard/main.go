package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Taskboard - project and task management API",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "server configuration file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// open loads the configuration and connects to the configured database.
func open() (config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, nil, err
	}

	log := makeLogger(cfg.LogLevel)

	conn, err := db.Connect(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return cfg, log, nil, err
	}

	return cfg, log, conn, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, conn, err := open()
			if err != nil {
				return err
			}

			if err := db.Migrate(conn); err != nil {
				return err
			}

			log.Info("database migrated")
			return nil
		},
	}
}

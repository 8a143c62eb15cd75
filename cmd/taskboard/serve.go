package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/router"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, log, conn, err := open()
	if err != nil {
		return err
	}

	if err := db.Migrate(conn); err != nil {
		return err
	}

	stats, err := db.SQLX(conn)
	if err != nil {
		return err
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("cannot init token issuer: %w", err)
	}

	if cfg.Auth.GoogleClientID == "" {
		log.Warn("GOOGLE_CLIENT_ID not set, Google sign-in will reject every token")
	}

	users := services.NewUserService(conn)
	handler := router.NewRouter(router.Deps{
		DB:             conn,
		Issuer:         issuer,
		Auth:           services.NewAuthService(conn, issuer, auth.NewGoogleTokenVerifier(cfg.Auth.GoogleClientID), log),
		Users:          users,
		Projects:       services.NewProjectService(conn, log),
		Tasks:          services.NewTaskService(conn, stats, log),
		Log:            log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           handler,
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("taskboard http server", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

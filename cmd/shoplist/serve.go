package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/server"
	"github.com/dukerupert/shoplist/internal/telemetry"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireSecret(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
			Endpoint: cfg.OTELEndpoint,
			Stdout:   cfg.TraceStdout,
			Writer:   os.Stdout,
		}, logger)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				logger.Error("tracing shutdown failed", "error", err)
			}
		}()

		db, err := openDB(true)
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(db, server.Config{
			Tokens:         auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
			AllowedOrigins: cfg.AllowedOrigins,
		}, logger)

		go srv.RateLimiter().RunCleanup(ctx, 5*time.Minute)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv.Router(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("shoplist listening", "addr", httpServer.Addr, "db", cfg.DBPath)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(sctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

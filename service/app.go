package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"quill/app/auth"
	"quill/app/config"
	"quill/app/repositories"
	"quill/app/routes"

	"go.uber.org/zap"
)

// RunAppServer opens the database, builds the router and serves the API on
// cfg.Addr until ctx is cancelled.
func RunAppServer(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	db, err := repositories.Open(repositories.Options{
		Dir:      cfg.DataDir,
		InMemory: cfg.InMemory,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret, err = auth.GenerateSecret()
		if err != nil {
			return err
		}
		log.Warn("no QUILL_JWT_SECRET configured, using a random secret; tokens will not survive a restart")
	}

	tokens, err := auth.NewTokens(auth.Config{Secret: secret, TTL: cfg.TokenTTL})
	if err != nil {
		return err
	}
	passwords, err := auth.NewPasswords(cfg.BcryptCost)
	if err != nil {
		return err
	}

	router := routes.SetupRoutes(db, tokens, passwords, log)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return serve(ctx, ln, router, cfg, log)
}

// serve runs an HTTP server on ln and shuts it down gracefully once ctx is
// done. It takes ownership of ln.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg config.Config, log *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(log.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting quill", zap.String("addr", ln.Addr().String()), zap.String("version", Version))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("server stopped")
	return nil
}

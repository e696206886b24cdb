package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-quote/internal/api"
	"github.com/sells-group/venue-quote/internal/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quote API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		p, err := initPipeline(cfg, "serve")
		if err != nil {
			return err
		}

		srv := newServer(cfg.Server, p)
		return runServer(ctx, srv, shutdownTimeout(cfg.Server))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func newServer(sc config.ServerConfig, q api.Quoter) *http.Server {
	handler := api.NewRouter(q, api.Options{
		CORSOrigins:    sc.CORSOrigins,
		MaxBodyBytes:   sc.MaxBodyBytes,
		RequestTimeout: time.Duration(sc.RequestTimeoutSecs) * time.Second,
	})
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", sc.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func shutdownTimeout(sc config.ServerConfig) time.Duration {
	if sc.ShutdownTimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(sc.ShutdownTimeoutSecs) * time.Second
}

// runServer serves until ctx is cancelled, then drains in-flight requests
// for up to grace.
func runServer(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "serve: shutdown")
	}
	return nil
}

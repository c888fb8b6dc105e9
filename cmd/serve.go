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
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/plan-advisor/internal/config"
	"github.com/sells-group/plan-advisor/internal/monitoring"
	"github.com/sells-group/plan-advisor/internal/server"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L()
		env, err := initAdvisor(cfg, log)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildHandler(env, cfg.Server, log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		checker := monitoring.NewChecker(
			monitoring.NewCollector(env.Metrics),
			monitoring.NewAlerter(cfg.Monitoring, log),
			cfg.Monitoring,
			log,
		)

		log.Info("starting server", zap.Int("port", port))
		return runServer(ctx, srv, checker.Run, log)
	},
}

func buildHandler(env *advisorEnv, sc config.ServerConfig, log *zap.Logger) http.Handler {
	return server.NewRouter(env.Engine, env.Catalog, server.Options{
		AllowedOrigins: sc.AllowedOrigins,
		RateLimitRPS:   sc.RateLimitRPS,
		RateLimitBurst: sc.RateLimitBurst,
		Gatherer:       env.Registry,
		Logger:         log,
	})
}

// runServer serves until ctx is cancelled or the listener fails, running
// background alongside. Shutdown drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, background func(context.Context), log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	if background != nil {
		g.Go(func() error {
			background(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

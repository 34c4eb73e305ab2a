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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/cowbull-server/internal/config"
	"github.com/robalobadob/cowbull-server/internal/game"
	"github.com/robalobadob/cowbull-server/internal/httpserver"
	"github.com/robalobadob/cowbull-server/internal/metrics"
	"github.com/robalobadob/cowbull-server/internal/session"
	"github.com/robalobadob/cowbull-server/internal/store"
)

const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
}

// buildManager wires registry, engine, store and optional lock from cfg.
// The returned close func releases the store.
func buildManager(ctx context.Context, cfg *config.Config, col *metrics.Collector) (*session.Manager, func() error, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, err
	}
	engine := game.NewEngine(reg, game.WithTTL(cfg.TTLSeconds()))

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, nil, err
	}

	opts := []session.Option{session.WithMetrics(col)}
	if cfg.RedisLock {
		rs, ok := st.(*store.Redis)
		if !ok {
			_ = st.Close()
			return nil, nil, fmt.Errorf("%w: REDIS_LOCK requires PERSISTER=redis", game.ErrConfig)
		}
		opts = append(opts, session.WithLocker(store.NewRedisLocker(rs.Client(), cfg.RedisPrefix)))
	}
	return session.NewManager(engine, st, opts...), st.Close, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mgr, closeStore, err := buildManager(ctx, cfg, metrics.New(promReg))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	names := make([]string, 0)
	for _, m := range mgr.Modes() {
		names = append(names, m.Name())
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpserver.New(mgr, httpserver.Options{
			ClientOrigin:   cfg.ClientOrigin,
			RequestTimeout: cfg.RequestTimeout,
			Gatherer:       promReg,
		}).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("persister", cfg.Persister).
			Strs("modes", names).
			Msg("starting cowbull server")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Dur("grace", shutdownGrace).Msg("graceful shutdown did not complete")
			return srv.Close()
		}
		log.Info().Msg("server stopped gracefully")
		return nil
	}
}

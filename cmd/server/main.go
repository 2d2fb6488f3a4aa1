package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/studycall/signaling/internal/adapters/http"
	signalws "github.com/studycall/signaling/internal/adapters/signal"
	"github.com/studycall/signaling/internal/app"
	"github.com/studycall/signaling/internal/config"
	"github.com/studycall/signaling/internal/infrastructure/runner"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	registry := app.NewRegistry()
	directory := app.NewDirectory()
	presence := app.NewPresence(registry, directory)
	relay := app.NewRelay(presence)

	ctl := signalws.NewController(presence, relay, cfg)
	r := router.SetupRouter(ctx, cfg, ctl)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	run := runner.New(ctx)

	run.Go(func(ctx context.Context) error {
		log.Info().Str("addr", srv.Addr).Msg("signaling server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	run.Go(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := directory.Sweep(); n > 0 {
					log.Debug().Int("rooms", n).Msg("swept empty rooms")
				}
			}
		}
	})

	run.Go(func(ctx context.Context) error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := run.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		return
	}
	log.Info().Msg("server exited gracefully")
}

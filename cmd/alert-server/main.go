package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fleet-alert/fleet-alert-server/internal/alerts"
	"github.com/fleet-alert/fleet-alert-server/internal/api"
	"github.com/fleet-alert/fleet-alert-server/internal/config"
	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/notify"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

func main() {
	// Command line flags
	var configFile string
	flag.StringVar(&configFile, "config", "config/alert-server.yml", "Configuration file path")
	flag.Parse()

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Connect to database
	store, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	log.Info().Msg("Connected to database")

	// Optional: connect to NATS for alert lifecycle events
	var publisher *notify.EventPublisher
	if cfg.NATS.URL != "" {
		log.Info().Str("url", cfg.NATS.URL).Msg("Connecting to NATS...")

		nc, err := nats.Connect(cfg.NATS.URL,
			nats.Name(cfg.Server.Name),
			nats.ReconnectWait(cfg.NATS.ReconnectInterval),
			nats.MaxReconnects(cfg.NATS.MaxReconnects),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				log.Warn().Err(err).Msg("Disconnected from NATS")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Info().Msg("Reconnected to NATS")
			}),
		)

		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to NATS, continuing without event publishing")
		} else {
			defer nc.Close()
			log.Info().Msg("Connected to NATS")
			publisher = notify.NewEventPublisher(nc)
		}
	} else {
		log.Info().Msg("NATS not configured, running in standalone mode")
	}

	// Push fan-out
	var notifier alerts.Notifier
	if cfg.Push.Enabled {
		sender := notify.NewExpoClient(cfg.Push.URL)
		notifier = notify.NewService(store, sender, publisher)
		log.Info().Msg("Push notifications enabled")
	} else if publisher != nil {
		notifier = notify.NewService(store, noopSender{}, publisher)
		log.Info().Msg("Push notifications disabled, publishing events only")
	}

	// Core services
	resolver := identity.NewResolver(store)
	alertSvc := alerts.NewService(store, resolver, notifier)
	querySvc := alerts.NewQueryService(store, alerts.NewFilterResolver(store))

	// Start REST API server
	apiServer := api.NewRESTServer(cfg, store, alertSvc, querySvc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		if err := apiServer.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("REST API server failed")
		}
	}()

	// Wait for signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")

	// Shutdown API server
	if err := apiServer.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown API server gracefully")
	}

	wg.Wait()

	log.Info().Msg("Alert server stopped")
}

// noopSender drops push messages when delivery is disabled
type noopSender struct{}

func (noopSender) Send(ctx context.Context, messages []notify.PushMessage) error {
	return nil
}

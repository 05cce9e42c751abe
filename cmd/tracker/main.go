// Command tracker runs a scripted walk through the shipment tracker: it
// registers a shipment, moves it through its lifecycle and prints the
// location fixes, arrival estimates and customer notices along the way.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
	"github.com/adinrama/eto-telco-tracking/internal/core/estimation"
	"github.com/adinrama/eto-telco-tracking/internal/core/ports"
	"github.com/adinrama/eto-telco-tracking/internal/core/service"
	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/config"
	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/db/memory"
	redisdb "github.com/adinrama/eto-telco-tracking/internal/infrastructure/db/redis"
	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/gps"
	opshttp "github.com/adinrama/eto-telco-tracking/internal/infrastructure/http"
	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/http/handlers"
	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/notify"
	"github.com/adinrama/eto-telco-tracking/pkg/logger"
)

const demoRecipient = "customer@example.com"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "eto-telco"})
	log := logger.For("main")

	if err := run(ctx, cfg, os.Stdout, log); err != nil {
		log.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
}

// app holds the wired services of one run.
type app struct {
	repo       *memory.ShipmentRepository
	redis      *redis.Client
	shipments  ports.ShipmentService
	tracking   ports.TrackingService
	dispatcher *notify.Dispatcher
}

func build(ctx context.Context, cfg *config.Config, out io.Writer, log zerolog.Logger) (*app, error) {
	a := &app{}

	var dedup notify.DedupChecker
	if cfg.DedupEnabled() {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		a.redis = client
		dedup = redisdb.NewNoticeDedup(client, cfg.Notify.DedupTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("notice dedup enabled")
	}

	email := notify.NewEmailNotifier(notify.EmailConfig{
		From:     cfg.Notify.From,
		TrackURL: cfg.Notify.TrackURL,
		SMTPHost: cfg.SMTP.Host,
		SMTPPort: cfg.SMTP.Port,
	}, out, log.With().Str("component", "email").Logger())

	a.dispatcher = notify.NewDispatcher(cfg.Notify.Workers, cfg.Notify.Buffer, email, dedup,
		log.With().Str("component", "dispatcher").Logger())
	// Workers ignore the signal context; shutdown drains them through Close.
	a.dispatcher.Start(context.WithoutCancel(ctx))

	a.repo = memory.NewShipmentRepository()
	a.shipments = service.NewShipmentService(a.repo, a.dispatcher, log.With().Str("component", "registry").Logger())
	a.tracking = service.NewTrackingService(a.repo, gps.NewStaticLocator(gps.TanjungPriok), estimation.Default(),
		log.With().Str("component", "tracking").Logger())
	return a, nil
}

// shutdown flushes pending notices and releases connections.
func (a *app) shutdown() {
	a.dispatcher.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// serveOps serves /health and /metrics on addr until ctx is cancelled.
func (a *app) serveOps(ctx context.Context, addr string, log zerolog.Logger) error {
	var dedup handlers.Pinger
	if a.redis != nil {
		dedup = handlers.PingFunc(func(ctx context.Context) error { return a.redis.Ping(ctx).Err() })
	}
	e := opshttp.NewRouter(a.repo, dedup, log.With().Str("component", "ops").Logger())

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()
	log.Info().Str("addr", addr).Msg("ops server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("ops server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func run(ctx context.Context, cfg *config.Config, out io.Writer, log zerolog.Logger) error {
	out = &lockedWriter{w: out}

	a, err := build(ctx, cfg, out, log)
	if err != nil {
		return err
	}
	defer a.shutdown()

	const id = "TRK001"

	added, err := a.shipments.AddShipment(ctx, ports.AddShipmentInput{
		TrackingID:  id,
		Destination: "Singapore",
		Status:      domain.StatusProcessing,
	})
	if err != nil {
		return err
	}
	printJSON(out, "Added shipment", added)

	if err := a.showArrival(ctx, out, id); err != nil {
		return err
	}

	for _, status := range []string{domain.StatusInTransit, domain.StatusDelivered} {
		updated, err := a.shipments.UpdateStatus(ctx, ports.UpdateStatusInput{
			TrackingID: id,
			Status:     status,
			Recipient:  demoRecipient,
		})
		if err != nil {
			return err
		}
		printJSON(out, "Updated shipment", updated)

		location, err := a.tracking.GetRealtimeLocation(ctx, id)
		if err != nil {
			return err
		}
		if location.Fix != nil {
			printJSON(out, "Current location", location.Fix)
		} else {
			fmt.Fprintf(out, "Warning: %s\n\n", location.Warning)
		}

		if err := a.showArrival(ctx, out, id); err != nil {
			return err
		}
	}

	if _, err := a.tracking.GetEstimatedArrival(ctx, "UNKNOWN"); err != nil {
		fmt.Fprintf(out, "Lookup of UNKNOWN failed: %v\n\n", err)
	}

	if cfg.OpsAddr != "" {
		return a.serveOps(ctx, cfg.OpsAddr, log)
	}
	return nil
}

func (a *app) showArrival(ctx context.Context, out io.Writer, id string) error {
	arrival, err := a.tracking.GetEstimatedArrival(ctx, id)
	if err != nil {
		return err
	}
	if arrival.Estimate != nil {
		printJSON(out, "Estimated arrival", arrival.Estimate)
	} else {
		fmt.Fprintf(out, "%s\n\n", arrival.Message)
	}
	return nil
}

func printJSON(out io.Writer, title string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "%s: %+v\n\n", title, v)
		return
	}
	fmt.Fprintf(out, "%s:\n%s\n\n", title, b)
}

// lockedWriter serialises writes from the demo and the notifier workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

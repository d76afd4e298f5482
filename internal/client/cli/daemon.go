package cli

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/notekeeper/internal/broadcast"
	"github.com/iudanet/notekeeper/internal/client/api"
	"github.com/iudanet/notekeeper/internal/client/control"
	"github.com/iudanet/notekeeper/internal/client/reachability"
	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/internal/events"
)

// runDaemon запускает фоновую синхронизацию: монитор сети, планировщик,
// control endpoint и (опционально) подписку на события сервера
func (a *app) runDaemon(ctx context.Context, follow bool) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	remote, err := a.remote(ctx, store)
	if err != nil {
		return err
	}

	log := a.logger
	hub := broadcast.NewHub(log.With("component", "hub"))

	monitor := reachability.NewMonitor(
		a.cfg.Reachability.Hosts,
		a.cfg.Reachability.Timeout,
		log.With("component", "reachability"),
		reachability.WithSink(hub),
	)

	orch := clientsync.NewOrchestrator(remote, store, store, hub, log.With("component", "sync"), clientsync.Config{
		CallTimeout: a.cfg.Sync.CallTimeout,
		CheckedPush: a.cfg.Sync.CheckedPush,
	})

	scheduler := clientsync.NewScheduler(orch, monitor, clientsync.SchedulerConfig{
		SyncInterval:  a.cfg.Sync.Interval,
		ProbeInterval: a.cfg.Reachability.Interval,
		SkipOffline:   a.cfg.Sync.SkipOffline,
	}, log.With("component", "scheduler"))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if a.cfg.ControlAddr != "" {
		srv := control.NewServer(a.cfg.ControlAddr, orch, monitor, hub, log.With("component", "control"))
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if follow {
		g.Go(func() error {
			followServer(gctx, remote, orch, a.cfg.Reachability.Interval, log.With("component", "follow"))
			return nil
		})
	}

	log.Info("Daemon started",
		"server", a.cfg.ServerURL,
		"sync_interval", a.cfg.Sync.Interval,
		"control_addr", a.cfg.ControlAddr,
	)

	err = g.Wait()
	log.Info("Daemon stopped")
	return err
}

// followServer запускает внеочередной цикл, когда сервер сообщает об изменениях.
// Подписка переустанавливается после обрыва
func followServer(ctx context.Context, remote *api.Client, runner clientsync.Runner, retry time.Duration, log *slog.Logger) {
	kick := make(chan struct{}, 1)

	var g errgroup.Group
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-kick:
				runner.RunCycle(ctx)
			}
		}
	})

	g.Go(func() error {
		for {
			err := remote.Subscribe(ctx, func(ev events.Event) {
				switch ev.Kind {
				case events.KindNoteChanged, events.KindNoteDeleted:
					select {
					case kick <- struct{}{}:
					default:
					}
				}
			})
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				log.Debug("Server subscription lost", "error", err)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retry):
			}
		}
	})

	_ = g.Wait()
}

package sync

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/notekeeper/internal/events"
)

// DefaultInterval is the scheduled sync period.
const DefaultInterval = time.Minute

// Runner runs sync cycles. *Orchestrator satisfies it.
type Runner interface {
	RunCycle(ctx context.Context) (*CycleResult, bool)
	RunPriority(ctx context.Context) (*CycleResult, bool)
}

// Connectivity is the part of the reachability monitor the scheduler needs.
type Connectivity interface {
	Run(ctx context.Context, interval time.Duration)
	Events() <-chan events.Event
	IsOnline() bool
}

// SchedulerConfig configures the scheduler.
type SchedulerConfig struct {
	SyncInterval  time.Duration
	ProbeInterval time.Duration
	// SkipOffline skips scheduled cycles while the monitor reports offline.
	SkipOffline bool
}

// Scheduler drives the orchestrator from a ticker and from reconnect events.
// It owns no global state: it starts with Run and stops when ctx is done.
type Scheduler struct {
	runner  Runner
	monitor Connectivity
	logger  *slog.Logger
	cfg     SchedulerConfig
}

// NewScheduler creates a scheduler
func NewScheduler(runner Runner, monitor Connectivity, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultInterval
	}
	return &Scheduler{
		runner:  runner,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
	}
}

// Run blocks until ctx is cancelled and every started cycle has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.monitor.Run(gctx, s.cfg.ProbeInterval)
		return nil
	})

	g.Go(func() error {
		return s.loop(gctx)
	})

	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()

	// Циклы запускаются в отдельных горутинах, чтобы цикл событий не блокировался:
	// триггер, пришедший во время работы, отбрасывается защитой оркестратора
	var cycles errgroup.Group
	defer func() { _ = cycles.Wait() }()

	start := func(run func(context.Context) (*CycleResult, bool)) {
		cycles.Go(func() error {
			run(ctx)
			return nil
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if s.cfg.SkipOffline && !s.monitor.IsOnline() {
				s.logger.Debug("Offline, scheduled sync skipped")
				continue
			}
			start(s.runner.RunCycle)

		case ev := <-s.monitor.Events():
			switch ev.Kind {
			case events.KindReconnected:
				s.logger.Info("Reconnected, starting priority sync")
				start(s.runner.RunPriority)
			case events.KindDisconnected:
				s.logger.Info("Disconnected, local changes will be staged")
			}
		}
	}
}

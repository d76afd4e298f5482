package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/iudanet/notekeeper/internal/client/api"
	"github.com/iudanet/notekeeper/internal/client/auth"
	"github.com/iudanet/notekeeper/internal/client/control"
	"github.com/iudanet/notekeeper/internal/client/data"
	"github.com/iudanet/notekeeper/internal/client/iocli"
	"github.com/iudanet/notekeeper/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/internal/config"
	"github.com/iudanet/notekeeper/internal/logger"
)

// api.Client обслуживает оркестратор напрямую
var _ clientsync.RemoteStore = (*api.Client)(nil)

// app держит ресурсы одного запуска команды: конфигурацию, логгер и локальное хранилище
type app struct {
	v       *viper.Viper
	cfg     *config.Client
	logger  *slog.Logger
	store   *boltdb.Storage
	closers []io.Closer
	cfgFile string
}

// load читает конфигурацию и создаёт логгер
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.LoadClient(a.v)
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	a.closers = append(a.closers, closer)
	return nil
}

// openStore открывает локальное хранилище; второй процесс получит ошибку по таймауту блокировки
func (a *app) openStore(ctx context.Context) (*boltdb.Storage, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	if a.store != nil {
		return a.store, nil
	}

	store, err := boltdb.New(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database %s (is the daemon running?): %w", a.cfg.DBPath, err)
	}

	a.store = store
	a.closers = append(a.closers, store)
	return store, nil
}

func (a *app) authService(store *boltdb.Storage) *auth.Service {
	return auth.NewService(store, func(ctx context.Context, token string) error {
		_, err := api.NewClient(a.cfg.ServerURL, token).ListAll(ctx)
		return err
	}, a.logger.With("component", "auth"))
}

// remote создаёт API клиент с токеном из конфигурации или локального хранилища
func (a *app) remote(ctx context.Context, store *boltdb.Storage) (*api.Client, error) {
	token, err := a.authService(store).Token(ctx, a.cfg.Token)
	if err != nil {
		return nil, err
	}
	return api.NewClient(a.cfg.ServerURL, token), nil
}

func (a *app) orchestrator(remote clientsync.RemoteStore, store *boltdb.Storage) *clientsync.Orchestrator {
	return clientsync.NewOrchestrator(remote, store, store, nil, a.logger.With("component", "sync"), clientsync.Config{
		CallTimeout: a.cfg.Sync.CallTimeout,
		CheckedPush: a.cfg.Sync.CheckedPush,
	})
}

// localCli собирает Cli поверх локального хранилища. Сетевые зависимости
// подключаются только при наличии токена
func (a *app) localCli(ctx context.Context, console iocli.IO, withRemote bool) (*Cli, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	c := New(console, data.NewService(store, a.logger.With("component", "data")), nil, nil, a.authService(store))
	c.token = a.cfg.Token

	if withRemote {
		remote, err := a.remote(ctx, store)
		if err != nil {
			return nil, err
		}
		c.remote = remote
		c.syncer = a.orchestrator(remote, store)
	}
	return c, nil
}

// syncCli выбирает источник синхронизации: запущенный демон или локальный оркестратор.
// Без needRemote (команда status) токен не требуется
func (a *app) syncCli(ctx context.Context, console iocli.IO, local, needRemote bool) (*Cli, error) {
	if err := a.load(); err != nil {
		return nil, err
	}

	if a.cfg.ControlAddr != "" && !local {
		return New(console, nil, &daemonSyncer{client: control.NewClient(a.cfg.ControlAddr)}, nil, nil), nil
	}

	c, err := a.localCli(ctx, console, needRemote)
	if err != nil {
		return nil, err
	}
	if c.syncer == nil {
		c.syncer = a.orchestrator(nil, a.store)
	}
	return c, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Error("Failed to release resource", "error", err)
		}
	}
	a.closers = nil
	a.store = nil
}

// daemonSyncer обращается к демону через control endpoint
type daemonSyncer struct {
	client *control.Client
	online bool
}

func (d *daemonSyncer) ForceSyncNow(ctx context.Context) (*clientsync.CycleResult, error) {
	return d.client.Sync(ctx)
}

func (d *daemonSyncer) Status(ctx context.Context) (*clientsync.Status, error) {
	resp, err := d.client.Status(ctx)
	if err != nil {
		return nil, err
	}
	d.online = resp.Online
	return &resp.Status, nil
}

// IsOnline returns the reachability state reported by the last Status call.
func (d *daemonSyncer) IsOnline() bool {
	return d.online
}

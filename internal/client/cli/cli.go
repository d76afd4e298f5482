// Package cli implements the notekeeper client commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/iudanet/notekeeper/internal/client/auth"
	"github.com/iudanet/notekeeper/internal/client/data"
	"github.com/iudanet/notekeeper/internal/client/iocli"
	"github.com/iudanet/notekeeper/internal/client/storage"
	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/models"
)

// Syncer runs and reports sync cycles: the local orchestrator or a daemon
// reached through its control endpoint.
type Syncer interface {
	ForceSyncNow(ctx context.Context) (*clientsync.CycleResult, error)
	Status(ctx context.Context) (*clientsync.Status, error)
}

// Remote is the part of the server API used by the remote commands.
type Remote interface {
	Get(ctx context.Context, id string) (*models.Note, error)
	UpdateWithCheck(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields) (*models.Note, error)
	ForceUpdate(ctx context.Context, id string, fields models.NoteFields) (*models.Note, error)
	DescribeConflict(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields) (*models.ConflictDescriptor, error)
	Subscribe(ctx context.Context, fn func(events.Event)) error
}

// onlineReporter реализуется источниками статуса, знающими состояние сети
type onlineReporter interface {
	IsOnline() bool
}

// Cli выполняет команды клиента. Неиспользуемые командой зависимости могут быть nil
type Cli struct {
	io          iocli.IO
	dataService data.Service
	syncer      Syncer
	remote      Remote
	authService *auth.Service
	token       string // токен из конфигурации, перекрывает сохранённый
}

// New creates a Cli.
func New(io iocli.IO, dataService data.Service, syncer Syncer, remote Remote, authService *auth.Service) *Cli {
	return &Cli{
		io:          io,
		dataService: dataService,
		syncer:      syncer,
		remote:      remote,
		authService: authService,
	}
}

// render выполняет шаблон и пишет результат в консоль
func (c *Cli) render(tmpl *template.Template, value any) error {
	if err := tmpl.Execute(c.io, value); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return nil
}

// notFound переводит ошибки хранилища в понятные пользователю сообщения
func notFound(err error, id string) error {
	switch {
	case errors.Is(err, storage.ErrNoteNotFound), errors.Is(err, models.ErrNoteNotFound):
		return fmt.Errorf("note not found with ID: %s", id)
	case errors.Is(err, data.ErrNoteDeleted):
		return fmt.Errorf("note %s is deleted", id)
	}
	return err
}

// shortID returns the first block of a UUID for compact listings.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// splitTags parses tags given as repeated flags or comma separated values.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return models.NormalizeTags(tags)
}

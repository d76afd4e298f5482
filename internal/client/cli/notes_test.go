package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/client/data"
	"github.com/iudanet/notekeeper/internal/client/iocli"
	"github.com/iudanet/notekeeper/internal/client/storage"
	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/internal/models"
)

// testOutput собирает весь вывод IOMock
type testOutput struct {
	strings.Builder
}

// newTestIO возвращает IOMock, отвечающий на ReadInput по очереди строками из inputs
func newTestIO(out *testOutput, inputs ...string) *iocli.IOMock {
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.WriteString(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			fmt.Fprintf(out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			if len(inputs) == 0 {
				return "", fmt.Errorf("unexpected prompt %q", prompt)
			}
			line := inputs[0]
			inputs = inputs[1:]
			return line, nil
		},
		ReadAllFunc: func() (string, error) {
			return "body from stdin\n", nil
		},
	}
}

func sampleNote() *models.LocalNote {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.LocalNote{
		LocalID:    "8c1f2a3b-1111-2222-3333-444455556666",
		RemoteID:   "remote-1",
		Title:      "Groceries",
		Body:       "- milk\n- bread",
		TagCSV:     "home,shopping",
		SyncStatus: models.StatusSynced,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCli_runAdd(t *testing.T) {
	tests := []struct {
		name      string
		opts      addOptions
		inputs    []string
		wantTitle string
		wantBody  string
		wantTags  []string
	}{
		{
			name:      "title and tags from flags",
			opts:      addOptions{title: "Groceries", body: "milk", tags: []string{"shopping,home", "home"}},
			wantTitle: "Groceries",
			wantBody:  "milk",
			wantTags:  []string{"home", "shopping"},
		},
		{
			name:      "prompts for title",
			opts:      addOptions{body: "milk"},
			inputs:    []string{"Prompted"},
			wantTitle: "Prompted",
			wantBody:  "milk",
			wantTags:  []string{},
		},
		{
			name:      "body from stdin",
			opts:      addOptions{title: "Piped", body: "-"},
			wantTitle: "Piped",
			wantBody:  "body from stdin",
			wantTags:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out testOutput
			mockData := &data.ServiceMock{
				CreateLocalFunc: func(ctx context.Context, title, body string, tags []string) (*models.LocalNote, error) {
					return &models.LocalNote{LocalID: "new-id", Title: title, Body: body, TagCSV: models.EncodeTags(tags)}, nil
				},
			}
			c := New(newTestIO(&out, tt.inputs...), mockData, nil, nil, nil)

			require.NoError(t, c.runAdd(context.Background(), tt.opts))

			calls := mockData.CreateLocalCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantTitle, calls[0].Title)
			assert.Equal(t, tt.wantBody, calls[0].Body)
			assert.Equal(t, tt.wantTags, calls[0].Tags)
			assert.Contains(t, out.String(), "✓ Note added")
			assert.Contains(t, out.String(), "new-id")
		})
	}
}

func TestCli_runAdd_AutoSync(t *testing.T) {
	var out testOutput
	mockData := &data.ServiceMock{
		CreateLocalFunc: func(ctx context.Context, title, body string, tags []string) (*models.LocalNote, error) {
			return &models.LocalNote{LocalID: "new-id", Title: title}, nil
		},
	}
	syncer := &fakeSyncer{result: &clientsync.CycleResult{Pushed: 1, Created: 1}}
	c := New(newTestIO(&out), mockData, syncer, nil, nil)

	require.NoError(t, c.runAdd(context.Background(), addOptions{title: "Now", autoSync: true}))

	assert.Equal(t, 1, syncer.syncCalls)
	assert.Contains(t, out.String(), "✓ Synchronization completed")
}

func TestCli_runEdit(t *testing.T) {
	t.Run("nothing to change", func(t *testing.T) {
		var out testOutput
		c := New(newTestIO(&out), &data.ServiceMock{}, nil, nil, nil)

		err := c.runEdit(context.Background(), "id", editOptions{})
		assert.ErrorContains(t, err, "nothing to change")
	})

	t.Run("partial fields", func(t *testing.T) {
		var out testOutput
		mockData := &data.ServiceMock{
			UpdateLocalFunc: func(ctx context.Context, localID string, fields models.NoteFields) (*models.LocalNote, error) {
				n := sampleNote()
				n.SyncStatus = models.StatusPendingSync
				return n, nil
			},
		}
		c := New(newTestIO(&out), mockData, nil, nil, nil)

		title := "Renamed"
		require.NoError(t, c.runEdit(context.Background(), "id", editOptions{title: &title, clearTags: true}))

		calls := mockData.UpdateLocalCalls()
		require.Len(t, calls, 1)
		require.NotNil(t, calls[0].Fields.Title)
		assert.Equal(t, "Renamed", *calls[0].Fields.Title)
		assert.Nil(t, calls[0].Fields.Body)
		assert.NotNil(t, calls[0].Fields.Tags)
		assert.Empty(t, calls[0].Fields.Tags)
		assert.Contains(t, out.String(), string(models.StatusPendingSync))
	})

	t.Run("deleted note", func(t *testing.T) {
		var out testOutput
		mockData := &data.ServiceMock{
			UpdateLocalFunc: func(ctx context.Context, localID string, fields models.NoteFields) (*models.LocalNote, error) {
				return nil, data.ErrNoteDeleted
			},
		}
		c := New(newTestIO(&out), mockData, nil, nil, nil)

		body := "x"
		err := c.runEdit(context.Background(), "gone", editOptions{body: &body})
		assert.ErrorContains(t, err, "note gone is deleted")
	})
}

func TestCli_runRemove(t *testing.T) {
	tests := []struct {
		name        string
		force       bool
		inputs      []string
		wantDeleted bool
		wantOutput  string
	}{
		{name: "confirmed", inputs: []string{"yes"}, wantDeleted: true, wantOutput: "next sync"},
		{name: "cancelled", inputs: []string{"no"}, wantOutput: "Deletion cancelled."},
		{name: "forced", force: true, wantDeleted: true, wantOutput: "✓ Note deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out testOutput
			mockData := &data.ServiceMock{
				GetLocalFunc: func(ctx context.Context, localID string) (*models.LocalNote, error) {
					return sampleNote(), nil
				},
				DeleteLocalFunc: func(ctx context.Context, localID string) error {
					return nil
				},
			}
			c := New(newTestIO(&out, tt.inputs...), mockData, nil, nil, nil)

			require.NoError(t, c.runRemove(context.Background(), "id", tt.force))

			assert.Equal(t, tt.wantDeleted, len(mockData.DeleteLocalCalls()) == 1)
			assert.Contains(t, out.String(), tt.wantOutput)
		})
	}
}

func TestCli_runShow(t *testing.T) {
	note := sampleNote()
	note.RenderedBody = "<ul>\n<li>milk</li>\n</ul>\n"

	mockData := &data.ServiceMock{
		GetLocalFunc: func(ctx context.Context, localID string) (*models.LocalNote, error) {
			if localID == note.LocalID {
				return note, nil
			}
			return nil, storage.ErrNoteNotFound
		},
	}

	t.Run("markdown", func(t *testing.T) {
		var out testOutput
		c := New(newTestIO(&out), mockData, nil, nil, nil)

		require.NoError(t, c.runShow(context.Background(), note.LocalID, false))
		assert.Contains(t, out.String(), "Title:   Groceries")
		assert.Contains(t, out.String(), "Tags:    home, shopping")
		assert.Contains(t, out.String(), "- milk")
	})

	t.Run("html", func(t *testing.T) {
		var out testOutput
		c := New(newTestIO(&out), mockData, nil, nil, nil)

		require.NoError(t, c.runShow(context.Background(), note.LocalID, true))
		assert.Contains(t, out.String(), "<li>milk</li>")
	})

	t.Run("not found", func(t *testing.T) {
		var out testOutput
		c := New(newTestIO(&out), mockData, nil, nil, nil)

		err := c.runShow(context.Background(), "missing", false)
		assert.EqualError(t, err, "note not found with ID: missing")
	})
}

func TestCli_runList(t *testing.T) {
	note := sampleNote()
	list := func(context.Context) ([]*models.LocalNote, error) { return []*models.LocalNote{note}, nil }

	tests := []struct {
		name   string
		opts   listOptions
		assert func(t *testing.T, m *data.ServiceMock)
	}{
		{
			name: "all",
			assert: func(t *testing.T, m *data.ServiceMock) {
				assert.Len(t, m.ListLocalCalls(), 1)
			},
		},
		{
			name: "by tag",
			opts: listOptions{tag: "home"},
			assert: func(t *testing.T, m *data.ServiceMock) {
				require.Len(t, m.ListLocalByTagCalls(), 1)
				assert.Equal(t, "home", m.ListLocalByTagCalls()[0].Tag)
			},
		},
		{
			name: "search",
			opts: listOptions{query: "milk"},
			assert: func(t *testing.T, m *data.ServiceMock) {
				require.Len(t, m.SearchLocalCalls(), 1)
				assert.Equal(t, "milk", m.SearchLocalCalls()[0].Query)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out testOutput
			mockData := &data.ServiceMock{
				ListLocalFunc: list,
				ListLocalByTagFunc: func(ctx context.Context, tag string) ([]*models.LocalNote, error) {
					return list(ctx)
				},
				SearchLocalFunc: func(ctx context.Context, query string) ([]*models.LocalNote, error) {
					return list(ctx)
				},
			}
			c := New(newTestIO(&out), mockData, nil, nil, nil)

			require.NoError(t, c.runList(context.Background(), tt.opts))

			tt.assert(t, mockData)
			assert.Contains(t, out.String(), "8c1f2a3b  SYNCED          Groceries  [home,shopping]")
			assert.Contains(t, out.String(), "Total: 1")
		})
	}
}

func TestCli_runList_Empty(t *testing.T) {
	var out testOutput
	mockData := &data.ServiceMock{
		ListLocalFunc: func(ctx context.Context) ([]*models.LocalNote, error) {
			return nil, nil
		},
	}
	c := New(newTestIO(&out), mockData, nil, nil, nil)

	require.NoError(t, c.runList(context.Background(), listOptions{}))
	assert.Equal(t, "No notes found.\n", out.String())
}

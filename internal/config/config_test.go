package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient_Defaults(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	SetClientDefaults(v)

	cfg, err := LoadClient(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "notekeeper-client.db", cfg.DBPath)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 10*time.Second, cfg.Sync.CallTimeout)
	assert.False(t, cfg.Sync.CheckedPush)
	assert.True(t, cfg.Sync.SkipOffline)
	assert.Equal(t, 30*time.Second, cfg.Reachability.Interval)
	assert.Equal(t, 3*time.Second, cfg.Reachability.Timeout)
	assert.Len(t, cfg.Reachability.Hosts, 3)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadClient_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	content := `
server_url: https://notes.example.com
db: /tmp/notes.db
sync:
  interval: 15s
  checked_push: true
reachability:
  hosts:
    - example.com:443
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("NOTEKEEPER_TOKEN", "secret-token")
	t.Setenv("NOTEKEEPER_SYNC_CALL_TIMEOUT", "2s")

	v, err := NewViper(path)
	require.NoError(t, err)
	SetClientDefaults(v)

	cfg, err := LoadClient(v)
	require.NoError(t, err)

	assert.Equal(t, "https://notes.example.com", cfg.ServerURL)
	assert.Equal(t, "/tmp/notes.db", cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.Sync.Interval)
	assert.True(t, cfg.Sync.CheckedPush)
	assert.Equal(t, []string{"example.com:443"}, cfg.Reachability.Hosts)
	assert.Equal(t, "secret-token", cfg.Token)
	assert.Equal(t, 2*time.Second, cfg.Sync.CallTimeout)
}

func TestNewViper_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unterminated"), 0o600))

	_, err := NewViper(path)
	assert.Error(t, err)
}

func TestClient_Validate(t *testing.T) {
	valid := func() Client {
		return Client{
			DBPath:       "x.db",
			Sync:         Sync{Interval: time.Second, CallTimeout: time.Second},
			Reachability: Reachability{Hosts: []string{"h:1"}, Interval: time.Second, Timeout: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Client)
	}{
		{name: "empty db", mutate: func(c *Client) { c.DBPath = "" }},
		{name: "zero sync interval", mutate: func(c *Client) { c.Sync.Interval = 0 }},
		{name: "zero call timeout", mutate: func(c *Client) { c.Sync.CallTimeout = 0 }},
		{name: "zero probe timeout", mutate: func(c *Client) { c.Reachability.Timeout = 0 }},
		{name: "no hosts", mutate: func(c *Client) { c.Reachability.Hosts = nil }},
	}

	c := valid()
	require.NoError(t, c.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadServer(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	SetServerDefaults(v)

	t.Setenv("NOTEKEEPER_JWT_SECRET", "short")

	cfg, err := LoadServer(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 600, cfg.RateLimit.Requests)
	assert.Equal(t, "short", cfg.JWT.Secret)
	assert.Error(t, cfg.RequireSecret())

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.RequireSecret())
}

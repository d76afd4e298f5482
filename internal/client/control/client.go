package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/pkg/api"
)

// Client talks to a running daemon's control endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a control client. addr may be host:port or a full URL.
func NewClient(addr string) *Client {
	base := strings.TrimSuffix(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			// Принудительная синхронизация ждёт окончания цикла
			Timeout: 2 * time.Minute,
		},
	}
}

// Status returns the daemon's sync status and reachability flag.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodGet, StatusPath, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sync forces a cycle in the daemon. Returns clientsync.ErrSyncInProgress
// when the daemon is already syncing.
func (c *Client) Sync(ctx context.Context) (*clientsync.CycleResult, error) {
	var result clientsync.CycleResult
	if err := c.do(ctx, http.MethodPost, SyncPath, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return clientsync.ErrSyncInProgress
	default:
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("daemon error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("daemon error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

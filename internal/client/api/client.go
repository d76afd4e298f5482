package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/pkg/api"
)

// ErrUnauthorized is returned when the server rejects the editor token.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError describes an unexpected non-2xx response.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с авторитетным сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент. token передается в заголовке Authorization
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// ListAll возвращает все заметки авторитетного хранилища
func (c *Client) ListAll(ctx context.Context) ([]*models.Note, error) {
	var resp []api.NoteDTO
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/notes", nil, &resp); err != nil {
		return nil, fmt.Errorf("list notes request failed: %w", err)
	}

	notes := make([]*models.Note, 0, len(resp))
	for _, dto := range resp {
		notes = append(notes, dto.ToNote())
	}
	return notes, nil
}

// Get получает заметку по ID. Возвращает models.ErrNoteNotFound для 404
func (c *Client) Get(ctx context.Context, id string) (*models.Note, error) {
	var resp api.NoteDTO
	if err := c.doRequest(ctx, http.MethodGet, notePath(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get note request failed: %w", err)
	}
	return resp.ToNote(), nil
}

// Create создает заметку; сервер назначает ID и версию 1
func (c *Client) Create(ctx context.Context, fields models.NoteFields) (*models.Note, error) {
	req := api.CreateNoteRequest{Tags: fields.Tags}
	if fields.Title != nil {
		req.Title = *fields.Title
	}
	if fields.Body != nil {
		req.Body = *fields.Body
	}

	var resp api.NoteDTO
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/notes", req, &resp); err != nil {
		return nil, fmt.Errorf("create note request failed: %w", err)
	}
	return resp.ToNote(), nil
}

// UpdateWithCheck выполняет запись только если expectedVersion совпадает с текущей.
// При расхождении возвращает *models.ConflictError
func (c *Client) UpdateWithCheck(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields) (*models.Note, error) {
	var resp api.NoteDTO
	req := api.NewUpdateRequest(expectedVersion, fields)
	if err := c.doRequest(ctx, http.MethodPut, notePath(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update note request failed: %w", err)
	}
	return resp.ToNote(), nil
}

// ForceUpdate применяет изменения без проверки версии
func (c *Client) ForceUpdate(ctx context.Context, id string, fields models.NoteFields) (*models.Note, error) {
	var resp api.NoteDTO
	req := api.NewUpdateRequest(0, fields)
	if err := c.doRequest(ctx, http.MethodPut, notePath(id)+"/force", req, &resp); err != nil {
		return nil, fmt.Errorf("force update request failed: %w", err)
	}
	return resp.ToNote(), nil
}

// Put overwrites the content of an existing note (last write wins).
func (c *Client) Put(ctx context.Context, id string, fields models.NoteFields) (*models.Note, error) {
	return c.ForceUpdate(ctx, id, fields)
}

// DescribeConflict сравнивает входящую правку с текущей версией на сервере
func (c *Client) DescribeConflict(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields) (*models.ConflictDescriptor, error) {
	var resp api.ConflictDescriptorDTO
	req := api.NewUpdateRequest(expectedVersion, fields)
	if err := c.doRequest(ctx, http.MethodPost, notePath(id)+"/conflict", req, &resp); err != nil {
		return nil, fmt.Errorf("describe conflict request failed: %w", err)
	}
	return resp.ToDescriptor(), nil
}

// Delete удаляет заметку. Возвращает models.ErrNoteNotFound для 404
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, notePath(id), nil, nil); err != nil {
		return fmt.Errorf("delete note request failed: %w", err)
	}
	return nil
}

// Subscribe подключается к потоку событий сервера и вызывает fn для каждого события.
// Блокируется до отмены ctx или разрыва соединения
func (c *Client) Subscribe(ctx context.Context, fn func(events.Event)) error {
	wsURL, err := websocketURL(c.baseURL + "/api/v1/events")
	if err != nil {
		return err
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("failed to connect to event stream: %w", err)
	}
	defer func() {
		_ = conn.CloseNow()
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}
			return fmt.Errorf("event stream closed: %w", err)
		}

		var ev events.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			// Пропускаем поврежденные сообщения
			continue
		}
		fn(ev)
	}
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError переводит ответ сервера в доменные ошибки
func decodeError(status int, body []byte) error {
	switch status {
	case http.StatusConflict:
		var conflict api.ConflictResponse
		if err := json.Unmarshal(body, &conflict); err == nil && conflict.CurrentVersion > 0 {
			return conflict.ToError()
		}
		return models.ErrVersionConflict
	case http.StatusNotFound:
		return models.ErrNoteNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &StatusError{StatusCode: status, Message: errResp.Message}
	}
	return &StatusError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

func notePath(id string) string {
	return "/api/v1/notes/" + url.PathEscape(id)
}

func websocketURL(httpURL string) (string, error) {
	u, err := url.Parse(httpURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

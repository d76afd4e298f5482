package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/validation"
	"github.com/iudanet/notekeeper/pkg/api"
)

// maxRequestBody ограничивает размер тела запроса. encoding/json кодирует
// '<', '>' и '&' как \u003c (6 байт), поэтому допустимое тело заметки
// может вырасти в JSON до шести раз; 64 KiB остаются на заголовок и теги
const maxRequestBody = 6*validation.MaxBodyBytes + 64<<10

// NoteService определяет операции над авторитетными заметками
type NoteService interface {
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context) ([]*models.Note, error)
	Create(ctx context.Context, fields models.NoteFields, editor string) (*models.Note, error)
	UpdateWithCheck(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields, editor string) (*models.Note, error)
	ForceUpdate(ctx context.Context, id string, fields models.NoteFields, editor string) (*models.Note, error)
	DescribeConflict(ctx context.Context, id string, expectedVersion int64, incoming models.NoteFields, editor string) (*models.ConflictDescriptor, error)
	Delete(ctx context.Context, id string) error
}

// NotesHandler обрабатывает запросы к заметкам
type NotesHandler struct {
	logger  *slog.Logger
	service NoteService
}

// NewNotesHandler создает новый handler для заметок
func NewNotesHandler(logger *slog.Logger, service NoteService) *NotesHandler {
	return &NotesHandler{
		logger:  logger,
		service: service,
	}
}

// Register регистрирует маршруты заметок в mux
func (h *NotesHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /api/v1/notes", wrap(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/v1/notes", wrap(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/v1/notes/{id}", wrap(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/v1/notes/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("PUT /api/v1/notes/{id}/force", wrap(http.HandlerFunc(h.Force)))
	mux.Handle("POST /api/v1/notes/{id}/conflict", wrap(http.HandlerFunc(h.Conflict)))
	mux.Handle("DELETE /api/v1/notes/{id}", wrap(http.HandlerFunc(h.Delete)))
}

// List обрабатывает GET /api/v1/notes
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]api.NoteDTO, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, api.FromNote(n))
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/notes/{id}
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	sendJSON(h.logger, w, api.FromNote(note), http.StatusOK)
}

// Create обрабатывает POST /api/v1/notes
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.editor(w, r)
	if !ok {
		return
	}

	var req api.CreateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.Create(r.Context(), req.Fields(), editor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/notes/"+note.ID)
	sendJSON(h.logger, w, api.FromNote(note), http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/notes/{id}
// Запись выполняется только если expected_version совпадает с текущей версией
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.editor(w, r)
	if !ok {
		return
	}

	var req api.UpdateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ExpectedVersion < 1 {
		sendError(h.logger, w, "expected_version is required", http.StatusBadRequest)
		return
	}

	note, err := h.service.UpdateWithCheck(r.Context(), r.PathValue("id"), req.ExpectedVersion, req.Fields(), editor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	sendJSON(h.logger, w, api.FromNote(note), http.StatusOK)
}

// Force обрабатывает PUT /api/v1/notes/{id}/force
// Перезаписывает заметку без проверки версии (last write wins)
func (h *NotesHandler) Force(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.editor(w, r)
	if !ok {
		return
	}

	var req api.UpdateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.ForceUpdate(r.Context(), r.PathValue("id"), req.Fields(), editor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	sendJSON(h.logger, w, api.FromNote(note), http.StatusOK)
}

// Conflict обрабатывает POST /api/v1/notes/{id}/conflict
// Ничего не записывает, только сравнивает текущую версию с входящей правкой
func (h *NotesHandler) Conflict(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.editor(w, r)
	if !ok {
		return
	}

	var req api.UpdateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.DescribeConflict(r.Context(), r.PathValue("id"), req.ExpectedVersion, req.Fields(), editor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	sendJSON(h.logger, w, api.FromDescriptor(d), http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/notes/{id}
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotesHandler) editor(w http.ResponseWriter, r *http.Request) (string, bool) {
	editor, ok := GetEditor(r.Context())
	if !ok {
		h.logger.Error("Editor not found in context")
		sendError(h.logger, w, "missing editor", http.StatusUnauthorized)
		return "", false
	}
	return editor, true
}

func (h *NotesHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// handleError переводит доменные ошибки в HTTP статусы
func (h *NotesHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *models.ConflictError

	switch {
	case errors.As(err, &ce):
		sendJSON(h.logger, w, api.FromConflict(ce), http.StatusConflict)
	case errors.Is(err, models.ErrNoteNotFound):
		sendError(h.logger, w, "note not found", http.StatusNotFound)
	case errors.Is(err, validation.ErrInvalid):
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
	}
}

package api

import "time"

// NoteDTO представляет заметку в ответах сервера
type NoteDTO struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	RenderedBody string    `json:"rendered_body"`
	LastEditor   string    `json:"last_editor"`
	Tags         []string  `json:"tags"`
	Version      int64     `json:"version"`
}

// CreateNoteRequest представляет запрос на создание заметки
type CreateNoteRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// UpdateNoteRequest представляет запрос на изменение заметки.
// Отсутствующие поля не изменяются, пустой массив tags очищает теги;
// ExpectedVersion игнорируется для /force
type UpdateNoteRequest struct {
	Title           *string   `json:"title,omitempty"`
	Body            *string   `json:"body,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	ExpectedVersion int64     `json:"expected_version"`
}

// ConflictResponse возвращается с кодом 409, когда ожидаемая версия устарела
type ConflictResponse struct {
	Error           string `json:"error"`
	ID              string `json:"id"`
	ExpectedVersion int64  `json:"expected_version"`
	CurrentVersion  int64  `json:"current_version"`
}

// ConflictSideDTO одна сторона описания конфликта
type ConflictSideDTO struct {
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Editor    string     `json:"editor"`
	Tags      []string   `json:"tags"`
	Version   int64      `json:"version"`
}

// ConflictDescriptorDTO сравнивает текущую авторитетную версию с входящей правкой
type ConflictDescriptorDTO struct {
	Current         ConflictSideDTO `json:"current"`
	Incoming        ConflictSideDTO `json:"incoming"`
	ID              string          `json:"id"`
	DivergentFields []string        `json:"divergent_fields"`
	HasConflict     bool            `json:"has_conflict"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse ответ health-check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

package models

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrNoteNotFound indicates that a note does not exist in the authoritative store.
var ErrNoteNotFound = errors.New("note not found")

// Note представляет запись в авторитетном хранилище (единственный источник истины).
// Version принадлежит только авторитетному хранилищу: остальные компоненты
// читают её, но никогда не изменяют.
type Note struct {
	CreatedAt    time.Time `json:"created_at"`    // CreatedAt время создания записи
	UpdatedAt    time.Time `json:"updated_at"`    // UpdatedAt время последней успешной записи
	ID           string    `json:"id"`            // ID стабильный идентификатор (UUID)
	Title        string    `json:"title"`         // Title заголовок заметки
	Body         string    `json:"body"`          // Body исходный markdown
	RenderedBody string    `json:"rendered_body"` // RenderedBody HTML, полученный из Body
	LastEditor   string    `json:"last_editor"`   // LastEditor кто выполнил последнюю запись
	Tags         []string  `json:"tags"`          // Tags множество тегов (отсортировано, без дублей)
	Version      int64     `json:"version"`       // Version монотонно растущая версия
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	return &c
}

// NoteFields is a partial set of content fields for a write.
// Nil pointers (and a nil Tags slice) mean "leave unchanged";
// an empty non-nil Tags slice clears the tag set.
// Tags is encoded without omitempty: null keeps the tags, [] clears them.
type NoteFields struct {
	Title *string  `json:"title,omitempty"`
	Body  *string  `json:"body,omitempty"`
	Tags  []string `json:"tags"`
}

// FieldsOf returns a NoteFields value carrying every content field of n.
func FieldsOf(title, body string, tags []string) NoteFields {
	if tags == nil {
		tags = []string{}
	}
	return NoteFields{
		Title: &title,
		Body:  &body,
		Tags:  tags,
	}
}

// IsEmpty reports whether no field is set.
func (f NoteFields) IsEmpty() bool {
	return f.Title == nil && f.Body == nil && f.Tags == nil
}

// Apply writes the present fields into n. It reports whether Body changed,
// so that callers know when RenderedBody has to be recomputed.
func (f NoteFields) Apply(n *Note) bool {
	bodyChanged := false
	if f.Title != nil {
		n.Title = *f.Title
	}
	if f.Body != nil && *f.Body != n.Body {
		n.Body = *f.Body
		bodyChanged = true
	}
	if f.Tags != nil {
		n.Tags = NormalizeTags(f.Tags)
	}
	return bodyChanged
}

// NormalizeTags trims, de-duplicates and sorts a tag list.
// Empty tags are dropped. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// EncodeTags serializes a tag set into the comma separated form
// kept by local staging records.
func EncodeTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}

// DecodeTags parses the comma separated form produced by EncodeTags.
func DecodeTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(csv, ","))
}

// HasTag reports whether tags contains tag (case-insensitive).
func HasTag(tags []string, tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

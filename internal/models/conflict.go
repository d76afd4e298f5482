package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrVersionConflict is matched (via errors.Is) by every *ConflictError.
var ErrVersionConflict = errors.New("version conflict")

// ConflictError is returned when a checked write carries a stale expected version.
type ConflictError struct {
	ID              string
	ExpectedVersion int64
	CurrentVersion  int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on note %s: expected version %d, current version %d",
		e.ID, e.ExpectedVersion, e.CurrentVersion)
}

// Is makes errors.Is(err, ErrVersionConflict) hold for conflict errors.
func (e *ConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// ConflictSide is one side of a conflict description.
type ConflictSide struct {
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Editor    string     `json:"editor"`
	Tags      []string   `json:"tags"`
	Version   int64      `json:"version"`
}

// ConflictDescriptor contrasts the current authoritative note with an incoming edit.
// It is never persisted.
type ConflictDescriptor struct {
	Current         ConflictSide `json:"current"`
	Incoming        ConflictSide `json:"incoming"`
	ID              string       `json:"id"`
	DivergentFields []string     `json:"divergent_fields"`
	HasConflict     bool         `json:"has_conflict"`
}

// Field names reported in ConflictDescriptor.DivergentFields.
const (
	FieldTitle = "title"
	FieldBody  = "body"
	FieldTags  = "tags"
)

// NewConflictDescriptor builds the descriptor for an incoming edit against current.
// Incoming fields that are not set are shown with the current value.
func NewConflictDescriptor(current *Note, expectedVersion int64, incoming NoteFields, editor string) *ConflictDescriptor {
	updatedAt := current.UpdatedAt

	in := current.Clone()
	incoming.Apply(in)

	d := &ConflictDescriptor{
		ID: current.ID,
		Current: ConflictSide{
			Title:     current.Title,
			Body:      current.Body,
			Tags:      slices.Clone(current.Tags),
			UpdatedAt: &updatedAt,
			Editor:    current.LastEditor,
			Version:   current.Version,
		},
		Incoming: ConflictSide{
			Title:   in.Title,
			Body:    in.Body,
			Tags:    in.Tags,
			Editor:  editor,
			Version: expectedVersion,
		},
		DivergentFields: []string{},
		HasConflict:     expectedVersion != current.Version,
	}

	if in.Title != current.Title {
		d.DivergentFields = append(d.DivergentFields, FieldTitle)
	}
	if in.Body != current.Body {
		d.DivergentFields = append(d.DivergentFields, FieldBody)
	}
	if !slices.Equal(in.Tags, NormalizeTags(current.Tags)) {
		d.DivergentFields = append(d.DivergentFields, FieldTags)
	}

	return d
}

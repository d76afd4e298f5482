package api

import (
	"slices"

	"github.com/iudanet/notekeeper/internal/models"
)

// FromNote converts a domain note into its wire form.
func FromNote(n *models.Note) NoteDTO {
	tags := slices.Clone(n.Tags)
	if tags == nil {
		tags = []string{}
	}
	return NoteDTO{
		ID:           n.ID,
		Title:        n.Title,
		Body:         n.Body,
		RenderedBody: n.RenderedBody,
		Tags:         tags,
		Version:      n.Version,
		LastEditor:   n.LastEditor,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

// ToNote converts the wire form back into a domain note.
func (d NoteDTO) ToNote() *models.Note {
	return &models.Note{
		ID:           d.ID,
		Title:        d.Title,
		Body:         d.Body,
		RenderedBody: d.RenderedBody,
		Tags:         models.NormalizeTags(d.Tags),
		Version:      d.Version,
		LastEditor:   d.LastEditor,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Fields returns the content fields carried by the request.
func (r CreateNoteRequest) Fields() models.NoteFields {
	return models.FieldsOf(r.Title, r.Body, r.Tags)
}

// Fields returns the content fields carried by the request.
func (r UpdateNoteRequest) Fields() models.NoteFields {
	f := models.NoteFields{Title: r.Title, Body: r.Body}
	if r.Tags != nil {
		// пустой массив означает очистку тегов
		f.Tags = append([]string{}, *r.Tags...)
	}
	return f
}

// NewUpdateRequest builds an update request from a partial field set.
func NewUpdateRequest(expectedVersion int64, f models.NoteFields) UpdateNoteRequest {
	r := UpdateNoteRequest{
		ExpectedVersion: expectedVersion,
		Title:           f.Title,
		Body:            f.Body,
	}
	if f.Tags != nil {
		tags := slices.Clone(f.Tags)
		r.Tags = &tags
	}
	return r
}

// FromConflict converts a conflict error into the 409 response body.
func FromConflict(e *models.ConflictError) ConflictResponse {
	return ConflictResponse{
		Error:           models.ErrVersionConflict.Error(),
		ID:              e.ID,
		ExpectedVersion: e.ExpectedVersion,
		CurrentVersion:  e.CurrentVersion,
	}
}

// ToError converts the 409 response body back into a conflict error.
func (r ConflictResponse) ToError() *models.ConflictError {
	return &models.ConflictError{
		ID:              r.ID,
		ExpectedVersion: r.ExpectedVersion,
		CurrentVersion:  r.CurrentVersion,
	}
}

// FromDescriptor converts a conflict descriptor into its wire form.
func FromDescriptor(d *models.ConflictDescriptor) ConflictDescriptorDTO {
	return ConflictDescriptorDTO{
		ID:              d.ID,
		HasConflict:     d.HasConflict,
		DivergentFields: d.DivergentFields,
		Current:         ConflictSideDTO(d.Current),
		Incoming:        ConflictSideDTO(d.Incoming),
	}
}

// ToDescriptor converts the wire form back into a conflict descriptor.
func (d ConflictDescriptorDTO) ToDescriptor() *models.ConflictDescriptor {
	return &models.ConflictDescriptor{
		ID:              d.ID,
		HasConflict:     d.HasConflict,
		DivergentFields: d.DivergentFields,
		Current:         models.ConflictSide(d.Current),
		Incoming:        models.ConflictSide(d.Incoming),
	}
}

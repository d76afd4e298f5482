package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/notekeeper/internal/models"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid note")

const (
	// MaxTitleLen максимальная длина заголовка (в символах)
	MaxTitleLen = 200
	// MaxBodyBytes максимальный размер тела заметки
	MaxBodyBytes = 1 << 20
	// MaxTags максимальное количество тегов у заметки
	MaxTags = 32
	// MaxTagLen максимальная длина одного тега
	MaxTagLen = 64
)

// ValidateTitle проверяет заголовок: не пустой, не длиннее MaxTitleLen символов
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("%w: title must not exceed %d characters", ErrInvalid, MaxTitleLen)
	}
	return nil
}

// ValidateBody checks the body size limit.
func ValidateBody(body string) error {
	if len(body) > MaxBodyBytes {
		return fmt.Errorf("%w: body must not exceed %d bytes", ErrInvalid, MaxBodyBytes)
	}
	return nil
}

// ValidateTag проверяет отдельный тег.
// Запятая запрещена: локальное хранилище сериализует теги через запятую.
func ValidateTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag cannot be empty", ErrInvalid)
	}
	if utf8.RuneCountInString(tag) > MaxTagLen {
		return fmt.Errorf("%w: tag must not exceed %d characters", ErrInvalid, MaxTagLen)
	}
	if strings.Contains(tag, ",") {
		return fmt.Errorf("%w: tag %q must not contain commas", ErrInvalid, tag)
	}
	return nil
}

// ValidateTags validates every tag and the total count after normalization.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if err := ValidateTag(tag); err != nil {
			return err
		}
	}
	if n := len(models.NormalizeTags(tags)); n > MaxTags {
		return fmt.Errorf("%w: a note can have at most %d tags, got %d", ErrInvalid, MaxTags, n)
	}
	return nil
}

// ValidateNote validates a complete set of note content.
func ValidateNote(title, body string, tags []string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	if err := ValidateBody(body); err != nil {
		return err
	}
	return ValidateTags(tags)
}

// ValidateFields validates only the fields present in a partial update.
func ValidateFields(f models.NoteFields) error {
	if f.Title != nil {
		if err := ValidateTitle(*f.Title); err != nil {
			return err
		}
	}
	if f.Body != nil {
		if err := ValidateBody(*f.Body); err != nil {
			return err
		}
	}
	if f.Tags != nil {
		return ValidateTags(f.Tags)
	}
	return nil
}

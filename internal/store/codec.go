package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"compliance-portal/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformed     = errors.New("malformed collection")
	ErrNotCollection = errors.New("key is not a collection")
)

var validate = validator.New()

// UserRecord is the persisted shape of a user. Legacy dumps carry a plaintext
// password, exports carry the hash instead.
type UserRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Decode parses and validates one collection. An absent (empty or "null")
// payload decodes to an empty collection; anything that does not parse or
// fails validation is rejected.
func Decode[T any](key Key, raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	// local storage dumps hold each collection as a JSON string
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrMalformed, key, err)
		}
		return Decode[T](key, []byte(inner))
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformed, key, err)
	}
	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return nil, fmt.Errorf("%w %q: record %d: %v", ErrMalformed, key, i, err)
		}
	}
	if err := checkUniqueIDs(key, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Encode renders a collection as a JSON array. A nil collection encodes as [].
func Encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(records)
}

func checkUniqueIDs[T any](key Key, records []T) error {
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		id := idOf(&records[i])
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w %q: duplicate id %q", ErrMalformed, key, id)
		}
		seen[id] = struct{}{}

		if g, ok := any(&records[i]).(*domain.FilingGuide); ok {
			if err := checkStepIDs(key, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkStepIDs(key Key, g *domain.FilingGuide) error {
	seen := make(map[string]struct{}, len(g.Steps))
	for _, step := range g.Steps {
		if _, dup := seen[step.StepID]; dup {
			return fmt.Errorf("%w %q: guide %q has duplicate step id %q", ErrMalformed, key, g.ID, step.StepID)
		}
		seen[step.StepID] = struct{}{}
	}
	return nil
}

func idOf(v any) string {
	switch r := v.(type) {
	case *UserRecord:
		return r.ID
	case *domain.User:
		return r.ID
	case *domain.Notification:
		return r.ID
	case *domain.CalendarEvent:
		return r.ID
	case *domain.Document:
		return r.ID
	case *domain.ChatMessage:
		return r.ID
	case *domain.FilingGuide:
		return r.ID
	case *domain.RegulatoryUpdate:
		return r.ID
	}
	return ""
}

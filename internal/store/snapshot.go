package store

import (
	"encoding/json"
	"fmt"

	"compliance-portal/internal/domain"
)

// Snapshot is a whole portal data set in the legacy local storage layout.
type Snapshot struct {
	Users          []UserRecord           `json:"users"`
	Notifications  []domain.Notification  `json:"notifications"`
	CalendarEvents []domain.CalendarEvent `json:"calendarEvents"`
	Documents      []domain.Document      `json:"documents"`
	ChatMessages   []domain.ChatMessage   `json:"chatMessages"`
	FilingGuides   []domain.FilingGuide   `json:"filingGuides"`
}

// ParseSnapshot reads a dump keyed by collection name. Values may be JSON
// arrays or JSON strings holding an array, as browsers store them. Missing
// keys become empty collections; currentUser and unknown keys are ignored.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", ErrMalformed, err)
	}

	var (
		snap Snapshot
		err  error
	)
	if snap.Users, err = Decode[UserRecord](KeyUsers, raw[string(KeyUsers)]); err != nil {
		return nil, err
	}
	if snap.Notifications, err = Decode[domain.Notification](KeyNotifications, raw[string(KeyNotifications)]); err != nil {
		return nil, err
	}
	if snap.CalendarEvents, err = Decode[domain.CalendarEvent](KeyCalendarEvents, raw[string(KeyCalendarEvents)]); err != nil {
		return nil, err
	}
	if snap.Documents, err = Decode[domain.Document](KeyDocuments, raw[string(KeyDocuments)]); err != nil {
		return nil, err
	}
	if snap.ChatMessages, err = Decode[domain.ChatMessage](KeyChatMessages, raw[string(KeyChatMessages)]); err != nil {
		return nil, err
	}
	if snap.FilingGuides, err = Decode[domain.FilingGuide](KeyFilingGuides, raw[string(KeyFilingGuides)]); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Raw returns the encoded collection stored under key.
func (s *Snapshot) Raw(key Key) ([]byte, error) {
	switch key {
	case KeyUsers:
		return Encode(s.Users)
	case KeyNotifications:
		return Encode(s.Notifications)
	case KeyCalendarEvents:
		return Encode(s.CalendarEvents)
	case KeyDocuments:
		return Encode(s.Documents)
	case KeyChatMessages:
		return Encode(s.ChatMessages)
	case KeyFilingGuides:
		return Encode(s.FilingGuides)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotCollection, key)
}

// Set decodes raw into the collection stored under key.
func (s *Snapshot) Set(key Key, raw []byte) error {
	var err error
	switch key {
	case KeyUsers:
		s.Users, err = Decode[UserRecord](key, raw)
	case KeyNotifications:
		s.Notifications, err = Decode[domain.Notification](key, raw)
	case KeyCalendarEvents:
		s.CalendarEvents, err = Decode[domain.CalendarEvent](key, raw)
	case KeyDocuments:
		s.Documents, err = Decode[domain.Document](key, raw)
	case KeyChatMessages:
		s.ChatMessages, err = Decode[domain.ChatMessage](key, raw)
	case KeyFilingGuides:
		s.FilingGuides, err = Decode[domain.FilingGuide](key, raw)
	default:
		err = fmt.Errorf("%w: %q", ErrNotCollection, key)
	}
	return err
}

// MarshalJSON keeps every collection present, as [] when empty.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(Collections))
	for _, key := range Collections {
		raw, err := s.Raw(key)
		if err != nil {
			return nil, err
		}
		out[string(key)] = raw
	}
	return json.Marshal(out)
}

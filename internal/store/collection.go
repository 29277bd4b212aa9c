package store

import (
	"context"
	"errors"
	"fmt"

	"compliance-portal/internal/auth"
	"compliance-portal/internal/domain"

	"gorm.io/gorm"
)

// ReplaceHook runs after a whole collection has been replaced and committed.
type ReplaceHook func(ctx context.Context, key Key)

// CollectionStore exposes whole collections: Load reads one in full and Save
// replaces one in full. Feature packages use per-record repositories instead;
// this is the import/export and seeding path.
type CollectionStore struct {
	db    *gorm.DB
	hooks []ReplaceHook
}

func NewCollectionStore(db *gorm.DB, hooks ...ReplaceHook) *CollectionStore {
	return &CollectionStore{db: db, hooks: hooks}
}

// OnReplace registers hook to run after every committed Save, Import or ImportKey.
func (s *CollectionStore) OnReplace(hook ReplaceHook) {
	s.hooks = append(s.hooks, hook)
}

// Load returns the collection under key as a JSON array.
func (s *CollectionStore) Load(ctx context.Context, key Key) ([]byte, error) {
	var snap Snapshot
	if err := s.load(s.db.WithContext(ctx), key, &snap); err != nil {
		return nil, err
	}
	return snap.Raw(key)
}

// Save validates raw and replaces the collection under key with it.
func (s *CollectionStore) Save(ctx context.Context, key Key, raw []byte) error {
	var snap Snapshot
	if err := snap.Set(key, raw); err != nil {
		return err
	}
	return s.ImportKey(ctx, key, &snap)
}

// Export reads every collection.
func (s *CollectionStore) Export(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	db := s.db.WithContext(ctx)
	for _, key := range Collections {
		if err := s.load(db, key, &snap); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

// Import replaces every collection with the snapshot's in one transaction.
func (s *CollectionStore) Import(ctx context.Context, snap *Snapshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range Collections {
			if err := s.replace(tx, key, snap); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.replaced(ctx, Collections...)
	return nil
}

// ImportKey replaces the one collection under key with the snapshot's.
func (s *CollectionStore) ImportKey(ctx context.Context, key Key, snap *Snapshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.replace(tx, key, snap)
	})
	if err != nil {
		return err
	}
	s.replaced(ctx, key)
	return nil
}

func (s *CollectionStore) replaced(ctx context.Context, keys ...Key) {
	for _, key := range keys {
		for _, hook := range s.hooks {
			hook(ctx, key)
		}
	}
}

// IsEmpty reports whether the table behind key holds no rows.
func (s *CollectionStore) IsEmpty(ctx context.Context, key Key) (bool, error) {
	model, err := modelFor(key)
	if err != nil {
		return false, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *CollectionStore) load(db *gorm.DB, key Key, snap *Snapshot) error {
	switch key {
	case KeyUsers:
		var users []domain.User
		if err := db.Order("created_at, id").Find(&users).Error; err != nil {
			return err
		}
		snap.Users = make([]UserRecord, 0, len(users))
		for _, u := range users {
			snap.Users = append(snap.Users, UserRecord{User: u, PasswordHash: u.PasswordHash})
		}
		return nil
	case KeyNotifications:
		return db.Order("created_at, id").Find(&snap.Notifications).Error
	case KeyCalendarEvents:
		return db.Order("date, id").Find(&snap.CalendarEvents).Error
	case KeyDocuments:
		return db.Order("uploaded_at, id").Find(&snap.Documents).Error
	case KeyChatMessages:
		return db.Order("timestamp, id").Find(&snap.ChatMessages).Error
	case KeyFilingGuides:
		return db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).Order("id").Find(&snap.FilingGuides).Error
	}
	return fmt.Errorf("%w: %q", ErrNotCollection, key)
}

func (s *CollectionStore) replace(tx *gorm.DB, key Key, snap *Snapshot) error {
	model, err := modelFor(key)
	if err != nil {
		return err
	}
	if key == KeyFilingGuides {
		if err := tx.Where("1 = 1").Delete(&domain.GuideStep{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}

	switch key {
	case KeyUsers:
		users, err := toUsers(snap.Users)
		if err != nil {
			return err
		}
		return createAll(tx, users)
	case KeyNotifications:
		for i := range snap.Notifications {
			snap.Notifications[i].Version = max(snap.Notifications[i].Version, 1)
		}
		return createAll(tx, snap.Notifications)
	case KeyCalendarEvents:
		return createAll(tx, snap.CalendarEvents)
	case KeyDocuments:
		for i := range snap.Documents {
			snap.Documents[i].Version = max(snap.Documents[i].Version, 1)
		}
		return createAll(tx, snap.Documents)
	case KeyChatMessages:
		return createAll(tx, snap.ChatMessages)
	case KeyFilingGuides:
		for i := range snap.FilingGuides {
			NormalizeGuide(&snap.FilingGuides[i])
		}
		return createAll(tx, snap.FilingGuides)
	}
	return fmt.Errorf("%w: %q", ErrNotCollection, key)
}

// NormalizeGuide links steps to their guide and records their order.
func NormalizeGuide(g *domain.FilingGuide) {
	g.Version = max(g.Version, 1)
	for i := range g.Steps {
		g.Steps[i].GuideID = g.ID
		g.Steps[i].Position = i
	}
}

func createAll[T any](tx *gorm.DB, records []T) error {
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(&records, 200).Error
}

func toUsers(records []UserRecord) ([]domain.User, error) {
	users := make([]domain.User, 0, len(records))
	for _, r := range records {
		u := r.User
		switch {
		case r.PasswordHash != "":
			u.PasswordHash = r.PasswordHash
		case u.Password != "" && auth.IsHash(u.Password):
			u.PasswordHash = u.Password
		case u.Password != "":
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = hash
		default:
			return nil, fmt.Errorf("%w %q: user %q has no credentials", ErrMalformed, KeyUsers, u.ID)
		}
		u.Password = ""
		users = append(users, u)
	}
	return users, nil
}

func modelFor(key Key) (any, error) {
	switch key {
	case KeyUsers:
		return &domain.User{}, nil
	case KeyNotifications:
		return &domain.Notification{}, nil
	case KeyCalendarEvents:
		return &domain.CalendarEvent{}, nil
	case KeyDocuments:
		return &domain.Document{}, nil
	case KeyChatMessages:
		return &domain.ChatMessage{}, nil
	case KeyFilingGuides:
		return &domain.FilingGuide{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotCollection, key)
}

// IsMalformed reports whether err came from rejecting stored data.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

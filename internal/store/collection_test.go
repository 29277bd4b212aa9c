package store_test

import (
	"context"
	"testing"
	"time"

	"compliance-portal/internal/db"
	"compliance-portal/internal/db/dbtest"
	"compliance-portal/internal/domain"
	"compliance-portal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replaceLog struct {
	keys []store.Key
}

func (l *replaceLog) hook(ctx context.Context, key store.Key) {
	l.keys = append(l.keys, key)
}

func TestCollectionStore_LoadReturnsWhatSaveStored(t *testing.T) {
	collections := store.NewCollectionStore(dbtest.Open(t))
	ctx := context.Background()

	at := time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
	raw, err := store.Encode([]domain.Document{
		{ID: "a", Name: "GST Return", Type: "application/pdf", Size: "2.4 MB", SizeBytes: 2516582, UploadedAt: at, UploadedBy: "1", Content: "inline", Version: 1},
		{ID: "b", Name: "Ledger", Type: "application/vnd.ms-excel", Size: "1.0 KB", UploadedAt: at.Add(time.Hour), UploadedBy: "2", Content: "documents/b/ledger.xls", StorageKey: "documents/b/ledger.xls", Version: 4},
	})
	require.NoError(t, err)

	require.NoError(t, collections.Save(ctx, store.KeyDocuments, raw))

	loaded, err := collections.Load(ctx, store.KeyDocuments)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(loaded))
}

func TestCollectionStore_SaveLoadStableForEveryCollection(t *testing.T) {
	collections := store.NewCollectionStore(dbtest.Open(t))
	ctx := context.Background()
	sample := db.SampleSnapshot()

	for _, key := range store.Collections {
		t.Run(string(key), func(t *testing.T) {
			raw, err := sample.Raw(key)
			require.NoError(t, err)
			require.NoError(t, collections.Save(ctx, key, raw))

			first, err := collections.Load(ctx, key)
			require.NoError(t, err)
			require.NoError(t, collections.Save(ctx, key, first))
			second, err := collections.Load(ctx, key)
			require.NoError(t, err)
			assert.JSONEq(t, string(first), string(second))
		})
	}
}

func TestCollectionStore_SaveReplacesWholeCollection(t *testing.T) {
	collections := store.NewCollectionStore(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, collections.Save(ctx, store.KeyCalendarEvents, []byte(`[
		{"id":"1","title":"GST Return Filing","date":"2025-01-20","type":"filing","priority":"high"},
		{"id":"2","title":"TDS Payment","date":"2025-01-07","type":"payment","priority":"medium"}
	]`)))
	require.NoError(t, collections.Save(ctx, store.KeyCalendarEvents, []byte(`[
		{"id":"3","title":"Client Meeting","date":"2025-01-15","type":"meeting","priority":"low"}
	]`)))

	loaded, err := collections.Load(ctx, store.KeyCalendarEvents)
	require.NoError(t, err)
	events, err := store.Decode[domain.CalendarEvent](store.KeyCalendarEvents, loaded)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "3", events[0].ID)
}

func TestCollectionStore_MalformedSaveKeepsData(t *testing.T) {
	log := &replaceLog{}
	collections := store.NewCollectionStore(dbtest.Open(t), log.hook)
	ctx := context.Background()

	require.NoError(t, collections.Save(ctx, store.KeyCalendarEvents, []byte(`[{"id":"1","title":"t","date":"2025-01-20","type":"filing","priority":"high"}]`)))

	err := collections.Save(ctx, store.KeyCalendarEvents, []byte(`[{"id":"2","title":"t","date":"2025-01-20","type":"party","priority":"high"}]`))
	require.Error(t, err)
	assert.True(t, store.IsMalformed(err))

	empty, err := collections.IsEmpty(ctx, store.KeyCalendarEvents)
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, []store.Key{store.KeyCalendarEvents}, log.keys)
}

func TestCollectionStore_HooksRunAfterReplace(t *testing.T) {
	log := &replaceLog{}
	collections := store.NewCollectionStore(dbtest.Open(t))
	collections.OnReplace(log.hook)
	ctx := context.Background()
	sample := db.SampleSnapshot()

	require.NoError(t, collections.ImportKey(ctx, store.KeyDocuments, sample))
	assert.Equal(t, []store.Key{store.KeyDocuments}, log.keys)

	log.keys = nil
	require.NoError(t, collections.Import(ctx, sample))
	assert.Equal(t, store.Collections, log.keys)

	log.keys = nil
	_, err := collections.Export(ctx)
	require.NoError(t, err)
	_, err = collections.Load(ctx, store.KeyDocuments)
	require.NoError(t, err)
	assert.Empty(t, log.keys)
}

func TestCollectionStore_LoadRejectsCurrentUser(t *testing.T) {
	collections := store.NewCollectionStore(dbtest.Open(t))
	_, err := collections.Load(context.Background(), store.KeyCurrentUser)
	assert.ErrorIs(t, err, store.ErrNotCollection)
}

func TestSeedData_FillsOnlyEmptyCollections(t *testing.T) {
	database := dbtest.Open(t)
	ctx := context.Background()
	collections := store.NewCollectionStore(database)

	require.NoError(t, collections.Save(ctx, store.KeyDocuments, []byte(`[]`)))
	require.NoError(t, collections.Save(ctx, store.KeyCalendarEvents, []byte(`[{"id":"9","title":"Only","date":"2025-02-01","type":"deadline","priority":"low"}]`)))

	log := &replaceLog{}
	require.NoError(t, db.SeedData(ctx, database, log.hook))
	assert.NotContains(t, log.keys, store.KeyCalendarEvents)
	assert.Contains(t, log.keys, store.KeyDocuments)

	loaded, err := collections.Load(ctx, store.KeyCalendarEvents)
	require.NoError(t, err)
	events, err := store.Decode[domain.CalendarEvent](store.KeyCalendarEvents, loaded)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "9", events[0].ID)
}

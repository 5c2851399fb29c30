package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartai/negotiation-platform/internal/model"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "data", "conversations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func conv(tenantID, id, title string, updated time.Time) *model.SavedConversation {
	return &model.SavedConversation{
		ID:          id,
		TenantID:    tenantID,
		Title:       title,
		CreatedAt:   updated,
		LastUpdated: updated,
		Product:     "bamboo toothbrush",
		Quantity:    50,
		Budget:      100,
		Priority:    model.PriorityPrice,
	}
}

func TestBoltStoreSaveGet(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	in := conv("tenant-a", "c1", "Toothbrush order", now)
	require.NoError(t, s.Save(in))

	out, err := s.Get("tenant-a", "c1")
	require.NoError(t, err)
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.Product, out.Product)
	assert.Equal(t, in.Priority, out.Priority)
	assert.True(t, in.LastUpdated.Equal(out.LastUpdated))
}

func TestBoltStoreGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("tenant-a", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStoreOverwrite(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.Save(conv("tenant-a", "c1", "first", now)))
	require.NoError(t, s.Save(conv("tenant-a", "c1", "second", now.Add(time.Minute))))

	out, err := s.Get("tenant-a", "c1")
	require.NoError(t, err)
	assert.Equal(t, "second", out.Title)
}

func TestBoltStoreListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()

	require.NoError(t, s.Save(conv("tenant-a", "c1", "oldest", base.Add(-2*time.Hour))))
	require.NoError(t, s.Save(conv("tenant-a", "c2", "newest", base)))
	require.NoError(t, s.Save(conv("tenant-a", "c3", "middle", base.Add(-time.Hour))))

	convs, err := s.List("tenant-a", 0)
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, "newest", convs[0].Title)
	assert.Equal(t, "middle", convs[1].Title)
	assert.Equal(t, "oldest", convs[2].Title)

	convs, err = s.List("tenant-a", 2)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "newest", convs[0].Title)
}

func TestBoltStoreTenantIsolation(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.Save(conv("tenant-a", "c1", "a's", now)))
	require.NoError(t, s.Save(conv("tenant-b", "c1", "b's", now)))

	convs, err := s.List("tenant-a", 0)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "a's", convs[0].Title)

	_, err = s.Get("tenant-c", "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStoreDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(conv("tenant-a", "c1", "bye", time.Now())))
	require.NoError(t, s.Delete("tenant-a", "c1"))

	_, err := s.Get("tenant-a", "c1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("tenant-a", "c1"), ErrNotFound)
}

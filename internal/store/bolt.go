// Package store persists saved conversations in a local bbolt database.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cartai/negotiation-platform/internal/model"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("store: not found")

const bucketConversations = "conversations"

// BoltStore is a file-backed SavedConversation repository.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	s := &BoltStore{db: db}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStore) ensureBuckets() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketConversations))
		return err
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save persists a conversation, overwriting any previous version.
func (s *BoltStore) Save(conv *model.SavedConversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketConversations)).Put(key(conv.TenantID, conv.ID), data)
	})
}

// Get loads one conversation by tenant and id.
func (s *BoltStore) Get(tenantID, id string) (*model.SavedConversation, error) {
	var conv model.SavedConversation
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketConversations)).Get(key(tenantID, id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &conv)
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// List returns a tenant's conversations, newest first.
func (s *BoltStore) List(tenantID string, limit int) ([]model.SavedConversation, error) {
	if limit <= 0 {
		limit = 50
	}

	prefix := []byte(tenantID + "/")
	var convs []model.SavedConversation

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketConversations)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var conv model.SavedConversation
			if err := json.Unmarshal(v, &conv); err != nil {
				continue
			}
			convs = append(convs, conv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastUpdated.After(convs[j].LastUpdated)
	})

	if len(convs) > limit {
		convs = convs[:limit]
	}
	return convs, nil
}

// Delete removes one conversation.
func (s *BoltStore) Delete(tenantID, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketConversations))
		k := key(tenantID, id)
		if b.Get(k) == nil {
			return ErrNotFound
		}
		return b.Delete(k)
	})
}

func key(tenantID, id string) []byte {
	return []byte(tenantID + "/" + id)
}

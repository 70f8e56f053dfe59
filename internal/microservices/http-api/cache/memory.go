package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore keeps at most a fixed number of entries in process, evicting the
// least recently used one when full.
type MemoryStore struct {
	items *lru.Cache[string, memoryItem]
	now   func() time.Time
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 1024
	}
	items, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{items: items, now: time.Now}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	item, ok := s.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !s.now().Before(item.expiresAt) {
		s.items.Remove(key)
		return nil, ErrMiss
	}
	entry := item.entry
	return &entry, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry, ttl time.Duration) error {
	body := make([]byte, len(entry.Body))
	copy(body, entry.Body)
	s.items.Add(key, memoryItem{
		entry:     Entry{Status: entry.Status, ContentType: entry.ContentType, Body: body},
		expiresAt: s.now().Add(ttl),
	})
	return nil
}

func (s *MemoryStore) Len() int {
	return s.items.Len()
}

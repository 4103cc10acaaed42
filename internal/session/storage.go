// Package session holds the downloads produced for one upload in memory until
// the user fetches them or the entry expires. Nothing is written to disk.
package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"sheetsplit/domain/core"
	"sheetsplit/domain/sheet"
	"sheetsplit/internal/errors"
)

// batch is the cached value for one upload
type batch struct {
	downloads []sheet.Download
}

// MemoryStore keeps download batches in an expiring in-process cache
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates a store whose entries live for ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores downloads under a fresh batch ID and returns it with its expiry
func (s *MemoryStore) Put(ctx context.Context, downloads []sheet.Download) (string, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return "", time.Time{}, err
	}
	id := core.NewBatchID().String()
	copied := make([]sheet.Download, len(downloads))
	copy(copied, downloads)
	s.cache.Set(id, &batch{downloads: copied}, cache.DefaultExpiration)
	return id, s.now().Add(s.ttl), nil
}

// Get returns one named download from a batch
func (s *MemoryStore) Get(ctx context.Context, batchID, name string) (*sheet.Download, error) {
	downloads, err := s.List(ctx, batchID)
	if err != nil {
		return nil, err
	}
	for i := range downloads {
		if downloads[i].Name == name {
			return &downloads[i], nil
		}
	}
	return nil, errors.NotFound("download " + name)
}

// List returns every download of a batch in chunk order
func (s *MemoryStore) List(ctx context.Context, batchID string) ([]sheet.Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := core.ParseBatchID(batchID)
	if err != nil {
		return nil, errors.NotFound("batch")
	}
	value, ok := s.cache.Get(id.String())
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "batch not found or expired")
	}
	return value.(*batch).downloads, nil
}

// Len reports the number of live batches
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

package store

import (
	"context"
	"sync"
	"time"

	"sporemap/internal/spore/models"
)

// InMemoryStore keeps spores in a slice ordered by id. Inserts assign
// strictly increasing ids, mirroring the Postgres sequence.
type InMemoryStore struct {
	mu     sync.Mutex
	spores []models.Spore
	nextID int64
	now    func() time.Time
}

// NewInMemory creates an empty in-memory spore store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		nextID: 1,
		now:    time.Now,
	}
}

func (s *InMemoryStore) Insert(_ context.Context, sp *models.Spore) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp.ID = s.nextID
	s.nextID++
	sp.CreatedAt = s.now().UTC()
	s.spores = append(s.spores, *sp)
	return sp.ID, nil
}

func (s *InMemoryStore) List(_ context.Context, f models.GeoFilters) ([]models.Spore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Spore, 0)
	for _, sp := range s.spores {
		if !matches(sp, f) {
			continue
		}
		if f.Cursor != nil && sp.ID <= *f.Cursor {
			continue
		}
		out = append(out, sp)
		if f.Limit != nil && *f.Limit > 0 && len(out) == *f.Limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context, f models.GeoFilters) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, sp := range s.spores {
		if matches(sp, f) {
			total++
		}
	}
	return total, nil
}

// matches applies the bounding-box conditions only; cursor and limit are
// pagination concerns handled by List.
func matches(sp models.Spore, f models.GeoFilters) bool {
	if f.MinLat != nil && sp.Lat < *f.MinLat {
		return false
	}
	if f.MaxLat != nil && sp.Lat > *f.MaxLat {
		return false
	}
	if f.MinLng != nil && sp.Lng < *f.MinLng {
		return false
	}
	if f.MaxLng != nil && sp.Lng > *f.MaxLng {
		return false
	}
	return true
}

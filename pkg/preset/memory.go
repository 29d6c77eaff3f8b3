package preset

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/carousel/pkg/errors"
)

// MemoryStore keeps presets in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]*Preset
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{presets: make(map[string]*Preset)}
}

func (s *MemoryStore) Save(ctx context.Context, p *Preset) error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.presets[p.Name]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.presets[p.Name] = clone(p)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.presets[name]
	if !ok {
		return nil, notFound(name)
	}
	return clone(p), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Preset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, clone(p))
	}
	sortByName(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[name]; !ok {
		return notFound(name)
	}
	delete(s.presets, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/carousel/pkg/errors"
)

// FileStore is a file-based preset store.
// Presets are stored as JSON files named after the preset.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based preset store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "preset directory must not be empty")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create preset dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory for preset files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) presetPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Save(ctx context.Context, p *Preset) error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	existing, err := s.read(p.Name)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, errors.ErrCodePresetNotFound):
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
	default:
		return err
	}
	p.UpdatedAt = now

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	tmp := s.presetPath(p.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write preset file: %w", err)
	}
	if err := os.Rename(tmp, s.presetPath(p.Name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write preset file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, name string) (*Preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(name)
}

func (s *FileStore) List(ctx context.Context) ([]*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read preset dir: %w", err)
	}

	out := make([]*Preset, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()[:len(entry.Name())-len(".json")]
		p, err := s.read(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidatePresetName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.presetPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return fmt.Errorf("remove preset file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(name string) (*Preset, error) {
	data, err := os.ReadFile(s.presetPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("read preset file: %w", err)
	}

	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse preset %s", name)
	}
	return &p, nil
}

var _ Store = (*FileStore)(nil)

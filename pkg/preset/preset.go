package preset

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/observability"
	"github.com/matzehuels/carousel/pkg/pipeline"
)

// Preset is a named layout request.
type Preset struct {
	ID          string           `json:"id" bson:"_id"`
	Name        string           `json:"name" bson:"name"`
	Description string           `json:"description,omitempty" bson:"description,omitempty"`
	Options     pipeline.Options `json:"options" bson:"options"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for preset storage backends.
type Store interface {
	// Save inserts or replaces the preset with p.Name and updates p with the
	// stored ID and timestamps.
	Save(ctx context.Context, p *Preset) error

	// Get retrieves a preset by name.
	Get(ctx context.Context, name string) (*Preset, error)

	// List returns all presets ordered by name.
	List(ctx context.Context) ([]*Preset, error)

	// Delete removes a preset by name.
	Delete(ctx context.Context, name string) error

	// Close releases the backend's resources.
	Close() error
}

// New creates an unsaved preset. The options must describe a valid layout
// request; they are stored as given, without defaults applied, so a preset
// follows later changes to the configured defaults.
func New(name, description string, opts pipeline.Options) (*Preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return nil, err
	}
	opts = opts.Clone()
	opts.Logger = nil
	opts.Refresh = false

	check := opts.Clone()
	if err := check.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Preset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Options:     opts,
	}, nil
}

// Open creates the store selected by cfg. Paths must already be resolved
// (see [config.Config.ResolvePaths]).
func Open(ctx context.Context, cfg config.PresetConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "sqlite", "":
		s, err = NewSQLiteStore(cfg.SQLitePath)
	case "file":
		s, err = NewFileStore(cfg.Dir)
	case "mongo":
		s, err = NewMongoStore(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown preset backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Backend == "" {
		cfg.Backend = "sqlite"
	}
	return Instrument(s, cfg.Backend), nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodePresetNotFound, "preset %q not found", name)
}

// clone returns a deep copy of p so stores never share option slices or
// pointers with callers.
func clone(p *Preset) *Preset {
	out := *p
	out.Options = p.Options.Clone()
	return &out
}

// sortByName orders presets for List.
func sortByName(ps []*Preset) {
	slices.SortFunc(ps, func(a, b *Preset) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so each operation is reported to
// observability.Store().OnStoreOp under backend.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Save(ctx context.Context, p *Preset) error {
	start := time.Now()
	err := s.Store.Save(ctx, p)
	s.observe(ctx, "save", start, err)
	return err
}

func (s *instrumented) Get(ctx context.Context, name string) (*Preset, error) {
	start := time.Now()
	p, err := s.Store.Get(ctx, name)
	s.observe(ctx, "get", start, err)
	return p, err
}

func (s *instrumented) List(ctx context.Context) ([]*Preset, error) {
	start := time.Now()
	ps, err := s.Store.List(ctx)
	s.observe(ctx, "list", start, err)
	return ps, err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, name)
	s.observe(ctx, "delete", start, err)
	return err
}

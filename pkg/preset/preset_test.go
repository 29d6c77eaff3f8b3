package preset

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/observability"
	"github.com/matzehuels/carousel/pkg/pipeline"
)

func heroOptions() pipeline.Options {
	return pipeline.Options{Strategy: "hero", Alignment: "center", ItemCount: 4}
}

func explicitOptions() pipeline.Options {
	spacing := 0.0
	return pipeline.Options{
		Items:       []pipeline.Item{{Size: 0, Anchor: true}, {Size: 120}, {Size: 60}, {Size: 0, Anchor: true}},
		ItemSpacing: &spacing,
		Pivot:       &carousel.Pivot{Index: 1, Offset: 16},
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := NewSQLiteStore(filepath.Join(dir, "data", "presets.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	file, err := NewFileStore(filepath.Join(dir, "presets"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	all := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
		"file":   file,
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := New("feed.cards", "explicit cards", explicitOptions())
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if err := s.Save(ctx, p); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
				t.Error("Save() should stamp timestamps")
			}

			got, err := s.Get(ctx, "feed.cards")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.ID != p.ID || got.Description != "explicit cards" {
				t.Errorf("Get() = %+v, want %+v", got, p)
			}
			if len(got.Options.Items) != 4 || got.Options.Pivot == nil || got.Options.Pivot.Offset != 16 {
				t.Errorf("options lost: %+v", got.Options)
			}
			if got.Options.ItemSpacing == nil || *got.Options.ItemSpacing != 0 {
				t.Errorf("explicit zero spacing lost: %v", got.Options.ItemSpacing)
			}
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			first, _ := New("hero", "v1", heroOptions())
			if err := s.Save(ctx, first); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			time.Sleep(2 * time.Millisecond)

			second, _ := New("hero", "v2", pipeline.Options{Strategy: "uncontained", ItemSize: 90})
			if err := s.Save(ctx, second); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if second.ID != first.ID {
				t.Errorf("ID = %q, want kept %q", second.ID, first.ID)
			}
			if !second.CreatedAt.Equal(first.CreatedAt) {
				t.Errorf("CreatedAt = %v, want kept %v", second.CreatedAt, first.CreatedAt)
			}
			if !second.UpdatedAt.After(first.UpdatedAt) {
				t.Errorf("UpdatedAt = %v, want after %v", second.UpdatedAt, first.UpdatedAt)
			}

			got, err := s.Get(ctx, "hero")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.Description != "v2" || got.Options.Strategy != "uncontained" {
				t.Errorf("Get() = %+v, want replaced preset", got)
			}
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if empty == nil || len(empty) != 0 {
				t.Errorf("List() = %v, want empty non-nil slice", empty)
			}

			for _, n := range []string{"zeta", "alpha", "mid"} {
				p, _ := New(n, "", heroOptions())
				if err := s.Save(ctx, p); err != nil {
					t.Fatalf("Save(%s) error: %v", n, err)
				}
			}
			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			var names []string
			for _, p := range list {
				names = append(names, p.Name)
			}
			if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
				t.Errorf("List() names = %v, want sorted", names)
			}

			if err := s.Delete(ctx, "mid"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, err := s.Get(ctx, "mid"); !errors.Is(err, errors.ErrCodePresetNotFound) {
				t.Errorf("Get() after Delete error = %v, want PRESET_NOT_FOUND", err)
			}
			if err := s.Delete(ctx, "mid"); !errors.Is(err, errors.ErrCodePresetNotFound) {
				t.Errorf("second Delete() error = %v, want PRESET_NOT_FOUND", err)
			}
		})
	}
}

func TestStoreRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p := &Preset{Name: "../escape", Options: heroOptions()}
			if err := s.Save(ctx, p); !errors.Is(err, errors.ErrCodeInvalidPreset) {
				t.Errorf("Save() error = %v, want INVALID_PRESET", err)
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := New("iso", "", explicitOptions())
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	p.Options.Items[1].Size = 1
	got, _ := s.Get(ctx, "iso")
	if got.Options.Items[1].Size != 120 {
		t.Error("store shares the caller's item slice")
	}
	got.Options.Pivot.Offset = 99
	again, _ := s.Get(ctx, "iso")
	if again.Options.Pivot.Offset != 16 {
		t.Error("store shares the returned pivot")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		opts   pipeline.Options
		code   errors.Code
	}{
		{"empty name", "", heroOptions(), errors.ErrCodeInvalidPreset},
		{"slash in name", "a/b", heroOptions(), errors.ErrCodeInvalidPreset},
		{"bad strategy", "ok", pipeline.Options{Strategy: "grid"}, errors.ErrCodeInvalidStrategy},
		{"explicit without items", "ok", pipeline.Options{Strategy: "explicit"}, errors.ErrCodeEmptyLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.preset, "", tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestNewStoresOptionsWithoutDefaults(t *testing.T) {
	p, err := New("bare", "", pipeline.Options{Strategy: "hero"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if p.ID == "" {
		t.Error("New() should assign an ID")
	}
	if p.Options.MainAxisSize != 0 || p.Options.ItemSpacing != nil || p.Options.Logger != nil {
		t.Errorf("defaults leaked into stored options: %+v", p.Options)
	}
}

func TestSQLiteSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	if _, err := s.db.Exec("UPDATE schema_version SET version = ?", schemaVersion+1); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	s.Close()

	if _, err := NewSQLiteStore(path); !stderrors.Is(err, ErrSchemaMismatch) {
		t.Errorf("NewSQLiteStore() error = %v, want ErrSchemaMismatch", err)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "presets.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	p, _ := New("kept", "", heroOptions())
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, "kept"); err != nil {
		t.Errorf("Get() after reopen error: %v", err)
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{sql.ErrNoRows, false},
		{stderrors.New("database is locked"), true},
		{stderrors.New("SQLITE_BUSY: retry"), true},
	}
	for _, tt := range tests {
		if got := isSQLiteBusy(tt.err); got != tt.want {
			t.Errorf("isSQLiteBusy(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRetryOnBusy(t *testing.T) {
	calls := 0
	err := retryOnBusy(context.Background(), func() error {
		calls++
		if calls < 3 {
			return stderrors.New("database is locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryOnBusy() = %v after %d calls, want success after 3", err, calls)
	}

	calls = 0
	permanent := stderrors.New("constraint failed")
	if err := retryOnBusy(context.Background(), func() error { calls++; return permanent }); err != permanent || calls != 1 {
		t.Errorf("retryOnBusy() = %v after %d calls, want immediate failure", err, calls)
	}
}

func TestUpsertDocument(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &Preset{ID: "id-1", Name: "n", Description: "d", Options: heroOptions()}
	doc := upsertDocument(p, now)

	if len(doc) != 2 || doc[0].Key != "$set" || doc[1].Key != "$setOnInsert" {
		t.Fatalf("upsertDocument() keys = %v", doc)
	}
	onInsert := doc[1].Value.(bson.D)
	if onInsert[0].Key != "_id" || onInsert[0].Value != "id-1" {
		t.Errorf("$setOnInsert = %v, want _id first", onInsert)
	}
	for _, e := range doc[0].Value.(bson.D) {
		if e.Key == "_id" || e.Key == "created_at" {
			t.Errorf("$set must not overwrite %s", e.Key)
		}
	}
	if f := nameFilter("n"); f[0].Key != "name" || f[0].Value != "n" {
		t.Errorf("nameFilter() = %v", f)
	}
}

type storeRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *storeRecorder) OnStoreOp(_ context.Context, backend, op string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, backend+":"+op)
}

func TestOpenInstrumentsStore(t *testing.T) {
	rec := &storeRecorder{}
	observability.SetStoreHooks(rec)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s, err := Open(ctx, config.PresetConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()

	p, _ := New("x", "", heroOptions())
	_ = s.Save(ctx, p)
	_, _ = s.Get(ctx, "missing")
	_, _ = s.List(ctx)
	_ = s.Delete(ctx, "x")

	want := []string{"memory:save", "memory:get", "memory:list", "memory:delete"}
	if len(rec.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Errorf("ops[%d] = %q, want %q", i, rec.ops[i], want[i])
		}
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.PresetConfig{Backend: "etcd"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Open() error = %v, want UNSUPPORTED", err)
	}
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "data", "sitekit")
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dir, DBFileName)); err != nil {
			t.Errorf("database file not created: %v", err)
		}
		if s.Path() != filepath.Join(dir, DBFileName) {
			t.Errorf("Path() = %q", s.Path())
		}
	})

	t.Run("missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("Open() error = %v, want ErrDatabaseNotFound", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		ctx := context.Background()
		if err := s.Put(ctx, "theme", "dark"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		_ = s.Close()

		s, err = Open(dir, Options{})
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer s.Close()

		var theme string
		if err := s.Get(ctx, "theme", &theme); err != nil || theme != "dark" {
			t.Errorf("Get() = %q, %v; want dark, nil", theme, err)
		}
	})
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	type prefs struct {
		Sort  string `json:"sort"`
		Limit int    `json:"limit"`
	}
	want := prefs{Sort: "edge", Limit: 5}
	if err := s.Put(ctx, "portfolio.prefs", want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var got prefs
	if err := s.Get(ctx, "portfolio.prefs", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if err := s.Put(ctx, "portfolio.prefs", prefs{Sort: "close"}); err != nil {
		t.Fatalf("overwrite error = %v", err)
	}
	if err := s.Get(ctx, "portfolio.prefs", &got); err != nil || got.Sort != "close" || got.Limit != 0 {
		t.Errorf("after overwrite Get() = %+v, %v", got, err)
	}
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	var v string
	if err := s.Get(ctx, "missing", &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Get(ctx, "", &v); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Get(\"\") error = %v, want ErrEmptyKey", err)
	}
	if err := s.Put(ctx, "", 1); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Put(\"\") error = %v, want ErrEmptyKey", err)
	}
	if err := s.PutRaw(ctx, "bad", json.RawMessage("{")); err == nil {
		t.Error("PutRaw(invalid JSON) error = nil")
	}

	if err := s.Put(ctx, "number", 3); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Get(ctx, "number", &v); err == nil {
		t.Error("Get() into mismatched type error = nil")
	}
}

func TestDeleteAndEntries(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2026, 2, 18, 14, 32, 0, 0, time.UTC) }

	for _, k := range []string{"b", "a", "c"} {
		if err := s.Put(ctx, k, k); err != nil {
			t.Fatalf("Put(%q) error = %v", k, err)
		}
	}
	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete(absent) error = %v", err)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	ts := time.Date(2026, 2, 18, 14, 32, 0, 0, time.UTC)
	want := []Entry{
		{Key: "a", Value: json.RawMessage(`"a"`), UpdatedAt: ts},
		{Key: "c", Value: json.RawMessage(`"c"`), UpdatedAt: ts},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoad_SwallowFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()

		var s *Store
		s.Save(ctx, "k", 1)
		var v int
		if s.Load(ctx, "k", &v) {
			t.Error("Load() on nil store = true")
		}
		if err := s.Close(); err != nil {
			t.Errorf("Close() on nil store = %v", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		var v int
		if s.Load(ctx, "missing", &v) {
			t.Error("Load(missing) = true")
		}
	})

	t.Run("undecodable value", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		s.Save(ctx, "k", "text")
		var v int
		if s.Load(ctx, "k", &v) {
			t.Error("Load() into mismatched type = true")
		}
	})

	t.Run("unencodable value", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		s.Save(ctx, "k", func() {})
		var v any
		if s.Load(ctx, "k", &v) {
			t.Error("Load() of unsaved key = true")
		}
	})

	t.Run("closed database", func(t *testing.T) {
		t.Parallel()

		s, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		_ = s.Close()

		s.Save(ctx, "k", 1)
		var v int
		if s.Load(ctx, "k", &v) {
			t.Error("Load() on closed store = true")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		s.Save(ctx, "k", []int{1, 2})
		var v []int
		if !s.Load(ctx, "k", &v) || len(v) != 2 {
			t.Errorf("Load() = %v", v)
		}
	})
}

func TestHints(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	if HintKey("t2_kbd") != "hint.seen.t2_kbd" {
		t.Errorf("HintKey() = %q", HintKey("t2_kbd"))
	}
	if s.HintSeen(ctx, "t2_kbd") {
		t.Error("HintSeen() before showing = true")
	}
	if !s.ShowOnce(ctx, "t2_kbd") {
		t.Error("first ShowOnce() = false")
	}
	if s.ShowOnce(ctx, "t2_kbd") {
		t.Error("second ShowOnce() = true")
	}
	if !s.HintSeen(ctx, "t2_kbd") {
		t.Error("HintSeen() after showing = false")
	}

	var nilStore *Store
	if !nilStore.ShowOnce(ctx, "t2_kbd") || !nilStore.ShowOnce(ctx, "t2_kbd") {
		t.Error("ShowOnce() without a store should always show")
	}
}

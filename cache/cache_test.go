package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFingerprint(t *testing.T) {
	type input struct {
		A string
		B []float64
	}
	k1, err := Fingerprint("history", input{"x", []float64{1, 2}}, "1M")
	if err != nil {
		t.Fatalf("Fingerprint() unexpected error: %v", err)
	}
	k2, _ := Fingerprint("history", input{"x", []float64{1, 2}}, "1M")
	k3, _ := Fingerprint("history", input{"x", []float64{1, 2.5}}, "1M")
	k4, _ := Fingerprint("analysis", input{"x", []float64{1, 2}}, "1M")
	if k1 != k2 {
		t.Errorf("Fingerprint() is not stable: %s != %s", k1, k2)
	}
	if k1 == k3 || k1 == k4 {
		t.Errorf("Fingerprint() collides for different inputs: %s %s %s", k1, k3, k4)
	}
	if _, err := Fingerprint("bad", func() {}); err == nil {
		t.Errorf("Fingerprint() expected an error for a non encodable part")
	}
}

// testStore checks the Store contract.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Set() overwrite unexpected error: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, want %q", got, "v2")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	testStore(t, m)
	if got, want := m.Len(), 1; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() unexpected error: %v", err)
	}
	testStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	// Entries survive a reopen.
	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen unexpected error: %v", err)
	}
	defer s.Close()
	if got, err := s.Get(context.Background(), "k"); err != nil || string(got) != "v2" {
		t.Errorf("Get() after reopen = %q, %v, want v2", got, err)
	}

	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	n, err := s.Prune(context.Background(), 24*time.Hour)
	if err != nil || n != 1 {
		t.Errorf("Prune() = %d, %v, want 1", n, err)
	}
}

func TestTiered(t *testing.T) {
	ctx := context.Background()
	front, back := NewMemory(0), NewMemory(0)
	tiered := Tiered{front, back}
	testStore(t, tiered)

	if err := back.Set(ctx, "only-back", []byte("x")); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if _, err := tiered.Get(ctx, "only-back"); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got, err := front.Get(ctx, "only-back"); err != nil || string(got) != "x" {
		t.Errorf("front.Get() = %q, %v, want the value copied from the back store", got, err)
	}
}

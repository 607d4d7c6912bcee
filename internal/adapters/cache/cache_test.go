package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap/zaptest"
)

// exerciseRepository runs the behaviour every backend must share. setNow
// moves the backend clock.
func exerciseRepository(t *testing.T, repo Repository, setNow func(time.Time)) {
	t.Helper()
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	setNow(base)

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entry := &core.CacheEntry{
		Key:       "k1",
		Label:     core.LabelSpam,
		RawLabel:  1,
		LastSeen:  base,
		ExpiresAt: base.Add(time.Hour),
	}
	if err := repo.Set(ctx, entry); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := repo.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Label != core.LabelSpam || got.RawLabel != 1 || !got.ExpiresAt.Equal(entry.ExpiresAt) {
		t.Errorf("unexpected entry %+v", got)
	}

	entry.Label = core.LabelNotSpam
	entry.RawLabel = 0
	if err := repo.Set(ctx, entry); err != nil {
		t.Fatalf("Set overwrite returned error: %v", err)
	}
	got, err = repo.Get(ctx, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Label != core.LabelNotSpam {
		t.Errorf("expected overwritten label, got %q", got.Label)
	}

	stale := &core.CacheEntry{
		Key:       "k2",
		Label:     core.LabelSpam,
		RawLabel:  1,
		LastSeen:  base,
		ExpiresAt: base.Add(time.Minute),
	}
	if err := repo.Set(ctx, stale); err != nil {
		t.Fatal(err)
	}

	// an entry is live up to and including its expiry instant
	boundary := &core.CacheEntry{
		Key:       "k3",
		Label:     core.LabelSpam,
		RawLabel:  1,
		LastSeen:  base,
		ExpiresAt: base.Add(10 * time.Minute),
	}
	if err := repo.Set(ctx, boundary); err != nil {
		t.Fatal(err)
	}

	setNow(base.Add(10 * time.Minute))
	if _, err := repo.Get(ctx, "k3"); err != nil {
		t.Errorf("expected entry live at its expiry instant, got %v", err)
	}
	if err := repo.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := repo.Get(ctx, "k3"); err != nil {
		t.Errorf("expected Cleanup to keep entry at its expiry instant, got %v", err)
	}
	if _, err := repo.Get(ctx, "k2"); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}

	if err := repo.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := repo.Get(ctx, "k2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired entry removed, got %v", err)
	}
	if _, err := repo.Get(ctx, "k1"); err != nil {
		t.Errorf("expected live entry kept, got %v", err)
	}

	setNow(base.Add(10*time.Minute + time.Second))
	if _, err := repo.Get(ctx, "k3"); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired after expiry instant, got %v", err)
	}
	if err := repo.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := repo.Get(ctx, "k3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected entry removed after expiry instant, got %v", err)
	}

	if err := repo.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(zaptest.NewLogger(t), time.Hour)
	defer c.Stop()

	exerciseRepository(t, c, func(now time.Time) {
		c.now = func() time.Time { return now }
	})
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestMemoryCache_StopTwice(t *testing.T) {
	c := NewMemoryCache(zaptest.NewLogger(t), 0)
	c.Stop()
	c.Stop()
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := NewMemoryCache(zaptest.NewLogger(t), 0)
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, &core.CacheEntry{Key: "k", Label: core.LabelSpam, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	got.Label = core.LabelNotSpam

	again, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if again.Label != core.LabelSpam {
		t.Error("mutating a returned entry changed the cache")
	}
}

func TestBoltCache(t *testing.T) {
	c, err := NewBoltCache(filepath.Join(t.TempDir(), "cache.db"), zaptest.NewLogger(t), time.Hour)
	if err != nil {
		t.Fatalf("NewBoltCache returned error: %v", err)
	}
	defer c.Stop()

	exerciseRepository(t, c, func(now time.Time) {
		c.now = func() time.Time { return now }
	})
}

func TestSQLiteCache(t *testing.T) {
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zaptest.NewLogger(t), time.Hour)
	if err != nil {
		// go-sqlite3 needs cgo
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer c.Stop()

	exerciseRepository(t, c, func(now time.Time) {
		c.now = func() time.Time { return now }
	})
}

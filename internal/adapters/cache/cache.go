package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a cache entry is not found
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired is returned when a cache entry has expired
	ErrExpired = errors.New("cache entry expired")
)

// Repository is a verdict cache with a background cleanup task
type Repository interface {
	core.CacheRepository

	// Stop stops the cleanup task and releases the backing store
	Stop()
}

// janitor runs Cleanup on a fixed interval until stopped
type janitor struct {
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func startJanitor(repo core.CacheRepository, freq time.Duration, logger *zap.Logger) *janitor {
	j := &janitor{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	if freq <= 0 {
		close(j.done)
		return j
	}

	go func() {
		defer close(j.done)
		ticker := time.NewTicker(freq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := repo.Cleanup(context.Background()); err != nil {
					logger.Error("Failed to clean up cache", zap.Error(err))
				}
			case <-j.stopCh:
				return
			}
		}
	}()
	return j
}

// stop signals the cleanup goroutine and waits for it to exit. It is safe
// to call more than once.
func (j *janitor) stop() {
	j.stopOnce.Do(func() {
		close(j.stopCh)
	})
	<-j.done
}

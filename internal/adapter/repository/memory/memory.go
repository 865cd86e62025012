// Package memory implements the link repository on top of process memory.
// Nothing is persisted across restarts.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vadimbarashkov/shorturls/internal/entity"
)

// record guards the click list of a single link. Every other field of link is
// immutable after Save.
type record struct {
	mu   sync.Mutex
	link entity.Link
}

func (rec *record) snapshot() *entity.Link {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	link := rec.link
	link.Clicks = make([]entity.Click, len(rec.link.Clicks))
	copy(link.Clicks, rec.link.Clicks)

	return &link
}

// LinkRepository stores links keyed by short code. Lookups share a read lock,
// so they never block each other; click appends lock only the affected link.
type LinkRepository struct {
	mu    sync.RWMutex
	links map[string]*record
}

// NewLinkRepository returns an empty repository.
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{links: make(map[string]*record)}
}

// Save inserts link unless its short code is already taken.
func (r *LinkRepository) Save(_ context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Save"

	rec := &record{link: *link}
	rec.link.Clicks = nil

	r.mu.Lock()
	if _, ok := r.links[link.ShortCode]; ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}
	r.links[link.ShortCode] = rec
	r.mu.Unlock()

	return rec.snapshot(), nil
}

// RetrieveByShortCode returns a copy of the link, expired or not.
func (r *LinkRepository) RetrieveByShortCode(_ context.Context, shortCode string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.RetrieveByShortCode"

	rec, ok := r.lookup(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return rec.snapshot(), nil
}

// AppendClick records click at the end of the link's click list.
func (r *LinkRepository) AppendClick(_ context.Context, shortCode string, click entity.Click) error {
	const op = "adapter.repository.memory.LinkRepository.AppendClick"

	rec, ok := r.lookup(shortCode)
	if !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	rec.mu.Lock()
	rec.link.Clicks = append(rec.link.Clicks, click)
	rec.mu.Unlock()

	return nil
}

// RemoveExpired deletes every link that expired before the cutoff and
// reports how many were removed.
func (r *LinkRepository) RemoveExpired(_ context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int
	for code, rec := range r.links {
		if rec.link.ExpiresAt.Before(before) {
			delete(r.links, code)
			removed++
		}
	}

	return removed, nil
}

// Len returns the number of stored links.
func (r *LinkRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.links)
}

func (r *LinkRepository) lookup(shortCode string) (*record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.links[shortCode]
	return rec, ok
}

// RunSweeper removes links that have been expired for longer than retention,
// once per interval, until ctx is done. A non-positive interval disables it.
func (r *LinkRepository) RunSweeper(ctx context.Context, logger *slog.Logger, interval, retention time.Duration) error {
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed, err := r.RemoveExpired(ctx, now.Add(-retention))
			if err != nil {
				logger.ErrorContext(ctx, "failed to remove expired links",
					slog.String("package", "cron_job"),
					slog.Any("err", err),
				)
				continue
			}
			if removed > 0 {
				logger.InfoContext(ctx, "removed expired links",
					slog.String("package", "cron_job"),
					slog.Int("removed", removed),
				)
			}
		}
	}
}

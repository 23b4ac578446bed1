// Package services holds the bookstore's behaviour that is independent of
// HTTP: view history capping, promotion fanout and the scheduled jobs.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
)

// ViewHistoryLimit is the number of recently viewed books kept per user
const ViewHistoryLimit = 5

// ViewHistoryTx is the view storage available inside a per-user transaction
type ViewHistoryTx interface {
	// FindView returns the user's view of book, or nil when there is none
	FindView(userID, bookID uint) (*models.BookView, error)
	TouchView(view *models.BookView, at time.Time) error
	CountViews(userID uint) (int64, error)
	// OldestViews returns up to n views of the user ordered by viewed_at ascending
	OldestViews(userID uint, n int) ([]models.BookView, error)
	DeleteViews(ids []uint) error
	CreateView(view *models.BookView) error
}

// ViewHistoryStore persists book views
type ViewHistoryStore interface {
	// WithUserTx runs fn in a transaction that excludes concurrent writers for userID
	WithUserTx(ctx context.Context, userID uint, fn func(tx ViewHistoryTx) error) error
	// RecentViews lists the user's views newest first with books loaded
	RecentViews(ctx context.Context, userID uint) ([]models.BookView, error)
}

// ViewTracker records book views and keeps each user's history capped
type ViewTracker struct {
	store ViewHistoryStore
	now   func() time.Time
	limit int
	locks *keyedMutex
}

// ViewTrackerOption customises a ViewTracker
type ViewTrackerOption func(*ViewTracker)

// WithClock sets the time source used by Record
func WithClock(now func() time.Time) ViewTrackerOption {
	return func(t *ViewTracker) { t.now = now }
}

// NewViewTracker creates a tracker over store
func NewViewTracker(store ViewHistoryStore, opts ...ViewTrackerOption) *ViewTracker {
	t := &ViewTracker{
		store: store,
		now:   time.Now,
		limit: ViewHistoryLimit,
		locks: newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record stores a view of bookID by userID stamped with the tracker's clock
func (t *ViewTracker) Record(ctx context.Context, userID, bookID uint) error {
	return t.RecordView(ctx, userID, bookID, t.now())
}

// RecordView stores a view of bookID by userID at the given time.
//
// A repeat view of the same book moves its timestamp forward, never back.
// A new view is inserted and the history is then trimmed by viewed_at to
// the ViewHistoryLimit most recent entries, so a view older than a full
// history is dropped again. Storage errors are returned to the caller.
func (t *ViewTracker) RecordView(ctx context.Context, userID, bookID uint, at time.Time) error {
	unlock := t.locks.Lock(userID)
	defer unlock()
	return t.recordView(ctx, userID, bookID, at)
}

// recordView is RecordView without the per-user lock
func (t *ViewTracker) recordView(ctx context.Context, userID, bookID uint, at time.Time) error {
	var (
		refreshed bool
		evicted   int
	)
	err := t.store.WithUserTx(ctx, userID, func(tx ViewHistoryTx) error {
		existing, err := tx.FindView(userID, bookID)
		if err != nil {
			return fmt.Errorf("find view: %w", err)
		}
		if existing != nil {
			refreshed = true
			if !at.After(existing.ViewedAt) {
				return nil
			}
			return tx.TouchView(existing, at)
		}

		if err := tx.CreateView(&models.BookView{UserID: userID, BookID: bookID, ViewedAt: at}); err != nil {
			return err
		}

		count, err := tx.CountViews(userID)
		if err != nil {
			return fmt.Errorf("count views: %w", err)
		}
		if overflow := int(count) - t.limit; overflow > 0 {
			oldest, err := tx.OldestViews(userID, overflow)
			if err != nil {
				return fmt.Errorf("load oldest views: %w", err)
			}
			ids := make([]uint, 0, len(oldest))
			for _, v := range oldest {
				ids = append(ids, v.ID)
			}
			if err := tx.DeleteViews(ids); err != nil {
				return fmt.Errorf("evict views: %w", err)
			}
			evicted = len(ids)
		}
		return nil
	})
	if err != nil {
		viewsRecorded.WithLabelValues("error").Inc()
		return fmt.Errorf("record view of book %d by user %d: %w", bookID, userID, err)
	}

	if refreshed {
		viewsRecorded.WithLabelValues("refreshed").Inc()
		utils.LogDebug("Refreshed view of book %d by user %d", bookID, userID)
		return nil
	}
	viewsRecorded.WithLabelValues("inserted").Inc()
	if evicted > 0 {
		viewsEvicted.Add(float64(evicted))
		utils.LogDebug("Evicted %d old views for user %d", evicted, userID)
	}
	return nil
}

// History returns the user's retained views, most recent first
func (t *ViewTracker) History(ctx context.Context, userID uint) ([]models.BookView, error) {
	views, err := t.store.RecentViews(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load view history for user %d: %w", userID, err)
	}
	return views, nil
}

// keyedMutex serialises work per user id; entries are dropped once unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint]*refMutex)}
}

func (k *keyedMutex) Lock(key uint) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

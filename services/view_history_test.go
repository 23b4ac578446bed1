package services

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryViewStore is a ViewHistoryStore kept in memory. A transaction reads
// a snapshot of the user's views without holding the store lock, and its
// inserts, updates and deletes are applied to the current state on commit,
// so transactions that are not serialised by the caller interleave.
type memoryViewStore struct {
	mu      sync.Mutex
	nextID  uint
	views   map[uint][]models.BookView
	failOn  string
	maxSeen int
	// afterSnapshot runs once a transaction has read its snapshot
	afterSnapshot func()
}

func newMemoryViewStore() *memoryViewStore {
	return &memoryViewStore{views: make(map[uint][]models.BookView)}
}

func (s *memoryViewStore) WithUserTx(ctx context.Context, userID uint, fn func(tx ViewHistoryTx) error) error {
	s.mu.Lock()
	tx := &memoryViewTx{
		store:   s,
		views:   append([]models.BookView(nil), s.views[userID]...),
		touched: make(map[uint]time.Time),
		deleted: make(map[uint]bool),
	}
	s.mu.Unlock()

	if s.afterSnapshot != nil {
		s.afterSnapshot()
	}
	runtime.Gosched()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.views[userID][:0:0]
	for _, v := range s.views[userID] {
		if tx.deleted[v.ID] {
			continue
		}
		if at, ok := tx.touched[v.ID]; ok {
			v.ViewedAt = at
		}
		kept = append(kept, v)
	}
	for _, v := range tx.created {
		if !tx.deleted[v.ID] {
			kept = append(kept, v)
		}
	}
	s.views[userID] = kept
	if len(kept) > s.maxSeen {
		s.maxSeen = len(kept)
	}
	return nil
}

func (s *memoryViewStore) RecentViews(ctx context.Context, userID uint) ([]models.BookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := append([]models.BookView(nil), s.views[userID]...)
	sort.SliceStable(views, func(i, j int) bool { return views[i].ViewedAt.After(views[j].ViewedAt) })
	return views, nil
}

func (s *memoryViewStore) bookIDs(userID uint) []uint {
	views, _ := s.RecentViews(context.Background(), userID)
	ids := make([]uint, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.BookID)
	}
	return ids
}

func (s *memoryViewStore) count(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views[userID])
}

// memoryViewTx works on its snapshot and records the changes to commit
type memoryViewTx struct {
	store   *memoryViewStore
	views   []models.BookView
	created []models.BookView
	touched map[uint]time.Time
	deleted map[uint]bool
}

func (tx *memoryViewTx) fail(op string) error {
	if tx.store.failOn == op {
		return errors.New("storage unavailable")
	}
	return nil
}

func (tx *memoryViewTx) FindView(userID, bookID uint) (*models.BookView, error) {
	if err := tx.fail("find"); err != nil {
		return nil, err
	}
	for i := range tx.views {
		if tx.views[i].BookID == bookID {
			v := tx.views[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (tx *memoryViewTx) TouchView(view *models.BookView, at time.Time) error {
	for i := range tx.views {
		if tx.views[i].ID == view.ID {
			tx.views[i].ViewedAt = at
		}
	}
	tx.touched[view.ID] = at
	view.ViewedAt = at
	return nil
}

func (tx *memoryViewTx) CountViews(userID uint) (int64, error) {
	return int64(len(tx.views)), nil
}

func (tx *memoryViewTx) OldestViews(userID uint, n int) ([]models.BookView, error) {
	views := append([]models.BookView(nil), tx.views...)
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].ViewedAt.Equal(views[j].ViewedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].ViewedAt.Before(views[j].ViewedAt)
	})
	if n < len(views) {
		views = views[:n]
	}
	return views, nil
}

func (tx *memoryViewTx) DeleteViews(ids []uint) error {
	if err := tx.fail("delete"); err != nil {
		return err
	}
	for _, id := range ids {
		tx.deleted[id] = true
	}
	kept := tx.views[:0:0]
	for _, v := range tx.views {
		if !tx.deleted[v.ID] {
			kept = append(kept, v)
		}
	}
	tx.views = kept
	return nil
}

func (tx *memoryViewTx) CreateView(view *models.BookView) error {
	if err := tx.fail("create"); err != nil {
		return err
	}
	tx.store.mu.Lock()
	tx.store.nextID++
	view.ID = tx.store.nextID
	tx.store.mu.Unlock()

	tx.views = append(tx.views, *view)
	tx.created = append(tx.created, *view)
	return nil
}

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestRecordViewKeepsFiveMostRecent(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 12; book++ {
		require.NoError(t, tracker.RecordView(ctx, 7, book, baseTime.Add(time.Duration(book)*time.Minute)))

		want := []uint{}
		for b := book; b >= 1 && len(want) < ViewHistoryLimit; b-- {
			want = append(want, b)
		}
		assert.Equal(t, want, store.bookIDs(7), "after viewing book %d", book)
	}
}

func TestRecordViewSixthEvictsOldest(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 5; book++ {
		require.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(book)*time.Minute)))
	}
	require.NoError(t, tracker.RecordView(ctx, 1, 6, baseTime.Add(time.Hour)))

	ids := store.bookIDs(1)
	assert.Len(t, ids, ViewHistoryLimit)
	assert.NotContains(t, ids, uint(1))
	assert.Contains(t, ids, uint(6))
}

func TestRecordViewRepeatRefreshesWithoutEviction(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 5; book++ {
		require.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(book)*time.Minute)))
	}
	require.NoError(t, tracker.RecordView(ctx, 1, 2, baseTime.Add(time.Hour)))

	assert.Equal(t, []uint{2, 5, 4, 3, 1}, store.bookIDs(1))
}

func TestRecordViewUsersAreIndependent(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 6; book++ {
		require.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(book)*time.Minute)))
	}
	require.NoError(t, tracker.RecordView(ctx, 2, 1, baseTime))

	assert.Len(t, store.bookIDs(1), ViewHistoryLimit)
	assert.Equal(t, []uint{1}, store.bookIDs(2))
}

func TestRecordViewUsesClock(t *testing.T) {
	store := newMemoryViewStore()
	now := baseTime.Add(42 * time.Minute)
	tracker := NewViewTracker(store, WithClock(func() time.Time { return now }))

	require.NoError(t, tracker.Record(context.Background(), 3, 9))

	views, err := tracker.History(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].ViewedAt.Equal(now))
}

func TestRecordViewStorageErrorRollsBack(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 5; book++ {
		require.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(book)*time.Minute)))
	}

	store.failOn = "create"
	err := tracker.RecordView(ctx, 1, 6, baseTime.Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
	assert.Equal(t, []uint{5, 4, 3, 2, 1}, store.bookIDs(1))
}

func TestRecordViewOlderThanFullHistoryIsDropped(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 5; book++ {
		require.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(book)*time.Hour)))
	}
	require.NoError(t, tracker.RecordView(ctx, 1, 99, baseTime))

	assert.Equal(t, []uint{5, 4, 3, 2, 1}, store.bookIDs(1))
}

func TestRecordViewOutOfOrderKeepsMostRecent(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	for book := uint(1); book <= 5; book++ {
		require.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(book)*time.Hour)))
	}
	require.NoError(t, tracker.RecordView(ctx, 1, 6, baseTime.Add(150*time.Minute)))

	assert.Equal(t, []uint{5, 4, 3, 6, 2}, store.bookIDs(1))
}

func TestRecordViewRepeatNeverMovesBack(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	ctx := context.Background()

	require.NoError(t, tracker.RecordView(ctx, 1, 1, baseTime.Add(time.Hour)))
	require.NoError(t, tracker.RecordView(ctx, 1, 2, baseTime.Add(2*time.Hour)))
	require.NoError(t, tracker.RecordView(ctx, 1, 2, baseTime))

	views, err := tracker.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint(2), views[0].BookID)
	assert.True(t, views[0].ViewedAt.Equal(baseTime.Add(2*time.Hour)))
}

func TestRecordViewConcurrentCallsNeverExceedLimit(t *testing.T) {
	store := newMemoryViewStore()
	store.afterSnapshot = func() { time.Sleep(time.Millisecond) }
	tracker := NewViewTracker(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			book := uint(i%20 + 1)
			assert.NoError(t, tracker.RecordView(ctx, 1, book, baseTime.Add(time.Duration(i)*time.Second)))
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.maxSeen, ViewHistoryLimit)
	assert.Len(t, store.bookIDs(1), ViewHistoryLimit)
}

// fillFour leaves user 1 with four views, one below the limit
func fillFour(t *testing.T, tracker *ViewTracker) {
	t.Helper()
	for book := uint(1); book <= 4; book++ {
		require.NoError(t, tracker.RecordView(context.Background(), 1, book, baseTime.Add(time.Duration(book)*time.Minute)))
	}
}

func TestRecordViewLockSerialisesSimultaneousViews(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	fillFour(t, tracker)
	store.afterSnapshot = func() { time.Sleep(5 * time.Millisecond) }

	var wg sync.WaitGroup
	for _, book := range []uint{10, 11} {
		wg.Add(1)
		go func(book uint) {
			defer wg.Done()
			assert.NoError(t, tracker.RecordView(context.Background(), 1, book, baseTime.Add(time.Hour+time.Duration(book)*time.Second)))
		}(book)
	}
	wg.Wait()

	assert.Equal(t, ViewHistoryLimit, store.count(1))
	assert.LessOrEqual(t, store.maxSeen, ViewHistoryLimit)
}

func TestRecordViewWithoutLockOverflows(t *testing.T) {
	store := newMemoryViewStore()
	tracker := NewViewTracker(store)
	fillFour(t, tracker)

	// both transactions read the four-view snapshot before either commits
	var arrived sync.WaitGroup
	arrived.Add(2)
	store.afterSnapshot = func() {
		arrived.Done()
		arrived.Wait()
	}

	var wg sync.WaitGroup
	for _, book := range []uint{10, 11} {
		wg.Add(1)
		go func(book uint) {
			defer wg.Done()
			assert.NoError(t, tracker.recordView(context.Background(), 1, book, baseTime.Add(time.Hour+time.Duration(book)*time.Second)))
		}(book)
	}
	wg.Wait()

	assert.Equal(t, ViewHistoryLimit+1, store.count(1))
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock(1)
	unlock2 := make(chan func())
	go func() { unlock2 <- k.Lock(2) }()
	(<-unlock2)()
	unlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}

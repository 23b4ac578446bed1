package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormViewStoreCapsHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	reader := testutil.CreateTestUser(t, db, "reader", true)

	var books []*models.Book
	for _, title := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"} {
		books = append(books, testutil.CreateTestBook(t, db, title, "10.00"))
	}

	base := time.Now().Truncate(time.Second)
	tracker := NewViewTracker(NewGormViewStore(db))
	for i, b := range books {
		require.NoError(t, tracker.RecordView(ctx, reader.ID, b.ID, base.Add(time.Duration(i)*time.Minute)))
	}

	var count int64
	require.NoError(t, db.Model(&models.BookView{}).Where("user_id = ?", reader.ID).Count(&count).Error)
	assert.EqualValues(t, ViewHistoryLimit, count)

	history, err := tracker.History(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, history, ViewHistoryLimit)
	assert.Equal(t, books[5].ID, history[0].BookID)
	require.NotNil(t, history[0].Book)
	assert.Equal(t, "Foxtrot", history[0].Book.Title)
	for _, v := range history {
		assert.NotEqual(t, books[0].ID, v.BookID, "oldest view must be evicted")
	}
}

func TestGormViewStoreRepeatViewRefreshes(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	reader := testutil.CreateTestUser(t, db, "reader", true)
	first := testutil.CreateTestBook(t, db, "Alpha", "10.00")
	second := testutil.CreateTestBook(t, db, "Bravo", "12.00")

	base := time.Now().Truncate(time.Second)
	tracker := NewViewTracker(NewGormViewStore(db))
	require.NoError(t, tracker.RecordView(ctx, reader.ID, first.ID, base))
	require.NoError(t, tracker.RecordView(ctx, reader.ID, second.ID, base.Add(time.Minute)))
	require.NoError(t, tracker.RecordView(ctx, reader.ID, first.ID, base.Add(2*time.Minute)))

	history, err := tracker.History(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].BookID)
	assert.Equal(t, second.ID, history[1].BookID)
}

func TestGormViewStoreOutOfOrderViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	reader := testutil.CreateTestUser(t, db, "reader", true)

	var books []*models.Book
	for _, title := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		books = append(books, testutil.CreateTestBook(t, db, title, "10.00"))
	}
	late := testutil.CreateTestBook(t, db, "Late", "10.00")

	base := time.Now().Truncate(time.Second)
	tracker := NewViewTracker(NewGormViewStore(db))
	for i, b := range books {
		require.NoError(t, tracker.RecordView(ctx, reader.ID, b.ID, base.Add(time.Duration(i+1)*time.Hour)))
	}
	require.NoError(t, tracker.RecordView(ctx, reader.ID, late.ID, base))
	require.NoError(t, tracker.RecordView(ctx, reader.ID, books[4].ID, base.Add(30*time.Minute)))

	history, err := tracker.History(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, history, ViewHistoryLimit)
	for i, v := range history {
		assert.Equal(t, books[4-i].ID, v.BookID)
	}
	assert.True(t, history[0].ViewedAt.Equal(base.Add(5*time.Hour)))
}

func TestGormViewStoreConcurrentViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	reader := testutil.CreateTestUser(t, db, "reader", true)

	var books []*models.Book
	for _, title := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel"} {
		books = append(books, testutil.CreateTestBook(t, db, title, "10.00"))
	}

	tracker := NewViewTracker(NewGormViewStore(db))
	var wg sync.WaitGroup
	for _, b := range books {
		wg.Add(1)
		go func(bookID uint) {
			defer wg.Done()
			assert.NoError(t, tracker.Record(ctx, reader.ID, bookID))
		}(b.ID)
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.BookView{}).Where("user_id = ?", reader.ID).Count(&count).Error)
	assert.EqualValues(t, ViewHistoryLimit, count)
}

func TestGormAudienceStoreVerifiedViewers(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	poetry := testutil.CreateTestCategory(t, db, "Poetry")
	fiction := testutil.CreateTestCategory(t, db, "Fiction")
	poems := testutil.CreateTestBook(t, db, "Poems", "9.50", poetry)
	sonnets := testutil.CreateTestBook(t, db, "Sonnets", "11.00", poetry)
	novel := testutil.CreateTestBook(t, db, "Novel", "15.00", fiction)

	ana := testutil.CreateTestUser(t, db, "ana", true)
	ben := testutil.CreateTestUser(t, db, "ben", false)
	cai := testutil.CreateTestUser(t, db, "cai", true)

	now := time.Now().Truncate(time.Second)
	testutil.CreateTestView(t, db, ana.ID, poems.ID, now)
	testutil.CreateTestView(t, db, ana.ID, sonnets.ID, now)
	testutil.CreateTestView(t, db, ben.ID, poems.ID, now)
	testutil.CreateTestView(t, db, cai.ID, novel.ID, now)

	store := NewGormAudienceStore(db)

	viewers, err := store.VerifiedViewers(ctx, poetry.ID)
	require.NoError(t, err)
	require.Len(t, viewers, 1, "unconfirmed users are excluded and viewers are distinct")
	assert.Equal(t, ana.ID, viewers[0].ID)

	viewers, err = store.VerifiedViewers(ctx, fiction.ID)
	require.NoError(t, err)
	require.Len(t, viewers, 1)
	assert.Equal(t, cai.ID, viewers[0].ID)
}

func TestPromotionFanoutEndToEnd(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	poetry := testutil.CreateTestCategory(t, db, "Poetry")
	fiction := testutil.CreateTestCategory(t, db, "Fiction")
	science := testutil.CreateTestCategory(t, db, "Science")
	anthology := testutil.CreateTestBook(t, db, "Anthology", "20.00", poetry, fiction)
	physics := testutil.CreateTestBook(t, db, "Physics", "30.00", science)

	ana := testutil.CreateTestUser(t, db, "ana", true)
	ben := testutil.CreateTestUser(t, db, "ben", true)
	now := time.Now().Truncate(time.Second)
	testutil.CreateTestView(t, db, ana.ID, anthology.ID, now)
	testutil.CreateTestView(t, db, ben.ID, physics.ID, now)

	mailer := &testutil.FakeMailer{}
	notifier := NewPromotionNotifier(NewGormAudienceStore(db), mailer, &recordingRenderer{}, nil)

	promo := promotion(*poetry, *fiction, *science)
	sent, err := notifier.NotifyPromotion(ctx, promo)
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{ana.Email, ana.Email}, mailer.Recipients())
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormViewStore keeps book views in the database
type GormViewStore struct {
	db *gorm.DB
}

// NewGormViewStore creates a view store on db
func NewGormViewStore(db *gorm.DB) *GormViewStore {
	return &GormViewStore{db: db}
}

// WithUserTx runs fn in a transaction. On postgres the user's row is locked
// FOR UPDATE first, which serialises history writers across processes.
func (s *GormViewStore) WithUserTx(ctx context.Context, userID uint, fn func(tx ViewHistoryTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var user models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, userID).Error; err != nil {
				return err
			}
		}
		return fn(&gormViewTx{tx: tx})
	})
}

// RecentViews lists the user's views newest first with books loaded
func (s *GormViewStore) RecentViews(ctx context.Context, userID uint) ([]models.BookView, error) {
	var views []models.BookView
	err := s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("viewed_at DESC, id DESC").
		Find(&views).Error
	return views, err
}

type gormViewTx struct {
	tx *gorm.DB
}

func (g *gormViewTx) FindView(userID, bookID uint) (*models.BookView, error) {
	var view models.BookView
	err := g.tx.Where("user_id = ? AND book_id = ?", userID, bookID).Take(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (g *gormViewTx) TouchView(view *models.BookView, at time.Time) error {
	if err := g.tx.Model(view).Update("viewed_at", at).Error; err != nil {
		return err
	}
	view.ViewedAt = at
	return nil
}

func (g *gormViewTx) CountViews(userID uint) (int64, error) {
	var count int64
	err := g.tx.Model(&models.BookView{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (g *gormViewTx) OldestViews(userID uint, n int) ([]models.BookView, error) {
	var views []models.BookView
	err := g.tx.Where("user_id = ?", userID).
		Order("viewed_at ASC, id ASC").
		Limit(n).
		Find(&views).Error
	return views, err
}

func (g *gormViewTx) DeleteViews(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return g.tx.Delete(&models.BookView{}, ids).Error
}

func (g *gormViewTx) CreateView(view *models.BookView) error {
	return g.tx.Create(view).Error
}

// GormAudienceStore resolves promotion audiences from the view history
type GormAudienceStore struct {
	db *gorm.DB
}

// NewGormAudienceStore creates an audience store on db
func NewGormAudienceStore(db *gorm.DB) *GormAudienceStore {
	return &GormAudienceStore{db: db}
}

// VerifiedViewers returns confirmed users who viewed a book of the category
func (s *GormAudienceStore) VerifiedViewers(ctx context.Context, categoryID uint) ([]models.User, error) {
	db := s.db.WithContext(ctx)
	viewers := db.Model(&models.BookView{}).
		Select("DISTINCT book_views.user_id").
		Joins("JOIN book_categories ON book_categories.book_id = book_views.book_id").
		Where("book_categories.category_id = ?", categoryID)

	var users []models.User
	err := db.Where("id IN (?)", viewers).
		Where("email_confirmed = ?", true).
		Order("id").
		Find(&users).Error
	return users, err
}

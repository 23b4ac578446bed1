package models

import "time"

// BookView is one entry of a user's recently viewed books.
// A user has at most one entry per book; the history is capped by the view tracker.
type BookView struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_book_views_user_book;index:idx_book_views_user_time,priority:1" json:"user_id"`
	BookID   uint      `gorm:"not null;uniqueIndex:idx_book_views_user_book" json:"book_id"`
	Book     *Book     `json:"book,omitempty" gorm:"foreignKey:BookID"`
	ViewedAt time.Time `gorm:"not null;index:idx_book_views_user_time,priority:2" json:"viewed_at"`
}

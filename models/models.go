package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reading frequency values accepted on the user profile
const (
	ReadingDaily   = "daily"
	ReadingWeekly  = "weekly"
	ReadingMonthly = "monthly"
	ReadingRarely  = "rarely"
)

// User represents a registered customer or staff member
type User struct {
	gorm.Model
	Username         string     `gorm:"uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `json:"-"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	FavoriteGenre    string     `gorm:"size:100" json:"favorite_genre"`
	BirthDate        *time.Time `json:"birth_date"`
	Phone            string     `gorm:"size:20" json:"phone"`
	Address          string     `json:"address"`
	ReadingFrequency string     `gorm:"size:50;default:weekly" json:"reading_frequency"`
	ConfirmationCode *string    `gorm:"uniqueIndex;size:100" json:"-"`
	EmailConfirmed   bool       `gorm:"default:false;not null" json:"email_confirmed"`
	IsAdmin          bool       `gorm:"default:false" json:"is_admin"`
	IsBlocked        bool       `gorm:"default:false" json:"is_blocked"`
	LastLoginAt      *time.Time `json:"last_login_at"`
}

// Author represents a book author
type Author struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birth_date"`
	Books     []Book     `json:"books,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Publisher represents a publishing house
type Publisher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Address   string    `json:"address"`
	Website   string    `json:"website"`
	Books     []Book    `json:"books,omitempty" gorm:"foreignKey:PublisherID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book represents a book in the catalog
type Book struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"price"`
	PublicationDate *time.Time      `json:"publication_date"`
	CoverImage      string          `json:"cover_image"`
	Stock           int             `gorm:"default:0;not null" json:"stock"`
	AuthorID        uint            `gorm:"not null;index" json:"author_id"`
	Author          Author          `json:"author" gorm:"foreignKey:AuthorID"`
	PublisherID     *uint           `gorm:"index" json:"publisher_id"`
	Publisher       *Publisher      `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Categories      []Category      `json:"categories" gorm:"many2many:book_categories"`
	Reviews         []Review        `json:"reviews,omitempty" gorm:"foreignKey:BookID"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Review represents a book review
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	Book      *Book     `json:"book,omitempty" gorm:"foreignKey:BookID"`
	UserID    *uint     `json:"user_id"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Text      string    `gorm:"not null" json:"text"`
	Rating    int       `gorm:"check:rating >= 1 AND rating <= 5" json:"rating"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

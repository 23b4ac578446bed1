package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is a discount campaign announced to readers of its categories.
// Promotions are not edited after creation.
type Promotion struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"size:100;not null" json:"name"`
	ExpiresAt          time.Time       `gorm:"not null" json:"expires_at"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);default:0;not null" json:"discount_percentage"`
	Description        string          `json:"description"`
	Categories         []Category      `json:"categories" gorm:"many2many:promotion_categories"`
	CreatedAt          time.Time       `json:"created_at"`
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseRecord is one purchase event for one item. Rows are immutable once
// created; several rows may share a purchase_date (same shopping trip).
type PurchaseRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_item_date;index:idx_user_date" json:"user_id"`
	ItemName     string    `gorm:"column:item_name;not null;index;index:idx_user_item_date" json:"item_name"`
	Category     *string   `gorm:"column:category" json:"category,omitempty"`
	Quantity     *float64  `gorm:"column:quantity" json:"quantity,omitempty"`
	Unit         *string   `gorm:"column:unit" json:"unit,omitempty"`
	Price        *float64  `gorm:"column:price" json:"price,omitempty"`
	Currency     string    `gorm:"column:currency;default:BRL" json:"currency"`
	PurchaseDate time.Time `gorm:"column:purchase_date;not null;index;index:idx_user_item_date;index:idx_user_date" json:"purchase_date"`
	Source       string    `gorm:"column:source;not null;default:manual" json:"source"`
	Notes        *string   `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PurchaseRecord) TableName() string { return "purchase_record" }

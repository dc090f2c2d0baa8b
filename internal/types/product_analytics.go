package types

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductAnalytics holds the precomputed repurchase metrics for one
// (user, product) pair. Exactly one row exists per pair; every recompute
// overwrites all derived fields in place.
type ProductAnalytics struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_product,unique" json:"user_id"`
	ProductName string    `gorm:"column:product_name;not null;index;index:idx_user_product,unique" json:"product_name"`

	TotalPurchases    int        `gorm:"column:total_purchases;not null;default:0" json:"total_purchases"`
	FirstPurchaseDate *time.Time `gorm:"column:first_purchase_date" json:"first_purchase_date,omitempty"`
	LastPurchaseDate  *time.Time `gorm:"column:last_purchase_date" json:"last_purchase_date,omitempty"`

	AvgDaysBetweenPurchases *float64 `gorm:"column:avg_days_between_purchases" json:"avg_days_between_purchases,omitempty"`
	DaysSinceLastPurchase   *float64 `gorm:"column:days_since_last_purchase" json:"days_since_last_purchase,omitempty"`
	MinDaysInterval         *float64 `gorm:"column:min_days_interval" json:"min_days_interval,omitempty"`
	MaxDaysInterval         *float64 `gorm:"column:max_days_interval" json:"max_days_interval,omitempty"`

	// 0-100 scale; urgency is open-ended above 100 (overdue by that multiple).
	RepurchaseUrgency     float64 `gorm:"column:repurchase_urgency;not null;default:0" json:"repurchase_urgency"`
	RepurchaseProbability float64 `gorm:"column:repurchase_probability;not null;default:0" json:"repurchase_probability"`

	// Reserved columns; pattern detection beyond the flag is not implemented.
	PurchaseFrequencyPattern datatypes.JSON `gorm:"type:jsonb;column:purchase_frequency_pattern" json:"purchase_frequency_pattern,omitempty"`
	IsSeasonal               bool           `gorm:"column:is_seasonal;not null;default:false" json:"is_seasonal"`

	EstimatedNextPurchaseDate *time.Time `gorm:"column:estimated_next_purchase_date" json:"estimated_next_purchase_date,omitempty"`

	LastAnalyzedAt *time.Time `gorm:"column:last_analyzed_at" json:"last_analyzed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProductAnalytics) TableName() string { return "product_analytics" }

// UrgencyStatus maps the urgency score onto its display tier. Lower bounds
// are inclusive: exactly 100 is OVERDUE, exactly 85 is URGENT, and so on.
func (pa *ProductAnalytics) UrgencyStatus() string {
	switch {
	case pa.RepurchaseUrgency >= 100:
		return "OVERDUE"
	case pa.RepurchaseUrgency >= 85:
		return "URGENT"
	case pa.RepurchaseUrgency >= 70:
		return "SOON"
	case pa.RepurchaseUrgency >= 50:
		return "UPCOMING"
	default:
		return "OPTIONAL"
	}
}

// PredictionMessage renders the human-readable one-liner shown next to a
// prediction. Falls back to a "not enough data" notice when the item has no
// interval baseline yet.
func (pa *ProductAnalytics) PredictionMessage() string {
	if pa.AvgDaysBetweenPurchases != nil && pa.DaysSinceLastPurchase != nil {
		return fmt.Sprintf(
			"You usually buy %s every %.0f days. Last purchase: %.0f days ago.",
			pa.ProductName,
			math.Round(*pa.AvgDaysBetweenPurchases),
			math.Round(*pa.DaysSinceLastPurchase),
		)
	}
	return fmt.Sprintf("Not enough data for %s predictions yet.", pa.ProductName)
}

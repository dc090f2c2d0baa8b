package types

import "time"

// PurchasePrediction is the ranked-list view of one product's analytics.
type PurchasePrediction struct {
	ProductName   string     `json:"product_name"`
	Urgency       float64    `json:"urgency"`
	Confidence    float64    `json:"confidence"`
	DaysSinceLast int        `json:"days_since_last"`
	AvgInterval   int        `json:"avg_interval"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	LastPurchase  *time.Time `json:"last_purchase,omitempty"`
	EstimatedNext *time.Time `json:"estimated_next,omitempty"`
}

// ShoppingSummary groups predictions into shopping-list buckets. The bucket
// cut points (90/70) are looser than the display tiers on purpose.
type ShoppingSummary struct {
	Urgent   []*PurchasePrediction `json:"urgent"`
	Upcoming []*PurchasePrediction `json:"upcoming"`
	Optional []*PurchasePrediction `json:"optional"`
	Total    int                   `json:"total"`
	Summary  string                `json:"summary"`
}

// ItemPrediction is the detailed single-product view.
type ItemPrediction struct {
	ProductName          string     `json:"product_name"`
	TotalPurchases       int        `json:"total_purchases"`
	LastPurchaseDate     *time.Time `json:"last_purchase_date,omitempty"`
	AvgIntervalDays      *float64   `json:"avg_interval_days,omitempty"`
	DaysSinceLast        *float64   `json:"days_since_last,omitempty"`
	MinInterval          *float64   `json:"min_interval,omitempty"`
	MaxInterval          *float64   `json:"max_interval,omitempty"`
	UrgencyScore         float64    `json:"urgency_score"`
	Confidence           float64    `json:"confidence"`
	IsSeasonal           bool       `json:"is_seasonal"`
	NextPurchaseEstimate *time.Time `json:"next_purchase_estimate,omitempty"`
	Status               string     `json:"status"`
	Recommendation       string     `json:"recommendation"`
}

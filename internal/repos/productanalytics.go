package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

type ProductAnalyticsRepo interface {
	GetByUserAndProduct(ctx context.Context, tx *gorm.DB, userID uuid.UUID, productName string) (*types.ProductAnalytics, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ProductAnalytics) (*types.ProductAnalytics, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, minUrgency float64) ([]*types.ProductAnalytics, error)
}

type productAnalyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) ProductAnalyticsRepo {
	repoLog := baseLog.With("repo", "ProductAnalyticsRepo")
	return &productAnalyticsRepo{db: db, log: repoLog}
}

// GetByUserAndProduct returns (nil, nil) when no analytics row exists yet.
func (r *productAnalyticsRepo) GetByUserAndProduct(ctx context.Context, tx *gorm.DB, userID uuid.UUID, productName string) (*types.ProductAnalytics, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || productName == "" {
		return nil, nil
	}

	var row types.ProductAnalytics
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND product_name = ?", userID, productName).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes the row against the (user_id, product_name) unique pair,
// replacing every derived column on conflict. The conflict target keeps the
// one-row-per-pair invariant even under concurrent recomputes.
func (r *productAnalyticsRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProductAnalytics) (*types.ProductAnalytics, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "product_name"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_purchases", "first_purchase_date", "last_purchase_date",
				"avg_days_between_purchases", "days_since_last_purchase",
				"min_days_interval", "max_days_interval",
				"repurchase_urgency", "repurchase_probability",
				"purchase_frequency_pattern", "is_seasonal",
				"estimated_next_purchase_date", "last_analyzed_at", "updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ListByUser returns the user's analytics at or above minUrgency, most
// urgent first.
func (r *productAnalyticsRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, minUrgency float64) ([]*types.ProductAnalytics, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductAnalytics
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND repurchase_urgency >= ?", userID, minUrgency).
		Order("repurchase_urgency DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

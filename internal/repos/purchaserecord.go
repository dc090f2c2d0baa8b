package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

type PurchaseRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.PurchaseRecord) ([]*types.PurchaseRecord, error)
	GetByUserAndItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemName string) ([]*types.PurchaseRecord, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PurchaseRecord, error)
	CountDistinctPurchaseDates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type purchaseRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRecordRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRecordRepo {
	repoLog := baseLog.With("repo", "PurchaseRecordRepo")
	return &purchaseRecordRepo{db: db, log: repoLog}
}

func (r *purchaseRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.PurchaseRecord) ([]*types.PurchaseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.PurchaseRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByUserAndItem returns the item's full history, oldest first. The
// ascending order is what the analytics engine expects.
func (r *purchaseRecordRepo) GetByUserAndItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemName string) ([]*types.PurchaseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PurchaseRecord
	if userID == uuid.Nil || itemName == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND item_name = ?", userID, itemName).
		Order("purchase_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *purchaseRecordRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PurchaseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PurchaseRecord
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchase_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountDistinctPurchaseDates counts the user's distinct shopping occasions
// across all items; it is the denominator of the repurchase probability.
func (r *purchaseRecordRepo) CountDistinctPurchaseDates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.PurchaseRecord{}).
		Where("user_id = ?", userID).
		Distinct("purchase_date").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/pantrypilot-backend/internal/pkg/errors"
	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/repos"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

// PurchaseInput is one item of a recorded shopping trip.
type PurchaseInput struct {
	ItemName     string     `json:"item_name" binding:"required"`
	Category     *string    `json:"category"`
	Quantity     *float64   `json:"quantity"`
	Unit         *string    `json:"unit"`
	Price        *float64   `json:"price"`
	Currency     string     `json:"currency"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Source       string     `json:"source"`
	Notes        *string    `json:"notes"`
}

// PurchaseService records purchase events and triggers the per-item
// analytics recompute that follows every new event.
type PurchaseService interface {
	RecordPurchases(ctx context.Context, userID uuid.UUID, inputs []PurchaseInput) ([]*types.PurchaseRecord, error)
	GetPurchases(ctx context.Context, userID uuid.UUID, itemName string) ([]*types.PurchaseRecord, error)
}

type purchaseService struct {
	db               *gorm.DB
	log              *logger.Logger
	purchaseRepo     repos.PurchaseRecordRepo
	analyticsService PurchaseAnalyticsService
	now              func() time.Time
	runInTx          func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func NewPurchaseService(db *gorm.DB, log *logger.Logger, purchaseRepo repos.PurchaseRecordRepo, analyticsService PurchaseAnalyticsService) PurchaseService {
	serviceLog := log.With("service", "PurchaseService")
	s := &purchaseService{
		db:               db,
		log:              serviceLog,
		purchaseRepo:     purchaseRepo,
		analyticsService: analyticsService,
		now:              func() time.Time { return time.Now().UTC() },
	}
	s.runInTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return s.db.WithContext(ctx).Transaction(fn)
	}
	return s
}

// RecordPurchases persists the trip's records and recomputes analytics for
// each distinct item before returning. A recompute failure is logged but
// does not undo the recorded events; the next event for the item repairs
// the row.
func (s *purchaseService) RecordPurchases(ctx context.Context, userID uuid.UUID, inputs []PurchaseInput) ([]*types.PurchaseRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", apperrors.ErrInvalidArgument)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one purchase required", apperrors.ErrInvalidArgument)
	}

	records := make([]*types.PurchaseRecord, 0, len(inputs))
	itemNames := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.ItemName == "" {
			return nil, fmt.Errorf("%w: item name required", apperrors.ErrInvalidArgument)
		}
		purchaseDate := s.now()
		if in.PurchaseDate != nil {
			purchaseDate = *in.PurchaseDate
		}
		currency := in.Currency
		if currency == "" {
			currency = "BRL"
		}
		source := in.Source
		if source == "" {
			source = "manual"
		}
		records = append(records, &types.PurchaseRecord{
			ID:           uuid.New(),
			UserID:       userID,
			ItemName:     in.ItemName,
			Category:     in.Category,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
			Price:        in.Price,
			Currency:     currency,
			PurchaseDate: purchaseDate,
			Source:       source,
			Notes:        in.Notes,
		})
		itemNames = append(itemNames, in.ItemName)
	}

	var created []*types.PurchaseRecord
	err := s.runInTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.purchaseRepo.Create(ctx, tx, records)
		return err
	})
	if err != nil {
		s.log.Error("Recording purchases failed", "user_id", userID, "error", err)
		return nil, err
	}

	if err := s.analyticsService.UpdateAnalyticsForItems(ctx, userID, itemNames); err != nil {
		s.log.Warn("Analytics refresh after purchase failed", "user_id", userID, "error", err)
	}

	s.log.Info("Purchases recorded", "user_id", userID, "count", len(created))
	return created, nil
}

func (s *purchaseService) GetPurchases(ctx context.Context, userID uuid.UUID, itemName string) ([]*types.PurchaseRecord, error) {
	if itemName != "" {
		return s.purchaseRepo.GetByUserAndItem(ctx, nil, userID, itemName)
	}
	return s.purchaseRepo.GetByUserID(ctx, nil, userID)
}

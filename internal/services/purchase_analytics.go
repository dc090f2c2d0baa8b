package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/pantrypilot-backend/internal/analytics"
	"github.com/yungbote/pantrypilot-backend/internal/clients/redis"
	apperrors "github.com/yungbote/pantrypilot-backend/internal/pkg/errors"
	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/repos"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

// PurchaseAnalyticsService recomputes and serves ProductAnalytics rows. It
// is the only writer of product_analytics: every purchase event funnels
// through UpdateAnalytics, which replaces the row's derived fields in full.
type PurchaseAnalyticsService interface {
	UpdateAnalytics(ctx context.Context, userID uuid.UUID, itemName string) (*types.ProductAnalytics, error)
	UpdateAnalyticsForItems(ctx context.Context, userID uuid.UUID, itemNames []string) error
	GetUserAnalytics(ctx context.Context, userID uuid.UUID, minUrgency float64) ([]*types.ProductAnalytics, error)
	GetProductAnalytics(ctx context.Context, userID uuid.UUID, itemName string) (*types.ProductAnalytics, error)
}

type purchaseAnalyticsService struct {
	db            *gorm.DB
	log           *logger.Logger
	purchaseRepo  repos.PurchaseRecordRepo
	analyticsRepo repos.ProductAnalyticsRepo
	cache         redis.AnalyticsCache
	now           func() time.Time
	runInTx       func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func NewPurchaseAnalyticsService(db *gorm.DB, log *logger.Logger, purchaseRepo repos.PurchaseRecordRepo, analyticsRepo repos.ProductAnalyticsRepo, cache redis.AnalyticsCache) PurchaseAnalyticsService {
	serviceLog := log.With("service", "PurchaseAnalyticsService")
	s := &purchaseAnalyticsService{
		db:            db,
		log:           serviceLog,
		purchaseRepo:  purchaseRepo,
		analyticsRepo: analyticsRepo,
		cache:         cache,
		now:           func() time.Time { return time.Now().UTC() },
	}
	s.runInTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return s.db.WithContext(ctx).Transaction(fn)
	}
	return s
}

// UpdateAnalytics recomputes the (user, item) analytics row from the full
// purchase history. Everything runs in one transaction, so a failure leaves
// the prior row untouched. Returns (nil, nil) when the item has no purchase
// history: no row is created and any existing row is left as-is.
func (s *purchaseAnalyticsService) UpdateAnalytics(ctx context.Context, userID uuid.UUID, itemName string) (*types.ProductAnalytics, error) {
	if userID == uuid.Nil || itemName == "" {
		return nil, fmt.Errorf("%w: user id and item name required", apperrors.ErrInvalidArgument)
	}
	s.log.Debug("Updating analytics", "user_id", userID, "item", itemName)

	var updated *types.ProductAnalytics
	err := s.runInTx(ctx, func(tx *gorm.DB) error {
		records, err := s.purchaseRepo.GetByUserAndItem(ctx, tx, userID, itemName)
		if err != nil {
			return fmt.Errorf("fetch purchase history: %w", err)
		}
		if len(records) == 0 {
			s.log.Warn("No purchases found, skipping analytics update", "user_id", userID, "item", itemName)
			return nil
		}

		occasions, err := s.purchaseRepo.CountDistinctPurchaseDates(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("count purchase occasions: %w", err)
		}

		now := s.now()
		metrics := analytics.Compute(records, occasions, now)

		row, err := s.analyticsRepo.GetByUserAndProduct(ctx, tx, userID, itemName)
		if err != nil {
			return fmt.Errorf("fetch analytics row: %w", err)
		}
		if row == nil {
			row = &types.ProductAnalytics{
				ID:          uuid.New(),
				UserID:      userID,
				ProductName: itemName,
			}
		}

		metrics.Apply(row)
		row.LastAnalyzedAt = &now
		row.UpdatedAt = now

		updated, err = s.analyticsRepo.Upsert(ctx, tx, row)
		if err != nil {
			return fmt.Errorf("upsert analytics row: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Analytics update failed", "user_id", userID, "item", itemName, "error", err)
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, updated); err != nil {
			s.log.Warn("Analytics cache put failed", "user_id", userID, "item", itemName, "error", err)
		}
	}

	s.log.Info("Analytics updated",
		"user_id", userID,
		"item", itemName,
		"urgency", updated.RepurchaseUrgency,
		"probability", updated.RepurchaseProbability,
	)
	return updated, nil
}

// UpdateAnalyticsForItems recomputes several items of one user. Items are
// distinct keys, so the recomputes run concurrently; per-key serialization
// is handled by the row-level upsert transaction.
func (s *purchaseAnalyticsService) UpdateAnalyticsForItems(ctx context.Context, userID uuid.UUID, itemNames []string) error {
	seen := make(map[string]struct{}, len(itemNames))
	distinct := make([]string, 0, len(itemNames))
	for _, name := range itemNames {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		distinct = append(distinct, name)
	}
	sort.Strings(distinct)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range distinct {
		g.Go(func() error {
			_, err := s.UpdateAnalytics(gctx, userID, name)
			return err
		})
	}
	return g.Wait()
}

func (s *purchaseAnalyticsService) GetUserAnalytics(ctx context.Context, userID uuid.UUID, minUrgency float64) ([]*types.ProductAnalytics, error) {
	return s.analyticsRepo.ListByUser(ctx, nil, userID, minUrgency)
}

// GetProductAnalytics reads one row, cache first. (nil, nil) when no
// analytics exist yet for the pair.
func (s *purchaseAnalyticsService) GetProductAnalytics(ctx context.Context, userID uuid.UUID, itemName string) (*types.ProductAnalytics, error) {
	if s.cache != nil {
		if row, _ := s.cache.Get(ctx, userID, itemName); row != nil {
			return row, nil
		}
	}
	return s.analyticsRepo.GetByUserAndProduct(ctx, nil, userID, itemName)
}

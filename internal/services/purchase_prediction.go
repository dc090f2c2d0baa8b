package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/repos"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

// summaryLimit caps the summary scan; it is effectively "all items" for a
// personal pantry.
const summaryLimit = 999

// PurchasePredictionService ranks stored analytics into "what should I buy
// soon" answers. It never writes; reads are best-effort, so a storage
// failure on the list paths degrades to an empty result instead of an error.
type PurchasePredictionService interface {
	GetPredictedPurchases(ctx context.Context, userID uuid.UUID, urgencyThreshold float64, limit int) []*types.PurchasePrediction
	GetShoppingSummary(ctx context.Context, userID uuid.UUID) *types.ShoppingSummary
	GetItemPrediction(ctx context.Context, userID uuid.UUID, itemName string) (*types.ItemPrediction, error)
}

type purchasePredictionService struct {
	db               *gorm.DB
	log              *logger.Logger
	analyticsRepo    repos.ProductAnalyticsRepo
	analyticsService PurchaseAnalyticsService
}

func NewPurchasePredictionService(db *gorm.DB, log *logger.Logger, analyticsRepo repos.ProductAnalyticsRepo, analyticsService PurchaseAnalyticsService) PurchasePredictionService {
	serviceLog := log.With("service", "PurchasePredictionService")
	return &purchasePredictionService{
		db:               db,
		log:              serviceLog,
		analyticsRepo:    analyticsRepo,
		analyticsService: analyticsService,
	}
}

func predictionView(pa *types.ProductAnalytics) *types.PurchasePrediction {
	p := &types.PurchasePrediction{
		ProductName:   pa.ProductName,
		Urgency:       pa.RepurchaseUrgency,
		Confidence:    pa.RepurchaseProbability,
		Status:        pa.UrgencyStatus(),
		Message:       pa.PredictionMessage(),
		LastPurchase:  pa.LastPurchaseDate,
		EstimatedNext: pa.EstimatedNextPurchaseDate,
	}
	if pa.DaysSinceLastPurchase != nil {
		p.DaysSinceLast = int(*pa.DaysSinceLastPurchase)
	}
	if pa.AvgDaysBetweenPurchases != nil {
		p.AvgInterval = int(*pa.AvgDaysBetweenPurchases)
	}
	return p
}

// GetPredictedPurchases returns the user's items at or above the urgency
// threshold, most urgent first, capped at limit. Items with no recorded
// purchase occasion (probability 0) are left out.
func (s *purchasePredictionService) GetPredictedPurchases(ctx context.Context, userID uuid.UUID, urgencyThreshold float64, limit int) []*types.PurchasePrediction {
	rows, err := s.analyticsRepo.ListByUser(ctx, nil, userID, urgencyThreshold)
	if err != nil {
		s.log.Error("Prediction query failed, returning empty set", "user_id", userID, "error", err)
		return []*types.PurchasePrediction{}
	}

	predictions := make([]*types.PurchasePrediction, 0, len(rows))
	for _, pa := range rows {
		if pa.TotalPurchases <= 0 || pa.RepurchaseProbability <= 0 {
			continue
		}
		predictions = append(predictions, predictionView(pa))
		if limit > 0 && len(predictions) >= limit {
			break
		}
	}

	s.log.Debug("Predictions computed", "user_id", userID, "count", len(predictions))
	return predictions
}

// GetShoppingSummary buckets all predictions into urgent (>=90),
// upcoming ([70,90)) and optional (<70). These cut points are intentionally
// different from the display tiers of UrgencyStatus.
func (s *purchasePredictionService) GetShoppingSummary(ctx context.Context, userID uuid.UUID) *types.ShoppingSummary {
	predictions := s.GetPredictedPurchases(ctx, userID, 0, summaryLimit)

	summary := &types.ShoppingSummary{
		Urgent:   []*types.PurchasePrediction{},
		Upcoming: []*types.PurchasePrediction{},
		Optional: []*types.PurchasePrediction{},
		Total:    len(predictions),
	}
	for _, p := range predictions {
		switch {
		case p.Urgency >= 90:
			summary.Urgent = append(summary.Urgent, p)
		case p.Urgency >= 70:
			summary.Upcoming = append(summary.Upcoming, p)
		default:
			summary.Optional = append(summary.Optional, p)
		}
	}
	summary.Summary = fmt.Sprintf("You need to shop soon! %d urgent items, %d upcoming.", len(summary.Urgent), len(summary.Upcoming))
	return summary
}

// GetItemPrediction returns the detailed view for one product, or
// (nil, nil) when no analytics exist yet for the pair.
func (s *purchasePredictionService) GetItemPrediction(ctx context.Context, userID uuid.UUID, itemName string) (*types.ItemPrediction, error) {
	pa, err := s.analyticsService.GetProductAnalytics(ctx, userID, itemName)
	if err != nil {
		return nil, err
	}
	if pa == nil {
		s.log.Debug("No analytics for item", "user_id", userID, "item", itemName)
		return nil, nil
	}

	return &types.ItemPrediction{
		ProductName:          pa.ProductName,
		TotalPurchases:       pa.TotalPurchases,
		LastPurchaseDate:     pa.LastPurchaseDate,
		AvgIntervalDays:      pa.AvgDaysBetweenPurchases,
		DaysSinceLast:        pa.DaysSinceLastPurchase,
		MinInterval:          pa.MinDaysInterval,
		MaxInterval:          pa.MaxDaysInterval,
		UrgencyScore:         pa.RepurchaseUrgency,
		Confidence:           pa.RepurchaseProbability,
		IsSeasonal:           pa.IsSeasonal,
		NextPurchaseEstimate: pa.EstimatedNextPurchaseDate,
		Status:               pa.UrgencyStatus(),
		Recommendation:       pa.PredictionMessage(),
	}, nil
}

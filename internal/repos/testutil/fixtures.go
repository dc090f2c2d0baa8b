package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pantrypilot-backend/internal/types"
)

func SeedPurchase(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemName string, purchaseDate time.Time) *types.PurchaseRecord {
	tb.Helper()
	pr := &types.PurchaseRecord{
		ID:           uuid.New(),
		UserID:       userID,
		ItemName:     itemName,
		Currency:     "BRL",
		PurchaseDate: purchaseDate,
		Source:       "manual",
	}
	if err := tx.WithContext(ctx).Create(pr).Error; err != nil {
		tb.Fatalf("seed purchase: %v", err)
	}
	return pr
}

func SeedAnalytics(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, productName string, urgency, probability float64) *types.ProductAnalytics {
	tb.Helper()
	pa := &types.ProductAnalytics{
		ID:                    uuid.New(),
		UserID:                userID,
		ProductName:           productName,
		TotalPurchases:        1,
		RepurchaseUrgency:     urgency,
		RepurchaseProbability: probability,
	}
	if err := tx.WithContext(ctx).Create(pa).Error; err != nil {
		tb.Fatalf("seed analytics: %v", err)
	}
	return pa
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/pantrypilot-backend/internal/types"
)

func newPredictionServiceForTest(t *testing.T, pr *fakePurchaseRepo, ar *fakeAnalyticsRepo) PurchasePredictionService {
	t.Helper()
	analyticsSvc := newAnalyticsServiceForTest(t, pr, ar, nil, testBase)
	return NewPurchasePredictionService(nil, testLogger(t), ar, analyticsSvc)
}

func seedAnalyticsRow(ar *fakeAnalyticsRepo, userID uuid.UUID, name string, urgency, probability float64) {
	ar.rows[pairKey(userID, name)] = &types.ProductAnalytics{
		ID:                    uuid.New(),
		UserID:                userID,
		ProductName:           name,
		TotalPurchases:        2,
		RepurchaseUrgency:     urgency,
		RepurchaseProbability: probability,
	}
}

func TestGetPredictedPurchasesRanksAndFilters(t *testing.T) {
	ar := newFakeAnalyticsRepo()
	userID := uuid.New()
	seedAnalyticsRow(ar, userID, "Milk", 120, 90)
	seedAnalyticsRow(ar, userID, "Coffee", 80, 60)
	seedAnalyticsRow(ar, userID, "Soap", 30, 40)
	// Probability 0 means no purchase occasion on record: filtered out.
	seedAnalyticsRow(ar, userID, "Ghost", 95, 0)
	seedAnalyticsRow(ar, uuid.New(), "Milk", 300, 90)

	svc := newPredictionServiceForTest(t, &fakePurchaseRepo{}, ar)
	got := svc.GetPredictedPurchases(context.Background(), userID, 0, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(got))
	}
	if got[0].ProductName != "Milk" || got[1].ProductName != "Coffee" || got[2].ProductName != "Soap" {
		t.Fatalf("wrong order: %s, %s, %s", got[0].ProductName, got[1].ProductName, got[2].ProductName)
	}
	if got[0].Status != "OVERDUE" || got[1].Status != "SOON" || got[2].Status != "OPTIONAL" {
		t.Fatalf("wrong statuses: %s, %s, %s", got[0].Status, got[1].Status, got[2].Status)
	}

	thresholded := svc.GetPredictedPurchases(context.Background(), userID, 75, 10)
	if len(thresholded) != 2 {
		t.Fatalf("threshold 75: expected 2 predictions, got %d", len(thresholded))
	}

	limited := svc.GetPredictedPurchases(context.Background(), userID, 0, 1)
	if len(limited) != 1 || limited[0].ProductName != "Milk" {
		t.Fatalf("limit 1: expected just Milk, got %+v", limited)
	}
}

func TestGetPredictedPurchasesStorageFailure(t *testing.T) {
	ar := newFakeAnalyticsRepo()
	ar.failRead = true

	svc := newPredictionServiceForTest(t, &fakePurchaseRepo{}, ar)
	got := svc.GetPredictedPurchases(context.Background(), uuid.New(), 0, 10)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result on storage failure, got %d", len(got))
	}
}

func TestGetShoppingSummaryPartitions(t *testing.T) {
	ar := newFakeAnalyticsRepo()
	userID := uuid.New()
	seedAnalyticsRow(ar, userID, "Milk", 95, 90)
	seedAnalyticsRow(ar, userID, "Eggs", 90, 80)
	seedAnalyticsRow(ar, userID, "Coffee", 75, 70)
	seedAnalyticsRow(ar, userID, "Rice", 70, 60)
	seedAnalyticsRow(ar, userID, "Soap", 50, 40)
	seedAnalyticsRow(ar, userID, "Salt", 10, 20)

	svc := newPredictionServiceForTest(t, &fakePurchaseRepo{}, ar)
	summary := svc.GetShoppingSummary(context.Background(), userID)

	if len(summary.Urgent) != 2 {
		t.Fatalf("urgent: expected 2 (>=90), got %d", len(summary.Urgent))
	}
	if len(summary.Upcoming) != 2 {
		t.Fatalf("upcoming: expected 2 ([70,90)), got %d", len(summary.Upcoming))
	}
	if len(summary.Optional) != 2 {
		t.Fatalf("optional: expected 2 (<70), got %d", len(summary.Optional))
	}
	if sum := len(summary.Urgent) + len(summary.Upcoming) + len(summary.Optional); sum != summary.Total {
		t.Fatalf("partitions sum to %d, total is %d", sum, summary.Total)
	}
	want := "You need to shop soon! 2 urgent items, 2 upcoming."
	if summary.Summary != want {
		t.Fatalf("summary text = %q, want %q", summary.Summary, want)
	}
}

func TestGetItemPredictionAbsent(t *testing.T) {
	svc := newPredictionServiceForTest(t, &fakePurchaseRepo{}, newFakeAnalyticsRepo())
	got, err := svc.GetItemPrediction(context.Background(), uuid.New(), "Nothing")
	if err != nil {
		t.Fatalf("GetItemPrediction: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing analytics, got %+v", got)
	}
}

func TestGetItemPredictionDetail(t *testing.T) {
	ar := newFakeAnalyticsRepo()
	userID := uuid.New()
	seedAnalyticsRow(ar, userID, "Milk", 110, 85)

	svc := newPredictionServiceForTest(t, &fakePurchaseRepo{}, ar)
	got, err := svc.GetItemPrediction(context.Background(), userID, "Milk")
	if err != nil {
		t.Fatalf("GetItemPrediction: %v", err)
	}
	if got == nil {
		t.Fatal("expected a prediction")
	}
	if got.ProductName != "Milk" || got.UrgencyScore != 110 || got.Confidence != 85 {
		t.Fatalf("unexpected detail: %+v", got)
	}
	if got.Status != "OVERDUE" {
		t.Fatalf("Status = %q, want OVERDUE", got.Status)
	}
}

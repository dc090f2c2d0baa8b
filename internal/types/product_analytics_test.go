package types

import (
	"testing"
	"time"
)

func float64Ptr(v float64) *float64 { return &v }

func TestUrgencyStatusBoundaries(t *testing.T) {
	cases := []struct {
		urgency float64
		want    string
	}{
		{urgency: 250, want: "OVERDUE"},
		{urgency: 100, want: "OVERDUE"},
		{urgency: 99.999, want: "URGENT"},
		{urgency: 85, want: "URGENT"},
		{urgency: 84.999, want: "SOON"},
		{urgency: 70, want: "SOON"},
		{urgency: 69.999, want: "UPCOMING"},
		{urgency: 50, want: "UPCOMING"},
		{urgency: 49.999, want: "OPTIONAL"},
		{urgency: 0, want: "OPTIONAL"},
	}
	for _, tc := range cases {
		pa := &ProductAnalytics{RepurchaseUrgency: tc.urgency}
		if got := pa.UrgencyStatus(); got != tc.want {
			t.Fatalf("UrgencyStatus(%v) = %q, want %q", tc.urgency, got, tc.want)
		}
	}
}

func TestPredictionMessage(t *testing.T) {
	now := time.Now()
	pa := &ProductAnalytics{
		ProductName:             "Milk",
		AvgDaysBetweenPurchases: float64Ptr(7.4),
		DaysSinceLastPurchase:   float64Ptr(9.0),
		LastPurchaseDate:        &now,
	}
	want := "You usually buy Milk every 7 days. Last purchase: 9 days ago."
	if got := pa.PredictionMessage(); got != want {
		t.Fatalf("PredictionMessage() = %q, want %q", got, want)
	}
}

func TestPredictionMessageNotEnoughData(t *testing.T) {
	pa := &ProductAnalytics{ProductName: "Soap"}
	want := "Not enough data for Soap predictions yet."
	if got := pa.PredictionMessage(); got != want {
		t.Fatalf("PredictionMessage() = %q, want %q", got, want)
	}
}

package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pantrypilot-backend/internal/clients/redis"
	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakePurchaseRepo is an in-memory PurchaseRecordRepo. The mutex matters:
// UpdateAnalyticsForItems fans recomputes out across goroutines.
type fakePurchaseRepo struct {
	mu      sync.Mutex
	records []*types.PurchaseRecord
	failAll bool
}

func (f *fakePurchaseRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.PurchaseRecord) ([]*types.PurchaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, fmt.Errorf("storage down")
	}
	f.records = append(f.records, records...)
	return records, nil
}

func (f *fakePurchaseRepo) GetByUserAndItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemName string) ([]*types.PurchaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, fmt.Errorf("storage down")
	}
	var out []*types.PurchaseRecord
	for _, r := range f.records {
		if r.UserID == userID && r.ItemName == itemName {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.Before(out[j].PurchaseDate) })
	return out, nil
}

func (f *fakePurchaseRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PurchaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, fmt.Errorf("storage down")
	}
	var out []*types.PurchaseRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[j].PurchaseDate.Before(out[i].PurchaseDate) })
	return out, nil
}

func (f *fakePurchaseRepo) CountDistinctPurchaseDates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, fmt.Errorf("storage down")
	}
	dates := map[int64]struct{}{}
	for _, r := range f.records {
		if r.UserID == userID {
			dates[r.PurchaseDate.UnixNano()] = struct{}{}
		}
	}
	return int64(len(dates)), nil
}

// fakeAnalyticsRepo is an in-memory ProductAnalyticsRepo keyed by the
// (user, product) pair.
type fakeAnalyticsRepo struct {
	mu         sync.Mutex
	rows       map[string]*types.ProductAnalytics
	upserts    int
	failUpsert bool
	failRead   bool
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{rows: map[string]*types.ProductAnalytics{}}
}

func pairKey(userID uuid.UUID, productName string) string {
	return userID.String() + "|" + productName
}

func (f *fakeAnalyticsRepo) GetByUserAndProduct(ctx context.Context, tx *gorm.DB, userID uuid.UUID, productName string) (*types.ProductAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, fmt.Errorf("storage down")
	}
	row, ok := f.rows[pairKey(userID, productName)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAnalyticsRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProductAnalytics) (*types.ProductAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return nil, fmt.Errorf("storage down")
	}
	f.upserts++
	key := pairKey(row.UserID, row.ProductName)
	if existing, ok := f.rows[key]; ok {
		row.ID = existing.ID
	} else if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	cp := *row
	f.rows[key] = &cp
	return row, nil
}

func (f *fakeAnalyticsRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, minUrgency float64) ([]*types.ProductAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, fmt.Errorf("storage down")
	}
	var out []*types.ProductAnalytics
	for _, row := range f.rows {
		if row.UserID == userID && row.RepurchaseUrgency >= minUrgency {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RepurchaseUrgency > out[j].RepurchaseUrgency })
	return out, nil
}

// fakeAnalyticsCache is an in-memory stand-in for the redis cache client.
type fakeAnalyticsCache struct {
	mu   sync.Mutex
	rows map[string]*types.ProductAnalytics
}

func newFakeAnalyticsCache() *fakeAnalyticsCache {
	return &fakeAnalyticsCache{rows: map[string]*types.ProductAnalytics{}}
}

func (f *fakeAnalyticsCache) Get(ctx context.Context, userID uuid.UUID, productName string) (*types.ProductAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[pairKey(userID, productName)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAnalyticsCache) Put(ctx context.Context, row *types.ProductAnalytics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.rows[pairKey(row.UserID, row.ProductName)] = &cp
	return nil
}

func (f *fakeAnalyticsCache) Close() error { return nil }

// newAnalyticsServiceForTest wires the analytics service onto fakes, with
// the transaction seam short-circuited and the clock pinned.
func newAnalyticsServiceForTest(t *testing.T, pr *fakePurchaseRepo, ar *fakeAnalyticsRepo, cache *fakeAnalyticsCache, now time.Time) *purchaseAnalyticsService {
	t.Helper()
	var rc redis.AnalyticsCache
	if cache != nil {
		rc = cache
	}
	svc := NewPurchaseAnalyticsService(nil, testLogger(t), pr, ar, rc).(*purchaseAnalyticsService)
	svc.runInTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }
	svc.now = func() time.Time { return now }
	return svc
}

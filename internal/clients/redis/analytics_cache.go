package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

// AnalyticsCache keeps the latest computed analytics row per
// (user, product) so per-item reads can skip the database. Misses and cache
// errors both come back as (nil, nil): the cache is best-effort and the DB
// row stays authoritative.
type AnalyticsCache interface {
	Get(ctx context.Context, userID uuid.UUID, productName string) (*types.ProductAnalytics, error)
	Put(ctx context.Context, row *types.ProductAnalytics) error
	Close() error
}

type analyticsCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewAnalyticsCache(log *logger.Logger) (AnalyticsCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &analyticsCache{
		log: log.With("client", "AnalyticsCache"),
		rdb: rdb,
		ttl: 24 * time.Hour,
	}, nil
}

// Product names are case-sensitive keys everywhere (DB unique pair, repos),
// so the cache key uses the name verbatim.
func cacheKey(userID uuid.UUID, productName string) string {
	return fmt.Sprintf("analytics:%s:%s", userID, productName)
}

func (c *analyticsCache) Get(ctx context.Context, userID uuid.UUID, productName string) (*types.ProductAnalytics, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(userID, productName)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.log.Warn("Cache read failed", "error", err)
		return nil, nil
	}
	var row types.ProductAnalytics
	if err := json.Unmarshal(raw, &row); err != nil {
		c.log.Warn("Cache payload corrupt, ignoring", "error", err)
		return nil, nil
	}
	return &row, nil
}

func (c *analyticsCache) Put(ctx context.Context, row *types.ProductAnalytics) error {
	if c == nil || c.rdb == nil || row == nil {
		return nil
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}
	return c.rdb.Set(ctx, cacheKey(row.UserID, row.ProductName), raw, c.ttl).Err()
}

func (c *analyticsCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

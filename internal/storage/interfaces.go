package storage

import (
	"context"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
)

// GroupCount is one grouped-count row of an aggregation query.
type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// ProductStore persists collected products and answers filtered reads.
type ProductStore interface {
	// FindByProductID returns (nil, nil) when no row exists.
	FindByProductID(ctx context.Context, productID string) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	// UpdatePrices overwrites lprice/hprice/updated_at of an existing row.
	UpdatePrices(ctx context.Context, productID string, lprice, hprice int, now time.Time) error
	Find(ctx context.Context, filter []Expr, limit, skip int) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	// DeleteByProductID reports the number of rows removed (0 or 1).
	DeleteByProductID(ctx context.Context, productID string) (int64, error)
	// GroupCount counts rows per non-empty value of column, most frequent
	// first, ties broken by value.
	GroupCount(ctx context.Context, column string, limit int) ([]GroupCount, error)
	// TagCounts flattens the tags array before counting.
	TagCounts(ctx context.Context, limit int) ([]GroupCount, error)
}

// HistoryStore appends collect-run audit records.
type HistoryStore interface {
	Append(ctx context.Context, h *models.SearchHistory) error
}

// UsageStore tracks per-day Naver API call counts.
type UsageStore interface {
	// RecordCall increments today's call count, creating the day row when
	// missing. Nil quota values leave the stored columns untouched.
	RecordCall(ctx context.Context, now time.Time, quotaLimit, quotaRemaining *int) error
	// FindByDate returns (nil, nil) when no row exists for date.
	FindByDate(ctx context.Context, date string) (*models.ApiUsage, error)
}

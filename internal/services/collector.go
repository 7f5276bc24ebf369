package services

import (
	"context"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/logger"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/storage"
)

// Searcher abstracts the external search client for the collector.
type Searcher interface {
	SearchAndCollect(ctx context.Context, query string, maxResults int, sort string, opts SearchOptions) ([]models.Product, error)
}

// Collector orchestrates one collect run: external search, per-item
// upsert, then one search-history entry for the whole run.
type Collector struct {
	searcher Searcher
	products storage.ProductStore
	history  storage.HistoryStore
}

func NewCollector(searcher Searcher, products storage.ProductStore, history storage.HistoryStore) *Collector {
	return &Collector{
		searcher: searcher,
		products: products,
		history:  history,
	}
}

type CollectResult struct {
	NewCount       int
	UpdatedCount   int
	TotalCollected int
}

// Collect runs search-and-collect for query. Upserts are best-effort and
// item-independent: a failure on item N leaves items 1..N-1 committed.
// Re-running with the same result set only updates.
func (c *Collector) Collect(ctx context.Context, query string, maxResults int, sort string, opts SearchOptions) (*CollectResult, error) {
	log := logger.GetLogger("collector")

	items, err := c.searcher.SearchAndCollect(ctx, query, maxResults, sort, opts)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoResults
	}

	result := &CollectResult{TotalCollected: len(items)}
	now := time.Now().UTC()

	for i := range items {
		item := &items[i]

		existing, err := c.products.FindByProductID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if existing != nil {
			// 기존 상품: 가격과 updated_at만 갱신, created_at은 유지
			if err := c.products.UpdatePrices(ctx, item.ProductID, item.Lprice, item.Hprice, now); err != nil {
				return nil, err
			}
			result.UpdatedCount++
		} else {
			item.CreatedAt = now
			item.UpdatedAt = now
			if err := c.products.Insert(ctx, item); err != nil {
				return nil, err
			}
			result.NewCount++
		}
	}

	// 검색 이력은 실행 단위로 1건 (수집 건수 기준, 저장 건수 아님)
	entry := &models.SearchHistory{
		SearchKeyword: query,
		TotalCount:    len(items),
		Display:       maxResults,
		Start:         1,
		CollectedAt:   now,
	}
	if err := c.history.Append(ctx, entry); err != nil {
		return nil, err
	}

	log.Infof("수집 완료: query='%s' total=%d new=%d updated=%d",
		query, result.TotalCollected, result.NewCount, result.UpdatedCount)

	return result, nil
}

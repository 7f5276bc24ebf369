package services

import (
	"context"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/storage"
)

// memProductStore 테스트용 인메모리 ProductStore
type memProductStore struct {
	products    map[string]*models.Product
	order       []string
	lastFilter  []storage.Expr
	groupCounts []storage.GroupCount
	tagCounts   []storage.GroupCount
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[string]*models.Product)}
}

func (s *memProductStore) FindByProductID(_ context.Context, productID string) (*models.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (s *memProductStore) Insert(_ context.Context, p *models.Product) error {
	clone := *p
	s.products[p.ProductID] = &clone
	s.order = append(s.order, p.ProductID)
	return nil
}

func (s *memProductStore) UpdatePrices(_ context.Context, productID string, lprice, hprice int, now time.Time) error {
	p := s.products[productID]
	p.Lprice = lprice
	p.Hprice = hprice
	p.UpdatedAt = now
	return nil
}

func (s *memProductStore) Find(_ context.Context, filter []storage.Expr, limit, skip int) ([]models.Product, error) {
	s.lastFilter = filter

	out := make([]models.Product, 0)
	for i, id := range s.order {
		if i < skip {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *s.products[id])
	}
	return out, nil
}

func (s *memProductStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *memProductStore) DeleteByProductID(_ context.Context, productID string) (int64, error) {
	if _, ok := s.products[productID]; !ok {
		return 0, nil
	}
	delete(s.products, productID)
	return 1, nil
}

func (s *memProductStore) GroupCount(_ context.Context, _ string, limit int) ([]storage.GroupCount, error) {
	if len(s.groupCounts) > limit {
		return s.groupCounts[:limit], nil
	}
	return s.groupCounts, nil
}

func (s *memProductStore) TagCounts(_ context.Context, limit int) ([]storage.GroupCount, error) {
	if len(s.tagCounts) > limit {
		return s.tagCounts[:limit], nil
	}
	return s.tagCounts, nil
}

// memHistoryStore 테스트용 인메모리 HistoryStore
type memHistoryStore struct {
	entries []models.SearchHistory
}

func (s *memHistoryStore) Append(_ context.Context, h *models.SearchHistory) error {
	s.entries = append(s.entries, *h)
	return nil
}

// memUsageStore 테스트용 인메모리 UsageStore
type memUsageStore struct {
	stored *models.ApiUsage
	calls  int
}

func (s *memUsageStore) RecordCall(_ context.Context, now time.Time, quotaLimit, quotaRemaining *int) error {
	s.calls++
	if s.stored == nil {
		s.stored = &models.ApiUsage{Date: now.Format("2006-01-02")}
	}
	s.stored.TotalCalls++
	s.stored.LastCallTime = &now
	if quotaLimit != nil {
		s.stored.QuotaLimit = quotaLimit
	}
	if quotaRemaining != nil {
		s.stored.QuotaRemaining = quotaRemaining
	}
	return nil
}

func (s *memUsageStore) FindByDate(_ context.Context, date string) (*models.ApiUsage, error) {
	if s.stored == nil || s.stored.Date != date {
		return nil, nil
	}
	clone := *s.stored
	return &clone, nil
}

// fakeSearcher 고정된 결과를 반환하는 Searcher
type fakeSearcher struct {
	items []models.Product
	err   error
}

func (f *fakeSearcher) SearchAndCollect(_ context.Context, _ string, _ int, _ string, _ SearchOptions) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Product, len(f.items))
	copy(out, f.items)
	return out, nil
}

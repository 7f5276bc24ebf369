package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/storage"
)

func TestSearchRejectsBadPagination(t *testing.T) {
	svc := NewProductService(newMemProductStore(), &memUsageStore{})

	cases := []struct {
		name  string
		limit int
		skip  int
	}{
		{"limit zero", 0, 0},
		{"limit too large", 501, 0},
		{"negative skip", 50, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), SearchParams{Limit: tc.limit, Skip: tc.skip})
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSearchBuildsOnlyPresentPredicates(t *testing.T) {
	store := newMemProductStore()
	svc := NewProductService(store, &memUsageStore{})

	// 필터 없음 → 조건 없음
	if _, err := svc.Search(context.Background(), SearchParams{Limit: 50}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(store.lastFilter) != 0 {
		t.Errorf("expected no predicates, got %d", len(store.lastFilter))
	}

	// keyword + min_price → 두 개의 조건만
	min := 1000
	_, err := svc.Search(context.Background(), SearchParams{Keyword: "노트북", MinPrice: &min, Limit: 50})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(store.lastFilter) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(store.lastFilter))
	}

	kwSQL, _ := store.lastFilter[0].Clause()
	if kwSQL != "(title ILIKE ? OR brand ILIKE ? OR maker ILIKE ? OR ? = ANY(tags))" {
		t.Errorf("unexpected keyword clause: %s", kwSQL)
	}
	priceSQL, priceArgs := store.lastFilter[1].Clause()
	if priceSQL != "lprice >= ?" || priceArgs[0] != 1000 {
		t.Errorf("unexpected price clause: %s %v", priceSQL, priceArgs)
	}
}

func TestSearchAllFilters(t *testing.T) {
	store := newMemProductStore()
	svc := NewProductService(store, &memUsageStore{})

	min, max := 1000, 2000
	_, err := svc.Search(context.Background(), SearchParams{
		Keyword:   "노트북",
		Category1: "디지털/가전",
		MallName:  "쿠팡",
		MinPrice:  &min,
		MaxPrice:  &max,
		Limit:     50,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(store.lastFilter) != 4 {
		t.Errorf("expected 4 predicates, got %d", len(store.lastFilter))
	}
}

func TestGetMissingProduct(t *testing.T) {
	svc := NewProductService(newMemProductStore(), &memUsageStore{})

	_, err := svc.Get(context.Background(), "unknown-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	svc := NewProductService(newMemProductStore(), &memUsageStore{})

	err := svc.Delete(context.Background(), "unknown-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteExistingProduct(t *testing.T) {
	store := newMemProductStore()
	_ = store.Insert(context.Background(), &models.Product{ProductID: "A", Title: "노트북"})
	svc := NewProductService(store, &memUsageStore{})

	if err := svc.Delete(context.Background(), "A"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.products["A"]; ok {
		t.Error("product A still stored after delete")
	}
}

func TestAPIUsageTodayDefaults(t *testing.T) {
	svc := NewProductService(newMemProductStore(), &memUsageStore{})

	report, err := svc.APIUsageToday(context.Background())
	if err != nil {
		t.Fatalf("APIUsageToday failed: %v", err)
	}

	if report.TotalCalls != 0 {
		t.Errorf("TotalCalls: got %d, want 0", report.TotalCalls)
	}
	if report.QuotaLimit != 25000 || report.QuotaRemaining != 25000 {
		t.Errorf("quota: got %d/%d, want 25000/25000", report.QuotaLimit, report.QuotaRemaining)
	}
	if report.LastCallTime != nil {
		t.Errorf("LastCallTime: got %v, want nil", report.LastCallTime)
	}
}

func TestAPIUsageTodayFillsMissingQuota(t *testing.T) {
	usage := &memUsageStore{}
	for i := 0; i < 3; i++ {
		if err := usage.RecordCall(context.Background(), time.Now().UTC(), nil, nil); err != nil {
			t.Fatalf("RecordCall failed: %v", err)
		}
	}
	svc := NewProductService(newMemProductStore(), usage)

	report, err := svc.APIUsageToday(context.Background())
	if err != nil {
		t.Fatalf("APIUsageToday failed: %v", err)
	}

	if report.TotalCalls != 3 {
		t.Errorf("TotalCalls: got %d, want 3", report.TotalCalls)
	}
	// 헤더가 없었으면 기본 한도에서 호출 수를 뺀 값
	if report.QuotaRemaining != 25000-3 {
		t.Errorf("QuotaRemaining: got %d, want %d", report.QuotaRemaining, 25000-3)
	}
	if report.LastCallTime == nil {
		t.Error("LastCallTime should be set")
	}
}

func TestListingsDropEmptyValues(t *testing.T) {
	store := newMemProductStore()
	store.groupCounts = []storage.GroupCount{
		{Value: "삼성전자", Count: 12},
		{Value: "", Count: 7},
		{Value: "LG전자", Count: 5},
	}
	svc := NewProductService(store, &memUsageStore{})

	brands, err := svc.Brands(context.Background())
	if err != nil {
		t.Fatalf("Brands failed: %v", err)
	}

	want := []string{"삼성전자", "LG전자"}
	if len(brands) != len(want) {
		t.Fatalf("brands: got %v, want %v", brands, want)
	}
	for i := range want {
		if brands[i] != want[i] {
			t.Errorf("brands[%d]: got %s, want %s", i, brands[i], want[i])
		}
	}
}

func TestStatsSummary(t *testing.T) {
	store := newMemProductStore()
	_ = store.Insert(context.Background(), &models.Product{ProductID: "A"})
	_ = store.Insert(context.Background(), &models.Product{ProductID: "B"})
	store.groupCounts = []storage.GroupCount{{Value: "쿠팡", Count: 2}}
	svc := NewProductService(store, &memUsageStore{})

	summary, err := svc.StatsSummary(context.Background())
	if err != nil {
		t.Fatalf("StatsSummary failed: %v", err)
	}
	if summary.TotalProducts != 2 {
		t.Errorf("TotalProducts: got %d, want 2", summary.TotalProducts)
	}
	if len(summary.TopMalls) != 1 || summary.TopMalls[0].Value != "쿠팡" {
		t.Errorf("unexpected TopMalls: %v", summary.TopMalls)
	}
	if summary.Timestamp == "" {
		t.Error("Timestamp should be set")
	}
}

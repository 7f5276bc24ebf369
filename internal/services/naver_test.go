package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/config"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		NaverClientID:     "test-client-id",
		NaverClientSecret: "test-client-secret",
		NaverShoppingURL:  apiURL,
		MaxDisplay:        100,
	}
}

func shopServer(t *testing.T, total int, titles []string, headers map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Naver-Client-Id") != "test-client-id" {
			t.Errorf("missing X-Naver-Client-Id header")
		}
		if r.Header.Get("X-Naver-Client-Secret") != "test-client-secret" {
			t.Errorf("missing X-Naver-Client-Secret header")
		}

		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		display, _ := strconv.Atoi(r.URL.Query().Get("display"))

		items := make([]map[string]string, 0)
		for i := start; i < start+display && i <= len(titles); i++ {
			items = append(items, map[string]string{
				"title":     titles[i-1],
				"productId": fmt.Sprintf("P%d", i),
				"lprice":    strconv.Itoa(i * 1000),
				"mallName":  "테스트몰",
				"brand":     "테스트브랜드",
				"category1": "디지털/가전",
			})
		}

		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total":   total,
			"start":   start,
			"display": len(items),
			"items":   items,
		})
	}))
}

func TestSearchAndCollectMapsFields(t *testing.T) {
	server := shopServer(t, 1, []string{"<b>삼성</b> 노트북 &amp; 마우스"}, nil)
	defer server.Close()

	client := NewNaverClient(testConfig(server.URL), &memUsageStore{})
	products, err := client.SearchAndCollect(context.Background(), "노트북", 10, "sim", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchAndCollect failed: %v", err)
	}

	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}

	p := products[0]
	if p.Title != "삼성 노트북 & 마우스" {
		t.Errorf("title not cleaned: %q", p.Title)
	}
	if p.ProductID != "P1" {
		t.Errorf("product_id: got %s", p.ProductID)
	}
	if p.Lprice != 1000 {
		t.Errorf("lprice: got %d, want 1000", p.Lprice)
	}
	if p.MallName != "테스트몰" {
		t.Errorf("mall_name: got %s", p.MallName)
	}
	// 태그는 브랜드/카테고리에서 파생
	wantTags := map[string]bool{"테스트브랜드": true, "디지털/가전": true}
	if len(p.Tags) != 2 || !wantTags[p.Tags[0]] || !wantTags[p.Tags[1]] {
		t.Errorf("unexpected tags: %v", p.Tags)
	}
}

func TestSearchAndCollectPaginates(t *testing.T) {
	titles := make([]string, 5)
	for i := range titles {
		titles[i] = fmt.Sprintf("상품 %d", i+1)
	}
	server := shopServer(t, 5, titles, nil)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxDisplay = 2 // 페이지 크기 2로 5건 수집 → 3회 호출

	usage := &memUsageStore{}
	client := NewNaverClient(cfg, usage)
	products, err := client.SearchAndCollect(context.Background(), "상품", 5, "sim", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchAndCollect failed: %v", err)
	}

	if len(products) != 5 {
		t.Fatalf("got %d products, want 5", len(products))
	}
	for i, p := range products {
		want := fmt.Sprintf("P%d", i+1)
		if p.ProductID != want {
			t.Errorf("products[%d]: got %s, want %s", i, p.ProductID, want)
		}
	}
	if usage.calls != 3 {
		t.Errorf("api calls recorded: got %d, want 3", usage.calls)
	}
}

func TestSearchAndCollectStopsAtMaxResults(t *testing.T) {
	titles := make([]string, 10)
	for i := range titles {
		titles[i] = fmt.Sprintf("상품 %d", i+1)
	}
	server := shopServer(t, 10, titles, nil)
	defer server.Close()

	client := NewNaverClient(testConfig(server.URL), &memUsageStore{})
	products, err := client.SearchAndCollect(context.Background(), "상품", 4, "sim", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchAndCollect failed: %v", err)
	}
	if len(products) != 4 {
		t.Errorf("got %d products, want 4", len(products))
	}
}

func TestSearchAndCollectRecordsQuotaHeaders(t *testing.T) {
	server := shopServer(t, 1, []string{"상품"}, map[string]string{
		"X-RateLimit-Limit":     "25000",
		"X-RateLimit-Remaining": "24990",
	})
	defer server.Close()

	usage := &memUsageStore{}
	client := NewNaverClient(testConfig(server.URL), usage)
	if _, err := client.SearchAndCollect(context.Background(), "상품", 1, "sim", SearchOptions{}); err != nil {
		t.Fatalf("SearchAndCollect failed: %v", err)
	}

	if usage.stored == nil {
		t.Fatal("usage not recorded")
	}
	if usage.stored.QuotaLimit == nil || *usage.stored.QuotaLimit != 25000 {
		t.Errorf("quota_limit: got %v", usage.stored.QuotaLimit)
	}
	if usage.stored.QuotaRemaining == nil || *usage.stored.QuotaRemaining != 24990 {
		t.Errorf("quota_remaining: got %v", usage.stored.QuotaRemaining)
	}
}

func TestSearchAndCollectNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewNaverClient(testConfig(server.URL), &memUsageStore{})
	_, err := client.SearchAndCollect(context.Background(), "상품", 10, "sim", SearchOptions{})

	var apiErr *ExternalAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ExternalAPIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", apiErr.StatusCode)
	}
}

func TestSearchAndCollectMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewNaverClient(testConfig(server.URL), &memUsageStore{})
	_, err := client.SearchAndCollect(context.Background(), "상품", 10, "sim", SearchOptions{})

	var apiErr *ExternalAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ExternalAPIError, got %v", err)
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/config"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/logger"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
	"github.com/lib/pq"
)

const (
	// maxStart 네이버 쇼핑 API start 파라미터 상한
	maxStart = 1000
)

// UsageRecorder records one Naver API call against today's quota row.
type UsageRecorder interface {
	RecordCall(ctx context.Context, now time.Time, quotaLimit, quotaRemaining *int) error
}

// SearchOptions carries the optional Naver search modifiers.
type SearchOptions struct {
	Filter  string   // "naverpay" 또는 빈 값
	Exclude []string // used, rental, cbshop
}

// NaverClient 네이버 쇼핑 검색 API 클라이언트
type NaverClient struct {
	apiURL       string
	clientID     string
	clientSecret string
	maxDisplay   int
	httpClient   *http.Client
	usage        UsageRecorder
}

// NewNaverClient 새 클라이언트 생성
func NewNaverClient(cfg *config.Config, usage UsageRecorder) *NaverClient {
	return &NaverClient{
		apiURL:       cfg.NaverShoppingURL,
		clientID:     cfg.NaverClientID,
		clientSecret: cfg.NaverClientSecret,
		maxDisplay:   cfg.MaxDisplay,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		usage: usage,
	}
}

// shopItem 네이버 쇼핑 API 응답의 상품 항목 (가격 필드는 문자열)
type shopItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	Lprice      string `json:"lprice"`
	Hprice      string `json:"hprice"`
	MallName    string `json:"mallName"`
	ProductID   string `json:"productId"`
	ProductType string `json:"productType"`
	Brand       string `json:"brand"`
	Maker       string `json:"maker"`
	Category1   string `json:"category1"`
	Category2   string `json:"category2"`
	Category3   string `json:"category3"`
	Category4   string `json:"category4"`
}

type shopResponse struct {
	Total   int        `json:"total"`
	Start   int        `json:"start"`
	Display int        `json:"display"`
	Items   []shopItem `json:"items"`
}

// SearchAndCollect searches the Naver shopping API page by page until
// maxResults items are gathered or the provider runs out of results.
// A provider failure is terminal: no partial results are returned.
func (c *NaverClient) SearchAndCollect(ctx context.Context, query string, maxResults int, sort string, opts SearchOptions) ([]models.Product, error) {
	log := logger.GetLogger("naver")

	var collected []models.Product
	start := 1

	for len(collected) < maxResults && start <= maxStart {
		display := maxResults - len(collected)
		if display > c.maxDisplay {
			display = c.maxDisplay
		}

		page, err := c.fetchPage(ctx, query, display, start, sort, opts)
		if err != nil {
			return nil, err
		}

		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			collected = append(collected, item.toProduct())
		}

		log.Infof("네이버 쇼핑 검색: query='%s' start=%d display=%d → 수집 %d/%d (total=%d)",
			query, start, display, len(collected), maxResults, page.Total)

		start += len(page.Items)
		if start > page.Total {
			break
		}
	}

	return collected, nil
}

func (c *NaverClient) fetchPage(ctx context.Context, query string, display, start int, sort string, opts SearchOptions) (*shopResponse, error) {
	log := logger.GetLogger("naver")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("query", query)
	q.Add("display", strconv.Itoa(display))
	q.Add("start", strconv.Itoa(start))
	q.Add("sort", sort)
	if opts.Filter != "" {
		q.Add("filter", opts.Filter)
	}
	if len(opts.Exclude) > 0 {
		q.Add("exclude", strings.Join(opts.Exclude, ":"))
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExternalAPIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	// 호출 1건을 당일 사용량에 기록 (X-RateLimit-* 헤더가 있으면 반영)
	c.recordUsage(ctx, resp)

	if resp.StatusCode != http.StatusOK {
		log.Warnf("네이버 쇼핑 API 실패 (status=%d, query='%s')", resp.StatusCode, query)
		return nil, &ExternalAPIError{
			StatusCode: resp.StatusCode,
			Message:    "naver shopping api returned non-200 status",
		}
	}

	var result shopResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ExternalAPIError{Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	return &result, nil
}

func (c *NaverClient) recordUsage(ctx context.Context, resp *http.Response) {
	if c.usage == nil {
		return
	}

	quotaLimit := headerAsInt(resp, "X-RateLimit-Limit")
	quotaRemaining := headerAsInt(resp, "X-RateLimit-Remaining")

	if err := c.usage.RecordCall(ctx, time.Now().UTC(), quotaLimit, quotaRemaining); err != nil {
		// 사용량 추적 실패가 검색 자체를 막지는 않는다
		logger.GetLogger("naver").Warnf("API 사용량 기록 실패: %v", err)
	}
}

func headerAsInt(resp *http.Response, key string) *int {
	raw := resp.Header.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

// toProduct maps one Naver response item to a Product record.
// Missing optional fields stay empty/zero.
func (i shopItem) toProduct() models.Product {
	return models.Product{
		ProductID:   i.ProductID,
		Title:       cleanTitle(i.Title),
		Link:        i.Link,
		Image:       i.Image,
		Lprice:      parsePrice(i.Lprice),
		Hprice:      parsePrice(i.Hprice),
		MallName:    i.MallName,
		ProductType: i.ProductType,
		Brand:       i.Brand,
		Maker:       i.Maker,
		Category1:   i.Category1,
		Category2:   i.Category2,
		Category3:   i.Category3,
		Category4:   i.Category4,
		Tags:        pq.StringArray(buildTags(i)),
	}
}

// cleanTitle 검색어 하이라이트 태그(<b>) 제거 및 HTML 엔티티 복원
func cleanTitle(title string) string {
	title = strings.ReplaceAll(title, "<b>", "")
	title = strings.ReplaceAll(title, "</b>", "")
	return html.UnescapeString(title)
}

func parsePrice(raw string) int {
	if raw == "" {
		return 0
	}
	price, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return price
}

// buildTags 브랜드/제조사/카테고리1로 태그 집합 구성 (중복 제거)
func buildTags(i shopItem) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, candidate := range []string{i.Brand, i.Maker, i.Category1} {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		tags = append(tags, candidate)
	}
	return tags
}

package services

import (
	"context"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/storage"
)

const (
	maxLimit = 500

	// defaultDailyQuota 네이버 검색 API 기본 일일 한도
	defaultDailyQuota = 25000

	statsTopN   = 10
	listingTopN = 100
)

type ProductService struct {
	products storage.ProductStore
	usage    storage.UsageStore
}

func NewProductService(products storage.ProductStore, usage storage.UsageStore) *ProductService {
	return &ProductService{products: products, usage: usage}
}

// SearchParams are the optional stored-product filters; zero values mean
// the predicate is absent and is not built at all.
type SearchParams struct {
	Keyword   string
	Category1 string
	MallName  string
	MinPrice  *int
	MaxPrice  *int
	Limit     int
	Skip      int
}

func validatePage(limit, skip int) error {
	if limit < 1 || limit > maxLimit {
		return &ValidationError{Field: "limit", Message: "must be between 1 and 500"}
	}
	if skip < 0 {
		return &ValidationError{Field: "skip", Message: "must be >= 0"}
	}
	return nil
}

// Search returns stored products matching the conjunction of the present
// filters, in storage order, with skip/limit applied after filtering.
func (s *ProductService) Search(ctx context.Context, p SearchParams) ([]models.Product, error) {
	if err := validatePage(p.Limit, p.Skip); err != nil {
		return nil, err
	}

	var filter []storage.Expr

	if p.Keyword != "" {
		// 제목/브랜드/제조사 부분 일치 또는 태그 정확 일치
		filter = append(filter, storage.Or(
			storage.ILike("title", p.Keyword),
			storage.ILike("brand", p.Keyword),
			storage.ILike("maker", p.Keyword),
			storage.TagMember(p.Keyword),
		))
	}
	if p.Category1 != "" {
		filter = append(filter, storage.Eq("category1", p.Category1))
	}
	if p.MallName != "" {
		filter = append(filter, storage.ILike("mall_name", p.MallName))
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		filter = append(filter, storage.Range("lprice", p.MinPrice, p.MaxPrice))
	}

	return s.products.Find(ctx, filter, p.Limit, p.Skip)
}

// List returns stored products without filtering (paginated).
func (s *ProductService) List(ctx context.Context, limit, skip int) ([]models.Product, error) {
	if err := validatePage(limit, skip); err != nil {
		return nil, err
	}
	return s.products.Find(ctx, nil, limit, skip)
}

func (s *ProductService) Get(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.products.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, productID string) error {
	deleted, err := s.products.DeleteByProductID(ctx, productID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

type StatsSummary struct {
	TotalProducts int64                `json:"total_products"`
	TopMalls      []storage.GroupCount `json:"top_malls"`
	TopCategories []storage.GroupCount `json:"top_categories"`
	Timestamp     string               `json:"timestamp"`
}

func (s *ProductService) StatsSummary(ctx context.Context) (*StatsSummary, error) {
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	topMalls, err := s.products.GroupCount(ctx, "mall_name", statsTopN)
	if err != nil {
		return nil, err
	}

	topCategories, err := s.products.GroupCount(ctx, "category1", statsTopN)
	if err != nil {
		return nil, err
	}

	return &StatsSummary{
		TotalProducts: total,
		TopMalls:      topMalls,
		TopCategories: topCategories,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

type APIUsageReport struct {
	Date           string     `json:"date"`
	TotalCalls     int        `json:"total_calls"`
	QuotaLimit     int        `json:"quota_limit"`
	QuotaRemaining int        `json:"quota_remaining"`
	LastCallTime   *time.Time `json:"last_call_time"`
}

// APIUsageToday returns today's quota usage; a day without calls reports
// the default quota untouched.
func (s *ProductService) APIUsageToday(ctx context.Context) (*APIUsageReport, error) {
	today := time.Now().UTC().Format("2006-01-02")

	usage, err := s.usage.FindByDate(ctx, today)
	if err != nil {
		return nil, err
	}

	if usage == nil {
		return &APIUsageReport{
			Date:           today,
			TotalCalls:     0,
			QuotaLimit:     defaultDailyQuota,
			QuotaRemaining: defaultDailyQuota,
			LastCallTime:   nil,
		}, nil
	}

	report := &APIUsageReport{
		Date:           usage.Date,
		TotalCalls:     usage.TotalCalls,
		QuotaLimit:     defaultDailyQuota,
		QuotaRemaining: defaultDailyQuota - usage.TotalCalls,
		LastCallTime:   usage.LastCallTime,
	}
	if usage.QuotaLimit != nil {
		report.QuotaLimit = *usage.QuotaLimit
	}
	if usage.QuotaRemaining != nil {
		report.QuotaRemaining = *usage.QuotaRemaining
	}
	return report, nil
}

// Brands lists the most frequent brands (count desc, ties by name).
func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	return s.groupValues(ctx, "brand")
}

// Categories lists the most frequent first-level categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.groupValues(ctx, "category1")
}

// Malls lists the most frequent mall names.
func (s *ProductService) Malls(ctx context.Context) ([]string, error) {
	return s.groupValues(ctx, "mall_name")
}

// Tags lists the most frequent tags after flattening the tag arrays.
func (s *ProductService) Tags(ctx context.Context) ([]string, error) {
	counts, err := s.products.TagCounts(ctx, listingTopN)
	if err != nil {
		return nil, err
	}
	return groupValuesOnly(counts), nil
}

func (s *ProductService) groupValues(ctx context.Context, column string) ([]string, error) {
	counts, err := s.products.GroupCount(ctx, column, listingTopN)
	if err != nil {
		return nil, err
	}
	return groupValuesOnly(counts), nil
}

func groupValuesOnly(counts []storage.GroupCount) []string {
	values := make([]string, 0, len(counts))
	for _, gc := range counts {
		if gc.Value == "" {
			continue
		}
		values = append(values, gc.Value)
	}
	return values
}

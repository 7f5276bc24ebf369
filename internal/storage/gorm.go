package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyunwoo-kim/naver-shopping-collector/internal/database"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productStore struct {
	db *database.DB
}

// NewProductStore returns the GORM-backed ProductStore.
func NewProductStore(db *database.DB) ProductStore {
	return &productStore{db: db}
}

func (s *productStore) FindByProductID(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *productStore) Insert(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *productStore) UpdatePrices(ctx context.Context, productID string, lprice, hprice int, now time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Product{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"lprice":     lprice,
			"hprice":     hprice,
			"updated_at": now,
		}).Error
}

func (s *productStore) Find(ctx context.Context, filter []Expr, limit, skip int) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	for _, e := range filter {
		sql, args := e.Clause()
		query = query.Where(sql, args...)
	}

	products := make([]models.Product, 0)
	if err := query.Offset(skip).Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}

func (s *productStore) DeleteByProductID(ctx context.Context, productID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

// groupColumns 집계가 허용된 컬럼 (동적 SQL 조립 주의)
var groupColumns = map[string]bool{
	"brand":     true,
	"mall_name": true,
	"category1": true,
}

func (s *productStore) GroupCount(ctx context.Context, column string, limit int) ([]GroupCount, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("group count not supported for column %q", column)
	}

	results := make([]GroupCount, 0)
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select(fmt.Sprintf("%s AS value, COUNT(*) AS count", column)).
		Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", column, column)).
		Group(column).
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *productStore) TagCounts(ctx context.Context, limit int) ([]GroupCount, error) {
	results := make([]GroupCount, 0)
	err := s.db.WithContext(ctx).Raw(`
		SELECT tag AS value, COUNT(*) AS count
		FROM products, unnest(tags) AS tag
		WHERE tag <> ''
		GROUP BY tag
		ORDER BY count DESC, value ASC
		LIMIT ?`, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

type historyStore struct {
	db *database.DB
}

// NewHistoryStore returns the GORM-backed HistoryStore.
func NewHistoryStore(db *database.DB) HistoryStore {
	return &historyStore{db: db}
}

func (s *historyStore) Append(ctx context.Context, h *models.SearchHistory) error {
	return s.db.WithContext(ctx).Create(h).Error
}

type usageStore struct {
	db *database.DB
}

// NewUsageStore returns the GORM-backed UsageStore.
func NewUsageStore(db *database.DB) UsageStore {
	return &usageStore{db: db}
}

// RecordCall upserts today's row in a single statement so that concurrent
// first calls of a new day cannot create duplicate day records.
func (s *usageStore) RecordCall(ctx context.Context, now time.Time, quotaLimit, quotaRemaining *int) error {
	usage := models.ApiUsage{
		Date:           now.Format("2006-01-02"),
		TotalCalls:     1,
		LastCallTime:   &now,
		QuotaLimit:     quotaLimit,
		QuotaRemaining: quotaRemaining,
	}

	assignments := map[string]any{
		"total_calls":    gorm.Expr("api_usage.total_calls + 1"),
		"last_call_time": now,
	}
	if quotaLimit != nil {
		assignments["quota_limit"] = *quotaLimit
	}
	if quotaRemaining != nil {
		assignments["quota_remaining"] = *quotaRemaining
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&usage).Error
}

func (s *usageStore) FindByDate(ctx context.Context, date string) (*models.ApiUsage, error) {
	var usage models.ApiUsage
	err := s.db.WithContext(ctx).Where("date = ?", date).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

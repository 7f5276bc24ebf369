package models

import (
	"time"

	"github.com/lib/pq"
)

// Product represents one collected Naver shopping catalog item
// DB: products
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	ProductID   string         `gorm:"column:product_id;size:64;not null;uniqueIndex:products_product_id_key" json:"product_id"`
	Title       string         `gorm:"column:title;type:text;not null" json:"title"`
	Link        string         `gorm:"column:link;type:text" json:"link,omitempty"`
	Image       string         `gorm:"column:image;type:text" json:"image,omitempty"`
	Lprice      int            `gorm:"column:lprice;not null;default:0;index:idx_products_lprice" json:"lprice"`
	Hprice      int            `gorm:"column:hprice;not null;default:0" json:"hprice"`
	MallName    string         `gorm:"column:mall_name;size:255;index:idx_products_mall" json:"mall_name,omitempty"`
	ProductType string         `gorm:"column:product_type;size:10" json:"product_type,omitempty"`
	Brand       string         `gorm:"column:brand;size:255" json:"brand,omitempty"`
	Maker       string         `gorm:"column:maker;size:255" json:"maker,omitempty"`
	Category1   string         `gorm:"column:category1;size:255;index:idx_products_category1" json:"category1,omitempty"`
	Category2   string         `gorm:"column:category2;size:255" json:"category2,omitempty"`
	Category3   string         `gorm:"column:category3;size:255" json:"category3,omitempty"`
	Category4   string         `gorm:"column:category4;size:255" json:"category4,omitempty"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// SearchHistory is the audit record of one collect run
// DB: search_history
type SearchHistory struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	SearchKeyword string    `gorm:"column:search_keyword;size:255;not null;index:idx_history_keyword" json:"search_keyword"`
	TotalCount    int       `gorm:"column:total_count;not null" json:"total_count"`
	Display       int       `gorm:"column:display;not null" json:"display"`
	Start         int       `gorm:"column:start;not null" json:"start"`
	CollectedAt   time.Time `gorm:"column:collected_at;not null" json:"collected_at"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}

package models

import "time"

// ApiUsage tracks daily Naver API call counts, one row per calendar day.
// quota_limit/quota_remaining mirror the X-RateLimit-* response headers.
// DB: api_usage
type ApiUsage struct {
	ID             uint       `gorm:"primaryKey" json:"-"`
	Date           string     `gorm:"column:date;size:10;not null;uniqueIndex:api_usage_date_key" json:"date"`
	TotalCalls     int        `gorm:"column:total_calls;not null;default:0" json:"total_calls"`
	LastCallTime   *time.Time `gorm:"column:last_call_time" json:"last_call_time,omitempty"`
	QuotaLimit     *int       `gorm:"column:quota_limit" json:"quota_limit,omitempty"`
	QuotaRemaining *int       `gorm:"column:quota_remaining" json:"quota_remaining,omitempty"`
}

func (ApiUsage) TableName() string {
	return "api_usage"
}

package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 저장된 상품이 존재하지 않음
	ErrNotFound = errors.New("product not found")
	// ErrNoResults 네이버 검색 결과가 비어 있음
	ErrNoResults = errors.New("no search results")
)

// ValidationError rejects bad query parameters before any storage call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ExternalAPIError is a terminal failure from the Naver open API:
// a non-success status or an undecodable payload.
type ExternalAPIError struct {
	StatusCode int
	Message    string
}

func (e *ExternalAPIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("naver api error (status=%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("naver api error: %s", e.Message)
}

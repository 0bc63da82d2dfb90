package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit within int.
	MaxPage = math.MaxInt / MaxLimit
)

// Pagination describes one page of an ordered listing.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Page is the envelope returned by every paginated endpoint.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ParsePagination reads page and limit query values. Unparsable or zero values fall back to
// the defaults, page is clamped to [1, MaxPage] and limit to [1, MaxLimit].
func ParsePagination(pageStr, limitStr string) (int, int) {
	page := parsePositive(pageStr, DefaultPage)
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	return page, ParseLimit(limitStr, DefaultLimit)
}

// ParseLimit parses a limit value with the given default, clamped to [1, MaxLimit].
func ParseLimit(limitStr string, def int) int {
	limit := parsePositive(limitStr, def)
	switch {
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Offset returns the number of rows to skip for page, saturating at math.MaxInt.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// NewPagination computes the derived paging fields.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// NewPage wraps data in the page envelope. A nil slice is rendered as [].
func NewPage[T any](data []T, page, limit int, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Pagination: NewPagination(page, limit, total)}
}

// parsePositive returns def for blank, zero or unparsable input. Out of range numbers keep
// their saturated value so callers clamp them instead of resetting to the default.
func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return def
	}
	if n == 0 {
		return def
	}
	return n
}

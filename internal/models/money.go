package models

import (
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount in dollars with two decimals, e.g. "$23.25".
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// Paginate converts a 1-based page number into limit/offset. Pages below 1 read as 1.
func Paginate(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// NewPage wraps items with the paging numbers computed from total.
func NewPage[T any](items []T, total int64, page, perPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Page[T]{Items: items, Total: total, Page: page, PerPage: perPage, TotalPages: pages}
}

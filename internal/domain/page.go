package domain

import (
	"slices"
	"strings"
)

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 1000
)

// ListParams carries pagination and ordering for list endpoints.
type ListParams struct {
	Page     int
	Limit    int
	OrderBy  string
	OrderDir string
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Normalize clamps page and limit and restricts ordering to allowed columns,
// falling back to defaultOrder and defaultDir.
func (p ListParams) Normalize(allowed []string, defaultOrder, defaultDir string) ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if !slices.Contains(allowed, p.OrderBy) {
		p.OrderBy = defaultOrder
	}
	switch strings.ToUpper(p.OrderDir) {
	case "ASC":
		p.OrderDir = "ASC"
	case "DESC":
		p.OrderDir = "DESC"
	default:
		p.OrderDir = defaultDir
	}
	return p
}

// PageMeta describes the page returned by a list endpoint.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int64 `json:"total_pages"`
	From       int64 `json:"from"`
	To         int64 `json:"to"`
}

// NewPageMeta computes page meta for total rows under p.
func NewPageMeta(total int64, p ListParams) PageMeta {
	m := PageMeta{Total: total, Page: p.Page, PerPage: p.Limit}
	if total == 0 || p.Limit <= 0 {
		return m
	}
	limit := int64(p.Limit)
	m.TotalPages = (total + limit - 1) / limit
	offset := int64(p.Offset())
	m.From = offset + 1
	m.To = min(offset+limit, total)
	if m.From > total {
		m.From, m.To = 0, 0
	}
	return m
}

// Page is a slice of items with its meta.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

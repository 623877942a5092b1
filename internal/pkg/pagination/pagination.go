// Package pagination implements offset paging: skip = (page-1)*limit and
// totalPages = ceil(total/limit).
package pagination

import "strconv"

const DefaultLimit = 10

// Params is a normalized page request.
type Params struct {
	Page  int
	Limit int
}

// New normalizes page and limit, falling back to page 1 and defaultLimit.
func New(page, limit, defaultLimit int) Params {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Parse builds Params from raw query values. Unparseable values use defaults.
func Parse(page, limit string, defaultLimit int) Params {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return New(p, l, defaultLimit)
}

// Offset returns the number of records to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the metadata embedded in list responses.
type Page struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
}

// Meta computes page metadata for total records.
func (p Params) Meta(total int64) Page {
	return Page{
		CurrentPage: p.Page,
		TotalPages:  TotalPages(total, p.Limit),
		Limit:       p.Limit,
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

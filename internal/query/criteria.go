package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Criteria is the untrusted filter/sort/page input of a list request. Every
// field is optional; the zero value lists the first page of everything the
// caller owns.
type Criteria struct {
	Search        string
	Gender        string
	Designation   string
	Course        string
	SortField     string
	SortDirection string
	Page          string
	PageSize      string
}

// ParseCriteria reads list parameters from a query string. Any owner-like
// parameter is ignored: ownership comes from the caller identity only.
func ParseCriteria(v url.Values) Criteria {
	return Criteria{
		Search:        strings.TrimSpace(v.Get("search")),
		Gender:        strings.TrimSpace(v.Get("gender")),
		Designation:   strings.TrimSpace(v.Get("designation")),
		Course:        strings.TrimSpace(v.Get("course")),
		SortField:     strings.TrimSpace(v.Get("sortBy")),
		SortDirection: strings.TrimSpace(v.Get("sortOrder")),
		Page:          strings.TrimSpace(v.Get("page")),
		PageSize:      strings.TrimSpace(v.Get("limit")),
	}
}

// Paging is the coerced page window.
type Paging struct {
	Page     int
	PageSize int
}

// Offset is the number of matching records skipped before the page. Pages
// too far out to address saturate at math.MaxInt, which is past any result.
func (p Paging) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// CoercePaging turns raw page/size strings into positive integers, falling
// back to defaults for missing or invalid values.
func CoercePaging(page, size string) Paging {
	p := Paging{Page: DefaultPage, PageSize: DefaultPageSize}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 {
		if n > MaxPageSize {
			n = MaxPageSize
		}
		p.PageSize = n
	}
	return p
}

// TotalPages returns ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

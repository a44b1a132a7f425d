package request

import (
	"net/url"

	"rental-booking/pkg/utils"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// PaginatedRequest is read from ?page=&per_page= on admin listings.
type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// PaginationFromQuery never fails: missing or unreadable values fall back to
// the first page at the default size.
func PaginationFromQuery(q url.Values) *PaginatedRequest {
	return &PaginatedRequest{
		Page:    utils.ParseInt(q.Get("page"), 1),
		PerPage: utils.ParseInt(q.Get("per_page"), defaultPerPage),
	}
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return defaultPerPage
	case p.PerPage > maxPerPage:
		return maxPerPage
	}
	return p.PerPage
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

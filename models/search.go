package models

import "time"

// SearchFilters carries the optional structured filters of a search
// request. A nil field imposes no constraint. Result takes effect only
// when both scores were supplied on the request.
type SearchFilters struct {
	Status   *FixtureStatus `json:"status,omitempty"`
	Season   *string        `json:"season,omitempty"`
	Venue    *string        `json:"venue,omitempty"`
	DateFrom *time.Time     `json:"dateFrom,omitempty"`
	DateTo   *time.Time     `json:"dateTo,omitempty"`
	Team     *string        `json:"team,omitempty"`
	Result   *FixtureResult `json:"result,omitempty"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the metadata for one result axis.
// TotalPages is 0 when the total is 0.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

type TeamPage struct {
	Items      []Team     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type FixturePage struct {
	Items      []Fixture  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type SearchResults struct {
	Teams    TeamPage    `json:"teams"`
	Fixtures FixturePage `json:"fixtures"`
}

// SearchResult is the response envelope of the search endpoint.
type SearchResult struct {
	Status          string        `json:"status"`
	Timestamp       time.Time     `json:"timestamp"`
	Query           string        `json:"query"`
	IsDateSearch    bool          `json:"isDateSearch"`
	IsStadiumSearch bool          `json:"isStadiumSearch"`
	Filters         SearchFilters `json:"filters"`
	Results         SearchResults `json:"results"`
}

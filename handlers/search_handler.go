package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/services"
)

type SearchHandler struct {
	searchService services.SearchService
}

func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/search. The query parameter must be present
// exactly once; everything else is optional and falls back to defaults
// when absent or malformed.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	queries, ok := values["query"]
	if !ok || len(queries) != 1 {
		badRequestResponse(w, r, services.ErrInvalidSearchQuery)
		return
	}
	query := queries[0]

	teamPage := queryInt(values, "teamPage", services.DefaultPage)
	fixturePage := queryInt(values, "fixturePage", services.DefaultPage)
	limit := queryInt(values, "limit", services.DefaultLimit)

	filters := parseSearchFilters(values)

	result, err := h.searchService.Search(r.Context(), query, teamPage, fixturePage, limit, filters)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseSearchFilters(values url.Values) models.SearchFilters {
	var filters models.SearchFilters

	if raw := values.Get("status"); raw != "" {
		status := models.FixtureStatus(raw)
		if status == models.FixtureStatusPending || status == models.FixtureStatusCompleted {
			filters.Status = &status
		}
	}
	if raw := values.Get("season"); raw != "" {
		filters.Season = &raw
	}
	if raw := values.Get("venue"); raw != "" {
		filters.Venue = &raw
	}
	if raw := values.Get("team"); raw != "" {
		filters.Team = &raw
	}
	if t, ok := parseFilterDate(values.Get("dateFrom")); ok {
		filters.DateFrom = &t
	}
	if t, ok := parseFilterDate(values.Get("dateTo")); ok {
		filters.DateTo = &t
	}

	// A score filter only forms when both sides parse.
	home, homeOK := parseFilterInt(values.Get("homeScore"))
	away, awayOK := parseFilterInt(values.Get("awayScore"))
	if homeOK && awayOK {
		filters.Result = &models.FixtureResult{HomeScore: home, AwayScore: away}
	}

	return filters
}

func parseFilterDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseFilterInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

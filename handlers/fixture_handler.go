package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/services"
)

type FixtureHandler struct {
	fixtureService services.FixtureService
}

func NewFixtureHandler(fixtureService services.FixtureService) *FixtureHandler {
	return &FixtureHandler{fixtureService: fixtureService}
}

// CreateFixture handles POST /api/fixtures.
func (h *FixtureHandler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	var input services.FixtureInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.fixtureService.CreateFixture(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"status": "success", "fixture": fixture}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListFixtures handles GET /api/fixtures.
func (h *FixtureHandler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := queryInt(values, "page", services.DefaultPage)
	limit := queryInt(values, "limit", services.DefaultLimit)

	fixtures, err := h.fixtureService.ListFixtures(r.Context(), page, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPendingFixtures handles GET /api/fixtures/pending.
func (h *FixtureHandler) ListPendingFixtures(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, models.FixtureStatusPending)
}

// ListCompletedFixtures handles GET /api/fixtures/completed.
func (h *FixtureHandler) ListCompletedFixtures(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, models.FixtureStatusCompleted)
}

func (h *FixtureHandler) listByStatus(w http.ResponseWriter, r *http.Request, status models.FixtureStatus) {
	values := r.URL.Query()
	page := queryInt(values, "page", services.DefaultPage)
	limit := queryInt(values, "limit", services.DefaultLimit)

	fixtures, err := h.fixtureService.ListFixturesByStatus(r.Context(), status, page, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFixture handles GET /api/fixtures/{fixtureID}.
func (h *FixtureHandler) GetFixture(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.fixtureService.GetFixture(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "fixture": fixture}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFixtureByLink handles GET /api/fixtures/link/{uniqueLink}. The
// link lookup is public and requires no session.
func (h *FixtureHandler) GetFixtureByLink(w http.ResponseWriter, r *http.Request) {
	link := strings.TrimSpace(chi.URLParam(r, "uniqueLink"))
	if link == "" {
		notFoundResponse(w, r)
		return
	}

	fixture, err := h.fixtureService.GetFixtureByUniqueLink(r.Context(), link)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "fixture": fixture}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateFixture handles PATCH /api/fixtures/{fixtureID}.
func (h *FixtureHandler) UpdateFixture(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FixtureUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.fixtureService.UpdateFixture(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "fixture": fixture}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteFixture handles DELETE /api/fixtures/{fixtureID}.
func (h *FixtureHandler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.fixtureService.DeleteFixture(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

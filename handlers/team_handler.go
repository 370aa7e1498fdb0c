package handlers

import (
	"errors"
	"net/http"

	"github.com/Hybee22/football-fixture-api/services"
)

const maxCrestSize = 5 << 20 // 5MB

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam handles POST /api/teams.
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"status": "success", "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams handles GET /api/teams with page/limit query parameters.
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := queryInt(values, "page", services.DefaultPage)
	limit := queryInt(values, "limit", services.DefaultLimit)

	teams, err := h.teamService.ListTeams(r.Context(), page, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeam handles GET /api/teams/{teamID}.
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTeam handles PATCH /api/teams/{teamID}. Absent fields keep their
// stored values.
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeamUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeam handles DELETE /api/teams/{teamID}.
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadCrest handles PUT /api/teams/{teamID}/crest. Expects a
// multipart form with a "crest" file part.
func (h *TeamHandler) UploadCrest(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxCrestSize); err != nil {
		badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("crest")
	if err != nil {
		badRequestResponse(w, r, errors.New("crest file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	team, err := h.teamService.UploadCrest(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

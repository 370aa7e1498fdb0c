package handlers

import (
	"net/http"

	"github.com/Hybee22/football-fixture-api/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAdmin handles POST /api/admin/create-admin. The route is restricted to the
// superadmin role.
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var input createAdminRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminService.CreateAdmin(r.Context(), input.Email, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"status": "success", "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

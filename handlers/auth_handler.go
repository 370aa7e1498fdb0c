package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Hybee22/football-fixture-api/middleware"
	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/services"
)

const sessionTTL = 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{authService: authService, jwtSecret: jwtSecret}
}

// Register handles POST /api/auth/register. New accounts always start with
// the regular user role.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.setSessionCookie(w, user)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"status": "success", "user": user, "token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.setSessionCookie(w, user)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "user": user, "token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "success", "message": "logged out"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// setSessionCookie signs a session token for the user, sets it as the
// HttpOnly session cookie and returns it for the response body.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(sessionTTL).Unix(),
	})

	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return signed, nil
}

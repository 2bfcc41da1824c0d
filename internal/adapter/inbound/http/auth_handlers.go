package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aoldacloud/console/internal/service"
)

// CookieSettings controls the session cookie the login endpoint sets.
// Defaults mirror the behavior browser clients already depend on: the
// cookie is readable by frontend scripts and sent cross-site.
type CookieSettings struct {
	MaxAge   int
	Secure   bool
	HTTPOnly bool
}

// AuthHandlers serves the login, logout, and project-scope endpoints.
type AuthHandlers struct {
	auth     *service.AuthService
	validate *validator.Validate
	cookie   CookieSettings
	metrics  *Metrics
}

// NewAuthHandlers creates the auth endpoint handlers.
func NewAuthHandlers(auth *service.AuthService, cookie CookieSettings, metrics *Metrics) *AuthHandlers {
	return &AuthHandlers{
		auth:     auth,
		validate: validator.New(),
		cookie:   cookie,
		metrics:  metrics,
	}
}

// loginRequest is the login endpoint's request body.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// switchProjectRequest is the project-switch request body.
type switchProjectRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// Login handles POST /api/v1.0/auth/login.
// A successful login returns the session token in the body and also sets
// it as a cookie for browser clients.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		writeServiceError(logger, w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthTokenCookie,
		Value:    result.AuthToken,
		Path:     "/",
		MaxAge:   h.cookie.MaxAge,
		Secure:   h.cookie.Secure,
		HttpOnly: h.cookie.HTTPOnly,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/v1.0/auth/logout. The session is dropped and
// the cookie cleared.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	if err := h.auth.Logout(r.Context()); err != nil {
		writeServiceError(logger, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: h.cookie.HTTPOnly,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// CurrentProject handles GET /api/v1.0/auth/project.
func (h *AuthHandlers) CurrentProject(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	scope, err := h.auth.CurrentProject(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, scope)
}

// SwitchProject handles PUT /api/v1.0/auth/project.
func (h *AuthHandlers) SwitchProject(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req switchProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	scope, err := h.auth.SwitchProject(r.Context(), req.ProjectID)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, scope)
}

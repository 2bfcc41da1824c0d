package http

import (
	"net/http"

	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/domains"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/projects"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/users"

	"github.com/aoldacloud/console/internal/service"
)

// IdentityHandlers serves the project, domain, and user directory
// endpoints.
type IdentityHandlers struct {
	auth      *service.AuthService
	directory *service.DirectoryService
}

// NewIdentityHandlers creates the identity endpoint handlers.
func NewIdentityHandlers(auth *service.AuthService, directory *service.DirectoryService) *IdentityHandlers {
	return &IdentityHandlers{auth: auth, directory: directory}
}

// projectUpdateRequest carries the mutable project attributes.
type projectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

// domainUpdateRequest carries the mutable domain attributes.
type domainUpdateRequest struct {
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

// userUpdateRequest carries the mutable user attributes.
type userUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

func (h *IdentityHandlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.auth.Projects(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *IdentityHandlers) GetProject(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	project, err := h.auth.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *IdentityHandlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req projectUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	opts := projects.UpdateOpts{
		Description: req.Description,
		Enabled:     req.Enabled,
	}
	if req.Name != nil {
		opts.Name = *req.Name
	}

	project, err := h.auth.UpdateProject(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *IdentityHandlers) ListDomains(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.directory.Domains(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *IdentityHandlers) GetDomain(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	domain, err := h.directory.Domain(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain)
}

func (h *IdentityHandlers) UpdateDomain(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req domainUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	domain, err := h.directory.UpdateDomain(r.Context(), r.PathValue("id"), domains.UpdateOpts{
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain)
}

func (h *IdentityHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.directory.Users(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *IdentityHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	user, err := h.directory.User(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *IdentityHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	opts := users.UpdateOpts{
		Enabled: req.Enabled,
	}
	if req.Name != nil {
		opts.Name = *req.Name
	}
	if req.Description != nil {
		opts.Description = req.Description
	}

	user, err := h.directory.UpdateUser(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

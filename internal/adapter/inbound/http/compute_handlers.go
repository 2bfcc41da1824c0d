package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aoldacloud/console/internal/adapter/outbound/nova"
	"github.com/aoldacloud/console/internal/service"
)

// ComputeHandlers serves the server, flavor, and quota endpoints.
type ComputeHandlers struct {
	compute  *service.ComputeService
	validate *validator.Validate
}

// NewComputeHandlers creates the compute endpoint handlers.
func NewComputeHandlers(compute *service.ComputeService) *ComputeHandlers {
	return &ComputeHandlers{compute: compute, validate: validator.New()}
}

// serverActionRequest names the action to perform on a server.
type serverActionRequest struct {
	Action string `json:"action" validate:"required"`
}

// snapshotRequest names the image created from a server.
type snapshotRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *ComputeHandlers) ListServers(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.compute.Servers(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ComputeHandlers) GetServer(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	server, err := h.compute.Server(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, server)
}

func (h *ComputeHandlers) CreateServer(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req nova.ServerCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name, imageId, and flavorId are required")
		return
	}

	server, err := h.compute.CreateServer(r.Context(), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, server)
}

func (h *ComputeHandlers) UpdateServer(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req nova.ServerUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	server, err := h.compute.UpdateServer(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, server)
}

func (h *ComputeHandlers) DeleteServer(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	if err := h.compute.DeleteServer(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ComputeHandlers) ServerAction(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req serverActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	if err := h.compute.ServerAction(r.Context(), r.PathValue("id"), req.Action); err != nil {
		if errors.Is(err, nova.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, "unsupported server action")
			return
		}
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *ComputeHandlers) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req snapshotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	imageID, err := h.compute.CreateSnapshot(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"imageId": imageID})
}

func (h *ComputeHandlers) ServerMetadata(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	md, err := h.compute.ServerMetadata(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

func (h *ComputeHandlers) UpdateServerMetadata(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var md map[string]string
	if err := decodeJSON(r, &md); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.compute.UpdateServerMetadata(r.Context(), r.PathValue("id"), md)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ComputeHandlers) ListFlavors(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.compute.Flavors(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ComputeHandlers) Limits(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	l, err := h.compute.Limits(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

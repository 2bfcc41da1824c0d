package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aoldacloud/console/internal/adapter/outbound/heimdall"
	"github.com/aoldacloud/console/internal/service"
)

// ProxyHandlers serves the proxy record endpoints backed by Heimdall.
type ProxyHandlers struct {
	proxy    *service.ProxyService
	validate *validator.Validate
}

// NewProxyHandlers creates the proxy endpoint handlers.
func NewProxyHandlers(proxy *service.ProxyService) *ProxyHandlers {
	return &ProxyHandlers{proxy: proxy, validate: validator.New()}
}

// proxyRequest is the create/update request body. The owner is always the
// authenticated caller; any username in the body is ignored.
type proxyRequest struct {
	ID         int64  `json:"id"`
	ProxyName  string `json:"proxyName" validate:"required"`
	TargetHost string `json:"targetHost" validate:"required"`
	TargetPort int    `json:"targetPort" validate:"required,min=1,max=65535"`
	Protocol   string `json:"protocol"`
}

func (h *ProxyHandlers) List(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.proxy.Proxies(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ProxyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "proxy id must be numeric")
		return
	}
	p, err := h.proxy.Proxy(r.Context(), id)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProxyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req proxyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "proxyName, targetHost, and a valid targetPort are required")
		return
	}

	p, err := h.proxy.CreateProxy(r.Context(), heimdall.Proxy{
		ProxyName:  req.ProxyName,
		TargetHost: req.TargetHost,
		TargetPort: req.TargetPort,
		Protocol:   req.Protocol,
	})
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProxyHandlers) Update(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "proxy id must be numeric")
		return
	}

	var req proxyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "proxyName, targetHost, and a valid targetPort are required")
		return
	}

	p, err := h.proxy.UpdateProxy(r.Context(), heimdall.Proxy{
		ID:         id,
		ProxyName:  req.ProxyName,
		TargetHost: req.TargetHost,
		TargetPort: req.TargetPort,
		Protocol:   req.Protocol,
	})
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProxyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "proxy id must be numeric")
		return
	}
	if err := h.proxy.DeleteProxy(r.Context(), id); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

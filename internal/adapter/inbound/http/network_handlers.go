package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aoldacloud/console/internal/adapter/outbound/neutron"
	"github.com/aoldacloud/console/internal/service"
)

// NetworkHandlers serves the network, subnet, port, router, and floating
// IP endpoints.
type NetworkHandlers struct {
	network  *service.NetworkService
	validate *validator.Validate
}

// NewNetworkHandlers creates the network endpoint handlers.
func NewNetworkHandlers(network *service.NetworkService) *NetworkHandlers {
	return &NetworkHandlers{network: network, validate: validator.New()}
}

// routerInterfaceRequest names the subnet to attach or detach.
type routerInterfaceRequest struct {
	SubnetID string `json:"subnetId" validate:"required"`
}

// associateRequest names the port to bind a floating IP to.
type associateRequest struct {
	PortID string `json:"portId" validate:"required"`
}

func (h *NetworkHandlers) ListNetworks(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.network.Networks(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NetworkHandlers) GetNetwork(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	n, err := h.network.Network(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NetworkHandlers) ListSubnets(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.network.Subnets(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NetworkHandlers) GetSubnet(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	subnet, err := h.network.Subnet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, subnet)
}

func (h *NetworkHandlers) CreateSubnet(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.SubnetCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "networkId and a valid cidr are required")
		return
	}

	subnet, err := h.network.CreateSubnet(r.Context(), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subnet)
}

func (h *NetworkHandlers) UpdateSubnet(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.SubnetUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	subnet, err := h.network.UpdateSubnet(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, subnet)
}

func (h *NetworkHandlers) DeleteSubnet(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	if err := h.network.DeleteSubnet(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *NetworkHandlers) ListPorts(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.network.Ports(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NetworkHandlers) GetPort(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	port, err := h.network.Port(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, port)
}

func (h *NetworkHandlers) CreatePort(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.PortCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "networkId is required")
		return
	}

	port, err := h.network.CreatePort(r.Context(), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, port)
}

func (h *NetworkHandlers) UpdatePort(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.PortUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	port, err := h.network.UpdatePort(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, port)
}

func (h *NetworkHandlers) DeletePort(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	if err := h.network.DeletePort(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *NetworkHandlers) ListRouters(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.network.Routers(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NetworkHandlers) GetRouter(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	router, err := h.network.Router(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, router)
}

func (h *NetworkHandlers) CreateRouter(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.RouterCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	router, err := h.network.CreateRouter(r.Context(), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, router)
}

func (h *NetworkHandlers) UpdateRouter(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.RouterUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	router, err := h.network.UpdateRouter(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, router)
}

func (h *NetworkHandlers) DeleteRouter(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	if err := h.network.DeleteRouter(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *NetworkHandlers) AddRouterInterface(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req routerInterfaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "subnetId is required")
		return
	}

	info, err := h.network.AddRouterInterface(r.Context(), r.PathValue("id"), req.SubnetID)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *NetworkHandlers) RemoveRouterInterface(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req routerInterfaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "subnetId is required")
		return
	}

	if err := h.network.RemoveRouterInterface(r.Context(), r.PathValue("id"), req.SubnetID); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "detached"})
}

func (h *NetworkHandlers) ListFloatingIPs(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	list, err := h.network.FloatingIPs(r.Context())
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NetworkHandlers) GetFloatingIP(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	fip, err := h.network.FloatingIP(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, fip)
}

func (h *NetworkHandlers) CreateFloatingIP(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req neutron.FloatingIPCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "floatingNetworkId is required")
		return
	}

	fip, err := h.network.CreateFloatingIP(r.Context(), req)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fip)
}

func (h *NetworkHandlers) AssociateFloatingIP(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	var req associateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "portId is required")
		return
	}

	fip, err := h.network.AssociateFloatingIP(r.Context(), r.PathValue("id"), req.PortID)
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, fip)
}

func (h *NetworkHandlers) DisassociateFloatingIP(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	fip, err := h.network.DisassociateFloatingIP(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, fip)
}

func (h *NetworkHandlers) DeleteFloatingIP(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())
	if err := h.network.DeleteFloatingIP(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

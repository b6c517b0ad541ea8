package restapi

import (
	"errors"
	"net/http"
	"net/url"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/network/healthcheck"

	"github.com/gin-gonic/gin"
)

// NetworkHandler handles HTTP requests for the connection manager operations.
type NetworkHandler struct {
	manager port.ConnectionManager
	health  *healthcheck.Tracker
	logger  port.Logger
}

// NewNetworkHandler creates a new NetworkHandler.
func NewNetworkHandler(manager port.ConnectionManager, health *healthcheck.Tracker, logger port.Logger) *NetworkHandler {
	return &NetworkHandler{manager: manager, health: health, logger: logger}
}

// networkResponse is the read-out of the active network.
type networkResponse struct {
	EndpointConfig    entity.EndpointConfig    `json:"endpointConfig"`
	ConnectivityState entity.ConnectivityState `json:"connectivityState"`
	ChainGenerationID *string                  `json:"chainGenerationId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetNetworkHandler returns the active endpoint config and connectivity state.
func (h *NetworkHandler) GetNetworkHandler(c *gin.Context) {
	state, generationID := h.manager.Connectivity()
	c.JSON(http.StatusOK, networkResponse{
		EndpointConfig:    h.manager.CurrentConfig(),
		ConnectivityState: state,
		ChainGenerationID: generationID,
	})
}

// SwitchWellKnownHandler switches to a well-known network by identifier.
func (h *NetworkHandler) SwitchWellKnownHandler(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.SwitchToWellKnown(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetNetworkHandler(c)
}

// SwitchCustomHandler switches to a stored custom endpoint by id.
func (h *NetworkHandler) SwitchCustomHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.manager.SwitchToCustom(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetNetworkHandler(c)
}

// RefreshHandler re-runs the refresh sequence without switching networks.
func (h *NetworkHandler) RefreshHandler(c *gin.Context) {
	if err := h.manager.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetNetworkHandler(c)
}

// RollbackHandler restores the previously active endpoint config.
func (h *NetworkHandler) RollbackHandler(c *gin.Context) {
	if err := h.manager.Rollback(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetNetworkHandler(c)
}

// upsertRequest is the PUT body for custom endpoint upserts.
type upsertRequest struct {
	Endpoint entity.CustomEndpoint `json:"endpoint"`
	Options  entity.UpsertOptions  `json:"options"`
}

// UpsertCustomHandler inserts or updates a custom endpoint definition.
func (h *NetworkHandler) UpsertCustomHandler(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	id, err := h.manager.UpsertCustomEndpoint(c.Request.Context(), req.Endpoint, req.Options)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// RemoveCustomHandler deletes a custom endpoint definition.
func (h *NetworkHandler) RemoveCustomHandler(c *gin.Context) {
	if err := h.manager.RemoveCustomEndpoint(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCustomHandler returns the custom endpoint registry.
func (h *NetworkHandler) ListCustomHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"endpoints": h.manager.CustomEndpoints()})
}

// FeeCapabilityHandler returns the dynamic-fee capability, probing if needed.
func (h *NetworkHandler) FeeCapabilityHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{entity.CapabilityDynamicFee: h.manager.GetFeeCapability(c.Request.Context())})
}

// ProbeHandler forces a status re-probe of the current resources.
func (h *NetworkHandler) ProbeHandler(c *gin.Context) {
	h.manager.Probe(c.Request.Context())
	h.GetNetworkHandler(c)
}

// pingRequest is the POST body for an on-demand endpoint health ping.
type pingRequest struct {
	Endpoint string `json:"endpoint"`
}

// PingEndpointHandler actively pings an RPC endpoint with a block-number
// request and returns the recorded observation.
func (h *NetworkHandler) PingEndpointHandler(c *gin.Context) {
	var req pingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if parsed, err := url.Parse(req.Endpoint); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "endpoint must be an absolute URL"})
		return
	}
	c.JSON(http.StatusOK, h.health.Ping(req.Endpoint))
}

// EndpointHealthHandler returns the unexpired endpoint health records.
func (h *NetworkHandler) EndpointHealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"endpoints": h.health.Snapshot()})
}

// respondError maps domain errors onto HTTP status codes.
func (h *NetworkHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrInvalidNetwork),
		errors.Is(err, entity.ErrUnknownEndpoint):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidChainID),
		errors.Is(err, entity.ErrMissingChainID),
		errors.Is(err, entity.ErrMissingURL),
		errors.Is(err, entity.ErrInvalidURL),
		errors.Is(err, entity.ErrMissingTicker),
		errors.Is(err, entity.ErrMissingAttribution):
		status = http.StatusBadRequest
	}
	h.logger.Warn("request failed", "status", status, "error", err)
	c.JSON(status, errorResponse{Error: err.Error()})
}

package api

import (
	"net/http"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeRequestHandler exposes the trainer-change workflow. Clients open
// requests against their own profile; admins resolve them.
type ChangeRequestHandler struct {
	requestService service.ChangeRequestService
	clientService  service.ClientService
}

// NewChangeRequestHandler creates a new ChangeRequestHandler.
func NewChangeRequestHandler(requestService service.ChangeRequestService, clientService service.ClientService) *ChangeRequestHandler {
	return &ChangeRequestHandler{requestService: requestService, clientService: clientService}
}

type CreateChangeRequestRequest struct {
	RequestedTrainerID string `json:"requestedTrainerId" binding:"required"`
}

// Create opens a pending trainer-change request for the authenticated client.
func (h *ChangeRequestHandler) Create(c *gin.Context) {
	var req CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	client, err := h.clientService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.RequestedTrainerID)
	if err != nil {
		respondValidation(c, map[string]string{"requestedTrainerId": "invalid id"})
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), client.ID, trainerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, request)
}

// GetByID returns one change request. Non-admin callers may only read
// requests opened against their own client profile.
func (h *ChangeRequestHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !hasScope(c, domain.ScopeAdmin) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
			return
		}
		client, err := h.clientService.GetByUserID(c.Request.Context(), userID)
		if err != nil || client.ID != request.ClientID {
			respondError(c, http.StatusForbidden, "Access denied: not your request")
			return
		}
	}

	respond(c, http.StatusOK, request)
}

// Approve resolves a pending request and reassigns the client's trainer.
func (h *ChangeRequestHandler) Approve(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	request, err := h.requestService.Approve(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, request)
}

// Reject resolves a pending request without touching the client's trainer.
func (h *ChangeRequestHandler) Reject(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	request, err := h.requestService.Reject(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, request)
}

// List returns a page of change requests.
func (h *ChangeRequestHandler) List(c *gin.Context) {
	page := parsePage(c, 20)

	filter := repository.RequestFilter{Status: domain.RequestStatus(c.Query("status"))}
	if raw := c.Query("clientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"clientId": "invalid id"})
			return
		}
		filter.ClientID = &id
	}
	if raw := c.Query("requestedTrainerId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"requestedTrainerId": "invalid id"})
			return
		}
		filter.RequestedTrainerID = &id
	}

	requests, total, err := h.requestService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, requests, pageMeta(page, total))
}

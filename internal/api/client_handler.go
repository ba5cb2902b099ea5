package api

import (
	"net/http"
	"strconv"

	"peakform/trainer-hub/internal/repository"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler exposes client-profile management.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type CreateClientRequest struct {
	UserID    string  `json:"userId" binding:"required"`
	TrainerID *string `json:"trainerId"`
}

type UpdateClientRequest struct {
	HeightCM *float64  `json:"heightCm"`
	WeightKG *float64  `json:"weightKg"`
	Goals    *[]string `json:"goals"`
	Notes    *string   `json:"notes"`
}

type AssignTrainerRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
}

// Create builds a validated client profile for an existing user.
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respondValidation(c, map[string]string{"userId": "invalid id"})
		return
	}

	var trainerID *primitive.ObjectID
	if req.TrainerID != nil {
		id, err := primitive.ObjectIDFromHex(*req.TrainerID)
		if err != nil {
			respondValidation(c, map[string]string{"trainerId": "invalid id"})
			return
		}
		trainerID = &id
	}

	client, err := h.clientService.Create(c.Request.Context(), userID, trainerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, client)
}

// Me returns the client profile belonging to the authenticated user.
func (h *ClientHandler) Me(c *gin.Context) {
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
	respond(c, http.StatusOK, client)
}

// GetByID returns one client profile.
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, client)
}

// Update applies a partial update to a client profile.
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, service.ClientPatch{
		HeightCM: req.HeightCM,
		WeightKG: req.WeightKG,
		Goals:    req.Goals,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, client)
}

// Delete removes a client profile. Succeeds even if already absent.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	if err := h.clientService.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// List returns a page of client profiles.
func (h *ClientHandler) List(c *gin.Context) {
	page := parsePage(c, 20)

	filter := repository.ClientFilter{Search: c.Query("search")}
	if raw := c.Query("trainerId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"trainerId": "invalid id"})
			return
		}
		filter.TrainerID = &id
	}
	if raw := c.Query("isValidated"); raw != "" {
		validated, err := strconv.ParseBool(raw)
		if err != nil {
			respondValidation(c, map[string]string{"isValidated": "must be true or false"})
			return
		}
		filter.IsValidated = &validated
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, clients, pageMeta(page, total))
}

// Validate flips the validation flag on a client profile. Admin only.
func (h *ClientHandler) Validate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	client, err := h.clientService.Validate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, client)
}

// AssignTrainer points a client at a trainer directly (admin path, distinct
// from the client-initiated change-request workflow).
func (h *ClientHandler) AssignTrainer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req AssignTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		respondValidation(c, map[string]string{"trainerId": "invalid id"})
		return
	}

	client, err := h.clientService.AssignTrainer(c.Request.Context(), id, trainerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, client)
}

package api

import (
	"net/http"
	"strconv"

	"peakform/trainer-hub/internal/repository"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler exposes trainer-profile management.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

type UpdateTrainerRequest struct {
	Bio             *string   `json:"bio"`
	Specialties     *[]string `json:"specialties"`
	YearsExperience *int      `json:"yearsExperience"`
}

// Me returns the trainer profile belonging to the authenticated user.
func (h *TrainerHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	trainer, err := h.trainerService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, trainer)
}

// GetByID returns one trainer profile.
func (h *TrainerHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	trainer, err := h.trainerService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, trainer)
}

// Update applies a partial update to a trainer profile.
func (h *TrainerHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainer, err := h.trainerService.Update(c.Request.Context(), id, service.TrainerPatch{
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, trainer)
}

// Delete removes a trainer profile. Succeeds even if already absent.
func (h *TrainerHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	if err := h.trainerService.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// List returns a page of trainer profiles.
func (h *TrainerHandler) List(c *gin.Context) {
	page := parsePage(c, 20)

	filter := repository.TrainerFilter{Search: c.Query("search")}
	if raw := c.Query("isValidated"); raw != "" {
		validated, err := strconv.ParseBool(raw)
		if err != nil {
			respondValidation(c, map[string]string{"isValidated": "must be true or false"})
			return
		}
		filter.IsValidated = &validated
	}

	trainers, total, err := h.trainerService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, trainers, pageMeta(page, total))
}

// Validate marks a trainer as validated and grants the trainer scope to the
// linked user account. Admin only.
func (h *TrainerHandler) Validate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	trainer, err := h.trainerService.Validate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, trainer)
}

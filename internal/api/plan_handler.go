package api

import (
	"net/http"
	"strconv"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler exposes workout-plan management for trainers.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type CreatePlanRequest struct {
	TrainerID        string           `json:"trainerId" binding:"required"`
	ClientID         string           `json:"clientId" binding:"required"`
	Name             string           `json:"name" binding:"required"`
	Description      string           `json:"description"`
	FrequencyPerWeek int              `json:"frequencyPerWeek" binding:"required"`
	StartDate        time.Time        `json:"startDate" binding:"required"`
	EndDate          *time.Time       `json:"endDate"`
	WorkoutDates     []time.Time      `json:"workoutDates" binding:"required"`
	Sessions         []domain.Session `json:"sessions"`
}

type UpdatePlanRequest struct {
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	FrequencyPerWeek *int              `json:"frequencyPerWeek"`
	EndDate          *time.Time        `json:"endDate"`
	IsActive         *bool             `json:"isActive"`
	WorkoutDates     *[]time.Time      `json:"workoutDates"`
	Sessions         *[]domain.Session `json:"sessions"`
}

// Create builds a new workout plan after shape validation.
func (h *PlanHandler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		respondValidation(c, map[string]string{"trainerId": "invalid id"})
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		respondValidation(c, map[string]string{"clientId": "invalid id"})
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), service.PlanInput{
		TrainerID:        trainerID,
		ClientID:         clientID,
		Name:             req.Name,
		Description:      req.Description,
		FrequencyPerWeek: req.FrequencyPerWeek,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		WorkoutDates:     req.WorkoutDates,
		Sessions:         req.Sessions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, plan)
}

// GetByID returns one workout plan.
func (h *PlanHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}

// Update applies a partial update and re-validates the plan shape.
func (h *PlanHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), id, service.PlanPatch{
		Name:             req.Name,
		Description:      req.Description,
		FrequencyPerWeek: req.FrequencyPerWeek,
		EndDate:          req.EndDate,
		IsActive:         req.IsActive,
		WorkoutDates:     req.WorkoutDates,
		Sessions:         req.Sessions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}

// Delete removes a workout plan. Succeeds even if already absent.
func (h *PlanHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	if err := h.planService.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// List returns a page of workout plans.
func (h *PlanHandler) List(c *gin.Context) {
	page := parsePage(c, 20)

	filter := repository.PlanFilter{Search: c.Query("search")}
	if raw := c.Query("trainerId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"trainerId": "invalid id"})
			return
		}
		filter.TrainerID = &id
	}
	if raw := c.Query("clientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"clientId": "invalid id"})
			return
		}
		filter.ClientID = &id
	}
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondValidation(c, map[string]string{"isActive": "must be true or false"})
			return
		}
		filter.IsActive = &active
	}

	plans, total, err := h.planService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, plans, pageMeta(page, total))
}

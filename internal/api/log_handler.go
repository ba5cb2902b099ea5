package api

import (
	"net/http"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogHandler exposes workout-log recording, stats and the photo flow. Write
// operations resolve the client profile from the authenticated user so a
// client can only ever touch their own logs.
type LogHandler struct {
	logService    service.LogService
	clientService service.ClientService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService service.LogService, clientService service.ClientService) *LogHandler {
	return &LogHandler{logService: logService, clientService: clientService}
}

type CreateLogRequest struct {
	PlanID string    `json:"planId" binding:"required"`
	Date   time.Time `json:"date" binding:"required"`
	Status string    `json:"status" binding:"required"`
	Reason string    `json:"reason"`
}

type UpdateLogRequest struct {
	Status *string `json:"status"`
	Reason *string `json:"reason"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type PhotoConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

func (h *LogHandler) ownClientID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return primitive.NilObjectID, false
	}
	client, err := h.clientService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return primitive.NilObjectID, false
	}
	return client.ID, true
}

// Create records a workout log for the authenticated client.
func (h *LogHandler) Create(c *gin.Context) {
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		respondValidation(c, map[string]string{"planId": "invalid id"})
		return
	}

	clientID, ok := h.ownClientID(c)
	if !ok {
		return
	}

	log, err := h.logService.Create(c.Request.Context(), service.LogInput{
		PlanID:   planID,
		ClientID: clientID,
		Date:     req.Date,
		Status:   domain.LogStatus(req.Status),
		Reason:   req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, log)
}

// GetByID returns one workout log.
func (h *LogHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	log, err := h.logService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, log)
}

// Update patches the status or reason of one of the caller's own logs.
func (h *LogHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := h.ownClientID(c)
	if !ok {
		return
	}

	var patch service.LogPatch
	if req.Status != nil {
		status := domain.LogStatus(*req.Status)
		patch.Status = &status
	}
	patch.Reason = req.Reason

	log, err := h.logService.Update(c.Request.Context(), clientID, id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, log)
}

// Delete removes a workout log. Succeeds even if already absent.
func (h *LogHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	if err := h.logService.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// List returns a page of workout logs.
func (h *LogHandler) List(c *gin.Context) {
	page := parsePage(c, 20)

	filter := repository.LogFilter{Status: domain.LogStatus(c.Query("status"))}
	if raw := c.Query("planId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"planId": "invalid id"})
			return
		}
		filter.PlanID = &id
	}
	if raw := c.Query("clientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondValidation(c, map[string]string{"clientId": "invalid id"})
			return
		}
		filter.ClientID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondValidation(c, map[string]string{"from": "must be RFC 3339"})
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondValidation(c, map[string]string{"to": "must be RFC 3339"})
			return
		}
		filter.To = &t
	}

	logs, total, err := h.logService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, logs, pageMeta(page, total))
}

// Stats aggregates a client's logs per ISO week or calendar month.
func (h *LogHandler) Stats(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	period := repository.StatsPeriod(c.DefaultQuery("period", string(repository.PeriodWeek)))

	stats, err := h.logService.StatsByPeriod(c.Request.Context(), clientID, period)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// MyStats aggregates the authenticated client's own logs.
func (h *LogHandler) MyStats(c *gin.Context) {
	clientID, ok := h.ownClientID(c)
	if !ok {
		return
	}

	period := repository.StatsPeriod(c.DefaultQuery("period", string(repository.PeriodWeek)))

	stats, err := h.logService.StatsByPeriod(c.Request.Context(), clientID, period)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// PhotoUploadURL hands the client a presigned PUT URL for a progress photo.
func (h *LogHandler) PhotoUploadURL(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := h.ownClientID(c)
	if !ok {
		return
	}

	upload, err := h.logService.RequestPhotoUploadURL(c.Request.Context(), clientID, id, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, upload)
}

// PhotoConfirm records the uploaded object key on the log.
func (h *LogHandler) PhotoConfirm(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	var req PhotoConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := h.ownClientID(c)
	if !ok {
		return
	}

	log, err := h.logService.ConfirmPhoto(c.Request.Context(), clientID, id, req.ObjectKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, log)
}

// PhotoDownloadURL returns a short-lived GET URL for a log's photo.
func (h *LogHandler) PhotoDownloadURL(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	url, err := h.logService.PhotoDownloadURL(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"downloadUrl": url})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"
	"peakform/trainer-hub/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogInput is the payload accepted by Create.
type LogInput struct {
	PlanID   primitive.ObjectID
	ClientID primitive.ObjectID
	Date     time.Time
	Status   domain.LogStatus
	Reason   string
}

// LogPatch carries the mutable fields of a workout log. Nil fields are left
// untouched.
type LogPatch struct {
	Status *domain.LogStatus
	Reason *string
}

// PhotoUploadResponse returns a presigned PUT URL plus the object key the
// client reports back on confirm.
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// LogService manages compliance logs, their stats aggregation and the
// photo-attachment flow.
type LogService interface {
	Create(ctx context.Context, input LogInput) (*domain.WorkoutLog, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	Update(ctx context.Context, clientID, id primitive.ObjectID, patch LogPatch) (*domain.WorkoutLog, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter repository.LogFilter, page repository.Page) ([]domain.WorkoutLog, int64, error)
	StatsByPeriod(ctx context.Context, clientID primitive.ObjectID, period repository.StatsPeriod) ([]domain.PeriodStats, error)
	RequestPhotoUploadURL(ctx context.Context, clientID, logID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error)
	ConfirmPhoto(ctx context.Context, clientID, logID primitive.ObjectID, objectKey string) (*domain.WorkoutLog, error)
	PhotoDownloadURL(ctx context.Context, logID primitive.ObjectID) (string, error)
}

type logService struct {
	logRepo     repository.WorkoutLogRepository
	planRepo    repository.WorkoutPlanRepository
	trainerRepo repository.TrainerRepository
	notifier    Notifier
	fileStorage storage.FileStorage
}

// NewLogService creates a new instance of logService.
func NewLogService(
	logRepo repository.WorkoutLogRepository,
	planRepo repository.WorkoutPlanRepository,
	trainerRepo repository.TrainerRepository,
	notifier Notifier,
	fileStorage storage.FileStorage,
) LogService {
	return &logService{
		logRepo:     logRepo,
		planRepo:    planRepo,
		trainerRepo: trainerRepo,
		notifier:    notifier,
		fileStorage: fileStorage,
	}
}

// Create records a compliance log for a plan date. A missed status requires a
// reason. A missed log additionally notifies the plan's trainer.
func (s *logService) Create(ctx context.Context, input LogInput) (*domain.WorkoutLog, error) {
	fields := map[string]string{}
	if !domain.IsValidLogStatus(input.Status) {
		fields["status"] = "status must be completed, missed or partial"
	}
	if input.Status == domain.LogMissed && input.Reason == "" {
		fields["reason"] = "reason is required when status is missed"
	}
	if input.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if len(fields) > 0 {
		return nil, Invalid("Validation failed", fields)
	}

	plan, err := s.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"planId": "workout plan does not exist"})
		}
		return nil, err
	}
	if plan.ClientID != input.ClientID {
		return nil, E(KindForbidden, "workout plan does not belong to this client")
	}

	entry := &domain.WorkoutLog{
		PlanID:   input.PlanID,
		ClientID: input.ClientID,
		Date:     input.Date,
		Status:   input.Status,
		Reason:   input.Reason,
	}

	id, err := s.logRepo.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, E(KindConflict, "a log already exists for this plan and date")
		}
		return nil, err
	}
	entry.ID = id

	if input.Status == domain.LogMissed {
		s.notifyTrainer(ctx, plan, Event{Type: EventWorkoutMissed, Payload: entry})
	}

	return entry, nil
}

// GetByID retrieves a log, mapping absence to a not-found error.
func (s *logService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	entry, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "workout log not found")
		}
		return nil, err
	}
	return entry, nil
}

// Update applies a partial update by the owning client and notifies the
// trainer of the status change.
func (s *logService) Update(ctx context.Context, clientID, id primitive.ObjectID, patch LogPatch) (*domain.WorkoutLog, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.ClientID != clientID {
		return nil, E(KindForbidden, "workout log does not belong to this client")
	}

	statusChanged := false
	if patch.Status != nil && *patch.Status != entry.Status {
		if !domain.IsValidLogStatus(*patch.Status) {
			return nil, Invalid("Validation failed", map[string]string{"status": "status must be completed, missed or partial"})
		}
		entry.Status = *patch.Status
		statusChanged = true
	}
	if patch.Reason != nil {
		entry.Reason = *patch.Reason
	}
	if entry.Status == domain.LogMissed && entry.Reason == "" {
		return nil, Invalid("Validation failed", map[string]string{"reason": "reason is required when status is missed"})
	}

	if err := s.logRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	if statusChanged {
		if plan, planErr := s.planRepo.GetByID(ctx, entry.PlanID); planErr == nil {
			eventType := EventWorkoutStatus
			if entry.Status == domain.LogMissed {
				eventType = EventWorkoutMissed
			}
			s.notifyTrainer(ctx, plan, Event{Type: eventType, Payload: entry})
		}
	}

	return entry, nil
}

// notifyTrainer publishes to the room of the plan trainer's user id. Failures
// are logged and swallowed: push delivery is a side effect, never the
// operation's outcome.
func (s *logService) notifyTrainer(ctx context.Context, plan *domain.WorkoutPlan, event Event) {
	trainer, err := s.trainerRepo.GetByID(ctx, plan.TrainerID)
	if err != nil {
		log.Printf("WARN: could not resolve trainer %s for notification: %v", plan.TrainerID.Hex(), err)
		return
	}
	s.notifier.Publish(trainer.UserID.Hex(), event)
}

// Remove deletes a log. Removing an absent log succeeds.
func (s *logService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return s.logRepo.Delete(ctx, id)
}

// List returns a page of logs.
func (s *logService) List(ctx context.Context, filter repository.LogFilter, page repository.Page) ([]domain.WorkoutLog, int64, error) {
	return s.logRepo.List(ctx, filter, page)
}

// StatsByPeriod aggregates a client's logs into weekly or monthly buckets.
func (s *logService) StatsByPeriod(ctx context.Context, clientID primitive.ObjectID, period repository.StatsPeriod) ([]domain.PeriodStats, error) {
	if period != repository.PeriodWeek && period != repository.PeriodMonth {
		return nil, Invalid("Validation failed", map[string]string{"period": "period must be week or month"})
	}
	return s.logRepo.StatsByPeriod(ctx, clientID, period)
}

// RequestPhotoUploadURL generates a presigned PUT URL for attaching a photo to
// a log owned by the requesting client.
func (s *logService) RequestPhotoUploadURL(ctx context.Context, clientID, logID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, Invalid("Validation failed", map[string]string{"contentType": "an image content type is required"})
	}

	entry, err := s.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if entry.ClientID != clientID {
		return nil, E(KindForbidden, "workout log does not belong to this client")
	}

	extension := "bin"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		extension = parts[1]
	}
	objectKey := path.Join("log-photos", clientID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), extension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, E(KindInternal, "failed to generate upload URL")
	}

	return &PhotoUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhoto records the uploaded object key on the log. Called after the
// client has PUT the file to storage using the presigned URL.
func (s *logService) ConfirmPhoto(ctx context.Context, clientID, logID primitive.ObjectID, objectKey string) (*domain.WorkoutLog, error) {
	if objectKey == "" {
		return nil, Invalid("Validation failed", map[string]string{"objectKey": "object key is required"})
	}

	entry, err := s.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if entry.ClientID != clientID {
		return nil, E(KindForbidden, "workout log does not belong to this client")
	}

	entry.PhotoKey = objectKey
	if err := s.logRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// PhotoDownloadURL generates a temporary GET URL for a log's photo.
func (s *logService) PhotoDownloadURL(ctx context.Context, logID primitive.ObjectID) (string, error) {
	entry, err := s.GetByID(ctx, logID)
	if err != nil {
		return "", err
	}
	if entry.PhotoKey == "" {
		return "", E(KindNotFound, "no photo attached to this log")
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, entry.PhotoKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", E(KindInternal, "failed to generate download URL")
	}
	return downloadURL, nil
}

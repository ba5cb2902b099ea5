package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanInput is the payload accepted by Create.
type PlanInput struct {
	TrainerID        primitive.ObjectID
	ClientID         primitive.ObjectID
	Name             string
	Description      string
	FrequencyPerWeek int
	StartDate        time.Time
	EndDate          *time.Time
	WorkoutDates     []time.Time
	Sessions         []domain.Session
}

// PlanPatch carries the mutable fields of a plan. Nil fields are left
// untouched. Frequency and dates must be patched together so the length
// invariant can be rechecked.
type PlanPatch struct {
	Name             *string
	Description      *string
	FrequencyPerWeek *int
	EndDate          *time.Time
	IsActive         *bool
	WorkoutDates     *[]time.Time
	Sessions         *[]domain.Session
}

// PlanService manages workout plans.
type PlanService interface {
	Create(ctx context.Context, input PlanInput) (*domain.WorkoutPlan, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, id primitive.ObjectID, patch PlanPatch) (*domain.WorkoutPlan, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter repository.PlanFilter, page repository.Page) ([]domain.WorkoutPlan, int64, error)
}

type planService struct {
	planRepo    repository.WorkoutPlanRepository
	clientRepo  repository.ClientRepository
	trainerRepo repository.TrainerRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.WorkoutPlanRepository,
	clientRepo repository.ClientRepository,
	trainerRepo repository.TrainerRepository,
) PlanService {
	return &planService{
		planRepo:    planRepo,
		clientRepo:  clientRepo,
		trainerRepo: trainerRepo,
	}
}

// Create validates the plan invariants and persists it.
func (s *planService) Create(ctx context.Context, input PlanInput) (*domain.WorkoutPlan, error) {
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if input.StartDate.IsZero() {
		fields["startDate"] = "start date is required"
	}
	validatePlanShape(input.FrequencyPerWeek, input.WorkoutDates, input.Sessions, fields)
	if len(fields) > 0 {
		return nil, Invalid("Validation failed", fields)
	}

	if _, err := s.trainerRepo.GetByID(ctx, input.TrainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"trainerId": "trainer does not exist"})
		}
		return nil, err
	}
	if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"clientId": "client does not exist"})
		}
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		TrainerID:        input.TrainerID,
		ClientID:         input.ClientID,
		Name:             input.Name,
		Description:      input.Description,
		FrequencyPerWeek: input.FrequencyPerWeek,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		IsActive:         true,
		WorkoutDates:     input.WorkoutDates,
		Sessions:         input.Sessions,
	}

	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

// validatePlanShape checks the frequency/dates/sessions invariants, appending
// failures to fields.
func validatePlanShape(frequency int, dates []time.Time, sessions []domain.Session, fields map[string]string) {
	validFrequency := false
	for _, f := range domain.AllowedFrequencies {
		if frequency == f {
			validFrequency = true
			break
		}
	}
	if !validFrequency {
		fields["frequencyPerWeek"] = "frequency per week must be 3, 4 or 5"
	}
	if validFrequency && len(dates) != frequency {
		fields["workoutDates"] = fmt.Sprintf("workout dates must contain exactly %d dates", frequency)
	}

	for i, session := range sessions {
		if !domain.IsWeekday(session.Weekday) {
			fields[fmt.Sprintf("sessions[%d].weekday", i)] = "weekday must be monday through sunday"
		}
		if len(session.Exercises) > domain.MaxExercisesPerSession {
			fields[fmt.Sprintf("sessions[%d].exercises", i)] = fmt.Sprintf("a session may hold at most %d exercises", domain.MaxExercisesPerSession)
		}
		for j, exercise := range session.Exercises {
			if exercise.Name == "" {
				fields[fmt.Sprintf("sessions[%d].exercises[%d].name", i, j)] = "exercise name is required"
			}
			if exercise.Sets <= 0 {
				fields[fmt.Sprintf("sessions[%d].exercises[%d].sets", i, j)] = "sets must be a positive integer"
			}
			if exercise.Reps <= 0 {
				fields[fmt.Sprintf("sessions[%d].exercises[%d].reps", i, j)] = "reps must be a positive integer"
			}
		}
	}
}

// GetByID retrieves a plan, mapping absence to a not-found error.
func (s *planService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "workout plan not found")
		}
		return nil, err
	}
	return plan, nil
}

// Update applies a partial update, rechecking the shape invariants against the
// merged record, and returns the post-update plan.
func (s *planService) Update(ctx context.Context, id primitive.ObjectID, patch PlanPatch) (*domain.WorkoutPlan, error) {
	plan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		plan.Name = *patch.Name
	}
	if patch.Description != nil {
		plan.Description = *patch.Description
	}
	if patch.FrequencyPerWeek != nil {
		plan.FrequencyPerWeek = *patch.FrequencyPerWeek
	}
	if patch.EndDate != nil {
		plan.EndDate = patch.EndDate
	}
	if patch.IsActive != nil {
		plan.IsActive = *patch.IsActive
	}
	if patch.WorkoutDates != nil {
		plan.WorkoutDates = *patch.WorkoutDates
	}
	if patch.Sessions != nil {
		plan.Sessions = *patch.Sessions
	}

	fields := map[string]string{}
	validatePlanShape(plan.FrequencyPerWeek, plan.WorkoutDates, plan.Sessions, fields)
	if len(fields) > 0 {
		return nil, Invalid("Validation failed", fields)
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Remove deletes a plan. Removing an absent plan succeeds.
func (s *planService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return s.planRepo.Delete(ctx, id)
}

// List returns a page of plans.
func (s *planService) List(ctx context.Context, filter repository.PlanFilter, page repository.Page) ([]domain.WorkoutPlan, int64, error) {
	return s.planRepo.List(ctx, filter, page)
}

package service

import (
	"context"
	"errors"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerPatch carries the mutable fields of a trainer profile. Nil fields are
// left untouched.
type TrainerPatch struct {
	Bio             *string
	Specialties     *[]string
	YearsExperience *int
}

// TrainerService manages trainer profiles and their admin validation.
type TrainerService interface {
	Create(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	Update(ctx context.Context, id primitive.ObjectID, patch TrainerPatch) (*domain.Trainer, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter repository.TrainerFilter, page repository.Page) ([]domain.Trainer, int64, error)
	Validate(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
}

type trainerService struct {
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(trainerRepo repository.TrainerRepository, userRepo repository.UserRepository) TrainerService {
	return &trainerService{trainerRepo: trainerRepo, userRepo: userRepo}
}

// Create builds a trainer profile for an existing user.
func (s *trainerService) Create(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"userId": "user does not exist"})
		}
		return nil, err
	}

	trainer := &domain.Trainer{UserID: userID, IsValidated: false}

	id, err := s.trainerRepo.Create(ctx, trainer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, E(KindDuplicate, "a trainer profile already exists for this user")
		}
		return nil, err
	}
	trainer.ID = id
	return trainer, nil
}

// GetByID retrieves a trainer profile, mapping absence to a not-found error.
func (s *trainerService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "trainer not found")
		}
		return nil, err
	}
	return trainer, nil
}

// GetByUserID retrieves the trainer profile linked to a user.
func (s *trainerService) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "trainer not found")
		}
		return nil, err
	}
	return trainer, nil
}

// Update applies a partial update and returns the post-update record.
func (s *trainerService) Update(ctx context.Context, id primitive.ObjectID, patch TrainerPatch) (*domain.Trainer, error) {
	trainer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Bio != nil {
		trainer.Bio = *patch.Bio
	}
	if patch.Specialties != nil {
		trainer.Specialties = *patch.Specialties
	}
	if patch.YearsExperience != nil {
		trainer.YearsExperience = *patch.YearsExperience
	}

	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

// Remove deletes a trainer profile. Removing an absent profile succeeds.
func (s *trainerService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return s.trainerRepo.Delete(ctx, id)
}

// List returns a page of trainer profiles.
func (s *trainerService) List(ctx context.Context, filter repository.TrainerFilter, page repository.Page) ([]domain.Trainer, int64, error) {
	return s.trainerRepo.List(ctx, filter, page)
}

// Validate flips the validation flag on a trainer profile and grants the
// trainer scope on the linked user, which makes their logins valid.
func (s *trainerService) Validate(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	trainer.IsValidated = true
	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, trainer.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Role.HasScope(domain.ScopeTrainer) {
		user.Role.Scopes = append(user.Role.Scopes, domain.ScopeTrainer)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return trainer, nil
}

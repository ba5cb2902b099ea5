package service

import (
	"context"
	"errors"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientPatch carries the mutable fields of a client profile. Nil fields are
// left untouched.
type ClientPatch struct {
	HeightCM *float64
	WeightKG *float64
	Goals    *[]string
	Notes    *string
}

// ClientService manages client profiles.
type ClientService interface {
	Create(ctx context.Context, userID primitive.ObjectID, trainerID *primitive.ObjectID) (*domain.Client, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error)
	Update(ctx context.Context, id primitive.ObjectID, patch ClientPatch) (*domain.Client, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter repository.ClientFilter, page repository.Page) ([]domain.Client, int64, error)
	Validate(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	AssignTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) (*domain.Client, error)
}

type clientService struct {
	clientRepo  repository.ClientRepository
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
	}
}

// Create builds a client profile for an existing user. Profiles created this
// way (by an admin or trainer) start validated, unlike self-registration.
func (s *clientService) Create(ctx context.Context, userID primitive.ObjectID, trainerID *primitive.ObjectID) (*domain.Client, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"userId": "user does not exist"})
		}
		return nil, err
	}

	if trainerID != nil {
		if _, err := s.trainerRepo.GetByID(ctx, *trainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, Invalid("Validation failed", map[string]string{"trainerId": "trainer does not exist"})
			}
			return nil, err
		}
	}

	client := &domain.Client{
		UserID:      userID,
		TrainerID:   trainerID,
		IsValidated: true,
	}

	id, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, E(KindDuplicate, "a client profile already exists for this user")
		}
		return nil, err
	}
	client.ID = id
	return client, nil
}

// GetByID retrieves a client profile, mapping absence to a not-found error.
func (s *clientService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "client not found")
		}
		return nil, err
	}
	return client, nil
}

// GetByUserID retrieves the client profile linked to a user.
func (s *clientService) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "client not found")
		}
		return nil, err
	}
	return client, nil
}

// Update applies a partial update and returns the post-update record.
func (s *clientService) Update(ctx context.Context, id primitive.ObjectID, patch ClientPatch) (*domain.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.HeightCM != nil {
		client.HeightCM = *patch.HeightCM
	}
	if patch.WeightKG != nil {
		client.WeightKG = *patch.WeightKG
	}
	if patch.Goals != nil {
		client.Goals = *patch.Goals
	}
	if patch.Notes != nil {
		client.Notes = *patch.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Remove deletes a client profile. Removing an absent profile succeeds.
func (s *clientService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return s.clientRepo.Delete(ctx, id)
}

// List returns a page of client profiles.
func (s *clientService) List(ctx context.Context, filter repository.ClientFilter, page repository.Page) ([]domain.Client, int64, error) {
	return s.clientRepo.List(ctx, filter, page)
}

// Validate flips the validation flag on a client profile.
func (s *clientService) Validate(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.IsValidated = true
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// AssignTrainer points a client at a trainer after checking the trainer exists.
func (s *clientService) AssignTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) (*domain.Client, error) {
	if _, err := s.trainerRepo.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"trainerId": "trainer does not exist"})
		}
		return nil, err
	}

	if err := s.clientRepo.SetTrainer(ctx, clientID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "client not found")
		}
		return nil, err
	}

	return s.GetByID(ctx, clientID)
}

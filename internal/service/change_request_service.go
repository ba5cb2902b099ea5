package service

import (
	"context"
	"errors"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeRequestService runs the trainer-change workflow:
// pending -> approved (sets the client's trainer) or pending -> rejected.
type ChangeRequestService interface {
	Create(ctx context.Context, clientID, requestedTrainerID primitive.ObjectID) (*domain.TrainerChangeRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error)
	Approve(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error)
	Reject(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error)
	List(ctx context.Context, filter repository.RequestFilter, page repository.Page) ([]domain.TrainerChangeRequest, int64, error)
}

type changeRequestService struct {
	requestRepo repository.ChangeRequestRepository
	clientRepo  repository.ClientRepository
	trainerRepo repository.TrainerRepository
}

// NewChangeRequestService creates a new instance of changeRequestService.
func NewChangeRequestService(
	requestRepo repository.ChangeRequestRepository,
	clientRepo repository.ClientRepository,
	trainerRepo repository.TrainerRepository,
) ChangeRequestService {
	return &changeRequestService{
		requestRepo: requestRepo,
		clientRepo:  clientRepo,
		trainerRepo: trainerRepo,
	}
}

// Create opens a pending request. Fails with a conflict if the client already
// has one pending, or a validation error if the requested trainer is unknown.
func (s *changeRequestService) Create(ctx context.Context, clientID, requestedTrainerID primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	if _, err := s.trainerRepo.GetByID(ctx, requestedTrainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"requestedTrainerId": "requested trainer does not exist"})
		}
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "client not found")
		}
		return nil, err
	}

	_, err = s.requestRepo.GetPendingByClient(ctx, clientID)
	if err == nil {
		return nil, E(KindConflict, "a pending trainer change request already exists for this client")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	request := &domain.TrainerChangeRequest{
		ClientID:           clientID,
		CurrentTrainerID:   client.TrainerID,
		RequestedTrainerID: requestedTrainerID,
		Status:             domain.RequestPending,
	}

	id, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		// The partial unique index closes the check-then-create race.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, E(KindConflict, "a pending trainer change request already exists for this client")
		}
		return nil, err
	}
	request.ID = id
	return request, nil
}

// GetByID retrieves a request, mapping absence to a not-found error.
func (s *changeRequestService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "trainer change request not found")
		}
		return nil, err
	}
	return request, nil
}

// Approve transitions a pending request to approved and points the client at
// the requested trainer.
func (s *changeRequestService) Approve(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, E(KindInvalidState, "only a pending request may be approved")
	}

	if err := s.clientRepo.SetTrainer(ctx, request.ClientID, request.RequestedTrainerID); err != nil {
		return nil, err
	}

	return s.resolve(ctx, request, domain.RequestApproved)
}

// Reject transitions a pending request to rejected. No side effect on the
// client's trainer.
func (s *changeRequestService) Reject(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, E(KindInvalidState, "only a pending request may be rejected")
	}

	return s.resolve(ctx, request, domain.RequestRejected)
}

func (s *changeRequestService) resolve(ctx context.Context, request *domain.TrainerChangeRequest, status domain.RequestStatus) (*domain.TrainerChangeRequest, error) {
	now := time.Now().UTC()
	request.Status = status
	request.ResolvedAt = &now

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// List returns a page of requests.
func (s *changeRequestService) List(ctx context.Context, filter repository.RequestFilter, page repository.Page) ([]domain.TrainerChangeRequest, int64, error) {
	return s.requestRepo.List(ctx, filter, page)
}

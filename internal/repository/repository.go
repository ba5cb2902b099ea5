package repository

import (
	"context"
	"time"

	"peakform/trainer-hub/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants shared by all repository implementations.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Page is the limit/skip window applied to list queries.
type Page struct {
	Limit int64
	Skip  int64
}

// StatsPeriod selects the grouping key for compliance aggregation.
type StatsPeriod string

const (
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
)

// UserFilter narrows user listings.
type UserFilter struct {
	Scope  domain.Scope
	Search string
}

// ClientFilter narrows client-profile listings.
type ClientFilter struct {
	TrainerID   *primitive.ObjectID
	IsValidated *bool
	Search      string
}

// TrainerFilter narrows trainer-profile listings.
type TrainerFilter struct {
	IsValidated *bool
	Search      string
}

// PlanFilter narrows workout-plan listings.
type PlanFilter struct {
	TrainerID *primitive.ObjectID
	ClientID  *primitive.ObjectID
	IsActive  *bool
	Search    string
}

// LogFilter narrows workout-log listings.
type LogFilter struct {
	PlanID   *primitive.ObjectID
	ClientID *primitive.ObjectID
	Status   domain.LogStatus
	From     *time.Time
	To       *time.Time
}

// RequestFilter narrows trainer-change-request listings.
type RequestFilter struct {
	ClientID           *primitive.ObjectID
	RequestedTrainerID *primitive.ObjectID
	Status             domain.RequestStatus
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, filter UserFilter, page Page) ([]domain.User, int64, error)
}

// ClientRepository defines the interface for interacting with client profiles.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter ClientFilter, page Page) ([]domain.Client, int64, error)
	SetTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// TrainerRepository defines the interface for interacting with trainer profiles.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter TrainerFilter, page Page) ([]domain.Trainer, int64, error)
}

// WorkoutPlanRepository defines the interface for interacting with workout plans.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter PlanFilter, page Page) ([]domain.WorkoutPlan, int64, error)
}

// WorkoutLogRepository defines the interface for interacting with compliance logs.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	GetByPlanDate(ctx context.Context, planID, clientID primitive.ObjectID, date time.Time) (*domain.WorkoutLog, error)
	Update(ctx context.Context, log *domain.WorkoutLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter LogFilter, page Page) ([]domain.WorkoutLog, int64, error)
	StatsByPeriod(ctx context.Context, clientID primitive.ObjectID, period StatsPeriod) ([]domain.PeriodStats, error)
}

// MessageRepository defines the interface for interacting with chat messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	Conversation(ctx context.Context, userA, userB primitive.ObjectID, page Page) ([]domain.Message, int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error)
}

// ChangeRequestRepository defines the interface for interacting with
// trainer-change requests.
type ChangeRequestRepository interface {
	Create(ctx context.Context, request *domain.TrainerChangeRequest) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error)
	GetPendingByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainerChangeRequest, error)
	Update(ctx context.Context, request *domain.TrainerChangeRequest) error
	List(ctx context.Context, filter RequestFilter, page Page) ([]domain.TrainerChangeRequest, int64, error)
}

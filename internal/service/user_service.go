package service

import (
	"context"
	"errors"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserPatch carries the mutable profile fields of a user. Nil fields are left
// untouched.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *time.Time
	Address     *string
	Country     *string
	TaxNumber   *string
}

// UserService manages identity records beyond registration/login.
type UserService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*domain.User, error)
	ChangePassword(ctx context.Context, id primitive.ObjectID, current, next string) error
	List(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]domain.User, int64, error)
	EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// GetByID retrieves a user, mapping absence to a not-found error.
func (s *userService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "user not found")
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies a partial update and returns the post-update record.
func (s *userService) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "user not found")
		}
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.DateOfBirth != nil {
		user.DateOfBirth = patch.DateOfBirth
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if patch.Country != nil {
		user.Country = *patch.Country
	}
	if patch.TaxNumber != nil {
		user.TaxNumber = *patch.TaxNumber
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, E(KindDuplicate, "tax number already in use")
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *userService) ChangePassword(ctx context.Context, id primitive.ObjectID, current, next string) error {
	if next == "" {
		return Invalid("Validation failed", map[string]string{"password": "new password is required"})
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(KindNotFound, "user not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return E(KindInvalidCredentials, "invalid credentials")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return E(KindInternal, "failed to hash password")
	}
	user.PasswordHash = string(hashed)

	return s.userRepo.Update(ctx, user)
}

// EnsureBootstrapAdmin creates the configured admin account if no user with
// that email exists yet. Registration only hands out trainer and client roles,
// so a fresh database needs this seed before anyone can validate trainers or
// resolve change requests. A blank email or password disables the seed.
func (s *userService) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if name == "" {
		name = "admin"
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return E(KindInternal, "failed to hash password")
	}

	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.Role{Name: string(domain.ScopeAdmin), Scopes: []domain.Scope{domain.ScopeAdmin}},
	}
	if _, err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Another instance booted first and won the insert.
			return nil
		}
		return err
	}
	return nil
}

// List returns a page of users for the admin listing.
func (s *userService) List(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]domain.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

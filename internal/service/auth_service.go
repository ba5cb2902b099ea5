package service

import (
	"context"
	"errors"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Default lifetime for QR login payloads.
const defaultQRTokenTTL = 30 * 24 * time.Hour

// Claims is the JWT payload carried by session tokens.
type Claims struct {
	UserID string         `json:"uid"`
	Name   string         `json:"name"`
	Scopes []domain.Scope `json:"scopes"`
	jwt.RegisteredClaims
}

// qrClaims is the payload encoded into QR login codes.
type qrClaims struct {
	Type   string `json:"type"`
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	RoleName  string
	FirstName string
	LastName  string
	Phone     string
	TaxNumber string
}

// AuthService handles registration, login, session tokens and the QR login
// side channel.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
	IssueToken(user *domain.User) (string, *Claims, error)
	VerifyToken(token string) (*Claims, error)
	GenerateQRLogin(ctx context.Context, userID string) (string, error)
	RedeemQRLogin(ctx context.Context, payload string) (string, *domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	clientRepo    repository.ClientRepository
	trainerRepo   repository.TrainerRepository
	jwtSecret     string
	jwtExpiration time.Duration
	bcryptCost    int
	qrTokenTTL    time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	trainerRepo repository.TrainerRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
	bcryptCost int,
	qrTokenTTL time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if qrTokenTTL <= 0 {
		qrTokenTTL = defaultQRTokenTTL
	}
	return &authService{
		userRepo:      userRepo,
		clientRepo:    clientRepo,
		trainerRepo:   trainerRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		bcryptCost:    bcryptCost,
		qrTokenTTL:    qrTokenTTL,
	}
}

// Register creates a new user and, for the client and trainer roles, the
// linked profile record. Returns the stored user and an issued session token.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if input.Email == "" {
		fields["email"] = "email is required"
	}
	if input.Password == "" {
		fields["password"] = "password is required"
	}
	role, ok := roleForName(input.RoleName)
	if !ok {
		fields["role"] = "role must be one of admin, trainer, client"
	}
	if len(fields) > 0 {
		return nil, "", Invalid("Validation failed", fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", E(KindInternal, "failed to hash password")
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         role,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		TaxNumber:    input.TaxNumber,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", E(KindDuplicate, "a user with this name, email or tax number already exists")
		}
		return nil, "", err
	}
	user.ID = userID

	// Second write is not transactional with the first: a crash here leaves a
	// user without a profile. The orphan is inert for trainers (empty scope
	// set blocks login) and repairable for clients by an admin.
	switch input.RoleName {
	case string(domain.ScopeClient):
		_, err = s.clientRepo.Create(ctx, &domain.Client{UserID: userID, IsValidated: false})
	case string(domain.ScopeTrainer):
		_, err = s.trainerRepo.Create(ctx, &domain.Trainer{UserID: userID, IsValidated: false})
	}
	if err != nil {
		return nil, "", err
	}

	token, _, err := s.IssueToken(user)
	if err != nil {
		return nil, "", E(KindInternal, "failed to generate authentication token")
	}

	user.PasswordHash = ""
	return user, token, nil
}

// roleForName maps a requested role name to its initial scope set. Trainers
// start with no scopes and become valid once an admin validates them.
func roleForName(name string) (domain.Role, bool) {
	switch name {
	case string(domain.ScopeAdmin):
		return domain.Role{Name: name, Scopes: []domain.Scope{domain.ScopeAdmin}}, true
	case string(domain.ScopeClient):
		return domain.Role{Name: name, Scopes: []domain.Scope{domain.ScopeClient}}, true
	case string(domain.ScopeTrainer):
		return domain.Role{Name: name, Scopes: []domain.Scope{}}, true
	}
	return domain.Role{}, false
}

// Login authenticates by email or name and returns a session token. The error
// never distinguishes an unknown user from a wrong password.
func (s *authService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	if identifier == "" || password == "" {
		return "", nil, E(KindInvalidCredentials, "invalid credentials")
	}

	user, err := s.userRepo.GetByEmail(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.userRepo.GetByName(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, E(KindInvalidCredentials, "invalid credentials")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, E(KindInvalidCredentials, "invalid credentials")
	}

	// A role without scopes is not yet valid (e.g. unvalidated trainer).
	if len(user.Role.Scopes) == 0 {
		return "", nil, E(KindInvalidCredentials, "invalid credentials")
	}

	token, _, err := s.IssueToken(user)
	if err != nil {
		return "", nil, E(KindInternal, "failed to generate authentication token")
	}

	user.PasswordHash = ""
	return token, user, nil
}

// IssueToken encodes {id, name, scopes} into a signed, time-limited token and
// returns it alongside the decoded claims.
func (s *authService) IssueToken(user *domain.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Name:   user.Name,
		Scopes: user.Role.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "trainer-hub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// VerifyToken validates signature and expiry and returns the decoded claims.
func (s *authService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, E(KindUnauthorized, "unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, E(KindUnauthorized, "token has expired")
		}
		return nil, E(KindUnauthorized, "invalid token")
	}
	if !token.Valid || claims.UserID == "" {
		return nil, E(KindUnauthorized, "invalid token")
	}
	return claims, nil
}

// GenerateQRLogin encodes a signed {type:"login", uid, iat} payload for the
// given user, suitable for rendering as a QR code on the client.
func (s *authService) GenerateQRLogin(ctx context.Context, userID string) (string, error) {
	claims := &qrClaims{
		Type:   "login",
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   "trainer-hub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// RedeemQRLogin exchanges a QR payload for a session token. Payloads older
// than the configured TTL (30 days by default) are rejected as expired;
// malformed or wrong-type payloads are rejected as invalid.
func (s *authService) RedeemQRLogin(ctx context.Context, payload string) (string, *domain.User, error) {
	claims := &qrClaims{}
	token, err := jwt.ParseWithClaims(payload, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, E(KindValidation, "unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", nil, E(KindValidation, "malformed QR payload")
	}
	if claims.Type != "login" || claims.UserID == "" {
		return "", nil, E(KindValidation, "malformed QR payload")
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > s.qrTokenTTL {
		return "", nil, E(KindExpired, "QR payload has expired")
	}

	userID, err := objectIDFromHex(claims.UserID)
	if err != nil {
		return "", nil, E(KindValidation, "malformed QR payload")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, E(KindInvalidCredentials, "invalid credentials")
		}
		return "", nil, err
	}
	if len(user.Role.Scopes) == 0 {
		return "", nil, E(KindInvalidCredentials, "invalid credentials")
	}

	sessionToken, _, err := s.IssueToken(user)
	if err != nil {
		return "", nil, E(KindInternal, "failed to generate authentication token")
	}

	user.PasswordHash = ""
	return sessionToken, user, nil
}

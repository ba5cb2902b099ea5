package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubAuthService accepts the tokens it was seeded with and rejects
// everything else. Only VerifyToken is exercised by the middleware.
type stubAuthService struct {
	tokens map[string]*service.Claims
}

func (s *stubAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, string, error) {
	return nil, "", service.E(service.KindInternal, "not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	return "", nil, service.E(service.KindInternal, "not implemented")
}

func (s *stubAuthService) IssueToken(user *domain.User) (string, *service.Claims, error) {
	return "", nil, service.E(service.KindInternal, "not implemented")
}

func (s *stubAuthService) VerifyToken(token string) (*service.Claims, error) {
	claims, ok := s.tokens[token]
	if !ok {
		return nil, service.E(service.KindUnauthorized, "invalid token")
	}
	return claims, nil
}

func (s *stubAuthService) GenerateQRLogin(ctx context.Context, userID string) (string, error) {
	return "", service.E(service.KindInternal, "not implemented")
}

func (s *stubAuthService) RedeemQRLogin(ctx context.Context, payload string) (string, *domain.User, error) {
	return "", nil, service.E(service.KindInternal, "not implemented")
}

func newAuthTestRouter(auth service.AuthService, scopes ...domain.Scope) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("", AuthMiddleware(auth))
	handlers := []gin.HandlerFunc{}
	if len(scopes) > 0 {
		handlers = append(handlers, ScopeMiddleware(scopes...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, err := getUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id.Hex()})
	})
	group.GET("/secure", handlers...)
	return router
}

func seedStubAuth(userID primitive.ObjectID, scopes ...domain.Scope) *stubAuthService {
	return &stubAuthService{tokens: map[string]*service.Claims{
		"good-token": {UserID: userID.Hex(), Name: "maria", Scopes: scopes},
	}}
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	router := newAuthTestRouter(seedStubAuth(primitive.NewObjectID(), domain.ScopeClient))

	cases := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"malformed header", "Token abc"},
		{"unknown token", "Bearer nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthMiddlewareAcceptsBearerAndCookie(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newAuthTestRouter(seedStubAuth(userID, domain.ScopeClient))

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer: status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/secure", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "good-token"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie: status %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddlewarePrefersCookieOverHeader(t *testing.T) {
	router := newAuthTestRouter(seedStubAuth(primitive.NewObjectID(), domain.ScopeClient))

	// The valid header must not rescue a request with a bad cookie.
	req := httptest.NewRequest("GET", "/secure", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "stale"})
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", rec.Code)
	}
}

func TestScopeMiddleware(t *testing.T) {
	userID := primitive.NewObjectID()

	cases := []struct {
		name     string
		have     []domain.Scope
		required []domain.Scope
		want     int
	}{
		{"matching scope", []domain.Scope{domain.ScopeClient}, []domain.Scope{domain.ScopeClient}, http.StatusOK},
		{"one of several", []domain.Scope{domain.ScopeAdmin}, []domain.Scope{domain.ScopeTrainer, domain.ScopeAdmin}, http.StatusOK},
		{"missing scope", []domain.Scope{domain.ScopeClient}, []domain.Scope{domain.ScopeAdmin}, http.StatusForbidden},
		{"no scopes at all", nil, []domain.Scope{domain.ScopeClient}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAuthTestRouter(seedStubAuth(userID, tc.have...), tc.required...)
			req := httptest.NewRequest("GET", "/secure", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
	ContextScopesKey = "userScopes"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

// AuthMiddleware verifies the session token and attaches the decoded identity
// to the request context. The cookie is preferred when both the cookie and the
// Authorization header are present.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
			tokenString = cookie
		} else if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.Split(header, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respondError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}
			tokenString = parts[1]
		}

		if tokenString == "" {
			respondError(c, http.StatusUnauthorized, "Authentication token is missing")
			return
		}

		claims, err := authService.VerifyToken(tokenString)
		if err != nil {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextScopesKey, claims.Scopes)
		c.Next()
	}
}

// ScopeMiddleware rejects requests whose token carries none of the required
// scopes. Must run after AuthMiddleware.
func ScopeMiddleware(required ...domain.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopes, err := getScopesFromContext(c)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "User scopes not found in context")
			return
		}

		for _, have := range scopes {
			for _, want := range required {
				if have == want {
					c.Next()
					return
				}
			}
		}

		respondError(c, http.StatusForbidden, "Access denied: insufficient scope")
	}
}

// getUserIDFromContext returns the authenticated user's id as an ObjectID.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return primitive.ObjectIDFromHex(hex)
}

func getScopesFromContext(c *gin.Context) ([]domain.Scope, error) {
	raw, exists := c.Get(ContextScopesKey)
	if !exists {
		return nil, errors.New("user scopes not found in context")
	}
	scopes, ok := raw.([]domain.Scope)
	if !ok {
		return nil, errors.New("invalid user scopes type in context")
	}
	return scopes, nil
}

// hasScope reports whether the request's token carries the given scope.
func hasScope(c *gin.Context, scope domain.Scope) bool {
	scopes, err := getScopesFromContext(c)
	if err != nil {
		return false
	}
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}

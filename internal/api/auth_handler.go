package api

import (
	"net/http"
	"time"

	"peakform/trainer-hub/internal/config"
	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes registration, login and the QR login side channel.
type AuthHandler struct {
	authService service.AuthService
	authConfig  config.AuthConfig
	tokenMaxAge time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, authConfig config.AuthConfig, tokenMaxAge time.Duration) *AuthHandler {
	if tokenMaxAge <= 0 {
		tokenMaxAge = 24 * time.Hour
	}
	return &AuthHandler{
		authService: authService,
		authConfig:  authConfig,
		tokenMaxAge: tokenMaxAge,
	}
}

// --- Request/Response DTOs ---

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=trainer client"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	TaxNumber string `json:"taxNumber"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // email or name
	Password   string `json:"password" binding:"required"`
}

type QRLoginRequest struct {
	Payload string `json:"payload" binding:"required"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// --- Handlers ---

// Register creates a new user account plus its role profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		RoleName:  req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		TaxNumber: req.TaxNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	respond(c, http.StatusCreated, SessionResponse{Token: token, User: user})
}

// Login authenticates by email or name and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	respond(c, http.StatusOK, SessionResponse{Token: token, User: user})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.applySameSite(c)
	c.SetCookie(TokenCookieName, "", -1, "/", "", h.authConfig.CookieSecure, true)
	respond(c, http.StatusOK, nil)
}

// GenerateQRLogin returns a signed QR payload for the authenticated user.
func (h *AuthHandler) GenerateQRLogin(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	payload, err := h.authService.GenerateQRLogin(c.Request.Context(), userID.Hex())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"payload": payload})
}

// QRLogin redeems a QR payload for a session.
func (h *AuthHandler) QRLogin(c *gin.Context) {
	var req QRLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, user, err := h.authService.RedeemQRLogin(c.Request.Context(), req.Payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	respond(c, http.StatusOK, SessionResponse{Token: token, User: user})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	h.applySameSite(c)
	c.SetCookie(TokenCookieName, token, int(h.tokenMaxAge.Seconds()), "/", "", h.authConfig.CookieSecure, true)
}

func (h *AuthHandler) applySameSite(c *gin.Context) {
	if h.authConfig.CookieSameSite == "none" {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
}

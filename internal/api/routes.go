package api

import (
	"net/http"

	"peakform/trainer-hub/internal/config"
	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/service"
	"peakform/trainer-hub/internal/ws"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router. Everything outside
// /api/v1/auth, /ping and /ws requires a valid token; role-gated groups add
// a scope check on top.
func SetupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	userService service.UserService,
	clientService service.ClientService,
	trainerService service.TrainerService,
	planService service.PlanService,
	logService service.LogService,
	messageService service.MessageService,
	requestService service.ChangeRequestService,
	wsHandler *ws.Handler,
) {
	authHandler := NewAuthHandler(authService, cfg.Auth, cfg.JWT.Expiration)
	userHandler := NewUserHandler(userService)
	clientHandler := NewClientHandler(clientService)
	trainerHandler := NewTrainerHandler(trainerService)
	planHandler := NewPlanHandler(planService)
	logHandler := NewLogHandler(logService, clientService)
	messageHandler := NewMessageHandler(messageService)
	requestHandler := NewChangeRequestHandler(requestService, clientService)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Websocket carries its token in the query string, not a header, so it
	// sits outside the middleware chain and verifies on its own.
	router.GET("/ws", wsHandler.Connect)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/qr-login", authHandler.QRLogin)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/qr-token", authHandler.GenerateQRLogin)

		protected.GET("/me", userHandler.Me)
		protected.PATCH("/me", userHandler.UpdateProfile)
		protected.PUT("/me/password", userHandler.ChangePassword)

		// Messaging is open to any authenticated role.
		messageGroup := protected.Group("/messages")
		{
			messageGroup.POST("", messageHandler.Send)
			messageGroup.GET("/unread", messageHandler.UnreadCount)
			messageGroup.GET("/with/:userId", messageHandler.Conversation)
			messageGroup.PUT("/:id/read", messageHandler.MarkRead)
		}

		trainerGroup := protected.Group("/trainers")
		{
			trainerGroup.GET("", trainerHandler.List)
			trainerGroup.GET("/me", ScopeMiddleware(domain.ScopeTrainer), trainerHandler.Me)
			trainerGroup.GET("/:id", trainerHandler.GetByID)
			trainerGroup.PATCH("/:id", ScopeMiddleware(domain.ScopeTrainer, domain.ScopeAdmin), trainerHandler.Update)
			trainerGroup.DELETE("/:id", ScopeMiddleware(domain.ScopeAdmin), trainerHandler.Delete)
			trainerGroup.PUT("/:id/validate", ScopeMiddleware(domain.ScopeAdmin), trainerHandler.Validate)
		}

		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", ScopeMiddleware(domain.ScopeAdmin), clientHandler.Create)
			clientGroup.GET("", ScopeMiddleware(domain.ScopeTrainer, domain.ScopeAdmin), clientHandler.List)
			clientGroup.GET("/me", ScopeMiddleware(domain.ScopeClient), clientHandler.Me)
			clientGroup.GET("/:id", ScopeMiddleware(domain.ScopeTrainer, domain.ScopeAdmin), clientHandler.GetByID)
			clientGroup.PATCH("/:id", clientHandler.Update)
			clientGroup.DELETE("/:id", ScopeMiddleware(domain.ScopeAdmin), clientHandler.Delete)
			clientGroup.PUT("/:id/validate", ScopeMiddleware(domain.ScopeAdmin), clientHandler.Validate)
			clientGroup.PUT("/:id/trainer", ScopeMiddleware(domain.ScopeAdmin), clientHandler.AssignTrainer)
			clientGroup.GET("/:id/stats", ScopeMiddleware(domain.ScopeTrainer, domain.ScopeAdmin), logHandler.Stats)
		}

		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", ScopeMiddleware(domain.ScopeTrainer), planHandler.Create)
			planGroup.GET("", planHandler.List)
			planGroup.GET("/:id", planHandler.GetByID)
			planGroup.PATCH("/:id", ScopeMiddleware(domain.ScopeTrainer), planHandler.Update)
			planGroup.DELETE("/:id", ScopeMiddleware(domain.ScopeTrainer, domain.ScopeAdmin), planHandler.Delete)
		}

		logGroup := protected.Group("/logs")
		{
			logGroup.POST("", ScopeMiddleware(domain.ScopeClient), logHandler.Create)
			logGroup.GET("", logHandler.List)
			logGroup.GET("/stats", ScopeMiddleware(domain.ScopeClient), logHandler.MyStats)
			logGroup.GET("/:id", logHandler.GetByID)
			logGroup.PATCH("/:id", ScopeMiddleware(domain.ScopeClient), logHandler.Update)
			logGroup.DELETE("/:id", ScopeMiddleware(domain.ScopeAdmin), logHandler.Delete)
			logGroup.POST("/:id/photo/upload-url", ScopeMiddleware(domain.ScopeClient), logHandler.PhotoUploadURL)
			logGroup.POST("/:id/photo/confirm", ScopeMiddleware(domain.ScopeClient), logHandler.PhotoConfirm)
			logGroup.GET("/:id/photo", logHandler.PhotoDownloadURL)
		}

		requestGroup := protected.Group("/trainer-change-requests")
		{
			requestGroup.POST("", ScopeMiddleware(domain.ScopeClient), requestHandler.Create)
			requestGroup.GET("", ScopeMiddleware(domain.ScopeAdmin), requestHandler.List)
			requestGroup.GET("/:id", requestHandler.GetByID)
			requestGroup.PUT("/:id/approve", ScopeMiddleware(domain.ScopeAdmin), requestHandler.Approve)
			requestGroup.PUT("/:id/reject", ScopeMiddleware(domain.ScopeAdmin), requestHandler.Reject)
		}

		adminGroup := protected.Group("/admin")
		adminGroup.Use(ScopeMiddleware(domain.ScopeAdmin))
		{
			adminGroup.GET("/users", userHandler.List)
		}
	}
}

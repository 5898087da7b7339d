package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/startconnect/api/internal/app/controllers"
	"github.com/startconnect/api/internal/middleware"
	"github.com/startconnect/api/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	teamController *controllers.TeamController,
	chatController *controllers.ChatController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/verify-email", authController.VerifyEmail)
	}

	// Startup directory (public access)
	v1.GET("/startups", userController.ListStartups)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// User profile routes
		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateProfile)
			users.GET("/me/student-profile", userController.GetStudentProfile)
			users.PUT("/me/student-profile", userController.UpdateStudentProfile)
			users.GET("/me/startup-profile", userController.GetStartupProfile)
			users.PUT("/me/startup-profile", userController.UpdateStartupProfile)
		}

		// Team routes
		teams := authenticated.Group("/teams")
		{
			teams.POST("", teamController.CreateTeam)
			teams.GET("/my-team", teamController.GetMyTeam)
			teams.POST("/invite", teamController.InviteMember)
			teams.POST("/accept-invite", teamController.AcceptInvite)
			teams.DELETE("/members/:memberId", teamController.RemoveMember)
		}

		// Chat routes. The WebSocket endpoint authenticates during the
		// handshake itself, so it stays outside the JWT middleware group.
		chat := authenticated.Group("/chat")
		{
			chat.GET("/:teamId", chatController.GetTeamMessages)
			chat.POST("/:teamId/read", chatController.MarkMessagesRead)
			chat.DELETE("/message/:messageId", chatController.DeleteMessage)
		}
	}

	// WebSocket endpoint (handshake-authenticated)
	v1.GET("/chat/ws", wsHandler.HandleConnection)

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

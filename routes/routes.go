package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/abdoux213/Application-de-Sondages-G8/handlers"
	"github.com/abdoux213/Application-de-Sondages-G8/middleware"
	"github.com/abdoux213/Application-de-Sondages-G8/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are filtered by the CORS middleware
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	surveyHandler *handlers.SurveyHandler,
	responseHandler *handlers.ResponseHandler,
	hub *services.NotificationHub,
	authService *services.AuthService,
	logger *zap.Logger,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public browsing and responding; auth is optional so anonymous
		// respondents can submit while signed-in ones are identified.
		public := api.Group("/")
		public.Use(middleware.OptionalAuth(authService))
		{
			public.GET("/surveys", surveyHandler.ListPublicSurveys)
			public.GET("/surveys/:id", surveyHandler.GetSurvey)
			public.GET("/surveys/:id/form", responseHandler.GetForm)
			public.POST("/surveys/:id/responses", responseHandler.Submit)
			public.GET("/shared/:token", surveyHandler.GetSharedSurvey)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.Auth(authService))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.PUT("/auth/profile", authHandler.UpdateProfile)

			surveys := protected.Group("/surveys")
			{
				surveys.GET("/mine", surveyHandler.ListMySurveys)
				surveys.GET("/templates", surveyHandler.ListTemplates)
				surveys.POST("", surveyHandler.CreateSurvey)
				surveys.PUT("/:id", surveyHandler.UpdateSurvey)
				surveys.DELETE("/:id", surveyHandler.DeleteSurvey)
				surveys.POST("/:id/clone", surveyHandler.CloneTemplate)
				surveys.POST("/:id/questions", surveyHandler.AddQuestion)
				surveys.DELETE("/:id/questions/:questionID", surveyHandler.DeleteQuestion)
				surveys.GET("/:id/results", responseHandler.GetResults)
				surveys.GET("/:id/export", responseHandler.Export)
				surveys.POST("/:id/shares", surveyHandler.CreateShare)
				surveys.POST("/:id/subscription", surveyHandler.Subscribe)
				surveys.DELETE("/:id/subscription", surveyHandler.Unsubscribe)
			}
		}
	}

	// WebSocket feed for survey notifications. Browsers cannot set headers
	// on websocket requests, so the token arrives as a query parameter.
	router.GET("/ws/notifications", func(c *gin.Context) {
		claims, err := authService.ValidateToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		hub.RegisterClient(conn, claims.UserID)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abdoux213/Application-de-Sondages-G8/config"
	"github.com/abdoux213/Application-de-Sondages-G8/handlers"
	"github.com/abdoux213/Application-de-Sondages-G8/middleware"
	"github.com/abdoux213/Application-de-Sondages-G8/models"
	"github.com/abdoux213/Application-de-Sondages-G8/routes"
	"github.com/abdoux213/Application-de-Sondages-G8/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Survey{},
		&models.Question{},
		&models.Choice{},
		&models.Response{},
		&models.SurveyShare{},
		&models.SurveyNotification{},
	)
	if err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	store := services.NewStore(db)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpireHours)
	surveyService := services.NewSurveyService(db)
	resultsService := services.NewResultsService(store, redisClient,
		time.Duration(cfg.ResultsCacheTTLSeconds)*time.Second, logger)
	exportService := services.NewExportService()
	submissionService := services.NewSubmissionService(store, logger)

	// Initialize notification hub and wire it behind submissions
	hub := services.NewNotificationHub(logger)
	go hub.Run()
	submissionService.SetListener(services.NewNotificationService(surveyService, hub, resultsService, logger))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	surveyHandler := handlers.NewSurveyHandler(surveyService)
	responseHandler := handlers.NewResponseHandler(surveyService, submissionService, resultsService, exportService)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Setup routes
	routes.SetupRoutes(router, authHandler, surveyHandler, responseHandler, hub, authService, logger)

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

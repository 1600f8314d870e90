package main

import (
	"os"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/database"
	"taskboard-api/internal/handlers"
	"taskboard-api/internal/logging"
	"taskboard-api/internal/metrics"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// Initialize logging first
	logConfig := logging.NewLogConfigFromEnv()
	logging.InitLogger(logConfig)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// In-memory storage is for development only; it has no user
	// database, so requests run as a fixed dev user.
	useInMemory := os.Getenv("USE_MEMORY_STORAGE") == "true"

	jwtConfig := auth.NewJWTConfigFromEnv()

	var store storage.Store
	var db *gorm.DB

	if useInMemory {
		logging.Logger.Info("Using in-memory storage")
		store = storage.NewStorage()
	} else {
		dbConfig := database.NewConfigFromEnv()
		conn, err := database.Connect(dbConfig)
		if err != nil {
			logging.Logger.Fatalf("Failed to connect to database: %v", err)
		}

		if err := database.AutoMigrate(conn); err != nil {
			logging.Logger.Fatalf("Failed to run migrations: %v", err)
		}

		logging.Logger.Info("PostgreSQL storage initialized successfully")
		db = conn
		store = storage.NewPostgresStorage(conn)
	}

	taskHandler := handlers.NewTaskHandler(store)
	listHandler := handlers.NewListHandler(store)
	healthHandler := handlers.NewHealthHandler(db)

	// Set up Gin router (without default logger since we use our own)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.SecurityHeaders())

	corsConfig := middleware.NewCORSConfigFromEnv()
	router.Use(middleware.CORS(corsConfig))

	securityConfig := middleware.NewSecurityConfigFromEnv()
	router.Use(middleware.RequestSizeLimit(securityConfig.MaxRequestBodySize))

	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())

	rateLimitConfig := middleware.NewRateLimitConfigFromEnv()
	router.Use(middleware.GlobalRateLimiter(rateLimitConfig))

	// Request authentication: JWT validation against the user database,
	// or a fixed dev identity when running on in-memory storage.
	var authn gin.HandlerFunc
	if useInMemory {
		authn = middleware.DevAuth()
	} else {
		authn = middleware.AuthMiddleware(jwtConfig)
	}

	// API version 1 routes
	v1 := router.Group("/api/v1")
	{
		if db != nil {
			authService := auth.NewService(db, jwtConfig)
			authHandler := handlers.NewAuthHandler(authService)

			authRoutes := v1.Group("/auth")
			{
				authLimiter := middleware.AuthRateLimiter(rateLimitConfig)
				authRoutes.POST("/register", authLimiter, authHandler.Register)
				authRoutes.POST("/login", authLimiter, authHandler.Login)
				authRoutes.POST("/refresh", authLimiter, authHandler.RefreshToken)
				authRoutes.POST("/logout", authn, authHandler.Logout)
				authRoutes.GET("/me", authn, authHandler.Me)
			}
		}

		// Task routes
		tasks := v1.Group("/tasks", authn)
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.GET("/pending", taskHandler.GetPendingTasks)
			tasks.GET("/completed", taskHandler.GetCompletedTasks)
			tasks.GET("/:taskId", middleware.UUIDValidator("taskId"), taskHandler.GetTaskByID)
			tasks.PUT("/:taskId/complete", middleware.UUIDValidator("taskId"), taskHandler.CompleteTask)
			tasks.DELETE("/:taskId", middleware.UUIDValidator("taskId"), taskHandler.DeleteTask)
		}

		// List routes
		lists := v1.Group("/lists", authn)
		{
			lists.GET("", listHandler.GetAllLists)
			lists.POST("", listHandler.CreateList)
			lists.GET("/:listId", middleware.UUIDValidator("listId"), listHandler.GetListByID)
			lists.PUT("/:listId", middleware.UUIDValidator("listId"), listHandler.UpdateList)
			lists.DELETE("/:listId", middleware.UUIDValidator("listId"), listHandler.DeleteList)

			// Task creation is nested under its list
			lists.POST("/:listId/items", middleware.UUIDValidator("listId"), taskHandler.CreateTask)
		}
	}

	// Health and metrics endpoints
	router.GET("/health", healthHandler.BasicHealth)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/metrics", metrics.Handler())

	logging.Logger.Infof("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}

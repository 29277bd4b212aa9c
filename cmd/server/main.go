package main

import (
	"compliance-portal/internal/auth"
	"compliance-portal/internal/calendar"
	"compliance-portal/internal/chat"
	"compliance-portal/internal/config"
	"compliance-portal/internal/dashboard"
	"compliance-portal/internal/db"
	"compliance-portal/internal/document"
	"compliance-portal/internal/domain"
	"compliance-portal/internal/feed"
	"compliance-portal/internal/guide"
	"compliance-portal/internal/middleware"
	"compliance-portal/internal/notification"
	"compliance-portal/internal/ratelimit"
	"compliance-portal/internal/session"
	"compliance-portal/internal/storage"
	"compliance-portal/internal/user"
	"compliance-portal/internal/utils"
	"compliance-portal/internal/worker"
	"compliance-portal/redis"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.InitLogger(cfg.LogLevel)
	auth.SetSecret(cfg.JWTSecret)

	// Connect to database
	database, err := db.ConnectDb()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.CloseDb()

	// Migrate database schema
	if err := db.Migrate(database); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient, err := redis.InitRedis(cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient)

	// Seed database with sample data (development default)
	if cfg.SeedData {
		if err := db.SeedData(context.Background(), database, document.InvalidateListCache(cache)); err != nil {
			logger.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	loginLimiter, err := ratelimit.NewFixedWindowLimiter(redisClient, "ratelimit:auth", cfg.LoginRateLimitPerMinute, time.Minute)
	if err != nil {
		logger.Error("failed to create rate limiter", "error", err)
		os.Exit(1)
	}

	var objects storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			logger.Error("failed to connect to object storage", "error", err)
			os.Exit(1)
		}
		objects = minioStore
	} else {
		logger.Warn("MINIO_ENDPOINT not set, document payloads are stored inline")
	}

	workerPool := worker.NewWorkerPool(cfg.WorkerPoolSize)
	defer workerPool.Shutdown()

	broker := chat.NewBroker(redisClient)
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)

	// Initialize repository
	userRepo := user.NewRepository(database)
	notificationRepo := notification.NewRepository(database)
	docRepo := document.NewRepository(database)
	calendarRepo := calendar.NewRepository(database)
	chatRepo := chat.NewRepository(database)
	guideRepo := guide.NewRepository(database)
	feedRepo := feed.NewRepository(database)

	// Initialize service
	userService := user.NewService(userRepo, sessions, cfg.SessionTTL)
	notificationService := notification.NewService(notificationRepo, userService)
	docService := document.NewService(docRepo, objects, cache, workerPool, notificationService)
	calendarService := calendar.NewService(calendarRepo)
	chatService := chat.NewService(chatRepo, userService, broker, workerPool)
	guideService := guide.NewService(guideRepo)
	var feedSource feed.Source
	if cfg.FeedSourceURL != "" {
		feedSource = feed.NewHTTPSource(cfg.FeedSourceURL)
	}
	feedService := feed.NewService(feedRepo, feedSource)
	dashboardService := dashboard.NewService(calendarService, notificationService, docService, userService, chatService)

	// Initialize handler
	userHandler := user.NewHandler(userService)
	notificationHandler := notification.NewHandler(notificationService)
	docHandler := document.NewHandler(docService, cfg.MaxUploadBytes)
	calendarHandler := calendar.NewHandler(calendarService)
	chatHandler := chat.NewHandler(chatService, broker)
	guideHandler := guide.NewHandler(guideService)
	feedHandler := feed.NewHandler(feedService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	authMiddleware := &middleware.Auth{UserService: userService, Sessions: sessions}

	// Initialize Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: false,
	}

	if cfg.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// User routes
	router.POST("/register", middleware.RateLimit(loginLimiter, "register"), userHandler.Register)
	router.POST("/login", middleware.RateLimit(loginLimiter, "login"), userHandler.Login)

	api := router.Group("", authMiddleware.AuthMiddleWare())
	api.DELETE("/logout", userHandler.Logout)
	api.GET("/profile", userHandler.GetProfile)
	api.GET("/dashboard", dashboardHandler.Show)

	api.GET("/calendar", calendarHandler.List)
	api.GET("/calendar/upcoming", calendarHandler.Upcoming)
	api.GET("/calendar/days/:date", calendarHandler.Day)
	api.POST("/calendar", middleware.RequireRole(domain.RoleCA), calendarHandler.Create)

	api.GET("/documents", docHandler.ShowDocuments)
	api.POST("/documents", docHandler.Upload)
	api.GET("/documents/:id", docHandler.ShowDocument)
	api.DELETE("/documents/:id", docHandler.DeleteDocument)

	api.GET("/notifications", notificationHandler.List)
	api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	api.POST("/notifications/:id/read", notificationHandler.MarkRead)
	api.POST("/notifications/:id/snooze", notificationHandler.Snooze)
	api.DELETE("/notifications/:id", notificationHandler.Dismiss)

	api.GET("/chat/partners", chatHandler.Partners)
	api.GET("/chat/unread", chatHandler.UnreadCount)
	api.POST("/chat/read-all", chatHandler.MarkAllRead)
	api.GET("/chat/stream", chatHandler.Stream)
	api.GET("/chat/:partnerId", chatHandler.Conversation)
	api.POST("/chat", chatHandler.Send)

	sme := api.Group("", middleware.RequireRole(domain.RoleSME))
	sme.GET("/guides", guideHandler.List)
	sme.GET("/guides/:id", guideHandler.Show)
	sme.GET("/guides/:id/steps/:index", guideHandler.Step)
	sme.PUT("/guides/:id/steps/:stepId", guideHandler.ToggleStep)
	sme.GET("/feed", feedHandler.List)
	sme.GET("/feed/categories", feedHandler.Categories)

	ca := api.Group("", middleware.RequireRole(domain.RoleCA))
	ca.GET("/clients", userHandler.ListClients)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if feedSource != nil {
		go feed.RunRefresher(ctx, feedService, cfg.FeedRefreshInterval, logger)
	}

	// Server configuration
	serverPort := cfg.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		logger.Info("server listening", "port", serverPort)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server shutdown complete")
}

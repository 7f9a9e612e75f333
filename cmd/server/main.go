package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vinesrealty/leadsecure-backend/internal/config"
	"github.com/vinesrealty/leadsecure-backend/internal/database"
	"github.com/vinesrealty/leadsecure-backend/internal/handlers"
	"github.com/vinesrealty/leadsecure-backend/internal/middleware"
	"github.com/vinesrealty/leadsecure-backend/internal/services"
	"github.com/vinesrealty/leadsecure-backend/internal/utils"
	"github.com/vinesrealty/leadsecure-backend/pkg/jwt"
	"github.com/vinesrealty/leadsecure-backend/pkg/mailer"
	"github.com/vinesrealty/leadsecure-backend/pkg/notify"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Vines LeadSecure Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Infof("Connecting to %s database...", cfg.Database.Driver)
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	credentialRepo := database.NewCredentialRepository(db)
	leadRepo := database.NewLeadRepository(db)

	// Initialize session token service (optional)
	var jwtService *jwt.Service
	if cfg.Auth.JWTSecret != "" {
		jwtService = jwt.NewService(cfg.Auth.JWTSecret, cfg.Auth.SessionExpiry)
		logger.Info("Admin session tokens enabled")
	}

	// Initialize notification sink
	var notifier notify.Notifier
	if cfg.Notify.Mode == "webhook" {
		notifier = notify.NewWebhookGateway(cfg.Notify.WebhookURL)
		logger.Infof("Lead notifications via webhook: %s", cfg.Notify.WebhookURL)
	} else {
		notifier = notify.NewDevGateway(logger)
		logger.Info("Lead notifications in development mode (log only)")
	}

	// Initialize services
	authService := services.NewAdminAuthService(credentialRepo, logger, cfg.Admin.BcryptCost, cfg.Admin.ResetTokenTTL)
	if cfg.SMTP.RecoveryTo != "" {
		recoveryMailer := mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		authService.WithRecoveryMailer(recoveryMailer, cfg.SMTP.RecoveryTo)
		logger.Infof("Recovery tokens will be emailed to %s", cfg.SMTP.RecoveryTo)
	}

	if err := authService.Bootstrap(cfg.Admin.DefaultPasscode); err != nil {
		logger.Fatalf("Failed to bootstrap admin credential: %v", err)
	}

	leadService := services.NewLeadService(leadRepo, notifier, logger, cfg.Notify.Timeout)

	// Initialize handlers
	adminAuthHandler := handlers.NewAdminAuthHandler(authService, jwtService, logger)
	leadHandler := handlers.NewLeadHandler(leadService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health and metrics
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Vines LeadSecure Backend Running")
	})
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public passcode routes
	router.POST("/validate-passcode", adminAuthHandler.ValidatePasscode)
	router.POST("/request-recovery", adminAuthHandler.RequestRecovery)
	router.POST("/reset-passcode", adminAuthHandler.ResetPasscode)

	// Public lead intake (both paths for form compatibility)
	router.POST("/leads", leadHandler.Create)
	router.POST("/add-lead", leadHandler.Create)

	// Admin routes; Bearer session tokens enforced only when configured
	admin := router.Group("")
	if cfg.Auth.RequireToken {
		admin.Use(middleware.AdminAuthMiddleware(jwtService, logger))
		logger.Info("Admin routes require a session token")
	}
	{
		admin.POST("/change-passcode", adminAuthHandler.ChangePasscode)
		admin.GET("/leads", leadHandler.List)
		admin.POST("/approve-leads", leadHandler.Approve)
		admin.POST("/leads/toggle", leadHandler.Toggle)
		admin.POST("/leads/import", leadHandler.Import)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(c.Request.UserAgent())

		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
			"device_type": device.DeviceType,
			"os":          device.OS,
			"browser":     device.Browser,
		}
		if device.IsBot {
			fields["bot"] = true
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}

package main

import (
	"log"
	"net/http"
	"os"

	"foodie-api/config"
	"foodie-api/handlers"
	"foodie-api/logging"
	"foodie-api/mailer"
	"foodie-api/realtime"
	"foodie-api/routes"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

func main() {
	logging.Setup()

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.Load()
	config.InitDB()

	// Error reporting is optional; enabled only when a DSN is present.
	if config.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: config.SentryDSN}); err != nil {
			log.Println("Sentry init failed:", err)
		}
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	if config.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Foodie Order & Delivery API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Foodie Order & Delivery API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"user", "admin", "delivery"},
		})
	})

	// Realtime hub: constructed here and handed to the routes so the
	// order and tracking handlers publish through it explicitly.
	hub := realtime.NewHub(handlers.CanViewOrder)
	go hub.Run()

	m := mailer.New(config.Mail)

	// Register all routes
	routes.SetupRoutes(r, hub, m)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

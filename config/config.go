package config

import (
	"log"
	"os"

	"foodie-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens, populated by Load.
var JWTSecret []byte

// SMTP carries the mail-server settings for the OTP mailer.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var (
	// FrontendURL is where OAuth logins redirect back to.
	FrontendURL string
	SentryDSN   string
	Mail        SMTP
	googleOAuth *oauth2.Config
)

// Load reads the environment (and an optional .env file) into the
// package-level settings. Call before InitDB.
func Load() {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	JWTSecret = []byte(getEnv("JWT_SECRET", "foodie_super_secret_2024"))
	FrontendURL = getEnv("FRONTEND_URL", "http://localhost:5173")
	SentryDSN = os.Getenv("SENTRY_DSN")

	Mail = SMTP{
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnv("SMTP_PORT", "587"),
		Username: os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASS"),
		From:     getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),
	}

	googleOAuth = &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  getEnv("BACKEND_URL", "http://localhost:8080") + "/api/auth/google/callback",
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleOAuth returns the OAuth2 config for Google sign-in.
func GoogleOAuth() *oauth2.Config {
	return googleOAuth
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("FOODIE_DB", "foodie.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated")
}

// Migrate runs the schema migration for all models. Exposed so tests
// can migrate their own in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Food{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingPoint{},
		&models.OrderStatusHistory{},
	)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application runtime configuration.
type Config struct {
	Env               string
	HTTPPort          string
	DatabaseURL       string
	StoreDriver       string
	AutoMigrate       bool
	CurrencyCode      string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	GoogleClientID    string
	FirebaseProjectID string
	FirebaseCredFile  string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	CORSOrigins       []string
	RateLimit         int

	// MinStartDate is the earliest membership start date accepted at registration.
	MinStartDate time.Time
	Location     *time.Location

	AdminName     string
	AdminEmail    string
	AdminPassword string

	ReminderCron       string
	ReminderWindowDays int
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TIME_ZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("TIME_ZONE: %w", err)
	}

	minStart, err := getDate("MIN_START_DATE", "2024-01-01", loc)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		AutoMigrate:        getBool("AUTO_MIGRATE", true),
		CurrencyCode:       getEnv("CURRENCY_CODE", "INR"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:    getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		FirebaseProjectID:  os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredFile:   os.Getenv("FIREBASE_CREDENTIALS"),
		ReadTimeout:        getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:        getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:        getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimit:          getInt("RATE_LIMIT_PER_MINUTE", 200),
		MinStartDate:       minStart,
		Location:           loc,
		AdminName:          getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:         strings.ToLower(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		ReminderCron:       getEnv("REMINDER_CRON", "0 9 * * *"),
		ReminderWindowDays: getInt("REMINDER_WINDOW_DAYS", 7),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_PHONE_NUMBER"),
	}

	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required")
		}
	case StoreMemory:
	default:
		return cfg, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// IsDevelopment reports whether destructive developer endpoints may be exposed.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SMSEnabled reports whether Twilio credentials are complete.
func (c Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getDate(key, fallback string, loc *time.Location) (time.Time, error) {
	val := getEnv(key, fallback)
	t, err := time.ParseInLocation("2006-01-02", val, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

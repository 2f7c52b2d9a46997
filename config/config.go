package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CookieSecure      bool   `mapstructure:"COOKIE_SECURE"`
	CookieDomain      string `mapstructure:"COOKIE_DOMAIN"`
	// CORSAllowedOrigins is a comma-separated list of browser origins allowed to send
	// credentialed requests.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Mongo holds onboarding sessions and user profiles.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	// Postgres holds journeys, requirements, registrations and documents.
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`

	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	NotifyMaxRetry          int    `mapstructure:"NOTIFY_MAX_RETRY"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	SessionTTLHours       int    `mapstructure:"SESSION_TTL_HOURS"`
	SessionTransitionMode string `mapstructure:"SESSION_TRANSITION_MODE"`

	ProfileCacheTTLSeconds     int    `mapstructure:"PROFILE_CACHE_TTL_SECONDS"`
	ProfileCacheBackend        string `mapstructure:"PROFILE_CACHE_BACKEND"`
	ProfileInvalidationDelayMs int    `mapstructure:"PROFILE_INVALIDATION_DELAY_MS"`
	ScoreCacheTTLHours         int    `mapstructure:"SCORE_CACHE_TTL_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("COOKIE_DOMAIN", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "sailsmart")
	viper.SetDefault("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=sailsmart port=5432 sslmode=disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 45)
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	viper.SetDefault("NOTIFY_MAX_RETRY", 5)
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("SESSION_TTL_HOURS", 168)
	viper.SetDefault("SESSION_TRANSITION_MODE", "strict")
	viper.SetDefault("PROFILE_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("PROFILE_CACHE_BACKEND", "redis")
	viper.SetDefault("PROFILE_INVALIDATION_DELAY_MS", 500)
	viper.SetDefault("SCORE_CACHE_TTL_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blanks and trailing slashes.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SessionTTL is the sliding lifetime of an onboarding session.
func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// AITimeout is the per-call deadline for model requests, kept within 30..60s.
func (c Config) AITimeout() time.Duration {
	secs := c.AITimeoutSeconds
	if secs < 30 {
		secs = 30
	}
	if secs > 60 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

func (c Config) ProfileCacheTTL() time.Duration {
	if c.ProfileCacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.ProfileCacheTTLSeconds) * time.Second
}

func (c Config) ProfileInvalidationDelay() time.Duration {
	return time.Duration(c.ProfileInvalidationDelayMs) * time.Millisecond
}

func (c Config) ScoreCacheTTL() time.Duration {
	if c.ScoreCacheTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ScoreCacheTTLHours) * time.Hour
}

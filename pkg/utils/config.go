package utils

import (
	"errors"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Email     EmailConfig
	OTP       OTPConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

// StorageConfig selects the repository backend: "postgres" or "memory".
type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

// RedisConfig backs carts, OTP throttling and the realtime bus. An empty
// Addr keeps everything in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	CartTTL  time.Duration
}

type SessionConfig struct {
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Support  string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
	ResendLimit   int
	ResendWindow  time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// CORSConfig is shared by the HTTP CORS middleware and the websocket origin
// check. "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

func (c CORSConfig) AllowsAny() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

// AllowsOrigin reports whether a browser origin may call the API.
func (c CORSConfig) AllowsOrigin(origin string) bool {
	return c.AllowsAny() || slices.Contains(c.AllowedOrigins, origin)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "rental-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("STORAGE_DRIVER", "postgres")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", false)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("CART_TTL", "168h")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_SUPPORT", "remrose.rentals@gmail.com")
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("OTP_RESEND_LIMIT", 5)
	viper.SetDefault("OTP_RESEND_WINDOW", "1h")
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
			CartTTL:  viper.GetDuration("CART_TTL"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
			Support:  viper.GetString("EMAIL_SUPPORT"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
			ResendLimit:   viper.GetInt("OTP_RESEND_LIMIT"),
			ResendWindow:  viper.GetDuration("OTP_RESEND_WINDOW"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if config.Email.From == "" {
		config.Email.From = config.Email.User
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

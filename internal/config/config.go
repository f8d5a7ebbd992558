package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	OCR        OCRConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	Drafts     DraftsConfig
}

// ExtractionConfig holds background extraction worker settings.
type ExtractionConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	QueueSize   int `mapstructure:"queue_size"`
	TimeoutSecs int `mapstructure:"timeout_secs"`
}

// DraftsConfig selects where editing sessions live.
type DraftsConfig struct {
	// Store is "memory" or "redis".
	Store string        `mapstructure:"store"`
	TTL   time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OCRProviderConfig holds settings for a single OCR provider.
type OCRProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// OCRConfig holds invoice reader settings. Primary is always tried first;
// Secondary is the fallback when the primary fails or is rate limited.
type OCRConfig struct {
	Primary   OCRProviderConfig `mapstructure:"primary"`
	Secondary OCRProviderConfig `mapstructure:"secondary"`

	// Defaults forwarded when a request carries no OCR settings.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	Language            string  `mapstructure:"language"`
	Temperature         float64 `mapstructure:"temperature"`
	MaxImageSizeMB      int64   `mapstructure:"max_image_size_mb"`
}

// SecondaryConfig returns the fallback provider config, or nil if not configured.
func (o *OCRConfig) SecondaryConfig() *OCRProviderConfig {
	if o.Secondary.Provider != "" {
		return &o.Secondary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for invoice images.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FACTURAS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FACTURAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "facturas")
	v.SetDefault("db.password", "facturas_secret")
	v.SetDefault("db.name", "facturas_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "facturas")

	// S3 defaults
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "facturas-images")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")

	// OCR defaults
	v.SetDefault("ocr.primary.provider", "openai")
	v.SetDefault("ocr.primary.api_key", "")
	v.SetDefault("ocr.primary.default_model", "")
	v.SetDefault("ocr.primary.timeout_secs", 120)
	v.SetDefault("ocr.secondary.provider", "")
	v.SetDefault("ocr.secondary.api_key", "")
	v.SetDefault("ocr.secondary.default_model", "")
	v.SetDefault("ocr.secondary.timeout_secs", 120)
	v.SetDefault("ocr.confidence_threshold", 0.95)
	v.SetDefault("ocr.language", "spa")
	v.SetDefault("ocr.temperature", 0.1)
	v.SetDefault("ocr.max_image_size_mb", 10)

	// Extraction worker defaults
	v.SetDefault("extraction.concurrency", 4)
	v.SetDefault("extraction.queue_size", 64)
	v.SetDefault("extraction.timeout_secs", 180)

	// Draft store defaults
	v.SetDefault("drafts.store", "memory")
	v.SetDefault("drafts.ttl", "24h")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "FACTURAS_SERVER_PORT",
		"server.read_timeout":         "FACTURAS_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "FACTURAS_SERVER_WRITE_TIMEOUT",
		"server.environment":          "FACTURAS_SERVER_ENVIRONMENT",
		"db.host":                     "FACTURAS_DB_HOST",
		"db.port":                     "FACTURAS_DB_PORT",
		"db.user":                     "FACTURAS_DB_USER",
		"db.password":                 "FACTURAS_DB_PASSWORD",
		"db.name":                     "FACTURAS_DB_NAME",
		"db.sslmode":                  "FACTURAS_DB_SSLMODE",
		"db.max_open":                 "FACTURAS_DB_MAX_OPEN",
		"db.max_idle":                 "FACTURAS_DB_MAX_IDLE",
		"redis.addr":                  "FACTURAS_REDIS_ADDR",
		"redis.password":              "FACTURAS_REDIS_PASSWORD",
		"redis.db":                    "FACTURAS_REDIS_DB",
		"jwt.secret":                  "FACTURAS_JWT_SECRET",
		"jwt.access_expiry":           "FACTURAS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":          "FACTURAS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                  "FACTURAS_JWT_ISSUER",
		"s3.region":                   "FACTURAS_S3_REGION",
		"s3.bucket":                   "FACTURAS_S3_BUCKET",
		"s3.endpoint":                 "FACTURAS_S3_ENDPOINT",
		"s3.access_key":               "FACTURAS_S3_ACCESS_KEY",
		"s3.secret_key":               "FACTURAS_S3_SECRET_KEY",
		"s3.presign_expiry":           "FACTURAS_S3_PRESIGN_EXPIRY",
		"log.level":                   "FACTURAS_LOG_LEVEL",
		"log.format":                  "FACTURAS_LOG_FORMAT",
		"cors.allowed_origins":        "FACTURAS_CORS_ALLOWED_ORIGINS",
		"ocr.primary.provider":        "FACTURAS_OCR_PRIMARY_PROVIDER",
		"ocr.primary.api_key":         "FACTURAS_OCR_PRIMARY_API_KEY",
		"ocr.primary.default_model":   "FACTURAS_OCR_PRIMARY_DEFAULT_MODEL",
		"ocr.primary.timeout_secs":    "FACTURAS_OCR_PRIMARY_TIMEOUT_SECS",
		"ocr.secondary.provider":      "FACTURAS_OCR_SECONDARY_PROVIDER",
		"ocr.secondary.api_key":       "FACTURAS_OCR_SECONDARY_API_KEY",
		"ocr.secondary.default_model": "FACTURAS_OCR_SECONDARY_DEFAULT_MODEL",
		"ocr.secondary.timeout_secs":  "FACTURAS_OCR_SECONDARY_TIMEOUT_SECS",
		"ocr.confidence_threshold":    "FACTURAS_OCR_CONFIDENCE_THRESHOLD",
		"ocr.language":                "FACTURAS_OCR_LANGUAGE",
		"ocr.temperature":             "FACTURAS_OCR_TEMPERATURE",
		"ocr.max_image_size_mb":       "FACTURAS_OCR_MAX_IMAGE_SIZE_MB",
		"extraction.concurrency":      "FACTURAS_EXTRACTION_CONCURRENCY",
		"extraction.queue_size":       "FACTURAS_EXTRACTION_QUEUE_SIZE",
		"extraction.timeout_secs":     "FACTURAS_EXTRACTION_TIMEOUT_SECS",
		"drafts.store":                "FACTURAS_DRAFTS_STORE",
		"drafts.ttl":                  "FACTURAS_DRAFTS_TTL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FACTURAS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FACTURAS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.OCR = OCRConfig{
		Primary: OCRProviderConfig{
			Provider:     v.GetString("ocr.primary.provider"),
			APIKey:       v.GetString("ocr.primary.api_key"),
			DefaultModel: v.GetString("ocr.primary.default_model"),
			TimeoutSecs:  v.GetInt("ocr.primary.timeout_secs"),
		},
		Secondary: OCRProviderConfig{
			Provider:     v.GetString("ocr.secondary.provider"),
			APIKey:       v.GetString("ocr.secondary.api_key"),
			DefaultModel: v.GetString("ocr.secondary.default_model"),
			TimeoutSecs:  v.GetInt("ocr.secondary.timeout_secs"),
		},
		ConfidenceThreshold: v.GetFloat64("ocr.confidence_threshold"),
		Language:            v.GetString("ocr.language"),
		Temperature:         v.GetFloat64("ocr.temperature"),
		MaxImageSizeMB:      v.GetInt64("ocr.max_image_size_mb"),
	}

	cfg.Extraction = ExtractionConfig{
		Concurrency: v.GetInt("extraction.concurrency"),
		QueueSize:   v.GetInt("extraction.queue_size"),
		TimeoutSecs: v.GetInt("extraction.timeout_secs"),
	}

	cfg.Drafts = DraftsConfig{
		Store: v.GetString("drafts.store"),
		TTL:   v.GetDuration("drafts.ttl"),
	}
	if cfg.Drafts.Store != "memory" && cfg.Drafts.Store != "redis" {
		return nil, fmt.Errorf("config: unknown drafts store %q", cfg.Drafts.Store)
	}

	return cfg, nil
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures the full process configuration. FromEnv builds it once so
// main stays lean and every component receives plain values.
type Config struct {
	Addr string

	LogLevel  string
	LogFormat string

	// BindingStore selects the binding store backend: memory, postgres, redis.
	BindingStore string
	PostgresURL  string
	Redis        RedisConfig

	Storage StorageConfig

	Classifier ClassifierConfig
	QRDecoder  QRDecoderConfig
	Telegram   TelegramConfig

	// UploadRateLimit caps uploads per device per UploadRateWindow.
	// Zero disables limiting.
	UploadRateLimit  int
	UploadRateWindow time.Duration

	// ImageTokenKey signs image-view tokens embedded in notification links.
	ImageTokenKey string
	ImageTokenTTL time.Duration

	// PublicBaseURL is the externally reachable base of this service, used to
	// build image links in notifications.
	PublicBaseURL string
}

// RedisConfig mirrors the platform redis client options.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig selects and parameterizes the image storage backend.
type StorageConfig struct {
	Backend   string // s3 or fs
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	FSRoot    string
	Timeout   time.Duration
}

// ClassifierConfig points at the inference service.
type ClassifierConfig struct {
	BaseURL     string
	Timeout     time.Duration
	PersonClass int
}

// QRDecoderConfig points at the QR decoding service.
type QRDecoderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TelegramConfig carries the bot credentials and webhook settings.
type TelegramConfig struct {
	BotToken      string
	WebhookURL    string
	WebhookSecret string
	Timeout       time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults. Secrets have no defaults; empty means the feature is disabled.
func FromEnv() Config {
	return Config{
		Addr:         envOr("SECUREEYE_ADDR", ":8080"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		LogFormat:    envOr("LOG_FORMAT", "json"),
		BindingStore: envOr("BINDING_STORE", "memory"),
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Storage: StorageConfig{
			Backend:   envOr("STORAGE_BACKEND", "fs"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Bucket:    envOr("S3_BUCKET", "secureeye-images"),
			Region:    envOr("S3_REGION", "eu-west-1"),
			UseSSL:    envBool("S3_USE_SSL", true),
			FSRoot:    envOr("STORAGE_FS_ROOT", "./data/images"),
			Timeout:   envDuration("STORAGE_TIMEOUT", 10*time.Second),
		},
		Classifier: ClassifierConfig{
			BaseURL:     os.Getenv("CLASSIFIER_URL"),
			Timeout:     envDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
			PersonClass: envInt("CLASSIFIER_PERSON_CLASS", 1),
		},
		QRDecoder: QRDecoderConfig{
			BaseURL: os.Getenv("QR_DECODER_URL"),
			Timeout: envDuration("QR_DECODER_TIMEOUT", 5*time.Second),
		},
		Telegram: TelegramConfig{
			BotToken:      os.Getenv("BOT_FATHER_TOKEN"),
			WebhookURL:    os.Getenv("TELEGRAM_WEBHOOK_URL"),
			WebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
			Timeout:       envDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		},
		UploadRateLimit:  envInt("UPLOAD_RATE_LIMIT", 0),
		UploadRateWindow: envDuration("UPLOAD_RATE_WINDOW", time.Minute),
		ImageTokenKey:    envOr("IMAGE_TOKEN_KEY", "dev-secret-key-change-in-production"),
		ImageTokenTTL:    envDuration("IMAGE_TOKEN_TTL", 24*time.Hour),
		PublicBaseURL:    envOr("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

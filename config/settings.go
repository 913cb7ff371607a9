package config

import (
	"time"
)

// InsecureSecretKey is used when SECRET_KEY is not configured. Deployments must override it.
const InsecureSecretKey = "testkey"

// Settings is the typed view over the environment map.
type Settings struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DatabaseURL         string
	DatabaseReplicaURLs []string
	DBLogLevel          string

	SecretKey     string
	SecureCookies bool

	AcceptedOrigins []string
	BaseURL         string

	StaticDir      string
	MediaBackend   string
	MediaBucket    string
	MediaPublicURL string
	AWSRegion      string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
}

// Load builds Settings from an environment map, applying defaults.
func Load(c map[string]string) Settings {
	seconds := func(key string) time.Duration {
		return time.Duration(GetInt(c, key, 180)) * time.Second
	}

	return Settings{
		Port:         GetString(c, "PORT", "8080"),
		ReadTimeout:  seconds("READ_TIMEOUT_SECONDS"),
		WriteTimeout: seconds("WRITE_TIMEOUT_SECONDS"),
		IdleTimeout:  seconds("IDLE_TIMEOUT_SECONDS"),

		DatabaseURL:         GetString(c, "DATABASE_URL", "sqlite://devsearch.db"),
		DatabaseReplicaURLs: GetList(c, "DATABASE_REPLICA_URLS"),
		DBLogLevel:          GetString(c, "DB_LOG_LEVEL", "warn"),

		SecretKey:     GetString(c, "SECRET_KEY", InsecureSecretKey),
		SecureCookies: GetBool(c, "SECURE_COOKIES", true),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		BaseURL:         GetString(c, "BASE_URL", "http://localhost:8080"),

		StaticDir:      GetString(c, "STATIC_DIR", "./static"),
		MediaBackend:   GetString(c, "MEDIA_BACKEND", "local"),
		MediaBucket:    GetString(c, "MEDIA_BUCKET", ""),
		MediaPublicURL: GetString(c, "MEDIA_PUBLIC_URL", "/static"),
		AWSRegion:      GetString(c, "AWS_REGION", "us-east-1"),

		SMTPHost:     GetString(c, "SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     GetInt(c, "SMTP_PORT", 465),
		SMTPUser:     GetString(c, "SMTP_USER", ""),
		SMTPPassword: GetString(c, "SMTP_PASSWORD", ""),
		FromEmail:    GetString(c, "FROM_EMAIL", ""),

		RateLimitRPS:   GetFloat(c, "RATE_LIMIT_RPS", 1),
		RateLimitBurst: GetInt(c, "RATE_LIMIT_BURST", 5),

		LogLevel:  GetString(c, "LOG_LEVEL", "info"),
		LogFormat: GetString(c, "LOG_FORMAT", "json"),
	}
}

// UsesInsecureSecret reports whether the signing key is still the built-in default.
func (s Settings) UsesInsecureSecret() bool {
	return s.SecretKey == InsecureSecretKey
}

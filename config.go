package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zirdl/bunubon/database"
	aws_pkg "github.com/zirdl/bunubon/pkg/aws"
)

// Config holds all configuration for the registry API.
type Config struct {
	Port   string `validate:"required,numeric"`
	AppEnv string

	PostgresUser     string `validate:"required"`
	PostgresPassword string `validate:"required"`
	PostgresDB       string `validate:"required"`
	PostgresHost     string `validate:"required"`
	PostgresPort     string `validate:"required,numeric"`
	PostgresSSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	PostgresTimeZone string

	RedisURL string

	JWTSecret    string        `validate:"required,min=32"`
	JWTTTL       time.Duration `validate:"gt=0"`
	CookieSecure bool
	CookieDomain string
	BcryptCost   int `validate:"min=4,max=31"`

	AllowedOrigins     []string
	LoginRatePerMinute int `validate:"min=1"`

	GoogleCredentialsFile string
	GoogleAPIKey          string

	ExportS3Bucket  string
	ExportS3Prefix  string
	SyncSNSTopicARN string
	CloudWatchLogs  bool
}

// Postgres returns the connection settings for database.ConnectPostgres.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSLMode,
		TimeZone: c.PostgresTimeZone,
	}
}

// registrySecrets is the part of the Secrets Manager client LoadConfig needs.
type registrySecrets interface {
	DBCredentials(ctx context.Context) (*aws_pkg.DBCredentials, error)
	JWTSecret(ctx context.Context) (string, error)
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig() (*Config, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			applySecrets(context.Background(), cfg, aws_pkg.NewRegistrySecrets(awsCfg))
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configFromEnv() (*Config, error) {
	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	loginRate, err := strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		AppEnv:                getEnv("APP_ENV", "development"),
		PostgresUser:          os.Getenv("POSTGRES_USER"),
		PostgresPassword:      os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:            os.Getenv("POSTGRES_DB"),
		PostgresHost:          os.Getenv("POSTGRES_HOST"),
		PostgresPort:          getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:       getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:      getEnv("POSTGRES_TIMEZONE", "Asia/Manila"),
		RedisURL:              os.Getenv("REDIS_URL"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		JWTTTL:                jwtTTL,
		CookieSecure:          os.Getenv("COOKIE_SECURE") == "true",
		CookieDomain:          os.Getenv("COOKIE_DOMAIN"),
		BcryptCost:            bcryptCost,
		AllowedOrigins:        splitList(os.Getenv("ALLOWED_ORIGINS")),
		LoginRatePerMinute:    loginRate,
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleAPIKey:          os.Getenv("GOOGLE_API_KEY"),
		ExportS3Bucket:        os.Getenv("EXPORT_S3_BUCKET"),
		ExportS3Prefix:        getEnv("EXPORT_S3_PREFIX", "exports/"),
		SyncSNSTopicARN:       os.Getenv("SYNC_SNS_TOPIC_ARN"),
		CloudWatchLogs:        os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}, nil
}

// applySecrets overrides DB credentials and the JWT secret. Missing or
// malformed secrets leave the environment values in place.
func applySecrets(ctx context.Context, cfg *Config, sm registrySecrets) {
	if creds, err := sm.DBCredentials(ctx); err == nil {
		overrideIfSet(&cfg.PostgresUser, creds.User)
		overrideIfSet(&cfg.PostgresPassword, creds.Password)
		overrideIfSet(&cfg.PostgresDB, creds.DBName)
		overrideIfSet(&cfg.PostgresHost, creds.Host)
		overrideIfSet(&cfg.PostgresPort, creds.Port)
	}
	if v, err := sm.JWTSecret(ctx); err == nil {
		cfg.JWTSecret = v
	}
}

func overrideIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

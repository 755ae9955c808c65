// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"mealsense/internal/inference"
)

type Config struct {
	Port   string
	AppEnv string

	DatabaseURL       string
	DataEncryptionKey string

	JWTSecret string
	TokenTTL  time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	InferenceMaxAttempts int
	InferenceBaseDelay   time.Duration

	PhotoBucket   string
	AWSRegion     string
	PhotoEndpoint string
}

func (c Config) IsDevelopment() bool { return c.AppEnv == "development" }

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:              get("PORT", "8080"),
		AppEnv:            get("APP_ENV", "development"),
		DatabaseURL:       getenv("DATABASE_URL"),
		DataEncryptionKey: getenv("DATA_ENCRYPTION_KEY"),
		JWTSecret:         getenv("JWT_SECRET"),
		GeminiAPIKey:      getenv("GEMINI_API_KEY"),
		GeminiModel:       get("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:     get("GEMINI_BASE_URL", inference.DefaultGeminiBaseURL),
		PhotoBucket:       getenv("PHOTO_BUCKET"),
		AWSRegion:         getenv("AWS_REGION"),
		PhotoEndpoint:     getenv("PHOTO_ENDPOINT"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	var err error
	if cfg.TokenTTL, err = duration(get("TOKEN_TTL", "60m"), "TOKEN_TTL"); err != nil {
		return Config{}, err
	}
	if cfg.GeminiTimeout, err = duration(get("GEMINI_TIMEOUT", "60s"), "GEMINI_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if cfg.InferenceBaseDelay, err = duration(get("INFERENCE_BASE_DELAY", "2s"), "INFERENCE_BASE_DELAY"); err != nil {
		return Config{}, err
	}
	attempts, err := strconv.Atoi(get("INFERENCE_MAX_ATTEMPTS", "3"))
	if err != nil || attempts < 1 {
		return Config{}, fmt.Errorf("INFERENCE_MAX_ATTEMPTS must be a positive integer")
	}
	cfg.InferenceMaxAttempts = attempts

	return cfg, nil
}

func duration(v, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

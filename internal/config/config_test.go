package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealsense/internal/inference"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 60*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, inference.DefaultGeminiBaseURL, cfg.GeminiBaseURL)
	assert.Equal(t, 60*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, 3, cfg.InferenceMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.InferenceBaseDelay)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"JWT_SECRET":             "s3cret",
		"PORT":                   "9000",
		"APP_ENV":                "production",
		"TOKEN_TTL":              "2h",
		"INFERENCE_MAX_ATTEMPTS": "5",
		"INFERENCE_BASE_DELAY":   "500ms",
		"PHOTO_BUCKET":           "meal-photos",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.InferenceMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.InferenceBaseDelay)
	assert.Equal(t, "meal-photos", cfg.PhotoBucket)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"bad ttl", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "soon"}, "TOKEN_TTL"},
		{"negative timeout", map[string]string{"JWT_SECRET": "x", "GEMINI_TIMEOUT": "-1s"}, "GEMINI_TIMEOUT"},
		{"zero attempts", map[string]string{"JWT_SECRET": "x", "INFERENCE_MAX_ATTEMPTS": "0"}, "INFERENCE_MAX_ATTEMPTS"},
		{"bad attempts", map[string]string{"JWT_SECRET": "x", "INFERENCE_MAX_ATTEMPTS": "three"}, "INFERENCE_MAX_ATTEMPTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

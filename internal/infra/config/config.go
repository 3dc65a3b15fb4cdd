package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env               string
	Port              string
	OllamaBaseURL     string
	DefaultModel      string
	TargetModelFamily string
	MaxImageSize      int
	GenerateTimeout   time.Duration
	HealthTimeout     time.Duration
	RateLimitRPS      float64
	Debug             bool
}

func Load() *Config {
	// .env is optional; real environment variables win over file entries.
	_ = godotenv.Load()

	return &Config{
		Env:               getEnv("ENV", "development"),
		Port:              getEnv("PORT", "8000"),
		OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		DefaultModel:      getEnv("DEFAULT_MODEL", "gemma3:4b-instruct-q4_0"),
		TargetModelFamily: getEnv("TARGET_MODEL_FAMILY", "gemma3"),
		MaxImageSize:      getEnvInt("MAX_IMAGE_SIZE", 10*1024*1024),
		GenerateTimeout:   time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 60)) * time.Second,
		HealthTimeout:     time.Duration(getEnvInt("HEALTH_TIMEOUT_SECONDS", 5)) * time.Second,
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 10),
		Debug:             getEnvBool("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

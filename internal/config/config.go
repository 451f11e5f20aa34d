package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the matcher service
type Config struct {
	Server  ServerConfig
	Index   IndexConfig
	Storage StorageConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// IndexConfig holds relevance index configuration
type IndexConfig struct {
	MaxVocabulary   int
	NgramMin        int
	NgramMax        int
	DefaultTopK     int
	MaxTopK         int
	DefaultMinScore float64
}

// StorageConfig holds dataset snapshot storage configuration
type StorageConfig struct {
	DataDir         string
	EnableSnapshots bool
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: GetStringEnv("SERVER_PORT", "8080"),
		},
		Index: IndexConfig{
			MaxVocabulary:   GetIntEnv("INDEX_MAX_VOCABULARY", 10000),
			NgramMin:        GetIntEnv("INDEX_NGRAM_MIN", 1),
			NgramMax:        GetIntEnv("INDEX_NGRAM_MAX", 2),
			DefaultTopK:     GetIntEnv("INDEX_DEFAULT_TOP_K", 10),
			MaxTopK:         GetIntEnv("INDEX_MAX_TOP_K", 100),
			DefaultMinScore: GetFloatEnv("INDEX_DEFAULT_MIN_SCORE", 0.8),
		},
		Storage: StorageConfig{
			DataDir:         GetStringEnv("STORAGE_DATA_DIR", "./data"),
			EnableSnapshots: GetBoolEnv("STORAGE_ENABLE_SNAPSHOTS", true),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

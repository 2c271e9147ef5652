package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	GinMode     string
	ServerPort  string
	UploadDir   string
	CORSOrigins []string
}

func Load() *Config {
	// Missing .env is fine, values fall back to real environment
	_ = godotenv.Load()

	return &Config{
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "taskhive"),
		DBPassword:  getEnv("DB_PASSWORD", "taskhive"),
		DBName:      getEnv("DB_NAME", "project_management"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key-change-me"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

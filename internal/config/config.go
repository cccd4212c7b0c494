// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	JWTSecretKey string

	// Database connection. When DBHost is empty the server falls back to a
	// local sqlite file, which keeps development setup to zero steps.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	// Object storage (S3-compatible).
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3BucketImage string
	S3BucketCSV   string

	OpenAIAPIKey string
	ChatModel    string

	MaxFileSizeBytes int64
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  env,
		JWTSecretKey: getEnv("SECRET_KEY", ""),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),
		SQLitePath: getEnv("SQLITE_PATH", "appchat.db"),

		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3BucketImage: getEnv("S3_BUCKET_IMAGES", "images"),
		S3BucketCSV:   getEnv("S3_BUCKET_CSV", "csv"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		ChatModel:    getEnv("CHAT_MODEL", "gpt-4o-mini"),

		MaxFileSizeBytes: int64(getEnvAsInt("MAX_FILE_SIZE_MB", 10)) * 1024 * 1024,
	}

	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "SECRET_KEY")
		}
		if cfg.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if cfg.S3Endpoint == "" {
			missing = append(missing, "S3_ENDPOINT")
		}
		if cfg.S3AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if cfg.S3SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// UsePostgres reports whether a Postgres connection was configured.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

// PostgresDSN builds the connection string from the DB_* variables.
// The password is URL-escaped; passwords with special characters are common.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

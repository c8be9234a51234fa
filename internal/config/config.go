package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production"`
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     string `validate:"required_if=Enabled true"`
	User     string
	Password string
	DBName   string `validate:"required_if=Enabled true"`
}

// LLMConfig describes the chat-completion endpoint used by the reformatter and
// the cover letter generator.
type LLMConfig struct {
	Provider string        `validate:"oneof=openrouter gemini"`
	APIKey   string
	BaseURL  string        `validate:"required_if=Provider openrouter"`
	Model    string        `validate:"required"`
	Timeout  time.Duration `validate:"gt=0"`
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	OutputPath  string `validate:"required"`
	MaxFileSize int64  `validate:"gt=0"`
	FontDir     string `validate:"required"`
	LogoPath    string
}

type WorkerConfig struct {
	Concurrency int           `validate:"gte=1"`
	QueueSize   int           `validate:"gte=1"`
	JobTimeout  time.Duration `validate:"gt=0"`
}

type SessionConfig struct {
	TTL           time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_maker"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenRouter)),
			APIKey:   getEnv("LLM_API_KEY", ""),
			BaseURL:  getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:    getEnv("LLM_MODEL", "mistralai/mistral-small-24b-instruct-2501"),
			Timeout:  getEnvAsDuration("LLM_TIMEOUT", "120s"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Storage: StorageConfig{
			OutputPath:  getEnv("OUTPUT_PATH", "./generated"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			FontDir:     getEnv("FONT_DIR", "./assets/fonts"),
			LogoPath:    getEnv("LOGO_PATH", "./assets/Logo.png"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			JobTimeout:  getEnvAsDuration("JOB_TIMEOUT", "10m"),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", "24h"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "10m"),
		},
	}
}

// Validate checks the loaded values against the struct tags above.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LLMAPIKey returns the key for the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLM.Provider == ProviderGemini && c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}
	return c.LLM.APIKey
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported LLM providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	LLM        LLMConfig
	Evaluation EvaluationConfig
	Storage    StorageConfig
	JWT        JWTConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds the read (replica) and write (primary) connection settings.
// Write fields fall back to the read ones when empty.
type DatabaseConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"call_insight"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	WriteHost   string `envconfig:"DB_WRITE_HOST"`
	WritePort   string `envconfig:"DB_WRITE_PORT"`
	WriteUser   string `envconfig:"DB_WRITE_USER"`
	WritePass   string `envconfig:"DB_WRITE_PASSWORD"`
	SQLitePath  string `envconfig:"DB_SQLITE_PATH" default:"call_insight.db"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"2"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// LLMConfig selects and tunes the chat-completion provider
type LLMConfig struct {
	Provider          string        `envconfig:"LLM_PROVIDER" default:"openai"`
	APIKey            string        `envconfig:"LLM_API_KEY"`
	BaseURL           string        `envconfig:"LLM_BASE_URL" default:"https://api.groq.com/openai/v1"`
	// Model is empty by default; the adapter picks one per provider
	Model             string        `envconfig:"LLM_MODEL"`
	Temperature       float64       `envconfig:"LLM_TEMPERATURE" default:"0.2"`
	EvalTemperature   float64       `envconfig:"LLM_EVAL_TEMPERATURE" default:"0.3"`
	MaxTokens         int           `envconfig:"LLM_MAX_TOKENS" default:"4000"`
	ClassifyMaxTokens int           `envconfig:"LLM_CLASSIFY_MAX_TOKENS" default:"300"`
	Timeout           time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
}

// EvaluationConfig holds evaluation pipeline settings
type EvaluationConfig struct {
	ContextDocumentPath   string        `envconfig:"CONTEXT_DOCUMENT_PATH" default:"prompts/contexto_avaliacao.txt"`
	ContextDocumentObject string        `envconfig:"CONTEXT_DOCUMENT_OBJECT"`
	LexiconPath           string        `envconfig:"LEXICON_PATH"`
	BatchPacing           time.Duration `envconfig:"BATCH_PACING" default:"500ms"`
	RecordTimeout         time.Duration `envconfig:"RECORD_TIMEOUT" default:"3m"`
	ViewCacheTTL          time.Duration `envconfig:"VIEW_CACHE_TTL" default:"10m"`
	SessionTTL            time.Duration `envconfig:"SESSION_TTL" default:"8h"`
	DefaultPageSize       int           `envconfig:"DEFAULT_PAGE_SIZE" default:"25"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"call-insight"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// JWTConfig holds reviewer token configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"12h"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := process(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// process fills every section from the environment. Sections are processed
// one by one so variable names stay unprefixed (PORT, not SERVER_PORT).
func process(cfg *Config) error {
	sections := []interface{}{
		&cfg.Server,
		&cfg.Database,
		&cfg.Redis,
		&cfg.LLM,
		&cfg.Evaluation,
		&cfg.Storage,
		&cfg.JWT,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("failed to process environment: %w", err)
		}
	}
	return nil
}

// Validate validates the configuration.
// A missing LLM API key is reported on first use, not here.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 || c.LLM.ClassifyMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS and LLM_CLASSIFY_MAX_TOKENS must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE out of range: %v", c.LLM.Temperature)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Evaluation.DefaultPageSize {
	case 25, 50, 100:
	default:
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be 25, 50 or 100")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetReadDSN returns the connection string of the read engine
func (c *Config) GetReadDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetWriteDSN returns the connection string of the write engine
func (c *Config) GetWriteDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		fallback(c.Database.WriteHost, c.Database.Host),
		fallback(c.Database.WritePort, c.Database.Port),
		fallback(c.Database.WriteUser, c.Database.User),
		fallback(c.Database.WritePass, c.Database.Password),
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func fallback(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

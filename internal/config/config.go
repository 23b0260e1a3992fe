package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Chatbot    ChatbotConfig
	Embedding  EmbeddingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the individual fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	QueryTimeout       time.Duration
	AutoMigrate        bool // apply embedded migrations at server start
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// ChatbotConfig holds the chatbot session settings
type ChatbotConfig struct {
	Name             string
	Version          string
	MaxHistory       int
	AllDisplayLimit  int // cap for the "all products" listing
	ListDisplayLimit int // cap for every other product listing
	PopularLimit     int
	SessionTTL       time.Duration
	MaxSessions      int
	RandomSeed       int64 // 0 seeds from the clock
}

// EmbeddingConfig holds product embedding settings
type EmbeddingConfig struct {
	Dimensions   int
	SimilarLimit int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "shoe_store_db"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 5),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			QueryTimeout:       getEnvAsDuration("PG_QUERY_TIMEOUT", 5*time.Second),
			AutoMigrate:        getEnvAsBool("PG_AUTO_MIGRATE", false),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Chatbot: ChatbotConfig{
			Name:             getEnv("CHATBOT_NAME", "ShoeMart AI Assistant"),
			Version:          getEnv("CHATBOT_VERSION", "2.0.0"),
			MaxHistory:       getEnvAsInt("CHATBOT_MAX_HISTORY", 100),
			AllDisplayLimit:  getEnvAsInt("CHATBOT_ALL_DISPLAY_LIMIT", 15),
			ListDisplayLimit: getEnvAsInt("CHATBOT_LIST_DISPLAY_LIMIT", 10),
			PopularLimit:     getEnvAsInt("CHATBOT_POPULAR_LIMIT", 10),
			SessionTTL:       getEnvAsDuration("CHATBOT_SESSION_TTL", 30*time.Minute),
			MaxSessions:      getEnvAsInt("CHATBOT_MAX_SESSIONS", 10000),
			RandomSeed:       int64(getEnvAsInt("CHATBOT_RANDOM_SEED", 0)),
		},
		Embedding: EmbeddingConfig{
			Dimensions:   getEnvAsInt("EMBEDDING_DIMENSIONS", 1024),
			SimilarLimit: getEnvAsInt("EMBEDDING_SIMILAR_LIMIT", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the chatbot cannot run with
func (c *Config) Validate() error {
	if c.Chatbot.MaxHistory <= 0 {
		return fmt.Errorf("chatbot max history must be positive, got %d", c.Chatbot.MaxHistory)
	}
	if c.Chatbot.AllDisplayLimit <= 0 || c.Chatbot.ListDisplayLimit <= 0 {
		return fmt.Errorf("chatbot display limits must be positive")
	}
	if c.Chatbot.PopularLimit <= 0 {
		return fmt.Errorf("chatbot popular limit must be positive, got %d", c.Chatbot.PopularLimit)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// GetPostgreSQLURL returns the connection string in URL form, as required by
// the migration driver
func (c *Config) GetPostgreSQLURL() string {
	if strings.HasPrefix(c.PostgreSQL.DSN, "postgres://") || strings.HasPrefix(c.PostgreSQL.DSN, "postgresql://") {
		return c.PostgreSQL.DSN
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgreSQL.User, c.PostgreSQL.Password),
		Host:     net.JoinHostPort(c.PostgreSQL.Host, strconv.Itoa(c.PostgreSQL.Port)),
		Path:     "/" + c.PostgreSQL.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgreSQL.SSLMode),
	}
	return u.String()
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

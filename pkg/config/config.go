package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Stores   StoreConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	// EngineFile is an optional YAML file with engine tuning.
	EngineFile string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type CatalogConfig struct {
	// Source is "postgres" or "memory"; memory seeds from File.
	Source          string
	File            string
	RefreshInterval time.Duration
}

type StoreConfig struct {
	Personalization string
	Conversation    string
	ConversationTTL time.Duration
	JanitorInterval time.Duration
	MaxMessages     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	refresh, err := getEnvDuration("CATALOG_REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	convTTL, err := getEnvDuration("CONVERSATION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	janitor, err := getEnvDuration("CONVERSATION_JANITOR_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	maxMessages, err := getEnvInt("CONVERSATION_MAX_MESSAGES", 50)
	if err != nil {
		return nil, err
	}
	migrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Smart Catalog API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			EngineFile:  getEnv("ENGINE_CONFIG_FILE", ""),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: requestTimeout,
			AllowOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:3000"), "http://localhost:8080"},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "smart_catalog"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			Migrate:  migrate,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Catalog: CatalogConfig{
			Source:          getEnv("CATALOG_SOURCE", StorePostgres),
			File:            getEnv("CATALOG_FILE", "data/laptops.json"),
			RefreshInterval: refresh,
		},
		Stores: StoreConfig{
			Personalization: getEnv("PERSONALIZATION_STORE", StorePostgres),
			Conversation:    getEnv("CONVERSATION_STORE", StoreRedis),
			ConversationTTL: convTTL,
			JanitorInterval: janitor,
			MaxMessages:     maxMessages,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("missing jwt secret")
	}

	switch c.Catalog.Source {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	switch c.Stores.Personalization {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown personalization store %q", c.Stores.Personalization)
	}
	switch c.Stores.Conversation {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown conversation store %q", c.Stores.Conversation)
	}

	if c.NeedsPostgres() && c.Database.Password == "" {
		return errors.New("missing database password")
	}
	return nil
}

// NeedsPostgres reports whether any component is backed by the database.
func (c *Config) NeedsPostgres() bool {
	return c.Catalog.Source == StorePostgres || c.Stores.Personalization == StorePostgres
}

func (c *Config) NeedsRedis() bool {
	return c.Stores.Conversation == StoreRedis
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for neurovia-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Engine database (PostgreSQL): semantic cache and chat logs
	Database DatabaseConfig `yaml:"database"`

	// Warehouse (MySQL): the sales fact table queries run against
	Warehouse WarehouseConfig `yaml:"warehouse"`

	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Semantic cache configuration
	Cache CacheConfig `yaml:"cache"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"neurovia"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"neurovia_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// WarehouseConfig holds the MySQL warehouse connection settings.
type WarehouseConfig struct {
	Host         string `yaml:"host" env:"WAREHOUSE_HOST" env-default:"localhost"`
	Port         int    `yaml:"port" env:"WAREHOUSE_PORT" env-default:"3306"`
	User         string `yaml:"user" env:"WAREHOUSE_USER" env-default:"readonly"`
	Password     string `yaml:"-" env:"WAREHOUSE_PASSWORD"` // Secret - not in YAML
	Database     string `yaml:"database" env:"WAREHOUSE_DATABASE" env-default:"sales"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"WAREHOUSE_MAX_OPEN_CONNS" env-default:"5"`
	RowLimit     int    `yaml:"row_limit" env:"WAREHOUSE_ROW_LIMIT" env-default:"1000"`
}

// LLMConfig holds LLM provider settings. API keys must come from the
// environment. The embedding fields configure the OpenAI-compatible
// client the semantic cache embeds through; they are required when the
// generation provider has no embedding API (anthropic) and act as
// overrides otherwise.
type LLMConfig struct {
	Provider          string  `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint          string  `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:""`
	Model             string  `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o"`
	APIKey            string  `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
	EmbeddingEndpoint string  `yaml:"embedding_endpoint" env:"LLM_EMBEDDING_ENDPOINT" env-default:""`
	EmbeddingModel    string  `yaml:"embedding_model" env:"LLM_EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	EmbeddingAPIKey   string  `yaml:"-" env:"LLM_EMBEDDING_API_KEY"` // Secret - not in YAML
	Temperature       float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.1"`
}

// CacheConfig holds semantic cache settings.
type CacheConfig struct {
	// Threshold is the minimum cosine similarity for a cache hit.
	Threshold float64 `yaml:"threshold" env:"CACHE_THRESHOLD" env-default:"0.95"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on
// the returned Config. Secrets (PGPASSWORD, WAREHOUSE_PASSWORD,
// LLM_API_KEY) must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.EqualFold(c.LLM.Provider, "anthropic") && c.LLM.EmbeddingAPIKey == "" {
		return fmt.Errorf("LLM_EMBEDDING_API_KEY is required for the anthropic provider")
	}
	if c.Cache.Threshold <= 0 || c.Cache.Threshold > 1 {
		return fmt.Errorf("cache threshold must be in (0, 1], got %v", c.Cache.Threshold)
	}
	if c.Warehouse.RowLimit < 1 {
		return fmt.Errorf("warehouse row_limit must be positive, got %d", c.Warehouse.RowLimit)
	}
	return nil
}

// URL returns a PostgreSQL connection URL.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// DSN returns a go-sql-driver/mysql data source name.
func (c *WarehouseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

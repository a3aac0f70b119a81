package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Creative CreativeConfig `mapstructure:"creative"`
	Brand    BrandConfig    `mapstructure:"brand"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Path            string        `mapstructure:"path"`   // sqlite file path
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

// AgentConfig carries the decision parameters of the analysis pipeline.
// The thresholds encode business policy and must stay overridable; the
// defaults mirror the documented decision table.
type AgentConfig struct {
	DaysBack       int `mapstructure:"days_back"`
	ComparisonDays int `mapstructure:"comparison_days"`

	DropThreshold        float64  `mapstructure:"drop_threshold"`        // change_percent below this is a drop
	SevereDropThreshold  float64  `mapstructure:"severe_drop_threshold"` // below this a drop is high severity
	OpportunityThreshold float64  `mapstructure:"opportunity_threshold"` // above this is an opportunity
	StrongOppThreshold   float64  `mapstructure:"strong_opp_threshold"`  // above this an opportunity is high severity
	ComparedMetrics      []string `mapstructure:"compared_metrics"`
}

type CreativeConfig struct {
	Provider string `mapstructure:"provider"` // template or openai
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Platform string `mapstructure:"platform"`
}

type BrandConfig struct {
	Enabled    bool            `mapstructure:"enabled"`
	Qdrant     QdrantConfig    `mapstructure:"qdrant"`
	Embedding  EmbeddingConfig `mapstructure:"embedding"`
	TopK       int             `mapstructure:"top_k"`
	Tone       string          `mapstructure:"tone"`
	Voice      string          `mapstructure:"voice"`
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	APIKey     string `mapstructure:"api_key"`
	UseTLS     bool   `mapstructure:"use_tls"`
}

type EmbeddingConfig struct {
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	Dimensions int    `mapstructure:"dimensions"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/adpilot.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "adpilot")
	v.SetDefault("database.name", "adpilot")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("agent.days_back", 30)
	v.SetDefault("agent.comparison_days", 7)
	v.SetDefault("agent.drop_threshold", -20)
	v.SetDefault("agent.severe_drop_threshold", -30)
	v.SetDefault("agent.opportunity_threshold", 20)
	v.SetDefault("agent.strong_opp_threshold", 50)
	v.SetDefault("agent.compared_metrics", []string{"roas", "ctr", "conversion_rate", "revenue"})
	v.SetDefault("creative.provider", "template")
	v.SetDefault("creative.model", "gpt-4o-mini")
	v.SetDefault("creative.base_url", "https://api.openai.com/v1")
	v.SetDefault("creative.platform", "meta")
	v.SetDefault("brand.enabled", false)
	v.SetDefault("brand.qdrant.host", "localhost")
	v.SetDefault("brand.qdrant.port", 6334)
	v.SetDefault("brand.qdrant.collection", "brand_context")
	v.SetDefault("brand.embedding.model", "jina-embeddings-v3")
	v.SetDefault("brand.embedding.dimensions", 1024)
	v.SetDefault("brand.top_k", 5)
	v.SetDefault("brand.tone", "professional")
	v.SetDefault("brand.voice", "confident")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("creative.api_key", "OPENAI_API_KEY")
	v.BindEnv("creative.base_url", "OPENAI_BASE_URL")
	v.BindEnv("brand.qdrant.host", "QDRANT_HOST")
	v.BindEnv("brand.qdrant.port", "QDRANT_PORT")
	v.BindEnv("brand.qdrant.api_key", "QDRANT_API_KEY")
	v.BindEnv("brand.embedding.api_key", "JINA_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

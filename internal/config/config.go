// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Sources    SourcesConfig
	Shopify    ShopifyConfig
	Baselinker BaselinkerConfig
	LLM        LLMConfig
	Forecast   ForecastConfig
	Sessions   SessionsConfig
	Archive    ArchiveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	SyncOnStartup  bool
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// SummaryTTLSeconds bounds how long product summaries stay cached.
	SummaryTTLSeconds int
}

// SourcesConfig selects the upstream implementations ("live" or "mock").
type SourcesConfig struct {
	Mode            string
	SalesWindowDays int
	MockSeed        uint64
}

type ShopifyConfig struct {
	BaseURL           string
	AccessToken       string
	APIVersion        string
	TimeoutSeconds    int
	RequestsPerSecond float64
}

type BaselinkerConfig struct {
	BaseURL        string
	APIToken       string
	InventoryID    int64
	TimeoutSeconds int
}

type LLMConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	MaxTokens      int
	TimeoutSeconds int
}

// ForecastConfig holds the financial rates handed to the forecast calculator.
type ForecastConfig struct {
	CarryingCostRate    float64
	StockoutPenaltyRate float64
	HorizonDays         int
}

type SessionsConfig struct {
	DefaultTTLHours        int
	CleanupIntervalMinutes int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		instance = fromViper()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("SYNC_ON_STARTUP", true)

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "advisor")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 300)

	viper.SetDefault("SOURCES_MODE", "mock")
	viper.SetDefault("SALES_WINDOW_DAYS", 30)
	viper.SetDefault("MOCK_SEED", 0)

	viper.SetDefault("SHOPIFY_BASE_URL", "")
	viper.SetDefault("SHOPIFY_ACCESS_TOKEN", "")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("SHOPIFY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SHOPIFY_REQUESTS_PER_SECOND", 2)

	viper.SetDefault("BASELINKER_BASE_URL", "https://api.baselinker.com")
	viper.SetDefault("BASELINKER_API_TOKEN", "")
	viper.SetDefault("BASELINKER_INVENTORY_ID", 0)
	viper.SetDefault("BASELINKER_TIMEOUT_SECONDS", 10)

	viper.SetDefault("LLM_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("LLM_API_KEY", "")
	viper.SetDefault("LLM_MODEL", "gpt-4o")
	viper.SetDefault("LLM_MAX_TOKENS", 1024)
	viper.SetDefault("LLM_TIMEOUT_SECONDS", 30)

	viper.SetDefault("FINANCIAL_CARRYING_COST_RATE", 0.20)
	viper.SetDefault("FINANCIAL_STOCKOUT_PENALTY_RATE", 0.15)
	viper.SetDefault("FINANCIAL_FORECAST_HORIZON_DAYS", 30)

	viper.SetDefault("SESSION_DEFAULT_TTL_HOURS", 24)
	viper.SetDefault("SESSION_CLEANUP_INTERVAL_MINUTES", 60)

	viper.SetDefault("ARCHIVE_ENABLED", false)
	viper.SetDefault("ARCHIVE_ENDPOINT", "")
	viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
	viper.SetDefault("ARCHIVE_SECRET_KEY", "")
	viper.SetDefault("ARCHIVE_BUCKET", "advice-archive")
	viper.SetDefault("ARCHIVE_REGION", "us-east-1")
	viper.SetDefault("ARCHIVE_USE_SSL", true)
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			SyncOnStartup:  viper.GetBool("SYNC_ON_STARTUP"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:           viper.GetBool("CACHE_ENABLED"),
			RedisURL:          viper.GetString("REDIS_URL"),
			RedisHost:         viper.GetString("REDIS_HOST"),
			RedisPort:         viper.GetString("REDIS_PORT"),
			RedisPassword:     viper.GetString("REDIS_PASSWORD"),
			RedisDB:           viper.GetInt("REDIS_DB"),
			SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
		},
		Sources: SourcesConfig{
			Mode:            viper.GetString("SOURCES_MODE"),
			SalesWindowDays: viper.GetInt("SALES_WINDOW_DAYS"),
			MockSeed:        viper.GetUint64("MOCK_SEED"),
		},
		Shopify: ShopifyConfig{
			BaseURL:           viper.GetString("SHOPIFY_BASE_URL"),
			AccessToken:       viper.GetString("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:        viper.GetString("SHOPIFY_API_VERSION"),
			TimeoutSeconds:    viper.GetInt("SHOPIFY_TIMEOUT_SECONDS"),
			RequestsPerSecond: viper.GetFloat64("SHOPIFY_REQUESTS_PER_SECOND"),
		},
		Baselinker: BaselinkerConfig{
			BaseURL:        viper.GetString("BASELINKER_BASE_URL"),
			APIToken:       viper.GetString("BASELINKER_API_TOKEN"),
			InventoryID:    viper.GetInt64("BASELINKER_INVENTORY_ID"),
			TimeoutSeconds: viper.GetInt("BASELINKER_TIMEOUT_SECONDS"),
		},
		LLM: LLMConfig{
			BaseURL:        viper.GetString("LLM_BASE_URL"),
			APIKey:         viper.GetString("LLM_API_KEY"),
			Model:          viper.GetString("LLM_MODEL"),
			MaxTokens:      viper.GetInt("LLM_MAX_TOKENS"),
			TimeoutSeconds: viper.GetInt("LLM_TIMEOUT_SECONDS"),
		},
		Forecast: ForecastConfig{
			CarryingCostRate:    viper.GetFloat64("FINANCIAL_CARRYING_COST_RATE"),
			StockoutPenaltyRate: viper.GetFloat64("FINANCIAL_STOCKOUT_PENALTY_RATE"),
			HorizonDays:         viper.GetInt("FINANCIAL_FORECAST_HORIZON_DAYS"),
		},
		Sessions: SessionsConfig{
			DefaultTTLHours:        viper.GetInt("SESSION_DEFAULT_TTL_HOURS"),
			CleanupIntervalMinutes: viper.GetInt("SESSION_CLEANUP_INTERVAL_MINUTES"),
		},
		Archive: ArchiveConfig{
			Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
			Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
			AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
			SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
			Bucket:    viper.GetString("ARCHIVE_BUCKET"),
			Region:    viper.GetString("ARCHIVE_REGION"),
			UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
		},
	}
}

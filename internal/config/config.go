package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Chat      ChatConfig
	Reveal    RevealConfig
	Checkout  CheckoutConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// StoreConfig selects the persisted key-value backend used by the cart
type StoreConfig struct {
	Driver     string // memory, badger, postgres or redis
	CartKey    string
	BadgerPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CatalogConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Retries  uint64
	CacheTTL time.Duration
}

type ChatConfig struct {
	BackendURL string
	Timeout    time.Duration
	Greeting   string
}

// RevealConfig holds the pacing bands of the chat reveal effect
type RevealConfig struct {
	NewlineDelay    time.Duration
	PeriodDelay     time.Duration
	CommaDelay      time.Duration
	DefaultDelay    time.Duration
	ScrollEvery     int
	ScrollThreshold float64
}

type CheckoutConfig struct {
	PaymentDelay time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	ChatRequests int // 0 disables the limiter
	Window       time.Duration
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func Load() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("STORE_CART_KEY", "cart")
	v.SetDefault("BADGER_PATH", "./data/badger")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_BASE_URL", "http://127.0.0.1:8000")
	v.SetDefault("CATALOG_TIMEOUT", "10s")
	v.SetDefault("CATALOG_RETRIES", 2)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("CHAT_BACKEND_URL", "http://localhost:8000/api/chatbot/chat/")
	v.SetDefault("CHAT_TIMEOUT", "2m")
	v.SetDefault("CHAT_GREETING", "Xin chào! Tôi có thể giúp bạn tìm kiếm sản phẩm và so sánh giá.")
	v.SetDefault("REVEAL_DELAY_NEWLINE", "200ms")
	v.SetDefault("REVEAL_DELAY_PERIOD", "150ms")
	v.SetDefault("REVEAL_DELAY_COMMA", "50ms")
	v.SetDefault("REVEAL_DELAY_DEFAULT", "30ms")
	v.SetDefault("REVEAL_SCROLL_EVERY", 20)
	v.SetDefault("SCROLL_THRESHOLD", 50)
	v.SetDefault("CHECKOUT_PAYMENT_DELAY", "1s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_CHAT_REQUESTS", 0)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:     v.GetString("SERVER_PORT"),
			Env:      v.GetString("SERVER_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(v.GetString("STORE_DRIVER")),
			CartKey:    v.GetString("STORE_CART_KEY"),
			BadgerPath: v.GetString("BADGER_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Catalog: CatalogConfig{
			BaseURL:  strings.TrimRight(v.GetString("CATALOG_BASE_URL"), "/"),
			Timeout:  v.GetDuration("CATALOG_TIMEOUT"),
			Retries:  v.GetUint64("CATALOG_RETRIES"),
			CacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Chat: ChatConfig{
			BackendURL: v.GetString("CHAT_BACKEND_URL"),
			Timeout:    v.GetDuration("CHAT_TIMEOUT"),
			Greeting:   v.GetString("CHAT_GREETING"),
		},
		Reveal: RevealConfig{
			NewlineDelay:    v.GetDuration("REVEAL_DELAY_NEWLINE"),
			PeriodDelay:     v.GetDuration("REVEAL_DELAY_PERIOD"),
			CommaDelay:      v.GetDuration("REVEAL_DELAY_COMMA"),
			DefaultDelay:    v.GetDuration("REVEAL_DELAY_DEFAULT"),
			ScrollEvery:     v.GetInt("REVEAL_SCROLL_EVERY"),
			ScrollThreshold: v.GetFloat64("SCROLL_THRESHOLD"),
		},
		Checkout: CheckoutConfig{
			PaymentDelay: v.GetDuration("CHECKOUT_PAYMENT_DELAY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			ChatRequests: v.GetInt("RATE_LIMIT_CHAT_REQUESTS"),
			Window:       v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

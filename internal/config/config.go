// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Payment   PaymentConfig
	Messaging MessagingConfig
	Email     EmailConfig
	Logging   LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name           string
	Version        string
	Environment    string
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	MaxLifetime   time.Duration
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	ProductTTL   time.Duration
}

// JWTConfig contains token signing configuration
type JWTConfig struct {
	Issuer             string
	AccessSecret       string
	AccessTokenExpiry  time.Duration
	RefreshSecret      string
	RefreshTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	AdminSecretKey     string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CookieSecure       bool
}

// PaymentConfig contains payment processor configuration
type PaymentConfig struct {
	StripeSecretKey string
	StripeBaseURL   string
	ReturnURL       string
	// Currency prices every order; intents for an order must use it.
	Currency        string
	Timeout         time.Duration
	MaxRetries      int
}

// MessagingConfig contains RabbitMQ configuration. An empty URL disables publishing.
type MessagingConfig struct {
	RabbitMQURL string
	Exchange    string
	Queue       string
}

// EmailConfig contains SMTP configuration. An empty host logs mail instead of sending it.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Version:        v.GetString("APP_VERSION"),
			Environment:    v.GetString("APP_ENV"),
			CompanyName:    v.GetString("COMPANY_NAME"),
			CompanyAddress: v.GetString("COMPANY_ADDRESS"),
			CompanyEmail:   v.GetString("COMPANY_EMAIL"),
		},
		Server: ServerConfig{
			Port:           v.GetString("APP_PORT"),
			ReadTimeout:    v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:    v.GetDuration("SERVER_IDLE_TIMEOUT"),
			RequestTimeout: v.GetDuration("SERVER_REQUEST_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(v.GetString("DB_DRIVER")),
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			Name:          v.GetString("DB_NAME"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			SSLMode:       v.GetString("DB_SSL_MODE"),
			MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:   v.GetDuration("DB_MAX_LIFETIME"),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetString("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			ProductTTL:   v.GetDuration("REDIS_PRODUCT_TTL"),
		},
		JWT: JWTConfig{
			Issuer:             v.GetString("APP_NAME"),
			AccessSecret:       v.GetString("ACCESS_TOKEN_SECRET"),
			AccessTokenExpiry:  v.GetDuration("ACCESS_TOKEN_EXPIRY"),
			RefreshSecret:      v.GetString("REFRESH_TOKEN_SECRET"),
			RefreshTokenExpiry: v.GetDuration("REFRESH_TOKEN_EXPIRY"),
		},
		Security: SecurityConfig{
			BcryptCost:         v.GetInt("BCRYPT_COST"),
			AdminSecretKey:     v.GetString("ADMIN_SECRET_KEY"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ORIGIN")),
			CookieSecure:       v.GetBool("COOKIE_SECURE"),
		},
		Payment: PaymentConfig{
			StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
			StripeBaseURL:   v.GetString("STRIPE_BASE_URL"),
			ReturnURL:       v.GetString("PAYMENT_RETURN_URL"),
			Currency:        strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
			Timeout:         v.GetDuration("PAYMENT_TIMEOUT"),
			MaxRetries:      v.GetInt("STRIPE_MAX_RETRIES"),
		},
		Messaging: MessagingConfig{
			RabbitMQURL: v.GetString("RABBITMQ_URL"),
			Exchange:    v.GetString("RABBITMQ_EXCHANGE"),
			Queue:       v.GetString("RABBITMQ_QUEUE"),
		},
		Email: EmailConfig{
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			FromEmail:    v.GetString("FROM_EMAIL"),
			FromName:     v.GetString("FROM_NAME"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Storefront API")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("COMPANY_NAME", "Storefront")
	v.SetDefault("COMPANY_ADDRESS", "")
	v.SetDefault("COMPANY_EMAIL", "support@example.com")

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_REQUEST_TIMEOUT", 30*time.Second)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_USER", "storefront")
	v.SetDefault("DB_PASSWORD", "storefront")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_LIFETIME", 300*time.Second)
	v.SetDefault("SQLITE_PATH", "storefront.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "storefront")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_PRODUCT_TTL", 10*time.Minute)

	v.SetDefault("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	v.SetDefault("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)

	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("STRIPE_BASE_URL", "https://api.stripe.com")
	v.SetDefault("PAYMENT_RETURN_URL", "http://localhost:3000/checkout/complete")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PAYMENT_TIMEOUT", 15*time.Second)
	v.SetDefault("STRIPE_MAX_RETRIES", 2)

	v.SetDefault("RABBITMQ_EXCHANGE", "storefront")
	v.SetDefault("RABBITMQ_QUEUE", "storefront.notifications")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("FROM_EMAIL", "noreply@example.com")
	v.SetDefault("FROM_NAME", "Storefront")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.Payment.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if len(c.Payment.Currency) != 3 {
		return fmt.Errorf("PAYMENT_CURRENCY must be a 3-letter ISO code")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" || c.Database.MongoDatabase == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the postgres connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
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

package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Generator GeneratorConfig
}

type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" envDefault:"8080"`
	URL          string        `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	Environment  string        `env:"ENVIRONMENT" envDefault:"development"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"celestial"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	Path            string        `env:"DB_PATH" envDefault:"celestial.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED" envDefault:"true"`
	URL      string        `env:"REDIS_URL"`
	Host     string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string        `env:"REDIS_PORT" envDefault:"6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"10m"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}

type FrontendConfig struct {
	URL       string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSDebug bool   `env:"CORS_DEBUG" envDefault:"false"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"debug"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type RateLimitConfig struct {
	Enabled           bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RequestsPerSecond float64 `env:"RATE_LIMIT_REQUESTS_PER_SECOND" envDefault:"10"`
	BurstSize         int     `env:"RATE_LIMIT_BURST_SIZE" envDefault:"20"`
	TrustProxy        bool    `env:"RATE_LIMIT_TRUST_PROXY" envDefault:"false"`
}

type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type GeneratorConfig struct {
	MinPlanetsPerSystem int   `env:"GENERATOR_MIN_PLANETS_PER_SYSTEM" envDefault:"3"`
	MaxPlanetsPerSystem int   `env:"GENERATOR_MAX_PLANETS_PER_SYSTEM" envDefault:"12"`
	MaxAssetsPerPlanet  int   `env:"GENERATOR_MAX_ASSETS_PER_PLANET" envDefault:"2"`
	Seed                int64 `env:"GENERATOR_SEED" envDefault:"0"`
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Load parses the process environment and validates the result.
func Load() (*Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.Generator.MinPlanetsPerSystem < 0 || c.Generator.MaxPlanetsPerSystem < c.Generator.MinPlanetsPerSystem {
		return fmt.Errorf("generator planet bounds are invalid: min=%d max=%d",
			c.Generator.MinPlanetsPerSystem, c.Generator.MaxPlanetsPerSystem)
	}

	if c.Generator.MaxAssetsPerPlanet < 0 {
		return fmt.Errorf("GENERATOR_MAX_ASSETS_PER_PLANET must not be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) ConnectionString() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

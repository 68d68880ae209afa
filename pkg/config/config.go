package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Shopify ShopifyConfig
	Session SessionConfig
	Redis   RedisConfig
	DB      DBConfig
	Catalog CatalogConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	if err := cfg.ensureBackendConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SNAPFORM_APP_ENV" required:"true"`
	Port         string `envconfig:"SNAPFORM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SNAPFORM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SNAPFORM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ShopifyConfig struct {
	StoreDomain     string        `envconfig:"SNAPFORM_SHOPIFY_STORE_DOMAIN" required:"true"`
	StorefrontToken string        `envconfig:"SNAPFORM_SHOPIFY_STOREFRONT_TOKEN" required:"true"`
	APIVersion      string        `envconfig:"SNAPFORM_SHOPIFY_API_VERSION" default:"2024-07"`
	Timeout         time.Duration `envconfig:"SNAPFORM_SHOPIFY_TIMEOUT" default:"10s"`
}

// Endpoint returns the Storefront GraphQL endpoint for the configured shop.
func (s ShopifyConfig) Endpoint() string {
	domain := strings.TrimSuffix(strings.TrimSpace(s.StoreDomain), "/")
	domain = strings.TrimPrefix(domain, "https://")
	return fmt.Sprintf("https://%s/api/%s/graphql.json", domain, s.APIVersion)
}

type SessionConfig struct {
	Backend    string        `envconfig:"SNAPFORM_SESSION_BACKEND" default:"redis"`
	TTL        time.Duration `envconfig:"SNAPFORM_SESSION_TTL" default:"720h"`
	CookieName string        `envconfig:"SNAPFORM_SESSION_COOKIE" default:"sf_session"`
}

func (s SessionConfig) validate() error {
	switch s.Backend {
	case SessionBackendRedis, SessionBackendSQLite, SessionBackendPostgres, SessionBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown session backend %q", s.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"SNAPFORM_REDIS_URL"`
	Address      string        `envconfig:"SNAPFORM_REDIS_ADDR"`
	Password     string        `envconfig:"SNAPFORM_REDIS_PASSWORD"`
	DB           int           `envconfig:"SNAPFORM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SNAPFORM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SNAPFORM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SNAPFORM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SNAPFORM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SNAPFORM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"SNAPFORM_DB_DSN"`
	Driver string `envconfig:"SNAPFORM_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"SNAPFORM_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SNAPFORM_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SNAPFORM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SNAPFORM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type CatalogConfig struct {
	MaxCount     int `envconfig:"SNAPFORM_CATALOG_MAX_COUNT" default:"20"`
	DefaultCount int `envconfig:"SNAPFORM_CATALOG_DEFAULT_COUNT" default:"1"`
}

type CORSConfig struct {
	Origins []string `envconfig:"SNAPFORM_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (c *Config) ensureBackendConfig() error {
	switch c.Session.Backend {
	case SessionBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis session backend", EnvRedisURL, EnvRedisAddr)
		}
	case SessionBackendSQLite:
		if c.DB.DSN == "" {
			c.DB.DSN = defaultSQLiteDSN
		}
		c.DB.Driver = SessionBackendSQLite
	case SessionBackendPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the postgres session backend", EnvDBDSN)
		}
		c.DB.Driver = SessionBackendPostgres
	}
	return nil
}

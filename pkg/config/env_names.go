package config

// EnvPrefix is passed to envconfig; the struct tags carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	SessionBackendRedis    = "redis"
	SessionBackendSQLite   = "sqlite"
	SessionBackendPostgres = "postgres"
	SessionBackendMemory   = "memory"
)

const (
	EnvAppEnv         = "SNAPFORM_APP_ENV"
	EnvAppPort        = "SNAPFORM_APP_PORT"
	EnvShopifyDomain  = "SNAPFORM_SHOPIFY_STORE_DOMAIN"
	EnvShopifyToken   = "SNAPFORM_SHOPIFY_STOREFRONT_TOKEN"
	EnvSessionBackend = "SNAPFORM_SESSION_BACKEND"
	EnvRedisURL       = "SNAPFORM_REDIS_URL"
	EnvRedisAddr      = "SNAPFORM_REDIS_ADDR"
	EnvDBDSN          = "SNAPFORM_DB_DSN"
)

const defaultSQLiteDSN = "file:snapform_sessions.db?cache=shared&_busy_timeout=5000"

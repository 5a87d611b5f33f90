package config

// EnvPrefix is handed to envconfig; every field carries an explicit key so it only matters for error text.
const EnvPrefix = "FLO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "FLO_APP_ENV"
	EnvPort        = "FLO_APP_PORT"
	EnvDBDSN       = "FLO_DB_DSN"
	EnvDBDriver    = "FLO_DB_DRIVER"
	EnvDBHost      = "FLO_DB_HOST"
	EnvDBUser      = "FLO_DB_USER"
	EnvDBPassword  = "FLO_DB_PASSWORD"
	EnvDBName      = "FLO_DB_NAME"
	EnvRedisURL    = "FLO_REDIS_URL"
	EnvJWTSecret   = "FLO_JWT_SECRET"
	EnvJWTIssuer   = "FLO_JWT_ISSUER"
	EnvJWTExpMins  = "FLO_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite   = "FLO_USE_SQLITE"
	EnvSQLitePath  = "FLO_SQLITE_PATH"
	EnvCORSOrigins = "FLO_CORS_ALLOWED_ORIGINS"

	EnvRefreshTokenTTLMinutes = "FLO_REFRESH_TOKEN_TTL_MINUTES"
	EnvReportsDefaultPageSize = "FLO_REPORTS_DEFAULT_PAGE_SIZE"
)

const minJWTSecretLen = 16

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

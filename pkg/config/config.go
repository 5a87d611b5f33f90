package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Reports       ReportsConfig
	Idempotency   IdempotencyConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = cfg.FeatureFlags.SQLitePath
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// validate reports every misconfiguration at once instead of failing on the first.
func (c *Config) validate() error {
	var errs error
	if len(c.JWT.Secret) < minJWTSecretLen {
		errs = multierr.Append(errs, fmt.Errorf("%s must be at least %d bytes", EnvJWTSecret, minJWTSecretLen))
	}
	if c.JWT.AccessTokenTTL() <= 0 {
		errs = multierr.Append(errs, errors.New("access token expiration must be positive"))
	}
	switch strings.ToLower(c.DB.Driver) {
	case DriverPostgres, DriverSQLite:
	default:
		errs = multierr.Append(errs, fmt.Errorf("unsupported db driver %q", c.DB.Driver))
	}
	if c.Reports.DefaultPageSize < 1 || c.Reports.MaxPageSize < c.Reports.DefaultPageSize {
		errs = multierr.Append(errs, fmt.Errorf("reports page sizes must satisfy 1 <= default (%d) <= max (%d)",
			c.Reports.DefaultPageSize, c.Reports.MaxPageSize))
	}
	if c.Reports.ProtocolAttempts < 1 {
		errs = multierr.Append(errs, errors.New("reports protocol attempts must be at least 1"))
	}
	if c.Password.MinLength < 1 {
		errs = multierr.Append(errs, errors.New("password min length must be at least 1"))
	}
	if c.App.ReadHeaderTimeout <= 0 {
		errs = multierr.Append(errs, errors.New("http read header timeout must be positive"))
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" && c.App.IsProd() {
			errs = multierr.Append(errs, errors.New("wildcard CORS origin is not allowed in prod"))
		}
	}
	return errs
}

type AppConfig struct {
	Env             string        `envconfig:"FLO_APP_ENV" required:"true"`
	Port            string        `envconfig:"FLO_APP_PORT" default:"3333"`
	LogLevel        string        `envconfig:"FLO_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"FLO_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"FLO_SHUTDOWN_TIMEOUT" default:"15s"`

	ReadHeaderTimeout time.Duration `envconfig:"FLO_HTTP_READ_HEADER_TIMEOUT" default:"10s"`
	ReadTimeout       time.Duration `envconfig:"FLO_HTTP_READ_TIMEOUT" default:"30s"`
	WriteTimeout      time.Duration `envconfig:"FLO_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout       time.Duration `envconfig:"FLO_HTTP_IDLE_TIMEOUT" default:"120s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLO_DB_DSN"`
	Driver string `envconfig:"FLO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLO_DB_HOST"`
	LegacyPort     int    `envconfig:"FLO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLO_DB_USER"`
	LegacyPassword string `envconfig:"FLO_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLO_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLO_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"FLO_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLO_REDIS_URL"`
	Address      string        `envconfig:"FLO_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"FLO_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLO_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"FLO_REDIS_KEY_PREFIX" default:"flo"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FLO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FLO_JWT_ISSUER" default:"flo"`
	ExpirationMinutes      int    `envconfig:"FLO_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"FLO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLO_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"FLO_PASSWORD_MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FLO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FLO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FLO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FLO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FLO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FLO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"FLO_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"FLO_SQLITE_PATH" default:"flo.db"`
	AutoMigrate bool   `envconfig:"FLO_AUTO_MIGRATE" default:"false"`
}

type ReportsConfig struct {
	DefaultPageSize  int `envconfig:"FLO_REPORTS_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize      int `envconfig:"FLO_REPORTS_MAX_PAGE_SIZE" default:"100"`
	ProtocolAttempts int `envconfig:"FLO_REPORTS_PROTOCOL_ATTEMPTS" default:"3"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"FLO_IDEMPOTENCY_TTL" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FLO_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

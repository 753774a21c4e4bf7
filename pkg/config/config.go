package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "REFARM"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv                 = "REFARM_APP_ENV"
	EnvPort                   = "REFARM_APP_PORT"
	EnvDBDSN                  = "REFARM_DB_DSN"
	EnvDBHost                 = "REFARM_DB_HOST"
	EnvDBUser                 = "REFARM_DB_USER"
	EnvDBName                 = "REFARM_DB_NAME"
	EnvRedisURL               = "REFARM_REDIS_URL"
	EnvJWTSecret              = "REFARM_JWT_SECRET"
	EnvJWTIssuer              = "REFARM_JWT_ISSUER"
	EnvJWTExpMins             = "REFARM_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "REFARM_REFRESH_TOKEN_TTL_MINUTES"
	EnvLineChannelID          = "REFARM_LINE_CHANNEL_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Line          LineConfig
	Cart          CartConfig
	Orders        OrdersConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REFARM_APP_ENV" required:"true"`
	Port         string `envconfig:"REFARM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REFARM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REFARM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REFARM_DB_DSN"`
	Driver string `envconfig:"REFARM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REFARM_DB_HOST"`
	LegacyPort     int    `envconfig:"REFARM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REFARM_DB_USER"`
	LegacyPassword string `envconfig:"REFARM_DB_PASSWORD"`
	LegacyName     string `envconfig:"REFARM_DB_NAME"`
	LegacySSLMode  string `envconfig:"REFARM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REFARM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REFARM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REFARM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REFARM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REFARM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"REFARM_REDIS_ADDR"`
	Password     string        `envconfig:"REFARM_REDIS_PASSWORD"`
	DB           int           `envconfig:"REFARM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REFARM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REFARM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REFARM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REFARM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REFARM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"REFARM_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"REFARM_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"REFARM_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"REFARM_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REFARM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REFARM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REFARM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REFARM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REFARM_ARGON_KEY_LEN" default:"32"`
}

// LineConfig covers the LINE platform integration. ID tokens are exchanged
// against the verify URL; dev installs may enable the mock verifier instead
// of calling LINE at all.
type LineConfig struct {
	ChannelID     string        `envconfig:"REFARM_LINE_CHANNEL_ID"`
	VerifyURL     string        `envconfig:"REFARM_LINE_VERIFY_URL" default:"https://api.line.me/oauth2/v2.1/verify"`
	VerifyTimeout time.Duration `envconfig:"REFARM_LINE_VERIFY_TIMEOUT" default:"10s"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"REFARM_CART_TTL" default:"720h"`
}

type OrdersConfig struct {
	CancelDeadlineDays int `envconfig:"REFARM_ORDER_CANCEL_DEADLINE_DAYS" default:"3"`
}

// AuthRateLimitConfig throttles the login endpoints. The email limit only
// applies where the request body carries one; the LINE token exchange is
// throttled by IP alone.
type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"REFARM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"REFARM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"REFARM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite    bool `envconfig:"REFARM_USE_SQLITE" default:"false"`
	AutoMigrate  bool `envconfig:"REFARM_AUTO_MIGRATE" default:"false"`
	MockLineAuth bool `envconfig:"REFARM_MOCK_LINE_AUTH" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"REFARM_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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

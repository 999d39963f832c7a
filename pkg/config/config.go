package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"APEXBILL_APP_ENV" required:"true"`
	Port         string `envconfig:"APEXBILL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"APEXBILL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"APEXBILL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"APEXBILL_DB_DSN"`
	Driver string `envconfig:"APEXBILL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"APEXBILL_DB_HOST"`
	Port     int    `envconfig:"APEXBILL_DB_PORT" default:"5432"`
	User     string `envconfig:"APEXBILL_DB_USER"`
	Password string `envconfig:"APEXBILL_DB_PASSWORD"`
	Name     string `envconfig:"APEXBILL_DB_NAME"`
	SSLMode  string `envconfig:"APEXBILL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"APEXBILL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"APEXBILL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"APEXBILL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"APEXBILL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"APEXBILL_REDIS_URL"`
	Address      string        `envconfig:"APEXBILL_REDIS_ADDR"`
	Password     string        `envconfig:"APEXBILL_REDIS_PASSWORD"`
	DB           int           `envconfig:"APEXBILL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"APEXBILL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"APEXBILL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"APEXBILL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"APEXBILL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"APEXBILL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"APEXBILL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"APEXBILL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"APEXBILL_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"APEXBILL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"APEXBILL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"APEXBILL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"APEXBILL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"APEXBILL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	SignInWindow     time.Duration `envconfig:"APEXBILL_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SignInEmailLimit int           `envconfig:"APEXBILL_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SignInIPLimit    int           `envconfig:"APEXBILL_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignUpWindow     time.Duration `envconfig:"APEXBILL_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignUpEmailLimit int           `envconfig:"APEXBILL_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignUpIPLimit    int           `envconfig:"APEXBILL_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"APEXBILL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

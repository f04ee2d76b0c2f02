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
	Inventory     InventoryConfig
	Orders        OrdersConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAZAARBUDDY_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZAARBUDDY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZAARBUDDY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZAARBUDDY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAZAARBUDDY_DB_DSN"`
	Driver string `envconfig:"BAZAARBUDDY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAZAARBUDDY_DB_HOST"`
	LegacyPort     int    `envconfig:"BAZAARBUDDY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAZAARBUDDY_DB_USER"`
	LegacyPassword string `envconfig:"BAZAARBUDDY_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAZAARBUDDY_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAZAARBUDDY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAZAARBUDDY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAZAARBUDDY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAZAARBUDDY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZAARBUDDY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZAARBUDDY_REDIS_URL"`
	Address      string        `envconfig:"BAZAARBUDDY_REDIS_ADDR"`
	Password     string        `envconfig:"BAZAARBUDDY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZAARBUDDY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZAARBUDDY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZAARBUDDY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZAARBUDDY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZAARBUDDY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZAARBUDDY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAZAARBUDDY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAZAARBUDDY_JWT_ISSUER" default:"bazaarbuddy"`
	ExpirationMinutes int    `envconfig:"BAZAARBUDDY_JWT_EXPIRATION_MINUTES" default:"43200"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAZAARBUDDY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAZAARBUDDY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAZAARBUDDY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAZAARBUDDY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAZAARBUDDY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BAZAARBUDDY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BAZAARBUDDY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BAZAARBUDDY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BAZAARBUDDY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BAZAARBUDDY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BAZAARBUDDY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BAZAARBUDDY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BAZAARBUDDY_AUTO_MIGRATE" default:"false"`
	SeedDemo    bool `envconfig:"BAZAARBUDDY_SEED_DEMO" default:"false"`
}

type InventoryConfig struct {
	LowStockThreshold int           `envconfig:"BAZAARBUDDY_INVENTORY_LOW_STOCK_THRESHOLD" default:"5"`
	ExpiryWindow      time.Duration `envconfig:"BAZAARBUDDY_INVENTORY_EXPIRY_WINDOW" default:"168h"`
}

type OrdersConfig struct {
	NumberPrefix     string `envconfig:"BAZAARBUDDY_ORDER_NUMBER_PREFIX" default:"BB"`
	NumberMaxRetries int    `envconfig:"BAZAARBUDDY_ORDER_NUMBER_MAX_RETRIES" default:"5"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BAZAARBUDDY_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite || strings.EqualFold(db.Driver, "sqlite") {
		db.Driver = "sqlite"
		if db.DSN == "" {
			db.DSN = "file::memory:?cache=shared"
		}
		return nil
	}

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

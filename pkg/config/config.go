package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = DefaultSQLiteDSN
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECOMMAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOMMAPP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ECOMMAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOMMAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ECOMMAPP_DB_DSN"`
	Driver string `envconfig:"ECOMMAPP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ECOMMAPP_DB_HOST"`
	Port     int    `envconfig:"ECOMMAPP_DB_PORT" default:"5432"`
	User     string `envconfig:"ECOMMAPP_DB_USER"`
	Password string `envconfig:"ECOMMAPP_DB_PASSWORD"`
	Name     string `envconfig:"ECOMMAPP_DB_NAME"`
	SSLMode  string `envconfig:"ECOMMAPP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOMMAPP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOMMAPP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOMMAPP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOMMAPP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOMMAPP_REDIS_URL"`
	Address      string        `envconfig:"ECOMMAPP_REDIS_ADDR"`
	Password     string        `envconfig:"ECOMMAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOMMAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOMMAPP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOMMAPP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOMMAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOMMAPP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOMMAPP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a redis endpoint was supplied at all. Rate
// limiting is skipped entirely when it was not.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOMMAPP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOMMAPP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOMMAPP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOMMAPP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOMMAPP_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	RegisterWindow        time.Duration `envconfig:"ECOMMAPP_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"ECOMMAPP_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"ECOMMAPP_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CatalogConfig holds catalog behavior knobs.
type CatalogConfig struct {
	// CategoryDeletePolicy is either "cascade" (deleting a category removes
	// its products) or "restrict" (the delete fails while products remain).
	CategoryDeletePolicy string `envconfig:"ECOMMAPP_CATEGORY_DELETE_POLICY" default:"cascade"`
}

func (c CatalogConfig) validate() error {
	switch strings.ToLower(c.CategoryDeletePolicy) {
	case CategoryDeleteCascade, CategoryDeleteRestrict:
		return nil
	}
	return fmt.Errorf("invalid ECOMMAPP_CATEGORY_DELETE_POLICY %q (want cascade|restrict)", c.CategoryDeletePolicy)
}

// CascadesProducts reports whether category deletion removes its products.
func (c CatalogConfig) CascadesProducts() bool {
	return strings.EqualFold(c.CategoryDeletePolicy, CategoryDeleteCascade)
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ECOMMAPP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ECOMMAPP_AUTO_MIGRATE" default:"false"`
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

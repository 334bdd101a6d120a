package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Grow         GrowConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Grow.parseRates(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CANOPY_APP_ENV" required:"true"`
	Port         string `envconfig:"CANOPY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CANOPY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CANOPY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CANOPY_DB_DSN"`
	Driver string `envconfig:"CANOPY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CANOPY_DB_HOST"`
	LegacyPort     int    `envconfig:"CANOPY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CANOPY_DB_USER"`
	LegacyPassword string `envconfig:"CANOPY_DB_PASSWORD"`
	LegacyName     string `envconfig:"CANOPY_DB_NAME"`
	LegacySSLMode  string `envconfig:"CANOPY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CANOPY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CANOPY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CANOPY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CANOPY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CANOPY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CANOPY_REDIS_ADDR"`
	Password     string        `envconfig:"CANOPY_REDIS_PASSWORD"`
	DB           int           `envconfig:"CANOPY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CANOPY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CANOPY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CANOPY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CANOPY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CANOPY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// GrowConfig carries the cultivation cost model constants.
type GrowConfig struct {
	// ElectricityRate is the modeled cost per light per day.
	// The default assumes $0.15/kWh x 1 kW per light x 18 hours/day.
	ElectricityRate   string        `envconfig:"CANOPY_ELECTRICITY_RATE_PER_LIGHT_DAY" default:"2.70"`
	BatchListCacheTTL time.Duration `envconfig:"CANOPY_BATCH_LIST_CACHE_TTL" default:"30s"`

	electricityRate decimal.Decimal
}

// ElectricityRatePerLightDay returns the parsed per-light-per-day rate.
func (g GrowConfig) ElectricityRatePerLightDay() decimal.Decimal {
	return g.electricityRate
}

func (g *GrowConfig) parseRates() error {
	rate, err := decimal.NewFromString(strings.TrimSpace(g.ElectricityRate))
	if err != nil {
		return fmt.Errorf("invalid electricity rate %q: %w", g.ElectricityRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("electricity rate must not be negative")
	}
	g.electricityRate = rate
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CANOPY_AUTO_MIGRATE" default:"false"`
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

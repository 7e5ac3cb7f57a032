package config

import (
	"errors"
	"fmt"
	"time"

	"plate-server/internal/repository"
	"plate-server/internal/security"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

type App struct {
	Name     string `env:"APP_NAME" envDefault:"Plate Server"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type DB struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	URL             string        `env:"DATABASE_URL" envDefault:"file:plate.db?_pragma=foreign_keys(1)"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"8"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"15m"`
}

type Redis struct {
	URL string `env:"REDIS_URL"`
}

type JWT struct {
	Secret          string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRATION" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRATION" envDefault:"168h"`
	Issuer          string        `env:"JWT_ISSUER" envDefault:"plate-server"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

type RateLimit struct {
	RPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`
}

type Kafka struct {
	BootstrapServers string `env:"KAFKA_BOOTSTRAP_SERVERS"`
	AuditTopic       string `env:"AUDIT_TOPIC" envDefault:"audit-events"`
}

type Config struct {
	App       App
	DB        DB
	Redis     Redis
	JWT       JWT
	RateLimit RateLimit
	Kafka     Kafka
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks what struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case repository.DriverSQLite, repository.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: %w: %q", repository.ErrUnknownDriver, c.DB.Driver))
	}
	if c.DB.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL: must not be empty"))
	}

	if err := c.Security().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("JWT_SECRET: %w", err))
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("JWT token expirations must be positive"))
	}
	if c.JWT.RefreshTokenTTL < c.JWT.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_EXPIRATION must not be shorter than JWT_ACCESS_TOKEN_EXPIRATION"))
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive"))
	}

	if _, err := log.ParseLevel(c.App.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) Database() repository.Options {
	return repository.Options{
		Driver:          c.DB.Driver,
		DSN:             c.DB.URL,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
		ConnMaxIdleTime: c.DB.ConnMaxIdleTime,
	}
}

func (c *Config) Security() security.Properties {
	return security.Properties{
		Secret:          c.JWT.Secret,
		AccessTokenTTL:  c.JWT.AccessTokenTTL,
		RefreshTokenTTL: c.JWT.RefreshTokenTTL,
		Issuer:          c.JWT.Issuer,
		CookieSecure:    c.JWT.CookieSecure,
	}
}

func (c *Config) AuditEnabled() bool {
	return c.Kafka.BootstrapServers != ""
}

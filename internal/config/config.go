// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinJWTKeyLength минимальная длина ключа подписи HS256
const MinJWTKeyLength = 32

type Config struct {
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mysql"`
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	JWTKey         string `env:"JWT_KEY,required,notEmpty"`
	Port           string `env:"PORT,required,notEmpty"`
	CORSOrigin     string `env:"CORS_ORIGIN,required,notEmpty"`

	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"` // text | json
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`

	// Redis для списка отозванных токенов; без него используется память процесса
	RedisURL                string        `env:"REDIS_URL"`
	RevocationSweepInterval time.Duration `env:"REVOCATION_SWEEP_INTERVAL" envDefault:"1m"`

	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" envDefault:"1"` // запросов в секунду на IP
	LoginBurst     int     `env:"LOGIN_BURST" envDefault:"5"`

	// Прокси, которым доверяем X-Forwarded-For; пусто - берем адрес соединения
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

// UseRedis возвращает true, если настроен Redis
func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}

// Addr адрес для http.Server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// LoadConfig читает .env (если есть) и переменные окружения.
// Отсутствие обязательных параметров - ошибка старта.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be one of mysql, postgres, sqlite, got %q", c.DatabaseDriver))
	}

	if len(c.JWTKey) < MinJWTKeyLength {
		errs = append(errs, fmt.Errorf("JWT_KEY must be at least %d bytes long, got %d", MinJWTKeyLength, len(c.JWTKey)))
	}

	if strings.TrimSpace(c.CORSOrigin) == "*" {
		errs = append(errs, errors.New("CORS_ORIGIN must be a single explicit origin"))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	if c.RevocationSweepInterval <= 0 {
		errs = append(errs, errors.New("REVOCATION_SWEEP_INTERVAL must be positive"))
	}

	if c.LoginRateLimit <= 0 || c.LoginBurst <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT and LOGIN_BURST must be positive"))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE must be one of debug, release, test, got %q", c.GinMode))
	}

	return errors.Join(errs...)
}

// DatabaseConfig только параметры базы, для команд migrate и users
type DatabaseConfig struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"mysql"`
	URL    string `env:"DATABASE_URL,required,notEmpty"`
}

func LoadDatabaseConfig() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

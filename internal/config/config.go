package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	StorageLocal      = "local"
	StorageCloudinary = "cloudinary"
)

type Config struct {
	Env            string            `yaml:"env" env:"ENV" env-default:"local"`
	HTTP           HTTPConfig        `yaml:"http"`
	Postgres       PostgresConfig    `yaml:"postgres"`
	Redis          RedisConfig       `yaml:"redis"`
	JWT            JWTConfig         `yaml:"jwt"`
	FileStorage    FileStorageConfig `yaml:"file_storage"`
	Email          EmailConfig       `yaml:"email"`
	Timeouts       TimeoutsConfig    `yaml:"timeouts"`
	Stats          StatsConfig       `yaml:"stats"`
	RateLimit      RateLimitConfig   `yaml:"rate_limit"`
	AdminBootstrap AdminConfig       `yaml:"admin_bootstrap"`
}

type HTTPConfig struct {
	Host           string        `yaml:"host" env:"HTTP_HOST"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"15s"`
	CORSOrigins    []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:","`
}

func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	ConnectAttempts uint64        `yaml:"connect_attempts" env-default:"5"`
	ConnectDelay    time.Duration `yaml:"connect_delay" env-default:"2s"`
	MaxConns        int32         `yaml:"max_conns" env-default:"10"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type JWTConfig struct {
	Secret          string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL        time.Duration `yaml:"token_ttl" env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
}

type FileStorageConfig struct {
	Backend       string `yaml:"backend" env:"FILE_STORAGE_BACKEND" env-default:"local"`
	BaseDir       string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL       string `yaml:"base_url" env-default:"/uploads"`
	MaxSize       int64  `yaml:"max_size" env-default:"10485760"`
	CloudinaryURL string `yaml:"cloudinary_url" env:"CLOUDINARY_URL"`
	Folder        string `yaml:"folder" env-default:"kamaru"`
}

type EmailConfig struct {
	Enabled        bool   `yaml:"enabled" env:"EMAIL_ENABLED"`
	From           string `yaml:"from" env:"EMAIL_FROM"`
	ResendAPIKey   string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	ContactAddress string `yaml:"contact_address" env:"CONTACT_ADDRESS"`
}

type TimeoutsConfig struct {
	Storage time.Duration `yaml:"storage" env-default:"30s"`
	Email   time.Duration `yaml:"email" env-default:"10s"`
}

type StatsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"30s"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// AdminConfig describes the admin account created on startup when no user
// with Email exists yet. Empty Email disables the bootstrap.
type AdminConfig struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

func (c AdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

// ResolvePath returns flagValue, falling back to CONFIG_PATH.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	return os.Getenv("CONFIG_PATH")
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: config file does not exist: %s", op, path)
		}

		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}

	switch c.FileStorage.Backend {
	case StorageLocal:
	case StorageCloudinary:
		if c.FileStorage.CloudinaryURL == "" {
			return errors.New("file_storage.cloudinary_url is required for the cloudinary backend")
		}
	default:
		return fmt.Errorf("unknown file storage backend %q", c.FileStorage.Backend)
	}

	if c.Email.Enabled && (c.Email.ResendAPIKey == "" || c.Email.From == "") {
		return errors.New("email.resend_api_key and email.from are required when email is enabled")
	}

	if c.Postgres.ConnectAttempts == 0 {
		return errors.New("postgres.connect_attempts must be positive")
	}

	return nil
}

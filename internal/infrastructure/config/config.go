package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret     string        `env:"JWT_SECRET,     required"`
	EncryptionKey string        `env:"ENCRYPTION_KEY, required"`
	// CookieCipher is gcm or cbc. Use cbc to read and write cookies in the
	// legacy base64(IV‖AES-256-CBC) format; the two are not interchangeable.
	CookieCipher  string        `env:"COOKIE_CIPHER,  default=gcm"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=2h"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE, default=10"`
	LoginBurst         int `env:"LOGIN_BURST,           default=5"`

	// TrustedProxies lists the CIDR ranges whose X-Forwarded-For header is
	// believed. Empty means the connection peer is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// AdminUIDir serves the built admin panel when set.
	AdminUIDir   string `env:"ADMIN_UI_DIR"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=2"`

	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=guiatnn"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type S3Config struct {
	Bucket          string        `env:"S3_BUCKET"`
	Region          string        `env:"S3_REGION,            default=us-east-1"`
	Endpoint        string        `env:"S3_ENDPOINT"`
	AccessKeyID     string        `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string        `env:"S3_PUBLIC_BASE_URL"`
	PresignTTL      time.Duration `env:"S3_PRESIGN_TTL,       default=15m"`
	UsePathStyle    bool          `env:"S3_USE_PATH_STYLE,    default=false"`
}

// Enabled reports whether image storage is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// IsProduction controls the Secure attribute on session cookies.
func (c *Config) IsProduction() bool { return c.Env == envProduction }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.LoginRatePerMinute <= 0 || cfg.LoginBurst <= 0 {
		return nil, fmt.Errorf("config: login rate and burst must be positive")
	}
	return &cfg, nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=1h"`

	// Initial admin account, created at startup when both are set.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// MaxUploadBody caps the multipart body of an upload request.
	MaxUploadBody string `env:"MAX_UPLOAD_BODY, default=2100M"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=photo_events"`
}

// RedisConfig is optional; an empty Addr disables Redis entirely.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`

	UploadLockEnabled bool          `env:"UPLOAD_LOCK_ENABLED, default=false"`
	UploadLockTTL     time.Duration `env:"UPLOAD_LOCK_TTL,     default=2m"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=disk"`
	Dir    string `env:"UPLOAD_DIR,     default=uploads"`

	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION, default=us-east-1"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE, default=false"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UseUploadLock reports whether uploads are serialized through Redis.
func (c *Config) UseUploadLock() bool {
	return c.Redis.Addr != "" && c.Redis.UploadLockEnabled
}

// Load reads configuration from environment variables using go-envconfig.
// Variables from the given dotenv files (".env" when none are given) are
// loaded first; a missing file is not an error and real environment
// variables always win.
func Load(ctx context.Context, dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

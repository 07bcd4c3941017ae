package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000"`

	JWT        JWTConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Upload     UploadConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	Expire time.Duration `env:"JWT_EXPIRE, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=flipiri"`
}

// RedisConfig is optional; an empty Addr disables the list cache.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	ListTTL  time.Duration `env:"REDIS_LIST_TTL,  default=5m"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER, default=flipiri"`
}

type UploadConfig struct {
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES, default=5242880"`
}

// IsProduction reports whether error details must be hidden from responses
// and session cookies must be Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnvVar points at an optional YAML config file.
const ConfigFileEnvVar = "CONFIG_FILE"

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	DB        DBConfig        `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	Log       LogConfig       `koanf:"log"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         string        `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DBConfig selects the gorm dialector and its connection settings.
type DBConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
	// DSN overrides the individual fields when set.
	DSN string `koanf:"dsn"`
	// MigrationsDir holds the versioned SQL files applied on postgres.
	MigrationsDir string `koanf:"migrations_dir"`
}

type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// StorageConfig configures where decoded recipe images are written.
type StorageConfig struct {
	Backend   string `koanf:"backend"`
	LocalDir  string `koanf:"local_dir"`
	PublicURL string `koanf:"public_url"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type RateLimitConfig struct {
	RecipeCreatePerHour int `koanf:"recipe_create_per_hour"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		DB: DBConfig{
			Driver:        "postgres",
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "foodgram",
			SSLMode:       "disable",
			MigrationsDir: "migrations",
		},
		JWT: JWTConfig{
			Secret: DefaultJWTSecret,
			TTL:    24 * time.Hour,
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalDir:  "media",
			PublicURL: "/media",
			UseSSL:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: GetEnvironment().LogFormat(),
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
		RateLimit: RateLimitConfig{
			RecipeCreatePerHour: 30,
		},
	}
}

// envKeys maps environment variables onto koanf paths.
var envKeys = map[string]string{
	"SERVER_HOST":            "server.host",
	"SERVER_PORT":            "server.port",
	"SERVER_READ_TIMEOUT":    "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":   "server.write_timeout",
	"DB_DRIVER":              "db.driver",
	"DB_HOST":                "db.host",
	"DB_PORT":                "db.port",
	"DB_USER":                "db.user",
	"DB_PASSWORD":            "db.password",
	"DB_NAME":                "db.name",
	"DB_SSL_MODE":            "db.ssl_mode",
	"DATABASE_URL":           "db.dsn",
	"DB_MIGRATIONS_DIR":      "db.migrations_dir",
	"REDIS_URL":              "redis.url",
	"REDIS_HOST":             "redis.host",
	"REDIS_PORT":             "redis.port",
	"REDIS_PASSWORD":         "redis.password",
	"REDIS_DB":               "redis.db",
	"JWT_SECRET":             "jwt.secret",
	"JWT_TTL":                "jwt.ttl",
	"STORAGE_BACKEND":        "storage.backend",
	"STORAGE_LOCAL_DIR":      "storage.local_dir",
	"STORAGE_PUBLIC_URL":     "storage.public_url",
	"S3_BUCKET_NAME":         "storage.bucket",
	"AWS_REGION":             "storage.region",
	"STORAGE_ENDPOINT":       "storage.endpoint",
	"STORAGE_ACCESS_KEY":     "storage.access_key",
	"STORAGE_SECRET_KEY":     "storage.secret_key",
	"STORAGE_USE_SSL":        "storage.use_ssl",
	"LOG_LEVEL":              "log.level",
	"LOG_FORMAT":             "log.format",
	"CORS_ORIGINS":           "cors.origins",
	"RECIPE_CREATE_PER_HOUR": "rate_limit.recipe_create_per_hour",
}

func envTransform(key string) string {
	return envKeys[key]
}

// secretKeys are the Docker secrets that override sensitive values.
var secretKeys = map[string]string{
	"db_password":        "db.password",
	"jwt_secret":         "jwt.secret",
	"redis_password":     "redis.password",
	"storage_secret_key": "storage.secret_key",
}

// LoadConfig builds a Config from, in increasing priority, built-in defaults,
// the optional YAML file named by CONFIG_FILE, environment variables and
// Docker secrets.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for name, path := range secretKeys {
		if value := readSecret(name); value != "" {
			if err := k.Set(path, value); err != nil {
				return nil, fmt.Errorf("failed to apply secret %s: %w", name, err)
			}
		}
	}

	if err := splitSlice(k, "cors.origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// splitSlice turns a comma-separated string (as delivered by env vars) into a slice.
func splitSlice(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return k.Set(path, parts)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

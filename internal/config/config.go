package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/chrono-planner-api/internal/constants"
	"gopkg.in/yaml.v3"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Companion CompanionConfig `yaml:"companion"`
	Log       LogConfig       `yaml:"log"`

	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// DSN is used verbatim by the sqlite driver.
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	RequireEmail   bool          `yaml:"require_email"`
	LoginRateRPS   float64       `yaml:"login_rate_rps"`
	LoginRateBurst int           `yaml:"login_rate_burst"`
}

type StorageConfig struct {
	Driver         string `yaml:"driver"`
	LocalDir       string `yaml:"local_dir"`
	PublicURL      string `yaml:"public_url"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	CloudinaryCloudName string `yaml:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `yaml:"cloudinary_api_key"`
	CloudinaryAPISecret string `yaml:"cloudinary_api_secret"`
	CloudinaryFolder    string `yaml:"cloudinary_folder"`
}

type CompanionConfig struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
	Schedule     string `yaml:"schedule"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	cfg := defaults()

	paths := []string{"etc/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if configFile != "" {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		break
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:    8080,
		GinMode: "debug",
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			User:     "planner",
			Password: "plannerpassword",
			Name:     "chrono_planner",
			DSN:      "chrono_planner.db",
		},
		Auth: AuthConfig{
			JWTSecret:      devJWTSecret,
			TokenTTL:       constants.DefaultTokenTTL,
			LoginRateRPS:   5,
			LoginRateBurst: 10,
		},
		Storage: StorageConfig{
			Driver:         "local",
			LocalDir:       "data/uploads",
			PublicURL:      "http://localhost:8080/files",
			MaxUploadBytes: constants.DefaultUploadMaxBytes,
		},
		Companion: CompanionConfig{
			Schedule: "0 0 7 * * *",
		},
		Log: LogConfig{
			Level:      "info",
			Console:    true,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

func applyEnv(cfg *Config) {
	envOverrideInt(&cfg.Port, "PORT")
	envOverride(&cfg.GinMode, "GIN_MODE")

	envOverride(&cfg.Database.Driver, "DB_DRIVER")
	envOverride(&cfg.Database.Host, "DB_HOST")
	envOverride(&cfg.Database.Port, "DB_PORT")
	envOverride(&cfg.Database.User, "DB_USER")
	envOverride(&cfg.Database.Password, "DB_PASSWORD")
	envOverride(&cfg.Database.Name, "DB_NAME")
	envOverride(&cfg.Database.DSN, "DB_DSN")

	envOverride(&cfg.Auth.JWTSecret, "JWT_SECRET")
	if hours := getEnv("JWT_TTL_HOURS", ""); hours != "" {
		if n, err := strconv.Atoi(hours); err == nil && n > 0 {
			cfg.Auth.TokenTTL = time.Duration(n) * time.Hour
		}
	}
	envOverrideBool(&cfg.Auth.RequireEmail, "AUTH_REQUIRE_EMAIL")
	envOverrideFloat(&cfg.Auth.LoginRateRPS, "LOGIN_RATE_RPS")
	envOverrideInt(&cfg.Auth.LoginRateBurst, "LOGIN_RATE_BURST")

	envOverride(&cfg.Storage.Driver, "STORAGE_DRIVER")
	envOverride(&cfg.Storage.LocalDir, "STORAGE_LOCAL_DIR")
	envOverride(&cfg.Storage.PublicURL, "STORAGE_PUBLIC_URL")
	if v := getEnv("UPLOAD_MAX_BYTES", ""); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Storage.MaxUploadBytes = n
		}
	}
	envOverride(&cfg.Storage.CloudinaryCloudName, "CLOUDINARY_CLOUD_NAME")
	envOverride(&cfg.Storage.CloudinaryAPIKey, "CLOUDINARY_API_KEY")
	envOverride(&cfg.Storage.CloudinaryAPISecret, "CLOUDINARY_API_SECRET")
	envOverride(&cfg.Storage.CloudinaryFolder, "CLOUDINARY_FOLDER")

	envOverride(&cfg.Companion.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.Companion.Schedule, "COMPANION_SCHEDULE")

	envOverride(&cfg.Log.Level, "LOG_LEVEL")
	envOverride(&cfg.Log.File, "LOG_FILE")

	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
}

// Validate rejects configurations that cannot be served safely.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local", "cloudinary":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsRelease() && c.Auth.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in release mode")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsRelease reports whether the server runs with production settings.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// AIEnabled reports whether companion messages can be generated.
func (c *Config) AIEnabled() bool {
	return c.Companion.OpenAIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func envOverride(dst *string, key string) {
	if v := getEnv(key, ""); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := getEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideFloat(dst *float64, key string) {
	if v := getEnv(key, ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := getEnv(key, ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

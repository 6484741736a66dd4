// Package config loads runtime settings from an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"revistas_backend/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port               string   `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	ApplySchema bool   `yaml:"apply_schema"`
	MaxOpenConn int    `yaml:"max_open_conns"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Default returns the settings used when neither file nor environment say otherwise.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               "8080",
			CORSAllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        "5432",
			User:        "revistas_user",
			Password:    "revistas_password",
			Name:        "revistas_db",
			SSLMode:     "disable",
			MaxOpenConn: 10,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path (when non-empty) over the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("could not read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = utils.Getenv("PORT", cfg.Server.Port)
	cfg.Server.CORSAllowedOrigins = utils.GetenvList("CORS_ALLOWED_ORIGINS", cfg.Server.CORSAllowedOrigins)

	cfg.Database.Host = utils.Getenv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = utils.Getenv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = utils.Getenv("DB_USER", cfg.Database.User)
	cfg.Database.Password = utils.Getenv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = utils.Getenv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = utils.Getenv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.ApplySchema = utils.GetenvBool("DB_APPLY_SCHEMA", cfg.Database.ApplySchema)

	cfg.Auth.JWTSecret = utils.Getenv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = utils.GetenvDuration("JWT_TTL", cfg.Auth.TokenTTL)

	cfg.Log.Level = utils.Getenv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = utils.Getenv("LOG_FORMAT", cfg.Log.Format)
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		errs = append(errs, errors.New("database host and name are required"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("jwt secret must be at least 16 characters (JWT_SECRET)"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	return errors.Join(errs...)
}

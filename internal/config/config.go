package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`
	GinMode       string `yaml:"gin_mode"`
	Port          string `yaml:"port"`

	// LockBackend selects how slot locks are coordinated: "redis" or "local".
	LockBackend string        `yaml:"lock_backend"`
	LockTTL     time.Duration `yaml:"lock_ttl"`

	SMTPHost      string        `yaml:"smtp_host"`
	SMTPPort      string        `yaml:"smtp_port"`
	SMTPUser      string        `yaml:"smtp_user"`
	SMTPPassword  string        `yaml:"smtp_password"`
	MailFrom      string        `yaml:"mail_from"`
	NotifyTimeout time.Duration `yaml:"notify_timeout"`
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "meetinguser"),
		DBPassword:    getEnv("DB_PASSWORD", "meetingpassword"),
		DBName:        getEnv("DB_NAME", "meeting_scheduler"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),
		LockBackend:   getEnv("LOCK_BACKEND", "redis"),
		LockTTL:       getEnvDuration("LOCK_TTL", 15*time.Second),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		MailFrom:      getEnv("MAIL_FROM", "meetings@localhost"),
		NotifyTimeout: getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second),
	}
}

// LoadFile loads the environment configuration and overlays the values
// set in the YAML file at path. Keys missing from the file keep their
// environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// RedisAddr returns the host:port pair used by the session store and the slot locker.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Plain integers are read as seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

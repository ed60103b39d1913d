package config

import (
	"fmt"
	"time"

	"physio_records_backend/pkg/utils"
)

// DBConfig holds the PostgreSQL connection and pool settings.
type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DSN renders the lib/pq keyword/value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Config is the whole process configuration, read once at startup.
type Config struct {
	Port               string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
	SearchDebounce     time.Duration
	SearchSessions     int
	ShutdownTimeout    time.Duration
	DB                 DBConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               utils.Getenv("PORT", "8080"),
		CORSAllowedOrigins: utils.SplitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		LogLevel:           utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:          utils.Getenv("LOG_FORMAT", "console"),
		SearchDebounce:     utils.GetenvMillis("SEARCH_DEBOUNCE_MS", 300*time.Millisecond),
		SearchSessions:     utils.GetenvInt("SEARCH_SESSIONS", 1024),
		ShutdownTimeout:    time.Duration(utils.GetenvInt("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		DB: DBConfig{
			Host:            utils.Getenv("DB_HOST", "localhost"),
			Port:            utils.GetenvInt("DB_PORT", 5432),
			User:            utils.Getenv("DB_USER", "physio_user"),
			Password:        utils.Getenv("DB_PASSWORD", "physio_password"),
			Name:            utils.Getenv("DB_NAME", "physio_records_db"),
			SSLMode:         utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpenConns:    utils.GetenvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(utils.GetenvInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
			AutoMigrate:     utils.GetenvBool("DB_AUTO_MIGRATE", true),
		},
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	if cfg.DB.Port <= 0 || cfg.DB.Port > 65535 {
		return nil, fmt.Errorf("invalid DB config: port %d out of range", cfg.DB.Port)
	}
	return cfg, nil
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultGatewayEndpoint = "http://localhost:3000/api/privateGames"

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type GatewayMode string

const (
	GatewayStatic GatewayMode = "static"
	GatewayHTTP   GatewayMode = "http"
)

// Gateway configures how session links are obtained from the game server.
type Gateway struct {
	Mode     GatewayMode
	Endpoint string
	Timeout  time.Duration
	Retries  int
}

type Config struct {
	Port                     string
	DatabaseURL              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	DBAutoMigrate            bool
	Gateway                  Gateway
	CascadeDelete            bool
	LogLevel                 string
	LogFormat                string
	CORSAllowedOrigins       []string
	ShutdownTimeout          time.Duration
}

func Default() Config {
	return Config{
		Port:                     "8080",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		Gateway: Gateway{
			Mode:     GatewayStatic,
			Endpoint: DefaultGatewayEndpoint,
			Timeout:  5 * time.Second,
		},
		LogLevel:           "info",
		LogFormat:          "text",
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    10 * time.Second,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_AUTO_MIGRATE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.DBAutoMigrate = value
		}
	}
	if raw := os.Getenv("GATEWAY_MODE"); raw != "" {
		switch mode := GatewayMode(strings.ToLower(strings.TrimSpace(raw))); mode {
		case GatewayStatic, GatewayHTTP:
			cfg.Gateway.Mode = mode
		}
	}
	if raw, ok := os.LookupEnv("GATEWAY_URL"); ok {
		cfg.Gateway.Endpoint = strings.TrimSpace(raw)
	}
	if raw := os.Getenv("GATEWAY_TIMEOUT_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Gateway.Timeout = time.Duration(value) * time.Millisecond
		}
	}
	if raw := os.Getenv("GATEWAY_RETRIES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.Gateway.Retries = value
		}
	}
	if raw := os.Getenv("PRIVATE_GAME_CASCADE_DELETE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.CascadeDelete = value
		}
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw))
	}
	if raw := os.Getenv("LOG_FORMAT"); raw != "" {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(raw))
	}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		if origins := splitList(raw); len(origins) > 0 {
			cfg.CORSAllowedOrigins = origins
		}
	}
	if raw := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ShutdownTimeout = time.Duration(value) * time.Second
		}
	}
	return cfg
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

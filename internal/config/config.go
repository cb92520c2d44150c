// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// preview policies for the conversation list
const (
	PreviewFirstSeen  = "first"
	PreviewMostRecent = "recent"
)

type ClientConfig struct {
	APIBaseURL       string
	RequestTimeout   time.Duration
	PreviewPolicy    string
	MobileBreakpoint int
	LogFile          string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type ServerConfig struct {
	Port           string
	Database       DatabaseConfig
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// LoadEnv reads .env files if present. A missing file is not an error.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}
}

func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		PreviewPolicy: strings.ToLower(getEnv("PREVIEW_POLICY", PreviewFirstSeen)),
		LogFile:       getEnv("LOG_FILE", "client.log"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.MobileBreakpoint, err = getInt("MOBILE_BREAKPOINT", 80); err != nil {
		return nil, err
	}

	switch cfg.PreviewPolicy {
	case PreviewFirstSeen, PreviewMostRecent:
	default:
		return nil, fmt.Errorf("invalid PREVIEW_POLICY %q (want %q or %q)",
			cfg.PreviewPolicy, PreviewFirstSeen, PreviewMostRecent)
	}
	return cfg, nil
}

func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port: getEnv("SERVER_PORT", "8000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "staydesk"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing env JWT_SECRET")
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	for _, origin := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds the HTTP server and authentication settings
type ServerConfig struct {
	Port               string
	JWTSecret          string
	JWTExpirationHours int64
	ProblemBaseURI     string
	InitialAdminName   string
	CORSAllowedOrigins []string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig() (*ServerConfig, error) {
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	jwtExpHours, err := strconv.ParseInt(getEnv("JWT_EXPIRATION_HOURS", "24"), 10, 64)
	if err != nil || jwtExpHours <= 0 {
		log.Printf("Invalid JWT_EXPIRATION_HOURS, defaulting to 24: %v", err)
		jwtExpHours = 24
	}

	return &ServerConfig{
		Port:               getEnv("SERVER_PORT", "8080"),
		JWTSecret:          jwtSecret,
		JWTExpirationHours: jwtExpHours,
		ProblemBaseURI:     getEnv("PROBLEM_BASE_URI", "http://localhost:8080"),
		InitialAdminName:   os.Getenv("INITIAL_ADMIN_NAME"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

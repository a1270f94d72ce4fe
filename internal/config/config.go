// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity providers understood by cmd/api.
const (
	IdentityProviderGoTrue = "gotrue"
	IdentityProviderLocal  = "local"
)

type Config struct {
	Database struct {
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	Identity struct {
		Provider       string        `json:"provider"`
		URL            string        `json:"url"`
		ServiceRoleKey string        `json:"-"`
		Timeout        time.Duration `json:"timeout"`
	} `json:"identity"`
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Staff struct {
		DefaultPassword  string        `json:"-"`
		DefaultRole      string        `json:"default_role"`
		CompensateOnFail bool          `json:"compensate_on_fail"`
		AllowedOrigins   []string      `json:"allowed_origins"`
		RateLimit        int           `json:"rate_limit"`
		RateWindow       time.Duration `json:"rate_window"`
	} `json:"staff"`
	Permify struct {
		Host          string `json:"host"`
		Tenant        string `json:"tenant"`
		SchemaVersion string `json:"schema_version"`
	} `json:"permify"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	Sendgrid struct {
		APIKey string `json:"api_key"`
		From   string `json:"from"`
	} `json:"sendgrid"`
	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"-"`
		From     string `json:"from"`
	} `json:"smtp"`
	BaseURL string `json:"base_url"`
}

func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "clinicore")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// Identity provider configuration
	cfg.Identity.Provider = getEnv("IDENTITY_PROVIDER", IdentityProviderLocal)
	cfg.Identity.URL = strings.TrimRight(getEnv("IDENTITY_URL", "http://localhost:9999"), "/")
	cfg.Identity.ServiceRoleKey = getEnv("SERVICE_ROLE_KEY", "")
	cfg.Identity.Timeout = getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second)

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.ExpiryPeriod = time.Hour * 24

	// Staff provisioning configuration
	cfg.Staff.DefaultPassword = getEnv("STAFF_DEFAULT_PASSWORD", "123456")
	cfg.Staff.DefaultRole = getEnv("STAFF_DEFAULT_ROLE", "staff")
	cfg.Staff.CompensateOnFail = getEnvBool("STAFF_COMPENSATE_ON_FAIL", true)
	cfg.Staff.AllowedOrigins = getEnvList("STAFF_ALLOWED_ORIGINS", []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	})
	cfg.Staff.RateLimit = getEnvInt("STAFF_RATE_LIMIT", 20)
	cfg.Staff.RateWindow = getEnvDuration("STAFF_RATE_WINDOW", time.Minute)

	// Permify configuration
	cfg.Permify.Host = getEnv("PERMIFY_HOST", "")
	cfg.Permify.Tenant = getEnv("PERMIFY_TENANT", "t1")
	cfg.Permify.SchemaVersion = getEnv("PERMIFY_SCHEMA_VERSION", "")

	// Sendgrid configuration
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Sendgrid.From = getEnv("SENDGRID_FROM", "")

	// SMTP configuration, used when no Sendgrid key is present
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = getEnvInt("SMTP_PORT", 587)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "")

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:5173")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

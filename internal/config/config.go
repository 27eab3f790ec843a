package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string

	DbDriver  string // postgres|sqlite
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	SQLitePath string

	JWTSecret string

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	// SiteURL is the public origin page links are built from.
	SiteURL     string
	CORSOrigins []string

	ShutdownTimeout time.Duration
}

// LoadConfig loads .env, reads the environment and fills in defaults.
// It does not log anything so the logger can depend on it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	shutdown, err := time.ParseDuration(def(os.Getenv("SHUTDOWN_TIMEOUT"), "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port: def(os.Getenv("PORT"), "8080"),

		DbDriver:  strings.ToLower(def(os.Getenv("DB_DRIVER"), DriverSQLite)),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		SQLitePath: def(os.Getenv("SQLITE_PATH"), "publish.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SiteURL:     strings.TrimRight(def(os.Getenv("SITEURL"), "http://localhost:8080"), "/"),
		CORSOrigins: splitCSV(def(os.Getenv("CORS_ORIGINS"), "*")),

		ShutdownTimeout: shutdown,
	}

	return cfg, nil
}

// Validate returns warnings, or an error when the server cannot start.
func (c *Config) Validate() (warnings []string, err error) {
	switch c.DbDriver {
	case DriverPostgres:
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is empty")
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", c.DbDriver)
	}

	if u, perr := url.Parse(c.SiteURL); perr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("SITEURL must be an absolute URL, got %q", c.SiteURL)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty, admin routes are disabled")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN returns the full DSN, password included.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe returns the DSN without the password, for logs.
func (c *Config) GetDSNSafe() string {
	if c.DbDriver == DriverSQLite {
		return "sqlite://" + c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	HTTPAddr string
	LogFile  string

	Database DatabaseConfig
	Session  SessionConfig
	CORS     CORSConfig
	Security SecurityConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from
// the individual DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SecurityConfig struct {
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	ReferrerPolicy        string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_FILE", "")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "payments")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_NAME", "payments_session")
	v.SetDefault("COOKIE_SECURE", true)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("HSTS_MAX_AGE", 31536000)
	v.SetDefault("HSTS_INCLUDE_SUBDOMAINS", true)
	v.SetDefault("HSTS_PRELOAD", false)
	v.SetDefault("CONTENT_SECURITY_POLICY", "default-src 'self'; frame-ancestors 'none'")
	v.SetDefault("REFERRER_POLICY", "strict-origin-when-cross-origin")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	return fromViper(newViper())
}

// LoadDatabase reads only the database settings; the migrate command does
// not need a session secret.
func LoadDatabase() DatabaseConfig {
	return databaseFromViper(newViper())
}

func newViper() *viper.Viper {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

func databaseFromViper(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		URL:      v.GetString("DATABASE_URL"),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:      v.GetString("APP_ENV"),
		HTTPAddr: v.GetString("HTTP_ADDR"),
		LogFile:  v.GetString("LOG_FILE"),
		Database: databaseFromViper(v),
		Session: SessionConfig{
			Secret:       v.GetString("JWT_SECRET"),
			TTL:          v.GetDuration("SESSION_TTL"),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Security: SecurityConfig{
			HSTSMaxAge:            v.GetInt("HSTS_MAX_AGE"),
			HSTSIncludeSubDomains: v.GetBool("HSTS_INCLUDE_SUBDOMAINS"),
			HSTSPreload:           v.GetBool("HSTS_PRELOAD"),
			ContentSecurityPolicy: v.GetString("CONTENT_SECURITY_POLICY"),
			ReferrerPolicy:        v.GetString("REFERRER_POLICY"),
		},
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.Session.TTL)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func testViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(testViper(map[string]any{"JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("TTL = %s", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "payments_session" || !cfg.Session.CookieSecure {
		t.Errorf("session = %+v", cfg.Session)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestFromViperRequiresSecret(t *testing.T) {
	if _, err := fromViper(testViper(nil)); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestFromViperRejectsNonPositiveTTL(t *testing.T) {
	_, err := fromViper(testViper(map[string]any{"JWT_SECRET": "x", "SESSION_TTL": "0s"}))
	if err == nil || !strings.Contains(err.Error(), "SESSION_TTL") {
		t.Fatalf("err = %v", err)
	}
}

func TestFromViperRequiresOrigins(t *testing.T) {
	_, err := fromViper(testViper(map[string]any{"JWT_SECRET": "x", "CORS_ALLOWED_ORIGINS": " , "}))
	if err == nil || !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Fatalf("err = %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("splitList = %v", got)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	if got := d.DSN(); !strings.Contains(got, "host=db") || !strings.Contains(got, "dbname=n") {
		t.Errorf("DSN = %q", got)
	}
	d.URL = "postgres://x"
	if d.DSN() != "postgres://x" {
		t.Errorf("URL should win, got %q", d.DSN())
	}
}

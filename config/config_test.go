package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetAppliesDefaults(t *testing.T) {
	conf := Get(filepath.Join(t.TempDir(), "no-existe.json"))

	if conf.ApiPort != "8080" {
		t.Errorf("ApiPort = %q", conf.ApiPort)
	}
	if conf.Database != "sqlite3" {
		t.Errorf("Database = %q", conf.Database)
	}
	if conf.AccessTokenTTL() != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v", conf.AccessTokenTTL())
	}
	if conf.RefreshTokenTTL() != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL = %v", conf.RefreshTokenTTL())
	}
	if conf.DispatchEnabled {
		t.Error("dispatcher enabled by default")
	}
	if len(conf.CorsOrigins) != 1 || conf.CorsOrigins[0] != "http://localhost:5173" {
		t.Errorf("CorsOrigins = %v", conf.CorsOrigins)
	}
}

func TestGetReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"api_port": "9000",
		"debug": true,
		"dispatch_enabled": true,
		"dispatch_interval_seconds": 5,
		"security": {"jwt_secret": "archivo", "access_token_expire_minutes": 10}
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	conf := Get(path)
	if conf.ApiPort != "9000" || !conf.Debug {
		t.Errorf("conf = %+v", conf)
	}
	if conf.Security.JwtSecret != "archivo" {
		t.Errorf("JwtSecret = %q", conf.Security.JwtSecret)
	}
	if conf.AccessTokenTTL() != 10*time.Minute {
		t.Errorf("AccessTokenTTL = %v", conf.AccessTokenTTL())
	}
	if conf.DispatchInterval() != 5*time.Second {
		t.Errorf("DispatchInterval = %v", conf.DispatchInterval())
	}
}

func TestEnvOverridesSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "desde-env")

	conf := Get(filepath.Join(t.TempDir(), "no-existe.json"))
	if conf.Security.JwtSecret != "desde-env" {
		t.Errorf("JwtSecret = %q", conf.Security.JwtSecret)
	}
}

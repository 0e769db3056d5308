package config

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Configuration es la configuración del proceso. Se construye una sola vez
// en main y se pasa explícitamente a los constructores; ningún paquete la
// guarda como estado global.
type Configuration struct {
	ApiPort string `json:"api_port"`
	Debug   bool   `json:"debug"`

	Database string `json:"database"` // "sqlite3" o "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	RedisAddr string `json:"redis_addr"` // vacío = denylist de tokens deshabilitada

	CorsOrigins []string `json:"cors_origins"`

	DispatchEnabled         bool `json:"dispatch_enabled"`
	DispatchIntervalSeconds int  `json:"dispatch_interval_seconds"`

	Security struct {
		JwtSecret                string `json:"jwt_secret"`
		AccessTokenExpireMinutes int    `json:"access_token_expire_minutes"`
		RefreshTokenExpireDays   int    `json:"refresh_token_expire_days"`
	} `json:"security"`
}

// Get lee la configuración desde un archivo JSON y aplica defaults.
// Si el archivo no existe se parte de los defaults (útil en dev/test).
// JWT_SECRET y REDIS_ADDR pueden venir por env para no guardar secretos
// en el archivo.
func Get(path string) Configuration {
	var c Configuration

	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &c); err != nil {
			log.Fatal(err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatal(err)
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Security.JwtSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}

	return c.withDefaults()
}

func (c Configuration) withDefaults() Configuration {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.AccessTokenExpireMinutes <= 0 {
		c.Security.AccessTokenExpireMinutes = 30
	}
	if c.Security.RefreshTokenExpireDays <= 0 {
		c.Security.RefreshTokenExpireDays = 7
	}
	if c.DispatchIntervalSeconds <= 0 {
		c.DispatchIntervalSeconds = 30
	}
	if len(c.CorsOrigins) == 0 {
		c.CorsOrigins = []string{"http://localhost:5173"}
	}
	return c
}

func (c Configuration) AccessTokenTTL() time.Duration {
	return time.Duration(c.Security.AccessTokenExpireMinutes) * time.Minute
}

func (c Configuration) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Security.RefreshTokenExpireDays) * 24 * time.Hour
}

func (c Configuration) DispatchInterval() time.Duration {
	return time.Duration(c.DispatchIntervalSeconds) * time.Second
}

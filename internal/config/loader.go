package config

import (
	"fmt"

	"github.com/SeanZhang02/crm-api/internal/db"
	"github.com/spf13/viper"
)

// AppConfig aggregates everything cmd/server needs to wire up.
type AppConfig struct {
	DB             db.Config
	ListenAddr     string
	CORSOrigins    []string
	ExportPageSize int
}

// DefaultAppConfig returns local development defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DB:             db.DefaultConfig(),
		ListenAddr:     ":8080",
		CORSOrigins:    []string{"http://localhost:3000"},
		ExportPageSize: 1000,
	}
}

// Load reads config.yaml from configPath and applies CRM_-prefixed
// environment overrides on top of the defaults.
func Load(configPath string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()      // allow environment overrides
	v.SetEnvPrefix("CRM") // map env vars like CRM_DATABASE.HOST

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.listen")
	v.BindEnv("export.page_size")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.listen") {
		cfg.ListenAddr = v.GetString("server.listen")
	}
	if v.IsSet("server.cors_origins") {
		cfg.CORSOrigins = v.GetStringSlice("server.cors_origins")
	}
	if v.IsSet("export.page_size") {
		cfg.ExportPageSize = v.GetInt("export.page_size")
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the studentbook service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	SQLitePath  string
	UploadDir   string
	MaxUploadMB int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STUDENTBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Studentbook")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("sqlite.path", "studentbook.db")
	v.SetDefault("upload.dir", "public/images")
	v.SetDefault("upload.max_mb", 10)

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		DatabaseURL: v.GetString("database.url"),
		SQLitePath:  v.GetString("sqlite.path"),
		UploadDir:   v.GetString("upload.dir"),
		MaxUploadMB: v.GetInt("upload.max_mb"),
	}

	// A bare PORT variable wins over the prefixed form so the service keeps
	// working on platforms that inject it.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.AppPort = port
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	if cfg.UploadDir == "" {
		return Config{}, fmt.Errorf("upload directory must not be empty")
	}

	return cfg, nil
}

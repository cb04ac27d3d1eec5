package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// App is the service configuration loaded from retail-insights.yaml plus
// environment overrides. Secrets (warehouse passwords, the summarizer API
// key) live in the warehouse registry and environment, never here.
type App struct {
	Server struct {
		Host            string        `mapstructure:"host"`
		Port            string        `mapstructure:"port"`
		CORSOrigins     []string      `mapstructure:"cors_origins"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Warehouse struct {
		RegistryPath string        `mapstructure:"registry_path"`
		Profile      string        `mapstructure:"profile"`
		QueryTimeout time.Duration `mapstructure:"query_timeout"`
	} `mapstructure:"warehouse"`

	Selections struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"selections"`

	Summary struct {
		Enabled bool   `mapstructure:"enabled"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"summary"`
}

// LoadApp reads the config file at path and applies defaults.
func LoadApp(path string) (*App, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("warehouse.query_timeout", 30*time.Second)
	v.SetDefault("selections.path", "date_selections.json")
	v.SetDefault("summary.model", "gpt-4o-mini")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &app, nil
}

// Package config carga la configuración del dashboard desde variables de entorno.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	// API externa de la clínica (incluye /api/v1).
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api/v1"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// Superficie local del dashboard
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"petcheck-dashboard"`

	// Zona horaria de la clínica (IANA). Vacío => zona local del proceso.
	ClinicTimezone string `env:"CLINIC_TIMEZONE"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	SwaggerEnabled bool `env:"SWAGGER_ENABLED" envDefault:"true"`
}

// Load parsea el entorno y valida lo mínimo para arrancar.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Addr devuelve la dirección de escucha (":8080").
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

// Location resuelve la zona usada para fecha/hora de pared y para "hoy".
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.ClinicTimezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

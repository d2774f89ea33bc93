package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	// Externer Identity-Provider (GoTrue-kompatible Token-Endpunkte)
	AuthBaseURL    string `envconfig:"AUTH_BASE_URL" required:"true"`
	AuthServiceKey string `envconfig:"AUTH_SERVICE_KEY" required:"true"`

	// Symmetrisches Secret für die lokale Token-Prüfung
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	JWTAudience string `envconfig:"JWT_AUDIENCE" default:"authenticated"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	S3Key    string `envconfig:"S3_KEY" required:"true"`
	S3Secret string `envconfig:"S3_SECRET" required:"true"`
	S3URL    string `envconfig:"S3_URL" required:"true"`
	S3Region string `envconfig:"S3_REGION" required:"true"`

	BlogImagesBucket     string `envconfig:"BLOG_IMAGES_BUCKET" default:"blog-images"`
	PortfolioMediaBucket string `envconfig:"PORTFOLIO_MEDIA_BUCKET" default:"portfolio-media"`

	// Zeitplan für den Sweep verwaister Verknüpfungen
	SweepSchedule string `envconfig:"SWEEP_SCHEDULE" default:"0 3 * * *"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Origins zerlegt die kommaseparierte CORS-Liste in einzelne Hosts.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}

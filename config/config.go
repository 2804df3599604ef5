package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// Config holds every environment-driven setting of the service.
type Config struct {
	Port         string  `envconfig:"PORT" default:"8000"`
	MongoURL     string  `envconfig:"MONGO_URL" default:"mongodb://localhost:27017"`
	DBName       string  `envconfig:"DB_NAME" default:"mithaas_delights"`
	JWTSecret    string  `envconfig:"JWT_SECRET" required:"true"`
	AdminEmail   string  `envconfig:"ADMIN_EMAIL"`
	CORSOrigins  string  `envconfig:"CORS_ORIGINS" default:"*"`
	GeminiAPIKey string  `envconfig:"GEMINI_API_KEY"`
	RazorpayKey  string  `envconfig:"RAZORPAY_KEY_ID"`
	RazorpaySec  string  `envconfig:"RAZORPAY_KEY_SECRET"`
	ShopLat      float64 `envconfig:"SHOP_LAT" default:"22.738152"`
	ShopLon      float64 `envconfig:"SHOP_LON" default:"75.831858"`
	ShopPhone    string  `envconfig:"SHOP_PHONE" default:"918989549544"`
}

var cfg Config

// Load reads .env (if present) and parses the environment into the
// process-wide Config. Call once at startup before Get.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Info("no .env file found, using process environment")
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	return &cfg
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// ErrInvalidConfig wraps every validation failure from Load.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	DatabaseURL    string
	CatalogSource  string // CATALOG_SOURCE: "embedded" or "postgres"
	ShopName       string
	WhatsApp       WhatsAppConfig
	AllowedOrigins []string
	Cart           CartConfig
}

// WhatsAppConfig is where checkout links point.
type WhatsAppConfig struct {
	Phone   string // WHATSAPP_PHONE: international format, digits only
	BaseURL string // WHATSAPP_BASE_URL: click-to-chat endpoint
}

// CartConfig controls the on-device cart used by cmd/cart.
type CartConfig struct {
	Backend    string        // CART_BACKEND: file, sqlite or memory
	Dir        string        // CART_DIR: where file and sqlite backends keep data
	PulseDelay time.Duration // PULSE_DELAY: how long the "just added" marker lasts
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// Load reads configuration from the environment and an optional .env file.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine; env vars carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:          getEnvOrViper(v, "PORT", "8080"),
		Environment:   getEnvOrViper(v, "ENVIRONMENT", "development"),
		LogLevel:      getEnvOrViper(v, "LOG_LEVEL", "info"),
		DatabaseURL:   strings.TrimSpace(getEnvOrViper(v, "DATABASE_URL", "")),
		CatalogSource: getEnvOrViper(v, "CATALOG_SOURCE", enum.CatalogSourceEmbedded),
		ShopName:      getEnvOrViper(v, "SHOP_NAME", "SweetCrumb"),
		WhatsApp: WhatsAppConfig{
			Phone:   strings.TrimPrefix(strings.TrimSpace(getEnvOrViper(v, "WHATSAPP_PHONE", "15550100123")), "+"),
			BaseURL: getEnvOrViper(v, "WHATSAPP_BASE_URL", "https://wa.me/"),
		},
		AllowedOrigins: splitList(getEnvOrViper(v, "ALLOWED_ORIGINS", "http://localhost:3000")),
		Cart: CartConfig{
			Backend: getEnvOrViper(v, "CART_BACKEND", enum.CartBackendFile),
			Dir:     getEnvOrViper(v, "CART_DIR", defaultCartDir()),
		},
	}

	delay, err := time.ParseDuration(getEnvOrViper(v, "PULSE_DELAY", "1500ms"))
	if err != nil || delay <= 0 {
		return nil, fmt.Errorf("%w: PULSE_DELAY must be a positive duration", ErrInvalidConfig)
	}
	cfg.Cart.PulseDelay = delay

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CatalogSource {
	case enum.CatalogSourceEmbedded:
	case enum.CatalogSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required when CATALOG_SOURCE=postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown CATALOG_SOURCE %q", ErrInvalidConfig, c.CatalogSource)
	}

	switch c.Cart.Backend {
	case enum.CartBackendFile, enum.CartBackendSQLite, enum.CartBackendMemory:
	default:
		return fmt.Errorf("%w: unknown CART_BACKEND %q", ErrInvalidConfig, c.Cart.Backend)
	}

	if c.WhatsApp.Phone == "" {
		return fmt.Errorf("%w: WHATSAPP_PHONE is required", ErrInvalidConfig)
	}
	for _, r := range c.WhatsApp.Phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: WHATSAPP_PHONE must contain digits only", ErrInvalidConfig)
		}
	}
	return nil
}

func getEnvOrViper(v *viper.Viper, key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultCartDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sweetcrumb"
	}
	return dir + string(os.PathSeparator) + "sweetcrumb"
}

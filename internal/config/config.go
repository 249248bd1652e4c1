package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Provider keys (from .env)
	FREDAPIKey          string
	CurrencyLayerAPIKey string
	GeminiAPIKey        string

	// Generative models
	GeminiModel      string
	GeminiImageModel string

	// API server
	APIPort         int
	APIKey          string
	CORSAllowOrigin string
	ServiceName     string
	WebhookURL      string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Batch fetch policy: when true, a failed series fetch yields an empty
	// series instead of failing the whole dashboard batch.
	FetchPartialResults bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		FREDAPIKey:          envStr("FRED_API_KEY", ""),
		CurrencyLayerAPIKey: envStr("CURRENCYLAYER_API_KEY", ""),
		GeminiAPIKey:        envStr("GEMINI_API_KEY", ""),

		GeminiModel:      envStr("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiImageModel: envStr("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),

		APIPort:         envInt("API_PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		ServiceName:     envStr("SERVICE_NAME", "CoinvisionAPI"),
		WebhookURL:      envStr("WEBHOOK_URL", ""),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "coinvision"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		FetchPartialResults: envBool("FETCH_PARTIAL_RESULTS", false),
	}

	return cfg, nil
}

// Validate reports hard configuration errors. Missing provider keys are
// warnings: the matching endpoints answer 503 instead of blocking startup.
func (c *Config) Validate() error {
	var errs []string

	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT %d out of range", c.APIPort))
	}
	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}

	if c.FREDAPIKey == "" {
		fmt.Println("[WARN] FRED_API_KEY not set - series and dashboard endpoints disabled")
	}
	if c.CurrencyLayerAPIKey == "" {
		fmt.Println("[WARN] CURRENCYLAYER_API_KEY not set - convert and history endpoints disabled")
	}
	if c.GeminiAPIKey == "" {
		fmt.Println("[WARN] GEMINI_API_KEY not set - quiz and image endpoints disabled")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set - REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Coinvision Backend Configuration ===")
	fmt.Printf("Service: %s\n", c.ServiceName)
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Println("--------------------------------------")
	fmt.Printf("FRED API: %s\n", boolLabel(c.FREDAPIKey != "", "configured", "not set"))
	fmt.Printf("CurrencyLayer API: %s\n", boolLabel(c.CurrencyLayerAPIKey != "", "configured", "not set"))
	fmt.Printf("Gemini API: %s\n", boolLabel(c.GeminiAPIKey != "", "configured", "not set"))
	if c.GeminiAPIKey != "" {
		fmt.Printf("  Text Model: %s\n", c.GeminiModel)
		fmt.Printf("  Image Model: %s\n", c.GeminiImageModel)
	}
	fmt.Println("--------------------------------------")
	fmt.Printf("Batch Fetch: %s\n", boolLabel(c.FetchPartialResults, "lenient (partial results)", "strict (all-or-nothing)"))
	fmt.Printf("Webhook Alerts: %s\n", boolLabel(c.WebhookURL != "", "enabled", "disabled"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

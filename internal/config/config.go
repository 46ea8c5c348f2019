package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	DatabaseDSN string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	OpenAIAPIKey string
	ModelName    string
	VisionModel  string

	StripeSecretKey     string
	StripeWebhookSecret string
	PriceCreditsSmall   string
	PriceCreditsLarge   string
	PriceProMonthly     string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	GHINBaseURL       string
	GHINAdminEmail    string
	GHINAdminPassword string
	GolferCacheTTL    time.Duration

	CORSAllowOrigins string
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CADDIE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Caddie API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.dsn", "caddie.db")
	v.SetDefault("jwt.ttl", "72h")
	v.SetDefault("model.name", "gpt-4o-mini")
	v.SetDefault("model.vision", "gpt-4o")
	v.SetDefault("checkout.success_url", "http://localhost:3000/billing/success")
	v.SetDefault("checkout.cancel_url", "http://localhost:3000/billing/cancel")
	v.SetDefault("ghin.base_url", "https://api.ghin.example.com/v1")
	v.SetDefault("golfer.cache_ttl", "10m")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("rate_limit.max", 30)
	v.SetDefault("rate_limit.window", "1m")

	jwtTTL, err := time.ParseDuration(v.GetString("jwt.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("golfer.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid golfer cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseDSN:         v.GetString("database.dsn"),
		RedisURL:            v.GetString("redis.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		JWTTTL:              jwtTTL,
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		ModelName:           v.GetString("model.name"),
		VisionModel:         v.GetString("model.vision"),
		StripeSecretKey:     v.GetString("stripe.secret_key"),
		StripeWebhookSecret: v.GetString("stripe.webhook_secret"),
		PriceCreditsSmall:   v.GetString("stripe.price_credits_small"),
		PriceCreditsLarge:   v.GetString("stripe.price_credits_large"),
		PriceProMonthly:     v.GetString("stripe.price_pro_monthly"),
		CheckoutSuccessURL:  v.GetString("checkout.success_url"),
		CheckoutCancelURL:   v.GetString("checkout.cancel_url"),
		GHINBaseURL:         v.GetString("ghin.base_url"),
		GHINAdminEmail:      v.GetString("ghin.admin_email"),
		GHINAdminPassword:   v.GetString("ghin.admin_password"),
		GolferCacheTTL:      cacheTTL,
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		RateLimitMax:        v.GetInt("rate_limit.max"),
		RateLimitWindow:     rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 30
	}

	return cfg, nil
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	OpenAIAPIKey string
	SummaryModel string

	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string

	ReminderInterval time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		OpenAIAPIKey: getenv("OPENAI_API_KEY", ""),
		SummaryModel: getenv("SUMMARY_MODEL", ""),

		EmailJSServiceID:  getenv("EMAILJS_SERVICE_ID", ""),
		EmailJSTemplateID: getenv("EMAILJS_TEMPLATE_ID", ""),
		EmailJSPublicKey:  getenv("EMAILJS_PUBLIC_KEY", ""),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")

	cfg.ReminderInterval = 60 * time.Second
	if v := getenv("REMINDER_INTERVAL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ReminderInterval = d
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}

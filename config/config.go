package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config is built once at startup from the environment and injected into the
// services that need it. Nothing else reads os.Getenv after Load returns.
type Config struct {
	Port          string
	PublicBaseURL string
	CORSOrigins   string

	// X-Nexa-Key gate for the public lead endpoint. Empty = open.
	ServerKey string

	// Signing secret for emailed confirm/cancel links. Empty = signing disabled.
	AdminSecret string

	// Admin session cookie
	SessionSecret string
	AdminUser     string
	AdminPass     string

	BusinessName  string
	BusinessDesc  string
	BusinessOpen  string
	BusinessClose string

	// Ledger backend: "csv" (default) or "mysql"
	LedgerBackend string
	LeadsFile     string

	// Brevo transactional email
	BrevoAPIKey string
	SMTPFrom    string
	NotifyTo    string

	// Optional owner Telegram notifications
	TelegramToken  string
	TelegramChatID int64

	// Optional promo pay-link appended to the customer confirmation email
	PaymentLinkBase string
	PromoCode       string
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("⚠️  %s is not a number (%q), using default", key, raw)
		return def
	}
	return v
}

func Load() *Config {
	cfg := &Config{
		Port:          envOrDefault("PORT", "8080"),
		PublicBaseURL: envOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		CORSOrigins:   envOrDefault("CORS_ORIGINS", ""),

		ServerKey:     envOrDefault("NEXA_SERVER_KEY", ""),
		AdminSecret:   envOrDefault("ADMIN_SECRET", ""),
		SessionSecret: envOrDefault("SESSION_SECRET", "supersecret123"),
		AdminUser:     envOrDefault("ADMIN_USER", "admin"),
		AdminPass:     envOrDefault("ADMIN_PASS", "changeme"),

		BusinessName:  envOrDefault("BUSINESS_NAME", "Nexa"),
		BusinessDesc:  envOrDefault("BUSINESS_DESC", "We provide consultations and scheduling for clients in Sofia."),
		BusinessOpen:  envOrDefault("BUSINESS_OPEN", "09:00"),
		BusinessClose: envOrDefault("BUSINESS_CLOSE", "18:00"),

		LedgerBackend: strings.ToLower(envOrDefault("LEDGER_BACKEND", "csv")),
		LeadsFile:     envOrDefault("LEADS_FILE", "leads.csv"),

		BrevoAPIKey: envOrDefault("BREVO_API_KEY", ""),
		SMTPFrom:    envOrDefault("SMTP_FROM", ""),
		NotifyTo:    envOrDefault("NOTIFY_TO", ""),

		TelegramToken:  envOrDefault("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: envInt64("TELEGRAM_CHAT_ID", 0),

		PaymentLinkBase: envOrDefault("PAYMENT_LINK_BASE", ""),
		PromoCode:       envOrDefault("PROMO_CODE", "NEXA10"),
	}

	if cfg.AdminSecret == "" {
		log.Println("⚠️  ADMIN_SECRET not set: emailed confirm/cancel links are disabled")
	}
	if raw, set := os.LookupEnv("SESSION_SECRET"); set && strings.TrimSpace(raw) == "" {
		log.Println("⚠️  SESSION_SECRET is blank: falling back to the built-in default secret")
	}
	if cfg.ServerKey == "" {
		log.Println("⚠️  NEXA_SERVER_KEY not set: /api/lead accepts unauthenticated submissions")
	}

	return cfg
}

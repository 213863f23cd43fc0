package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nexa-backend/config"
	"nexa-backend/controllers"
	"nexa-backend/routes"
	"nexa-backend/services"
)

func buildStore(cfg *config.Config) services.LeadStore {
	switch cfg.LedgerBackend {
	case "mysql":
		db, err := config.ConnectDatabase()
		if err != nil {
			log.Fatalf("❌ Database connect failed: %v", err)
		}
		log.Println("✅ MySQL ledger connected and migrated")
		return services.NewGormLeadStore(db)
	case "csv", "":
		store, err := services.NewCSVLeadStore(cfg.LeadsFile)
		if err != nil {
			log.Fatalf("❌ Leads file init failed: %v", err)
		}
		log.Printf("✅ CSV ledger at %s", cfg.LeadsFile)
		return store
	default:
		log.Fatalf("❌ Unknown LEDGER_BACKEND %q (want csv or mysql)", cfg.LedgerBackend)
		return nil
	}
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg := config.Load()

	store := buildStore(cfg)
	avail := services.NewAvailabilityService(store, cfg.BusinessOpen, cfg.BusinessClose)
	signer := services.NewLinkSigner(cfg.AdminSecret, cfg.PublicBaseURL)
	sessions := services.NewSessionService(cfg.SessionSecret)

	mailer := services.NewBrevoMailer(cfg.BrevoAPIKey, cfg.SMTPFrom, cfg.BusinessName, cfg.NotifyTo, cfg.PaymentLinkBase, cfg.PromoCode)
	telegram, err := services.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatalf("❌ Telegram init failed: %v", err)
	}

	booking := services.NewBookingService(store, avail, signer, mailer, telegram)
	chat := services.NewChatService(booking, avail, cfg.BusinessDesc)

	router := routes.SetupRouter(
		cfg,
		sessions,
		controllers.NewLeadController(booking),
		controllers.NewAvailabilityController(avail),
		controllers.NewActionController(booking, signer),
		controllers.NewAdminController(cfg, sessions, booking),
		controllers.NewChatController(chat),
	)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/events-api/internal/auth"
	"github.com/gdg-garage/events-api/internal/config"
	"github.com/gdg-garage/events-api/internal/database"
	"github.com/gdg-garage/events-api/internal/events"
	"github.com/gdg-garage/events-api/internal/handlers"
	"github.com/gdg-garage/events-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"github.com/go-mail/mail"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// Connect to Database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Notifiers
	dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	mailer := notifier.NewMailer(dialer, cfg.EmailFrom)

	var announcements notifier.Notifier = notifier.Nop{}
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			logger.Warn("Discord notifier not initialized", "error", err)
		} else {
			announcements = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize Handlers
	service := events.NewService(db, mailer, announcements, logger)
	authHandler := auth.NewAuthHandler(cfg, db)
	eventHandler := handlers.NewEventHandler(service, authHandler, time.Now)
	registrationHandler := handlers.NewRegistrationHandler(service, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, authHandler, eventHandler, registrationHandler)

	// Start Server
	logger.Info("Starting server", "port", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rossx/config"
	"rossx/internal/database"
	"rossx/internal/repository"
	"rossx/internal/router"
	"rossx/internal/service"
	"rossx/internal/session"
	"rossx/internal/ws"
	"rossx/pkg/screenshot"
	"rossx/pkg/telegram"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db, &cfg.Admin)

	var shots screenshot.Client
	if cfg.Storage.CloudName != "" {
		shots, err = screenshot.NewClient(cfg.Storage.CloudName, cfg.Storage.APIKey, cfg.Storage.APISecret)
		if err != nil {
			log.Fatalf("screenshot storage: %v", err)
		}
	} else {
		log.Printf("[storage] screenshot uploads disabled: set CLOUDINARY_CLOUD_NAME to enable")
	}

	hub := ws.NewHub()
	sessions := session.NewStore(cfg.Ledger.SessionTTL)

	eventRepo := repository.NewEventRepository(db)
	sinks := []service.Sink{service.NewHubSink(hub)}
	if cfg.Telegram.BotToken != "" {
		notifier, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AdminChatIDs)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		sinks = append(sinks, service.NewTelegramSink(notifier))
		log.Printf("[telegram] notifications enabled for %d admin chats", len(cfg.Telegram.AdminChatIDs))
	} else {
		log.Printf("[telegram] notifications disabled: set TELEGRAM_BOT_TOKEN to enable")
	}
	dispatcher := service.NewDispatcher(eventRepo, cfg.Ledger.DispatchInterval, sinks...)
	dispatcher.Start()

	engine := router.Setup(cfg, db, shots, sessions, dispatcher, hub)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	dispatcher.Stop()
	log.Println("server stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/farmflow/farmflow-server/internal/api"
	"github.com/farmflow/farmflow-server/internal/config"
	"github.com/farmflow/farmflow-server/internal/mail"
	"github.com/farmflow/farmflow-server/internal/repository"
	"github.com/farmflow/farmflow-server/internal/scheduler"
	"github.com/farmflow/farmflow-server/internal/service"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create token service and mailer
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenLifetimeMin)*time.Minute)
	mailer := mail.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)

	// Create service
	svc := service.NewDefaultService(repo, tokens, mailer, cfg.Report.Recipient, cfg.Mail.From)

	// Create the bootstrap admin user if configured
	ctx := context.Background()
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := svc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Printf("Warning: failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user ready: %s", cfg.Admin.Email)
		}
	}

	// Start the daily report scheduler
	sched := scheduler.New(svc, cfg.Report.Cron)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Set up Gin router
	router := gin.Default()

	// Set up routes behind the authentication gate
	authMiddleware := api.NewAuthMiddleware(tokens, repo)
	handler := api.NewHandler(svc)
	handler.SetupRoutes(router, authMiddleware)

	// Create HTTP server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop scheduler
	sched.Stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homefind/internal/api"
	"homefind/internal/app/service"
	"homefind/internal/common/security"
	"homefind/internal/domain/repository"
	"homefind/internal/platform/config"
	"homefind/internal/platform/database"
	"homefind/internal/platform/objstore"
	"homefind/internal/platform/tokenstore"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Initialize Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	log.Println("Database connected.")

	// 3. Initialize the refresh-session store
	sessions, err := tokenstore.Connect(cfg)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer sessions.Close()
	log.Println("Redis connected.")

	// 4. Initialize image storage
	storage, err := objstore.NewLocalStorage(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}

	// 5. Initialize JWT issuer
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	propertyRepo := repository.NewPgPropertyRepository(db)
	imageRepo := repository.NewPgImageRepository(db)
	inquiryRepo := repository.NewPgInquiryRepository(db)
	favoriteRepo := repository.NewPgFavoriteRepository(db)

	// 7. Initialize Services
	runTx := service.NewSQLTxRunner(db)
	authService := service.NewAuthService(userRepo, tokens, sessions)
	userService := service.NewUserService(userRepo)
	propertyService := service.NewPropertyService(propertyRepo, imageRepo, storage, runTx)
	imageService := service.NewImageService(propertyRepo, imageRepo, storage, runTx)
	inquiryService := service.NewInquiryService(inquiryRepo, propertyRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, propertyRepo)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		userService,
		propertyService,
		imageService,
		inquiryService,
		favoriteService,
		tokens,
		storage.Dir(),
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"project_tracker/internal/config"
	"project_tracker/internal/repository"
	"project_tracker/internal/router"
	"project_tracker/internal/service"
	"project_tracker/internal/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}
	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load server config: %v", err)
	}

	// --- Database Connection ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Wiring ---
	jwtUtil := utils.NewJWTUtil(serverCfg.JWTSecret, serverCfg.JWTExpirationHours)
	store := repository.NewStore(dbPool)

	userService := service.NewUserService(store, utils.NewBcryptHasher(), jwtUtil, binding.Validator, serverCfg.InitialAdminName)
	projectService := service.NewProjectService(store, binding.Validator)

	engine, err := router.New(serverCfg, router.Deps{
		Users:    userService,
		Projects: projectService,
		JWT:      jwtUtil,
		Ping:     dbPool.Ping,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

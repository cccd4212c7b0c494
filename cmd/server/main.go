// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/appchat/appchat-backend/internal/config"
	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/handlers"
	"github.com/appchat/appchat-backend/internal/middleware"
	"github.com/appchat/appchat-backend/internal/ratelimit"
	"github.com/appchat/appchat-backend/internal/repository"
	"github.com/appchat/appchat-backend/internal/services"
	"github.com/appchat/appchat-backend/internal/services/ai"
	"github.com/appchat/appchat-backend/internal/services/storage"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.UsePostgres() {
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("appchat")

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}, &domain.File{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewGormUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// --- External providers ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.ChatModel = cfg.ChatModel
	aiProvider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	storageProvider, err := storage.NewS3Provider(context.Background(), &storage.Config{
		Endpoint:    cfg.S3Endpoint,
		Region:      cfg.S3Region,
		AccessKey:   cfg.S3AccessKey,
		SecretKey:   cfg.S3SecretKey,
		ImageBucket: cfg.S3BucketImage,
		CSVBucket:   cfg.S3BucketCSV,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize object storage: %v", err)
	}

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg.JWTSecretKey, logger)
	conversationService := services.NewConversationService(conversationRepo, logger)
	messageService := services.NewMessageService(messageRepo, conversationService, logger)
	fileService := services.NewFileService(fileRepo, conversationService, storageProvider, cfg.MaxFileSizeBytes, logger)

	chatService, err := services.NewChatService(messageRepo, conversationService, fileService, aiProvider, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	conversationHandler := handlers.NewConversationHandler(conversationService, chatService)
	messageHandler := handlers.NewMessageHandler(messageService)
	fileHandler := handlers.NewFileHandler(fileService)

	// --- Rate limiting for auth endpoints ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()
	authRateLimit := middleware.RateLimitMiddleware(authLimiter, "auth")

	// --- Router Setup ---
	r := mux.NewRouter()
	r.StrictSlash(true)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/auth/register", authRateLimit(http.HandlerFunc(authHandler.Register))).Methods("POST")
	r.Handle("/auth/login", authRateLimit(http.HandlerFunc(authHandler.Login))).Methods("POST")

	// --- Protected Routes ---
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.NewBearerAuthMiddleware(userService))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	protected.HandleFunc("/users/{username}", userHandler.Get).Methods("GET")
	protected.HandleFunc("/users", userHandler.Create).Methods("POST")

	protected.HandleFunc("/conversations", conversationHandler.List).Methods("GET")
	protected.HandleFunc("/conversations", conversationHandler.Create).Methods("POST")
	protected.HandleFunc("/conversations/{id}", conversationHandler.Get).Methods("GET")
	protected.HandleFunc("/conversations/{id}", conversationHandler.Update).Methods("PUT")
	protected.HandleFunc("/conversations/{id}", conversationHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/conversations/{id}/messages", conversationHandler.SendMessage).Methods("POST")

	protected.HandleFunc("/messages/conversation/{id}", messageHandler.ListByConversation).Methods("GET")
	protected.HandleFunc("/messages", messageHandler.Create).Methods("POST")
	protected.HandleFunc("/messages/{id}", messageHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/files", fileHandler.Upload).Methods("POST")
	protected.HandleFunc("/files/conversation/{id}", fileHandler.ListByConversation).Methods("GET")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "postgres", cfg.UsePostgres())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server stopped")
}

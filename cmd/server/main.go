package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vieerr/dearmom-backend/internal/auth"
	"github.com/vieerr/dearmom-backend/internal/blob"
	"github.com/vieerr/dearmom-backend/internal/config"
	"github.com/vieerr/dearmom-backend/internal/database"
	"github.com/vieerr/dearmom-backend/internal/handlers"
	"github.com/vieerr/dearmom-backend/internal/logger"
	"github.com/vieerr/dearmom-backend/internal/mail"
	"github.com/vieerr/dearmom-backend/internal/middleware"
	redisclient "github.com/vieerr/dearmom-backend/internal/redis"
	"github.com/vieerr/dearmom-backend/internal/service"
	"github.com/vieerr/dearmom-backend/internal/speech"
	"github.com/vieerr/dearmom-backend/internal/storage"
)

func main() {
	log := logger.New("server")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	dbManager, err := database.NewManager(ctx, database.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	if err := database.RunMigrations(ctx, cfg.Database.DSN); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}

	secret := cfg.Token.Secret
	if secret == "" {
		secret = "your-secret-key-change-in-production"
		log.Warn("SECRET_KEY not set, using default (insecure for production)")
	}

	jwtManager := auth.NewJWTManager(secret, cfg.Token.TTL)
	userStore := storage.NewPostgresStore(dbManager)
	userService := service.NewUserService(userStore, jwtManager)

	uploader, err := blob.NewS3Uploader(ctx, blob.Config{
		Endpoint:      cfg.Blob.Endpoint,
		Region:        cfg.Blob.Region,
		Bucket:        cfg.Blob.Bucket,
		AccessKey:     cfg.Blob.AccessKey,
		SecretKey:     cfg.Blob.SecretKey,
		PublicBaseURL: cfg.Blob.PublicBaseURL,
	})
	if err != nil {
		log.Fatal("Failed to configure blob storage: %v", err)
	}

	synthesizer := speech.NewGoogleSynthesizer(speech.Config{
		APIKey:       cfg.Speech.APIKey,
		Endpoint:     cfg.Speech.Endpoint,
		LanguageCode: cfg.Speech.LanguageCode,
		VoiceGender:  cfg.Speech.VoiceGender,
	})

	sender := mail.NewSMTPSender(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})

	authHandler := handlers.NewAuthHandler(userService)
	contactHandler := handlers.NewContactHandler(userService)
	uploadHandler := handlers.NewUploadHandler(uploader)
	speechHandler := handlers.NewSpeechHandler(synthesizer)
	mailHandler := handlers.NewMailHandler(sender, cfg.Mail.AppURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/register", authHandler.Register)
	mux.HandleFunc("/login", authHandler.Login)
	mux.HandleFunc("/me", authHandler.Me)
	mux.HandleFunc("/add-contact", contactHandler.Add)
	mux.HandleFunc("/delete-contact", contactHandler.Delete)
	mux.HandleFunc("/update-contact", contactHandler.Update)
	mux.HandleFunc("/upload", uploadHandler.Upload)
	mux.HandleFunc("/synthesize", speechHandler.Synthesize)
	mux.HandleFunc("/send-email", mailHandler.SendEmail)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var handler http.Handler = mux

	redisClient, err := redisclient.NewClient(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		defer redisClient.Close()
		limiter := middleware.NewRateLimiter(redisClient.Raw(), cfg.RateLimit.Requests, cfg.RateLimit.Window)
		handler = limiter.Middleware(handler)
	}

	handler = middleware.AccessLog(log)(handler)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handler,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown: %v", err)
	}

	log.Info("Server stopped")
}

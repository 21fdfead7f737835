package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lernbuddy/internal/ai"
	"lernbuddy/internal/config"
	"lernbuddy/internal/database"
	"lernbuddy/internal/handlers"
	"lernbuddy/internal/repository"
	"lernbuddy/internal/security"
	"lernbuddy/internal/service"
)

// staleSessionCutoff is how long a session may sit without a message before
// the cleanup sweep closes it
const staleSessionCutoff = 30 * time.Minute

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	interestRepo := repository.NewInterestRepository(db)
	competencyRepo := repository.NewCompetencyRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize the AI gateway client
	gateway := ai.NewClient(cfg.GatewayURL, cfg.GatewayKey, cfg.GatewayModel)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engagementService := service.NewEngagementService(sessionRepo)
	selectorService := service.NewSelectorService(assessmentRepo, progressRepo, competencyRepo, rng)
	progressService := service.NewProgressService(progressRepo, service.NewKeywordWeaknessDetector())
	chatService := service.NewChatService(
		profileRepo, interestRepo, messageRepo, taskRepo,
		engagementService, selectorService, progressService, gateway,
	)
	taskService := service.NewTaskService(taskRepo, gateway)
	reportService := service.NewReportService(profileRepo, progressRepo, assessmentRepo, sessionRepo, emailService)

	// Initialize handlers
	verifier := security.NewTokenVerifier(cfg.JWTSecret)
	chatLimiter := security.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow)
	apiLimiter := security.NewRateLimiter(120, time.Minute)
	middleware := handlers.NewMiddleware(verifier, apiLimiter)

	chatHandler := handlers.NewChatHandler(chatService, chatLimiter)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	interestHandler := handlers.NewInterestHandler(interestRepo)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentRepo)
	taskHandler := handlers.NewTaskHandler(taskService, profileRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /chat", middleware.RequireAuth(chatHandler.Chat))

	mux.HandleFunc("GET /profile", middleware.RequireAuth(middleware.RateLimit(profileHandler.Get)))
	mux.HandleFunc("PUT /profile", middleware.RequireAuth(middleware.RateLimit(profileHandler.Update)))

	mux.HandleFunc("GET /interests", middleware.RequireAuth(middleware.RateLimit(interestHandler.List)))
	mux.HandleFunc("POST /interests", middleware.RequireAuth(middleware.RateLimit(interestHandler.Create)))
	mux.HandleFunc("DELETE /interests/{id}", middleware.RequireAuth(middleware.RateLimit(interestHandler.Delete)))

	mux.HandleFunc("GET /assessments", middleware.RequireAuth(middleware.RateLimit(assessmentHandler.List)))
	mux.HandleFunc("POST /assessments", middleware.RequireAuth(middleware.RateLimit(assessmentHandler.Create)))

	mux.HandleFunc("GET /packages", middleware.RequireAuth(middleware.RateLimit(taskHandler.ListPackages)))
	mux.HandleFunc("POST /packages", middleware.RequireAuth(middleware.RateLimit(taskHandler.CreatePackage)))
	mux.HandleFunc("GET /packages/{id}/tasks", middleware.RequireAuth(middleware.RateLimit(taskHandler.ListTasks)))
	mux.HandleFunc("POST /packages/{id}/tasks", middleware.RequireAuth(middleware.RateLimit(taskHandler.CreateTask)))
	mux.HandleFunc("POST /tasks/{id}/complete", middleware.RequireAuth(middleware.RateLimit(taskHandler.CompleteTask)))

	mux.HandleFunc("GET /report", middleware.RequireAuth(middleware.RateLimit(reportHandler.Get)))
	mux.HandleFunc("POST /report/email", middleware.RequireAuth(middleware.RateLimit(reportHandler.SendEmail)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No write timeout: chat responses stream for as long as the
		// gateway keeps sending tokens
		IdleTimeout: 60 * time.Second,
	}

	// Start background session cleanup
	go closeStaleSessions(sessionRepo)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// closeStaleSessions periodically ends sessions that have had no activity
func closeStaleSessions(sessions *repository.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		closed, err := sessions.CloseStale(time.Now().Add(-staleSessionCutoff))
		if err != nil {
			log.Printf("Failed to close stale sessions: %v", err)
			continue
		}
		if closed > 0 {
			log.Printf("Closed %d stale learning sessions", closed)
		}
	}
}

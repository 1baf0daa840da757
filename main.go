package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finQuestAPI/handlers"
	"finQuestAPI/internal/notification"
	"finQuestAPI/middleware"
	"finQuestAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	profileService      *services.ProfileService
	gamificationService *services.GamificationService
	expenseService      *services.ExpenseService
	goalService         *services.GoalService
	budgetService       *services.BudgetService
	companionService    *services.CompanionService
	notificationService *services.NotificationService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("Connected to Postgres")

	notificationService = services.NewNotificationService(dbPool)
	gamificationService = services.NewGamificationService(dbPool, notificationService)
	profileService = services.NewProfileService(dbPool)
	expenseService = services.NewExpenseService(dbPool, gamificationService)
	goalService = services.NewGoalService(dbPool, gamificationService)
	budgetService = services.NewBudgetService(profileService)
	companionService = services.NewCompanionService(dbPool, os.Getenv("COMPANION_WEBHOOK_URL"))

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM push provider initialized")
	}

	middleware.InitPrometheus()
	services.InitGamificationMetrics()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	profileHandler := handlers.NewProfileHandler(profileService, gamificationService, budgetService, notificationService)
	expenseHandler := handlers.NewExpenseHandler(profileService, expenseService, companionService)
	goalHandler := handlers.NewGoalHandler(profileService, goalService)
	budgetHandler := handlers.NewBudgetHandler(profileService, budgetService)
	companionHandler := handlers.NewCompanionHandler(profileService, companionService, expenseService)
	webhookHandler := handlers.NewWebhookHandler(profileService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}
		w.Write([]byte(`{"status": "healthy", "service": "finquest-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/onboarding", profileHandler.CompleteOnboarding).Methods("PUT")
	protected.HandleFunc("/user/stats", profileHandler.GetStats).Methods("GET")
	protected.HandleFunc("/user/activity", profileHandler.RecordActivity).Methods("POST")
	protected.HandleFunc("/user/achievements", profileHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/user/devices", profileHandler.RegisterDevice).Methods("POST")

	protected.HandleFunc("/expenses", expenseHandler.CreateExpense).Methods("POST")
	protected.HandleFunc("/expenses", expenseHandler.ListExpenses).Methods("GET")
	protected.HandleFunc("/expenses/summary", expenseHandler.GetMonthlySummary).Methods("GET")
	protected.HandleFunc("/expenses/{id}", expenseHandler.DeleteExpense).Methods("DELETE")

	protected.HandleFunc("/goals", goalHandler.CreateGoal).Methods("POST")
	protected.HandleFunc("/goals", goalHandler.ListGoals).Methods("GET")
	protected.HandleFunc("/goals/{id}", goalHandler.UpdateGoal).Methods("PUT")
	protected.HandleFunc("/goals/{id}", goalHandler.DeleteGoal).Methods("DELETE")

	protected.HandleFunc("/budget/analyze", budgetHandler.AnalyzeBudget).Methods("POST")
	protected.HandleFunc("/budget/plan", budgetHandler.GetPlan).Methods("GET")
	protected.HandleFunc("/budget/projection", budgetHandler.ProjectSavings).Methods("POST")

	protected.HandleFunc("/companion/comment", companionHandler.Comment).Methods("POST")
	protected.HandleFunc("/companion/chat", companionHandler.Chat).Methods("POST")
	protected.HandleFunc("/companion/history", companionHandler.GetHistory).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server shutdown complete")
}

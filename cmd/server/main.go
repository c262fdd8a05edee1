package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sgt/fitapi/internal/catalog"
	"github.com/sgt/fitapi/internal/config"
	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/handler"
	"github.com/sgt/fitapi/internal/jobs"
	"github.com/sgt/fitapi/internal/middleware"
	"github.com/sgt/fitapi/internal/repository"
	"github.com/sgt/fitapi/internal/service"
	"github.com/sgt/fitapi/migrations"
	"github.com/sgt/fitapi/pkg/jwt"
	"github.com/sgt/fitapi/pkg/throttle"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if err := migrations.Apply(ctx, db); err != nil {
		slog.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:       []byte(cfg.JWT.Secret),
		ExpirationMs: cfg.JWT.ExpirationMs,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	sessionRepo := repository.NewWorkoutSessionRepository(db)
	setRepo := repository.NewWorkoutSetRepository(db)

	// Seed the exercise catalog
	if cfg.Catalog.Seed {
		exercises, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			slog.Error("failed to load exercise catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if _, err := catalog.Seed(ctx, exerciseRepo, exercises, logger); err != nil {
			slog.Error("failed to seed exercise catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Login throttle and its sweeper
	loginThrottle := throttle.New(throttle.Config{
		MaxAttempts: cfg.Login.MaxAttempts,
		Window:      cfg.Login.Window,
		Shards:      cfg.Login.Shards,
	})
	if cfg.Login.SweepInterval > 0 {
		sweeper := jobs.NewThrottleSweeper(loginThrottle, cfg.Login.SweepInterval, logger)
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo: userRepo,
		Throttle: loginThrottle,
		Tokens:   jwtService,
		Logger:   logger,
	})
	exerciseService := service.NewExerciseService(exerciseRepo)
	workoutService := service.NewWorkoutService(service.WorkoutServiceConfig{
		Sessions:  sessionRepo,
		Sets:      setRepo,
		Exercises: exerciseRepo,
		Logger:    logger,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Create router and register routes
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{
		health:      handler.NewHealthHandler(db, logger),
		auth:        handler.NewAuthHandler(authService, logger),
		exercise:    handler.NewExerciseHandler(exerciseService, logger),
		workout:     handler.NewWorkoutHandler(workoutService, logger),
		workoutSets: handler.NewWorkoutSetHandler(workoutService, logger),
	}, jwtService, rateLimiter)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"interviewlab/internal/analyzer"
	"interviewlab/internal/cache"
	"interviewlab/internal/catalog"
	"interviewlab/internal/config"
	"interviewlab/internal/repository"
	"interviewlab/internal/service"
	"interviewlab/internal/store"
	"interviewlab/internal/transport/rest"
	"interviewlab/internal/transport/ws"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Validate the stage catalog before serving anything: a mismatch here
	// is a code bug, not a runtime condition.
	cat := catalog.New()
	if err := cat.Validate(); err != nil {
		logger.Fatal("stage catalog invalid", zap.Error(err))
	}

	aiConfig := config.DefaultAIConfig()
	if aiConfig.IsEnabled() {
		logger.Info("AI analysis enabled", zap.String("model", aiConfig.Model))
	} else {
		logger.Info("GEMINI_API_KEY not set, using local heuristic analyzer only")
	}

	// MongoDB connection
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
		logger.Warn("MONGO_URI not set, using default")
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database("interviewlab")

	// Redis connection
	redisAddr := os.Getenv("REDIS_URI")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
		logger.Warn("REDIS_URI not set, using default")
	}
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub(logger)

	// Repositories
	sessionRepo := repository.NewSessionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	traineeRepo := repository.NewTraineeRepo(db)

	// Caches
	reportCache := cache.NewReportCache(rdb)
	progressCache := cache.NewProgressCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Live session store (in-memory, injected)
	sessionStore := store.NewSessionStore()

	// Services
	authSvc := service.NewAuthService()
	evaluator := service.NewEvaluatorService(aiConfig, analyzer.New(), logger)
	progressSvc := service.NewProgressService(progressCache)
	feedbackSvc := service.NewFeedbackService(evaluator, reportRepo, reportCache, leaderboard, progressSvc, cat, logger)
	sessionSvc := service.NewSessionService(sessionStore, sessionRepo, traineeRepo, feedbackSvc, cat, logger)
	sessionSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:     authSvc,
		SessionService:  sessionSvc,
		FeedbackService: feedbackSvc,
		ProgressService: progressSvc,
		Catalog:         cat,
		WSHub:           wsHub,
		Logger:          logger,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

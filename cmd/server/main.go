package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manova/internal/cache"
	"manova/internal/clients/openai"
	"manova/internal/clients/pinecone"
	"manova/internal/config"
	"manova/internal/platform/logger"
	"manova/internal/repository"
	"manova/internal/service"
	"manova/internal/transport/rest"
	"manova/internal/transport/ws"
	"manova/internal/vector"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}
	aiCfg := config.DefaultAIConfig()
	vectorCfg := config.DefaultVectorConfig()
	analysisCfg := config.DefaultAnalysisConfig()
	if err := analysisCfg.Validate(); err != nil {
		log.Fatal("invalid analysis configuration", "error", err)
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongodb connect failed", "error", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("mongodb ping failed", "error", err)
	}
	log.Info("connected to mongodb", "db", cfg.MongoDB)

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("redis ping failed", "error", err)
	}
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	// Vector store: managed index when configured, in-process otherwise.
	var store vector.Store
	if vectorCfg.IsEnabled() {
		pc, err := pinecone.New(log, pinecone.Config{
			APIKey:    vectorCfg.APIKey,
			IndexHost: vectorCfg.IndexHost,
			Timeout:   time.Duration(vectorCfg.TimeoutMS) * time.Millisecond,
		})
		if err != nil {
			log.Fatal("pinecone client init failed", "error", err)
		}
		store = vector.NewPineconeStore(log, pc, vectorCfg.NamespacePrefix)
		log.Info("vector store: pinecone", "host", vectorCfg.IndexHost)
	} else {
		store = vector.NewMemoryStore()
		log.Warn("vector store: in-memory (PINECONE_API_KEY not set, recurrence history is not durable)")
	}

	aiClient := openai.New(log, aiCfg)
	if aiCfg.IsEnabled() {
		log.Info("ai provider configured", "chatModel", aiCfg.ChatModel, "embedModel", aiCfg.EmbeddingModel)
	} else {
		log.Warn("ai provider not configured, running on local heuristics")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	checkInRepo := repository.NewCheckInRepo(db)
	moodRepo := repository.NewMoodRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	postRepo := repository.NewPostRepo(db)

	// Caches
	decisionCache := cache.NewDecisionCache(rdb)
	baselineCache := cache.NewBaselineCache(rdb)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	scorerSvc := service.NewScorerService(log, aiClient)
	deepDiveSvc := service.NewDeepDiveService(log, aiClient, analysisCfg)
	embeddingSvc := service.NewEmbeddingService(log, aiClient)
	recurrenceSvc := service.NewRecurrenceService(log, store, analysisCfg)
	triggerSvc := service.NewTriggerService(analysisCfg)
	analysisSvc := service.NewAnalysisService(
		log, analysisCfg,
		scorerSvc, deepDiveSvc, embeddingSvc, recurrenceSvc, triggerSvc,
		checkInRepo, decisionCache, baselineCache,
	)

	// WebSocket hub (implements service.Broadcaster)
	wsHub := ws.NewHub(log)
	analysisSvc.SetBroadcaster(wsHub)
	wsHandler := ws.NewHandler(log, wsHub, authSvc)

	router := rest.NewRouter(&rest.Container{
		AuthService:     authSvc,
		AnalysisService: analysisSvc,
		CheckInRepo:     checkInRepo,
		MoodRepo:        moodRepo,
		ArticleRepo:     articleRepo,
		PostRepo:        postRepo,
		UserRepo:        userRepo,
		WSHandler:       wsHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", "error", err)
	}

	log.Info("server exited")
}

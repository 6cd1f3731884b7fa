package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"friendship-match/internal/config"
	"friendship-match/internal/db"
	apihttp "friendship-match/internal/http"
	"friendship-match/internal/llm"
	"friendship-match/internal/logger"
	"friendship-match/internal/repository"
	"friendship-match/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	zl, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer zl.Sync()

	var (
		profileRepo repository.ProfileRepository
		messageRepo repository.MessageRepository
		pinger      apihttp.Pinger
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			zl.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			zl.Fatal("db ping", zap.Error(err))
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			zl.Fatal("db schema", zap.Error(err))
		}
		profileRepo = repository.NewPgProfileRepository(pool)
		messageRepo = repository.NewPgMessageRepository(pool)
		pinger = pool
	} else {
		zl.Warn("DATABASE_URL not set, using in-memory repositories")
		profileRepo = repository.NewMemoryProfileRepository()
		messageRepo = repository.NewMemoryMessageRepository()
	}

	extractorOpts := []service.ExtractorOption{
		service.WithScorerTimeout(cfg.ScorerTimeout),
		service.WithContextWindow(cfg.ContextWindow),
	}
	var interestTagger service.InterestTagger = service.NewLexicalInterestTagger()
	var replyClient llm.LLMClient
	if cfg.NeedsLLM() {
		llmClient, err := llm.NewClient(cfg, zl)
		if err != nil {
			zl.Fatal("llm client", zap.Error(err))
		}
		if cfg.ScorerMode == config.ScorerModel {
			extractorOpts = append(extractorOpts, service.WithScorer(service.NewModelScorer(llmClient)))
			interestTagger = service.NewModelInterestTagger(llmClient, cfg.ScorerTimeout, zl)
		}
		if cfg.ReplyMode == config.ReplyModel {
			replyClient = llmClient
		}
	}
	zl.Info("signal scorer configured",
		zap.String(logger.FieldScorer, cfg.ScorerMode),
		zap.String("reply_mode", cfg.ReplyMode),
		zap.String("llm_provider", cfg.LLMProvider),
	)

	matchLimiter := service.NewMatchRateLimiter(cfg.MatchRateWindow, cfg.MatchRateLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			zl.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			matchLimiter = service.NewRedisMatchRateLimiter(redisClient, cfg.MatchRateWindow, cfg.MatchRateLimit, zl)
		}
		cancel()
	}

	matcher, err := service.NewMatcher(service.MatcherConfig{
		Weights: service.MatchWeights{
			Openness:          cfg.WeightOpenness,
			Conscientiousness: cfg.WeightConscientiousness,
			Extraversion:      cfg.WeightExtraversion,
			Agreeableness:     cfg.WeightAgreeableness,
			Neuroticism:       cfg.WeightNeuroticism,
		},
		MinConfidence:     cfg.MinConfidence,
		StrengthThreshold: service.DefaultMatcherConfig().StrengthThreshold,
		FrictionThreshold: service.DefaultMatcherConfig().FrictionThreshold,
	})
	if err != nil {
		zl.Fatal("matcher config", zap.Error(err))
	}

	conversationSvc := service.NewConversationService(
		service.NewSignalExtractor(zl, extractorOpts...),
		service.NewEstimator(service.DefaultEstimatorConfig()),
		profileRepo,
		messageRepo,
		service.NewBasicHistoryProvider(messageRepo, cfg.ContextWindow),
		interestTagger,
		zl,
		service.WithResponder(service.NewConversationResponder(replyClient, cfg.ReplyTimeout, cfg.MinConfidence, zl)),
	)
	matchSvc := service.NewMatchService(matcher, profileRepo, matchLimiter, cfg.MaxMatches, cfg.CandidatePoolSize, zl)

	router := apihttp.NewRouter(zl,
		apihttp.NewHealthHandler(pinger),
		apihttp.NewMessageHandler(zl, conversationSvc),
		apihttp.NewProfileHandler(zl, conversationSvc, cfg.MinConfidence),
		apihttp.NewMatchHandler(zl, matchSvc),
		apihttp.NewConversationHandler(zl, conversationSvc, cfg.MinConfidence),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zl.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zl.Fatal("server error", zap.Error(err))
	}
}

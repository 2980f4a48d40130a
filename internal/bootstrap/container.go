package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-gateway-be/internal/config"
	"ai-gateway-be/internal/controller"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/pkg/serverutils"
	"ai-gateway-be/internal/repository/implementation"
	"ai-gateway-be/internal/service"
	"ai-gateway-be/pkg/convmem"
	"ai-gateway-be/pkg/embedding"
	"ai-gateway-be/pkg/gate"
	"ai-gateway-be/pkg/knowledge"
	"ai-gateway-be/pkg/llm/factory"
	"ai-gateway-be/pkg/semcache"
	"ai-gateway-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	ChatController      controller.IChatController
	AdminController     controller.IAdminController
	KnowledgeController controller.IKnowledgeController
	HealthController    controller.IHealthController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Embedding provider, memoized in process so the cache lookup and the
	// RAG lookup don't embed the same prompt twice.
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "mock" {
		embeddingProvider = embedding.NewMockProvider(768)
		log.Printf("[INFO] Using Embedding Provider: MOCK")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, cfg.Ai.EmbeddingModel, 1*time.Hour)

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vector index: pgvector when postgres is configured, in-process otherwise.
	var index vectorindex.Index
	if db != nil {
		vectorRepo := implementation.NewVectorRecordRepository(db)
		index = implementation.NewPgVectorIndex(vectorRepo)
	} else {
		log.Printf("[WARN] No database configured, using in-memory vector index")
		index = vectorindex.NewMemoryIndex()
	}

	// Redis backs conversation memory, credentials and usage counters.
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Event bus for async knowledge ingestion
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Core pipeline components
	cache := semcache.NewCache(index, embeddingProvider, cfg.Ai.LLMModel, cfg.Cache.Threshold)
	retriever := knowledge.NewRetriever(index, embeddingProvider)
	ingestor := knowledge.NewIngestor(index, embeddingProvider)
	memory := convmem.NewMemory(rdb, cfg.Memory.MaxTurns, time.Duration(cfg.Memory.TTLSeconds)*time.Second)
	verifier := gate.NewVerifier(rdb, cfg.Security.FreeLimit, cfg.Security.ProLimit,
		time.Duration(cfg.Security.WindowSeconds)*time.Second)
	issuer := gate.NewIssuer(rdb)

	// Services
	chatService := service.NewChatService(cache, retriever, memory, llmProvider, service.ChatFlags{
		CacheEnabled:  cfg.Cache.Enabled,
		RagEnabled:    cfg.Ai.RagEnabled,
		MemoryEnabled: cfg.Memory.Enabled,
	}, sysLogger)
	keyService := service.NewKeyService(issuer, verifier, sysLogger)
	authService := service.NewAuthService(
		cfg.Security.AdminUsername,
		cfg.Security.AdminPasswordHash,
		cfg.Security.JwtSecret,
		sysLogger,
	)
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.IngestTopic, ingestor, sysLogger)

	// Middleware
	apiKeyMiddleware := serverutils.NewApiKeyMiddleware(verifier)
	adminJwtMiddleware := serverutils.NewAdminJwtMiddleware(cfg.Security.JwtSecret)

	return &Container{
		ChatController:      controller.NewChatController(chatService, apiKeyMiddleware),
		AdminController:     controller.NewAdminController(authService, keyService, sysLogger, adminJwtMiddleware),
		KnowledgeController: controller.NewKnowledgeController(publisherService, adminJwtMiddleware),
		HealthController:    controller.NewHealthController(llmProvider),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}

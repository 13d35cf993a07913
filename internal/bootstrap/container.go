package bootstrap

import (
	"context"
	"log"
	"time"

	"market-insights-be/internal/config"
	"market-insights-be/internal/controller"
	"market-insights-be/internal/pkg/logger"
	"market-insights-be/internal/repository/memory"
	"market-insights-be/internal/repository/redisrepo"
	"market-insights-be/internal/service"
	"market-insights-be/pkg/embedding"
	"market-insights-be/pkg/llm/factory"
	"market-insights-be/pkg/persona"
	"market-insights-be/pkg/rag/mode"
	"market-insights-be/pkg/rag/search"
	"market-insights-be/pkg/vectorstore"
	"market-insights-be/pkg/vectorstore/pgstore"

	pktNats "market-insights-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	QueryController    controller.IQueryController
	ConfigController   controller.IConfigController
	PersonaController  controller.IPersonaController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	DocumentService service.IDocumentService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider = embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	// Identical chunks show up across studies; cache their vectors.
	embeddingProvider = embedding.NewCached(embeddingProvider, 30*time.Minute)
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Vector Store (serving index + durable backing)
	store := vectorstore.NewStore()

	var backing *pgstore.Repository
	if db != nil {
		backing = pgstore.NewRepository(db)
		if err := backing.Migrate(); err != nil {
			log.Printf("[WARN] Failed to migrate document_chunks: %v", err)
		}
	}

	servingIndex := search.NewMemoryIndex(store)
	if cfg.Rag.ServeFromDB && backing != nil {
		servingIndex = pgstore.NewServingIndex(backing, cfg.Rag.ClientName)
		log.Printf("[INFO] Serving similarity search from Postgres")
	}
	orchestrator := search.NewOrchestrator(embeddingProvider, servingIndex)

	// 5. Mode Configuration
	var modeManager *mode.Manager
	if cfg.Rag.ModeFile != "" {
		modeManager, err = mode.NewManagerFromFile(cfg.Rag.ModeFile)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load mode config: %v", err)
		}
	} else {
		modeManager = mode.NewManager()
	}

	// 6. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis backs persona sessions when reachable; otherwise they stay
	// in-process.
	var sessionRepo persona.SessionRepository
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Persona sessions are in-memory only", err)
		sessionRepo = memory.NewSessionRepository()
	} else {
		sessionRepo = redisrepo.NewSessionRepository(rdb, time.Hour)
	}

	// 7. Personas
	personaGenerator := persona.NewGenerator(persona.DefaultPools(), cfg.Rag.PersonaSeed)
	personaRegistry := persona.NewRegistry()

	// 8. Services
	publisherService := service.NewPublisherService(cfg.Rag.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Rag.IngestTopic,
		cfg.Rag.ClientName,
		store,
		backing,
		embeddingProvider,
		sysLogger,
	)

	authService := service.NewAuthService(cfg.Auth)
	documentService := service.NewDocumentService(
		cfg.Rag.ClientName,
		store,
		backing,
		embeddingProvider,
		publisherService,
		natsPub,
		sysLogger,
	)
	queryService := service.NewQueryService(
		cfg.Rag.ClientName,
		cfg.Rag.Industry,
		orchestrator,
		modeManager,
		llmProvider,
		cfg.Rag.MinSimilarity,
		sysLogger,
	)
	configService := service.NewConfigService(modeManager)
	personaService := service.NewPersonaService(
		cfg.Rag.ClientName,
		personaGenerator,
		personaRegistry,
		sessionRepo,
		orchestrator,
		llmProvider,
		sysLogger,
	)

	// 9. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		QueryController:    controller.NewQueryController(queryService),
		ConfigController:   controller.NewConfigController(configService),
		PersonaController:  controller.NewPersonaController(personaService),

		ConsumerService: consumerService,
		DocumentService: documentService,
	}
}

// Package app arma el grafo de dependencias compartido por cmd/api y cmd/cli_chat.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ai-assistant/internal/config"
	"ai-assistant/internal/db"
	apihttp "ai-assistant/internal/http"
	"ai-assistant/internal/llm"
	"ai-assistant/internal/metrics"
	"ai-assistant/internal/repository"
	"ai-assistant/internal/service"
)

const redisPingTimeout = 2 * time.Second

// App contiene los servicios ya conectados al backend elegido.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Backend es el backend efectivo; puede ser none aunque se haya pedido otro.
	Backend string

	Conversations *service.ConversationStore
	Chat          *service.ChatService
	Settings      *service.SettingsService
	Tickets       *service.TicketService
	Status        *service.StatusService

	closers []func()
}

type storeBinding struct {
	backend string
	kv      repository.KVStore
	history repository.HistoryRepository
	close   func()
}

// New nunca falla por el store: si el backend no responde se degrada a none con un Warn.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := metrics.New()
	a := &App{Config: cfg, Logger: logger, Metrics: m}

	binding := openStore(ctx, cfg, logger)
	a.Backend = binding.backend
	if binding.close != nil {
		a.closers = append(a.closers, binding.close)
	}

	var (
		history  repository.HistoryRepository
		records  repository.ConversationRepository
		settings repository.SettingsRepository
		tickets  repository.TicketRepository
	)
	if binding.kv != nil {
		kv := repository.InstrumentKV(binding.kv, m)
		history = repository.InstrumentHistory(binding.history, m)
		if history == nil {
			history = repository.NewKVHistoryRepository(kv)
		}
		records = repository.NewKVConversationRepository(kv)
		settings = repository.NewKVSettingsRepository(kv)
		tickets = repository.NewKVTicketRepository(kv)
	}

	var client llm.LLMClient
	if cfg.InferenceEnabled() {
		client = llm.NewHTTPClient(
			cfg.LLMBaseURL,
			cfg.LLMAPIKey,
			cfg.LLMModel,
			time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
			logger,
		)
	} else {
		logger.Info("inference not configured, using canned responses")
	}

	a.Conversations = service.NewConversationStore(history, records, cfg.HistoryLimit, logger)
	a.Settings = service.NewSettingsService(settings, cfg.StrictPersistence, logger)
	a.Tickets = service.NewTicketService(tickets, cfg.StrictPersistence, logger)
	responder := service.NewResponder(client, cfg.LLMMaxTokens, cfg.PromptHistoryTurns, m, logger)
	a.Chat = service.NewChatService(a.Conversations, responder, a.Settings, cfg.DefaultSessionID, logger)
	a.Status = service.NewStatusService(m, client != nil, binding.kv != nil)

	logger.Info("services ready",
		zap.String("store_backend", a.Backend),
		zap.Bool("inference", client != nil),
		zap.Bool("strict_persistence", cfg.StrictPersistence),
	)
	return a
}

// Router construye el router HTTP sobre los servicios de la app.
func (a *App) Router() *gin.Engine {
	return apihttp.NewRouter(
		apihttp.RouterOptions{
			Logger:         a.Logger,
			Metrics:        a.Metrics,
			JWTSecret:      a.Config.JWTSecret,
			RateLimitRPS:   a.Config.RateLimitRPS,
			RateLimitBurst: a.Config.RateLimitBurst,
			MaxBodyBytes:   a.Config.MaxBodyBytes,
		},
		apihttp.NewChatHandler(a.Logger, a.Chat, a.Conversations),
		apihttp.NewSettingsHandler(a.Logger, a.Settings),
		apihttp.NewTicketHandler(a.Logger, a.Tickets),
		apihttp.NewStatusHandler(a.Status),
	)
}

// Close libera conexiones en orden inverso.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) storeBinding {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return storeBinding{backend: config.StoreMemory, kv: repository.NewMemoryKVStore()}
	case config.StoreRedis:
		return openRedis(ctx, cfg, logger)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return storeBinding{backend: config.StoreNone}
	}
}

func openRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) storeBinding {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctxPing, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, running without store", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return storeBinding{backend: config.StoreNone}
	}

	return storeBinding{
		backend: config.StoreRedis,
		kv:      repository.NewRedisKVStore(client, cfg.RedisKeyPrefix),
		history: repository.NewRedisHistoryRepository(client, cfg.RedisKeyPrefix),
		close:   func() { _ = client.Close() },
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) storeBinding {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Warn("postgres connect failed, running without store", zap.Error(err))
		return storeBinding{backend: config.StoreNone}
	}

	kv := repository.NewPgKVStore(pool)
	if err := kv.EnsureSchema(ctx); err != nil {
		logger.Warn("postgres schema setup failed, running without store", zap.Error(err))
		pool.Close()
		return storeBinding{backend: config.StoreNone}
	}

	return storeBinding{backend: config.StorePostgres, kv: kv, close: pool.Close}
}

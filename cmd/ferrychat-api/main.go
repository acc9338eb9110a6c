// README: Entry point; loads config, wires the booking dialogue services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ferrychat/internal/ai"
	"ferrychat/internal/config"
	httptransport "ferrychat/internal/http"
	"ferrychat/internal/infra"
	"ferrychat/internal/logging"
	"ferrychat/internal/modules/agentcfg"
	"ferrychat/internal/modules/aiusage"
	"ferrychat/internal/modules/availability"
	"ferrychat/internal/modules/catalog"
	"ferrychat/internal/modules/dialogue"
	"ferrychat/internal/modules/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assistant, closeAssistant, err := newAssistant(ctx, cfg)
	if err != nil {
		logger.Fatal("assistant init", zap.Error(err))
	}
	defer closeAssistant()

	// The usage meter is optional; without a database every tenant is unmetered.
	var usageStore *aiusage.Store
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("database init", zap.Error(err))
		}
		defer dbPool.Close()
		usageStore = aiusage.NewStore(dbPool)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	catalogSvc := catalog.NewService(
		catalog.NewClient(cfg.RoutesAPIURL),
		redisClient,
		time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second,
		logger,
	)
	availabilitySvc := availability.NewService(availability.NewClient(cfg.TripsAPIURL), logger)
	searchSvc := search.NewService(search.NewClient(cfg.TripsAPIURL), logger)
	agentSvc := agentcfg.NewService(cfg.ConfigAPIURL, logger)
	fallback := dialogue.NewFallback(assistant, aiusage.NewService(usageStore), logger)

	dialogueSvc := dialogue.New(dialogue.NewManager(), catalogSvc, availabilitySvc,
		searchSvc, agentSvc, fallback, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httptransport.NewRouter(dialogueSvc, logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("serve", zap.Error(err))
	}
}

func newAssistant(ctx context.Context, cfg config.Config) (ai.Assistant, func(), error) {
	switch strings.ToLower(cfg.Assistant.Provider) {
	case "gemini":
		provider, err := ai.NewGeminiProvider(ctx, cfg.Assistant.GeminiKey)
		if err != nil {
			return nil, nil, err
		}
		return provider, provider.Close, nil
	case "chatgpt":
		return ai.NewChatGPTProvider(cfg.Assistant.OpenAIKey), func() {}, nil
	default:
		return ai.NewRemoteProvider(cfg.Assistant.ChatAPIURL), func() {}, nil
	}
}

package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/verdantcity/verdant/internal/api"
	"github.com/verdantcity/verdant/internal/config"
	"github.com/verdantcity/verdant/internal/db"
	"github.com/verdantcity/verdant/internal/llm"
	"github.com/verdantcity/verdant/internal/web"
	"go.uber.org/zap"
)

var configFlag = flag.String("config", "", "Path to an optional config file")

func main() {
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// A missing credential halts startup before any page is served.
	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := db.New(cfg.Store.DSN)
	if err != nil {
		logger.Fatal("failed to initialize conversation store",
			zap.Error(err),
			zap.String("dsn", cfg.Store.DSN))
	}
	defer store.Close()

	llmService, err := llm.New(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		logger.Fatal("failed to initialize generation client", zap.Error(err))
	}

	handler := api.NewHandler(store, llmService, logger)

	// One page handler per navigation entry
	http.HandleFunc("/", handler.Home)
	http.HandleFunc("/solutions", handler.Solutions)
	http.HandleFunc("/greentech", handler.GreenTech)
	http.HandleFunc("/assistant", handler.Assistant)
	http.HandleFunc("/assistant/clear", handler.ClearChat)
	http.HandleFunc("/analytics", handler.Analytics)

	// Serve embedded static assets
	http.Handle("/static/", web.Serve())

	logger.Info("Starting server",
		zap.String("address", cfg.Server.Address),
		zap.String("model", llmService.Model()))
	if err := http.ListenAndServe(cfg.Server.Address, nil); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

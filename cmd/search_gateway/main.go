package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/openimpact/search-gateway/internal/analytics"
	"github.com/openimpact/search-gateway/internal/autocomplete"
	"github.com/openimpact/search-gateway/internal/facet"
	"github.com/openimpact/search-gateway/internal/indexing"
	"github.com/openimpact/search-gateway/internal/router"
	"github.com/openimpact/search-gateway/internal/search"
	"github.com/openimpact/search-gateway/internal/server"
	"github.com/openimpact/search-gateway/internal/sources"
	"github.com/openimpact/search-gateway/internal/storage/pg"
)

func main() {
	ctx := context.Background()

	appCfg := NewAppConfig()
	cfg, err := appCfg.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	srvCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	srcs, err := sources.LoadRegistry(cfg.SourcesPath)
	if err != nil {
		slog.Warn("No source registry loaded, reindex-all will have nothing to fetch",
			"path", cfg.SourcesPath, "error", err)
	}

	documents := pg.NewDocumentStore(pool)
	suggestions := pg.NewSuggestionStore(pool)
	queryLogs := pg.NewQueryLogStore(pool)
	jobs := pg.NewJobStore(pool)

	analyticsSvc := analytics.NewService(queryLogs, suggestions)
	searchSvc := search.NewService(documents, analyticsSvc)
	facetSvc := facet.NewService(documents)
	autocompleteSvc := autocomplete.NewService(suggestions, queryLogs)
	indexingSvc := indexing.NewService(documents, jobs, srcs)

	s := server.New(srvCfg, pg.NewHealthChecker(pool))

	api := s.Echo.Group("/api/v1")
	router.NewSearchRouter(api, searchSvc).Bind()
	router.NewFacetRouter(api, facetSvc).Bind()
	router.NewAutocompleteRouter(api, autocompleteSvc).Bind()
	router.NewIndexingRouter(api, indexingSvc).Bind()
	router.NewManagementRouter(api, indexingSvc).Bind()
	router.NewAnalyticsRouter(api, analyticsSvc).Bind()

	slog.Info("Search gateway starting", "port", srvCfg.Port, "sources", len(srcs))

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}

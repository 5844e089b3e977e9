package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/cache"
	"github.com/spheresight/datasphere-mcp/pkg/config"
	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/mcp"
	"github.com/spheresight/datasphere-mcp/pkg/mcp/tools"
	"github.com/spheresight/datasphere-mcp/pkg/middleware"
	"github.com/spheresight/datasphere-mcp/pkg/profile"
	"github.com/spheresight/datasphere-mcp/pkg/search"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	source, err := newDataSource(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to construct data source", zap.Error(err))
	}

	ttlCache := cache.NewTTL(time.Duration(cfg.Cache.TTLSeconds)*time.Second, cfg.Cache.MaxEntries)
	cached := datasphere.NewCachingDataSource(source, ttlCache)

	mcpServer := mcp.NewServer("datasphere-mcp", cfg.Version, logger)
	registerTools(mcpServer, cached, cfg, logger)

	logger.Info("Starting datasphere-mcp",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("transport", cfg.Transport),
		zap.Bool("mock_mode", cfg.Tenant.MockMode),
	)

	if cfg.Transport == "stdio" {
		// stdout belongs to the protocol; zap already writes to stderr.
		if err := mcpServer.ServeStdio(); err != nil {
			logger.Fatal("Stdio transport failed", zap.Error(err))
		}
		return
	}

	mux := http.NewServeMux()
	mcpHandler := middleware.MCPRequestLogger(logger)(mcpServer.NewStreamableHTTPServer())
	mux.Handle("/mcp", mcpHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newDataSource picks the tenant client or the fixture once, at startup.
// Everything downstream sees only the DataSource interface.
func newDataSource(cfg *config.Config, logger *zap.Logger) (datasphere.DataSource, error) {
	if cfg.Tenant.MockMode {
		if cfg.Tenant.FixturePath != "" {
			doc, err := os.ReadFile(cfg.Tenant.FixturePath)
			if err != nil {
				return nil, err
			}
			return datasphere.NewFixtureFromYAML(doc)
		}
		return datasphere.DefaultFixture(), nil
	}

	return datasphere.NewClient(datasphere.ClientConfig{
		TenantURL:    cfg.Tenant.TenantURL,
		TokenURL:     cfg.Tenant.OAuthTokenURL,
		ClientID:     cfg.Tenant.ClientID,
		ClientSecret: cfg.Tenant.ClientSecret,
		Timeout:      time.Duration(cfg.Tenant.TimeoutSeconds) * time.Second,
	}, logger)
}

func registerTools(s *mcp.Server, source *datasphere.CachingDataSource, cfg *config.Config, logger *zap.Logger) {
	profileOpts := profile.Options{
		MaxExampleValues:       cfg.Profile.MaxExampleValues,
		CategoricalMinDistinct: cfg.Profile.CategoricalMinDistinct,
		CategoricalMaxRatio:    cfg.Profile.CategoricalMaxRatio,
		TopValueCap:            cfg.Profile.TopValueCap,
		IDUniqueRatio:          cfg.Profile.IDUniqueRatio,
	}
	searchBudget := search.Options{
		MaxAssets:         cfg.Search.MaxAssets,
		MaxSpaces:         cfg.Search.MaxSpaces,
		MaxAssetsPerSpace: cfg.Search.MaxAssetsPerSpace,
		Limit:             cfg.Search.Limit,
	}

	tools.RegisterCatalogTools(s.MCP(), &tools.CatalogToolDeps{
		Source: source,
		Logger: logger,
	})
	tools.RegisterDataTools(s.MCP(), &tools.DataToolDeps{
		Source:    source,
		Limits:    cfg.Limits,
		Profile:   profileOpts,
		SampleTop: cfg.Profile.SampleTop,
		Logger:    logger,
	})
	tools.RegisterProfileTools(s.MCP(), &tools.ProfileToolDeps{
		Source:    source,
		Limits:    cfg.Limits,
		Profile:   profileOpts,
		SampleTop: cfg.Profile.SampleTop,
		Logger:    logger,
	})
	tools.RegisterSearchTools(s.MCP(), &tools.SearchToolDeps{
		Source: source,
		Budget: searchBudget,
		Logger: logger,
	})
	tools.RegisterHealthTools(s.MCP(), &tools.HealthToolDeps{
		Source:     source,
		CacheStats: source.Stats,
		Config:     cfg,
		Logger:     logger,
	})
}

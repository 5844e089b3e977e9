package tools

import (
	"context"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/cache"
	"github.com/spheresight/datasphere-mcp/pkg/config"
	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/logging"
)

// HealthToolDeps contains dependencies for health and diagnostics tools.
type HealthToolDeps struct {
	Source datasphere.DataSource
	// CacheStats reports metadata cache counters; nil when caching is not
	// wired (stdio smoke tests).
	CacheStats func() cache.Stats
	Config     *config.Config
	Logger     *zap.Logger
}

// RegisterHealthTools registers health, diagnostics and tenant info tools.
func RegisterHealthTools(s *server.MCPServer, deps *HealthToolDeps) {
	registerHealthTool(s, deps)
	registerDiagnosticsTool(s, deps)
	registerTenantInfoTool(s, deps)
}

type healthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Env     string `json:"env"`
}

func registerHealthTool(s *server.MCPServer, deps *HealthToolDeps) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Report that the connector process is up. Does not touch the tenant."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(healthResult{
			Status:  "ok",
			Version: deps.Config.Version,
			Env:     deps.Config.Env,
		})
	})
}

type diagnosticCheck struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type diagnosticsResult struct {
	OK     bool              `json:"ok"`
	Checks []diagnosticCheck `json:"checks"`
	Cache  *cache.Stats      `json:"cache,omitempty"`
}

// registerDiagnosticsTool adds a staged connectivity check: configuration,
// then a ping, then an authenticated catalog call. Each stage runs even when
// an earlier one fails so the result localizes the fault.
func registerDiagnosticsTool(s *server.MCPServer, deps *HealthToolDeps) {
	tool := mcp.NewTool(
		"diagnostics",
		mcp.WithDescription(
			"Run connectivity diagnostics against the tenant: configuration check, "+
				"reachability ping, authenticated space listing. Includes metadata "+
				"cache counters.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := diagnosticsResult{OK: true, Checks: []diagnosticCheck{}}

		run := func(name string, fn func(context.Context) error) {
			start := time.Now()
			check := diagnosticCheck{Name: name, OK: true}
			if err := fn(ctx); err != nil {
				check.OK = false
				check.Detail = logging.SanitizeError(err)
				out.OK = false
			}
			check.DurationMS = time.Since(start).Milliseconds()
			out.Checks = append(out.Checks, check)
		}

		run("client_init", func(context.Context) error {
			return deps.Config.Tenant.Validate()
		})
		run("ping", deps.Source.Ping)
		run("list_spaces", func(ctx context.Context) error {
			_, err := deps.Source.ListSpaces(ctx)
			return err
		})

		if deps.CacheStats != nil {
			stats := deps.CacheStats()
			out.Cache = &stats
		}
		return jsonResult(out)
	})
}

type tenantInfoResult struct {
	TenantHost         string `json:"tenant_host"`
	MockMode           bool   `json:"mock_mode"`
	TenantConfigured   bool   `json:"tenant_configured"`
	TokenURLConfigured bool   `json:"token_url_configured"`
	ClientIDConfigured bool   `json:"client_id_configured"`
	SecretConfigured   bool   `json:"client_secret_configured"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
	MaxRowsPreview     int    `json:"max_rows_preview"`
	MaxRowsQuery       int    `json:"max_rows_query"`
}

// registerTenantInfoTool adds tenant configuration introspection. Secret
// values never appear in the result, only whether each one is configured.
func registerTenantInfoTool(s *server.MCPServer, deps *HealthToolDeps) {
	tool := mcp.NewTool(
		"get_tenant_info",
		mcp.WithDescription(
			"Show which tenant this connector targets and which credentials are "+
				"configured. Secret values are never included.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tenant := deps.Config.Tenant
		host := ""
		if parsed, err := url.Parse(tenant.TenantURL); err == nil {
			host = parsed.Host
		}

		return jsonResult(tenantInfoResult{
			TenantHost:         host,
			MockMode:           tenant.MockMode,
			TenantConfigured:   tenant.TenantURL != "",
			TokenURLConfigured: tenant.OAuthTokenURL != "",
			ClientIDConfigured: tenant.ClientID != "",
			SecretConfigured:   tenant.ClientSecret != "",
			TimeoutSeconds:     tenant.TimeoutSeconds,
			MaxRowsPreview:     deps.Config.Limits.MaxRowsPreview,
			MaxRowsQuery:       deps.Config.Limits.MaxRowsQuery,
		})
	})
}

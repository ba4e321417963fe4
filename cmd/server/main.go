package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/vinodismyname/mcpeassc/config"
	"github.com/vinodismyname/mcpeassc/internal/registry"
	"github.com/vinodismyname/mcpeassc/internal/runtime"
	"github.com/vinodismyname/mcpeassc/internal/security"
	"github.com/vinodismyname/mcpeassc/internal/sessions"
	"github.com/vinodismyname/mcpeassc/internal/telemetry"
	"github.com/vinodismyname/mcpeassc/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		useStdio        bool
		envFile         string
		shutdownTimeout time.Duration
	)

	flag.BoolVar(&useStdio, "stdio", false, "Run server over stdio transport")
	flag.StringVar(&envFile, "env-file", ".env", "Optional dotenv file read before the environment")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.Parse()

	if !useStdio {
		fmt.Fprintln(os.Stderr, "no transport selected; use --stdio to run over stdio")
		os.Exit(2)
	}

	// The global logger writes to stderr; stdout carries the MCP transport.
	logger := zlog.With().Str("service", "eassc-server").Logger()

	cfg, err := config.Load(envFile)
	if err != nil {
		logger.Error().Err(err).Msg("config: failed to load")
		fmt.Fprintln(os.Stderr, "invalid configuration; check EASSC_* environment variables")
		os.Exit(1)
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		logger = logger.Level(lvl)
	}
	ctx := logger.WithContext(context.Background())

	// Security: validate allow-list directories on startup (fail-safe on error)
	secMgr, err := security.NewManager(cfg.AllowedDirList(), nil)
	if err != nil {
		logger.Error().Err(err).Msg("security: failed to initialize manager")
		fmt.Fprintln(os.Stderr, "invalid security configuration; set EASSC_ALLOWED_DIRS")
		os.Exit(1)
	}
	if err := secMgr.ValidateConfig(); err != nil {
		if !cfg.EnableUploads {
			logger.Error().Err(err).Msg("security: invalid allow-list configuration")
			fmt.Fprintln(os.Stderr, "no allowed directories configured and uploads disabled; set EASSC_ALLOWED_DIRS")
			os.Exit(1)
		}
		logger.Warn().Msg("no allowed directories configured; only upload_files can ingest reports")
	}
	logger.Info().Strs("allowed_dirs", secMgr.AllowedDirectories()).Msg("security allow-list configured")

	limits := runtime.LimitsFromConfig(cfg)
	runtimeController := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(runtimeController)

	sessionMgr := sessions.NewManager(cfg.SessionTTL, cfg.SessionCleanupPeriod, runtimeController, nil).WithLogger(logger)
	sessionMgr.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sessionMgr.Close(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("session manager did not stop cleanly")
		}
	}()

	toolRegistry := registry.New()
	stats := telemetry.NewStats()
	uploadFilter := registry.NewUploadToolFilter(cfg.EnableUploads)

	srv := server.NewMCPServer(
		"EASSC Report Analysis Server",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(telemetry.BuildHooks(logger, stats)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
		server.WithToolFilter(func(ctx context.Context, tools []mcp.Tool) []mcp.Tool { return uploadFilter.FilterTools(ctx, tools) }),
	)

	registry.RegisterTools(srv, toolRegistry, &registry.Handlers{
		Sessions: sessionMgr,
		Security: secMgr,
		Limits:   limits,
		Scan: registry.ScanDefaults{
			ProductColumn:   cfg.ProductColumn,
			HeaderLookahead: cfg.HeaderLookahead,
			StrictNumbers:   cfg.StrictNumbers,
		},
		Budget:        registry.SummaryBudget{Model: cfg.Model, MaxTokens: cfg.SummaryTokenBudget},
		Stats:         stats,
		Registry:      toolRegistry,
		EnableUploads: cfg.EnableUploads,
	})

	logger.Info().
		Ctx(ctx).
		Str("version", version.Version()).
		Int("max_concurrent_requests", limits.MaxConcurrentRequests).
		Int("max_open_sessions", limits.MaxOpenSessions).
		Int("max_files_per_batch", limits.MaxFilesPerBatch).
		Int("model_context_size", registry.ContextWindow(cfg.Model)).
		Int("tools", len(toolRegistry.Catalog())).
		Bool("stdio", useStdio).
		Msg("server bootstrap configured")

	err = server.ServeStdio(srv, server.WithStdioContextFunc(func(c context.Context) context.Context {
		return logger.WithContext(c)
	}))
	if err != nil {
		logger.Error().Err(err).Msg("stdio server stopped")
	}
}

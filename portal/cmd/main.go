package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/moonfun/moonfun-portal/curve"
	"github.com/moonfun/moonfun-portal/imagecache"
	"github.com/moonfun/moonfun-portal/market"
	"github.com/moonfun/moonfun-portal/portal/config"
	"github.com/moonfun/moonfun-portal/portal/rpc"
	"github.com/moonfun/moonfun-portal/upload"
)

var log zerolog.Logger

func init() {
	// Initialize zerolog with console writer
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()

	// Share the logger with the other packages
	rpc.SetLogger(log)
	curve.SetLogger(log)
	upload.SetLogger(log)
	imagecache.SetLogger(log)
	market.SetLogger(log)
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "portal config file (.toml); empty uses environment variables")
	providersPath := flag.String("providers", "./providers.toml", "upload provider chain file")
	flag.Parse()

	log.Info().
		Str("config", *configPath).
		Str("providers", *providersPath).
		Msg("Starting Moonfun Portal")

	// Load the portal configuration (file or environment)
	var pathArg *string
	if *configPath != "" {
		pathArg = configPath
	}
	portalCfg, err := config.LoadPortalConfig(pathArg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load portal config")
	}

	// Bonding curve parameters
	params, err := portalCfg.CurveParams()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid curve parameters")
	}
	log.Info().
		Str("initial_price", params.InitialPrice.String()).
		Str("price_increment", params.PriceIncrement.String()).
		Str("creator_allocation", params.CreatorAllocation.String()).
		Uint32("slippage_bps", params.SlippageBps).
		Msg("Curve parameters loaded")

	// Build the upload provider chain from its config file
	chainLoader := config.NewChainLoader()
	chain, err := chainLoader.InitializeChain(*providersPath, portalCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build upload chain")
	}
	log.Info().Strs("providers", chain.Providers()).Msg("Upload chain initialized")

	// Image cache store
	cacheDir := portalCfg.CacheDir
	if cacheDir == "" {
		cacheDir = "./cache"
	}
	store, err := imagecache.NewFileStore(cacheDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open image cache")
	}

	// Market reader and watcher
	reader := market.NewRPCReader(portalCfg.RPCURL, portalCfg.BackupRPCURLs, portalCfg.IndexerURL)
	interval := market.DefaultPollInterval
	if portalCfg.PollSeconds > 0 {
		interval = time.Duration(portalCfg.PollSeconds) * time.Second
	}
	watcher := market.NewWatcher(reader, portalCfg.TokenAddress, interval, nil)
	watcher.Start()
	defer watcher.Stop()
	log.Info().
		Str("token", portalCfg.TokenAddress).
		Dur("interval", interval).
		Msg("Market watcher started")

	handler := &rpc.Handler{
		Chain:        chain,
		Params:       params,
		Watcher:      watcher,
		Store:        store,
		MaxDimension: portalCfg.CacheMaxDimension,
	}

	serverConfig := buildServerConfig(portalCfg)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := rpc.NewServer(ctx, serverConfig, handler)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	// Wait for shutdown signal
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}

// buildServerConfig converts the loaded PortalConfig to rpc.ServerConfig
func buildServerConfig(cfg *config.PortalConfig) *rpc.ServerConfig {
	serverConfig := &rpc.ServerConfig{
		Address:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		AllowedOrigins: cfg.AllowedOrigins,
		EnableMetrics:  cfg.UsePrometheus,
	}

	// Set rate limiting if configured
	if cfg.RatePerMinute > 0 {
		serverConfig.RatePerMinute = &cfg.RatePerMinute
	}
	if cfg.MaxConcurrentRequests > 0 {
		serverConfig.MaxConcurrentRequests = &cfg.MaxConcurrentRequests
	}

	// Set OpenTelemetry configuration if any telemetry is enabled
	if cfg.EnableTracing || cfg.EnableMetrics || cfg.EnableLogs || cfg.UsePrometheus {
		serverConfig.OTelConfig = &rpc.OTelConfig{
			ServiceName:     defaultString(cfg.ServiceName, "moonfun-portal"),
			ServiceVersion:  defaultString(cfg.ServiceVersion, "1.0.0"),
			Environment:     defaultString(cfg.Environment, "development"),
			EnableTracing:   cfg.EnableTracing,
			UseOTLPTraces:   cfg.UseOTLPTraces,
			OTLPTracesURL:   cfg.OTLPTracesURL,
			EnableMetrics:   cfg.EnableMetrics,
			UsePrometheus:   cfg.UsePrometheus,
			UseOTLPMetrics:  cfg.UseOTLPMetrics,
			OTLPMetricsURL:  cfg.OTLPMetricsURL,
			EnableLogs:      cfg.EnableLogs,
			UseOTLPLogs:     cfg.UseOTLPLogs,
			OTLPLogsURL:     cfg.OTLPLogsURL,
			InsecureOTLP:    cfg.InsecureOTLP,
			DevelopmentMode: cfg.DevelopmentMode,
		}
	}

	return serverConfig
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

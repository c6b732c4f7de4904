package config

// PortalConfig holds everything the portal process needs: the HTTP server
// knobs, the bonding curve parameters, upload limits, the image cache
// location, the market endpoints and the observability switches. Curve
// constants live here on purpose: deployed factories have shipped with
// different literals, so no package hardcodes them.
type PortalConfig struct {
	// Server
	Host                  string   `mapstructure:"host"`
	Port                  int      `mapstructure:"port"`
	AllowedOrigins        []string `mapstructure:"allowed_origins"`
	RatePerMinute         int      `mapstructure:"rate_per_minute"`
	MaxConcurrentRequests int      `mapstructure:"max_concurrent_requests"`

	// Bonding curve
	InitialPrice      string `mapstructure:"initial_price"`
	PriceIncrement    string `mapstructure:"price_increment"`
	CreatorAllocation string `mapstructure:"creator_allocation"`
	SlippageBps       uint32 `mapstructure:"slippage_bps"`

	// Upload
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
	ImgBBAPIKey   string `mapstructure:"imgbb_api_key"`

	// Image cache
	CacheDir          string `mapstructure:"cache_dir"`
	CacheMaxDimension int    `mapstructure:"cache_max_dimension"`

	// Market
	RPCURL        string   `mapstructure:"rpc_url"`
	BackupRPCURLs []string `mapstructure:"backup_rpc_urls"`
	IndexerURL    string   `mapstructure:"indexer_url"`
	TokenAddress  string   `mapstructure:"token_address"`
	PollSeconds   int      `mapstructure:"poll_seconds"`

	// Observability
	ServiceName     string `mapstructure:"service_name"`
	ServiceVersion  string `mapstructure:"service_version"`
	Environment     string `mapstructure:"environment"`
	EnableTracing   bool   `mapstructure:"enable_tracing"`
	UseOTLPTraces   bool   `mapstructure:"use_otlp_traces"`
	OTLPTracesURL   string `mapstructure:"otlp_traces_url"`
	EnableMetrics   bool   `mapstructure:"enable_metrics"`
	UsePrometheus   bool   `mapstructure:"use_prometheus"`
	UseOTLPMetrics  bool   `mapstructure:"use_otlp_metrics"`
	OTLPMetricsURL  string `mapstructure:"otlp_metrics_url"`
	EnableLogs      bool   `mapstructure:"enable_logs"`
	UseOTLPLogs     bool   `mapstructure:"use_otlp_logs"`
	OTLPLogsURL     string `mapstructure:"otlp_logs_url"`
	InsecureOTLP    bool   `mapstructure:"insecure_otlp"`
	DevelopmentMode bool   `mapstructure:"development_mode"`
}

// ProviderEntry describes one upload strategy in the provider chain file.
// The chain's provider set and ordering are data, not code: deployed
// revisions have reshuffled both often enough that they belong in config.
type ProviderEntry struct {
	// Type selects the wire shape: relay, catbox, keep, filehost, imgbb
	// or data-uri.
	Type string `toml:"type"`
	// Name overrides the provider's display name (filehost only requires it).
	Name string `toml:"name"`
	// Endpoint overrides the provider's default endpoint.
	Endpoint string `toml:"endpoint"`
	// Origin is prefixed onto relative src paths (filehost).
	Origin string `toml:"origin"`
	// URLPrefix validates plain-text responses (catbox).
	URLPrefix string `toml:"url_prefix"`
	// APIKey authenticates key-based hosts (imgbb).
	APIKey string `toml:"api_key"`
}

// ProviderChainConfig is the provider chain file's document root.
type ProviderChainConfig struct {
	Providers []ProviderEntry `toml:"provider"`
}

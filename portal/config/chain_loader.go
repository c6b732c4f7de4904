package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/moonfun/moonfun-portal/upload"
	"github.com/pelletier/go-toml/v2"
)

// ChainLoader loads the upload provider chain definition and converts it to
// the provider list the upload package iterates.
type ChainLoader struct{}

// NewChainLoader creates a new provider chain loader.
func NewChainLoader() *ChainLoader {
	return &ChainLoader{}
}

// LoadFromFile loads a provider chain config from a file.
func (l *ChainLoader) LoadFromFile(filePath string) (*ProviderChainConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider chain file: %w", err)
	}

	var chainConfig ProviderChainConfig

	if strings.HasSuffix(filePath, ".json") {
		if err := json.Unmarshal(data, &chainConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON provider chain: %w", err)
		}
	} else {
		if err := toml.Unmarshal(data, &chainConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML provider chain: %w", err)
		}
	}

	if len(chainConfig.Providers) == 0 {
		return nil, fmt.Errorf("provider chain file defines no providers")
	}
	return &chainConfig, nil
}

// BuildChain turns a chain definition into a ready upload.Chain. portalCfg
// supplies deployment-wide values an entry may omit (the imgbb key, the
// size ceiling).
func (l *ChainLoader) BuildChain(chainConfig *ProviderChainConfig, portalCfg *PortalConfig) (*upload.Chain, error) {
	providers := make([]upload.Provider, 0, len(chainConfig.Providers))

	for i, entry := range chainConfig.Providers {
		switch strings.ToLower(entry.Type) {
		case "catbox":
			if entry.Endpoint != "" {
				providers = append(providers, upload.NewCatboxWithEndpoint(entry.Endpoint, entry.URLPrefix, nil))
			} else {
				providers = append(providers, upload.NewCatbox())
			}
		case "keep":
			if entry.Endpoint != "" {
				providers = append(providers, upload.NewKeepWithEndpoint(entry.Endpoint, nil))
			} else {
				providers = append(providers, upload.NewKeep())
			}
		case "filehost":
			if entry.Name == "" || entry.Endpoint == "" || entry.Origin == "" {
				return nil, fmt.Errorf("provider %d: filehost requires name, endpoint and origin", i)
			}
			providers = append(providers, upload.NewFileHost(entry.Name, entry.Endpoint, entry.Origin, nil))
		case "imgbb":
			apiKey := entry.APIKey
			if apiKey == "" && portalCfg != nil {
				apiKey = portalCfg.ImgBBAPIKey
			}
			if entry.Endpoint != "" {
				providers = append(providers, upload.NewImgBBWithEndpoint(entry.Endpoint, apiKey, nil))
			} else {
				providers = append(providers, upload.NewImgBB(apiKey))
			}
		case "relay":
			if entry.Endpoint == "" {
				return nil, fmt.Errorf("provider %d: relay requires an endpoint", i)
			}
			providers = append(providers, upload.NewRelay(entry.Endpoint, nil))
		case "data-uri", "datauri":
			providers = append(providers, upload.NewDataURI())
		default:
			return nil, fmt.Errorf("provider %d: unknown type %q", i, entry.Type)
		}
	}

	limits := upload.DefaultLimits()
	if portalCfg != nil {
		limits = portalCfg.UploadLimits()
	}
	return upload.NewChain(limits, providers...), nil
}

// InitializeChain loads a chain file and builds the upload chain in one step.
func (l *ChainLoader) InitializeChain(filePath string, portalCfg *PortalConfig) (*upload.Chain, error) {
	chainConfig, err := l.LoadFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider chain: %w", err)
	}
	return l.BuildChain(chainConfig, portalCfg)
}

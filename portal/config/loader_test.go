package config_test

import (
	"testing"

	"github.com/moonfun/moonfun-portal/portal/config"
	"github.com/shopspring/decimal"
)

func TestLoadPortalConfig(t *testing.T) {
	path := "testdata/portal_config.toml"
	cfg, err := config.LoadPortalConfig(&path)
	if err != nil {
		t.Fatalf("failed to load portal config: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("expected host localhost, got %s", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.MaxImageBytes != 2097152 {
		t.Errorf("expected max_image_bytes 2097152, got %d", cfg.MaxImageBytes)
	}
	if cfg.TokenAddress != "0x00000000000000000000000000000000000000aa" {
		t.Errorf("unexpected token_address %s", cfg.TokenAddress)
	}
	if len(cfg.BackupRPCURLs) != 1 {
		t.Errorf("expected 1 backup rpc url, got %d", len(cfg.BackupRPCURLs))
	}
	if cfg.PollSeconds != 5 {
		t.Errorf("expected poll_seconds 5, got %d", cfg.PollSeconds)
	}
}

func TestCurveParamsFromConfig(t *testing.T) {
	path := "testdata/portal_config.toml"
	cfg, err := config.LoadPortalConfig(&path)
	if err != nil {
		t.Fatalf("failed to load portal config: %v", err)
	}

	params, err := cfg.CurveParams()
	if err != nil {
		t.Fatalf("failed to build curve params: %v", err)
	}
	if !params.InitialPrice.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("unexpected initial price %s", params.InitialPrice)
	}
	if params.SlippageBps != 200 {
		t.Errorf("expected slippage 200 bps, got %d", params.SlippageBps)
	}
}

func TestBadPortalConfigRejected(t *testing.T) {
	path := "testdata/bad_portal_config.toml"
	if _, err := config.LoadPortalConfig(&path); err == nil {
		t.Error("expected validation to fail for incomplete config")
	}
}

func TestNonTomlConfigRejected(t *testing.T) {
	path := "testdata/portal_config.yaml"
	if _, err := config.LoadPortalConfig(&path); err == nil {
		t.Error("expected error for non-toml config file")
	}
}

func TestLoadProviderChain(t *testing.T) {
	loader := config.NewChainLoader()
	chainConfig, err := loader.LoadFromFile("testdata/providers.toml")
	if err != nil {
		t.Fatalf("failed to load provider chain: %v", err)
	}
	if len(chainConfig.Providers) != 6 {
		t.Fatalf("expected 6 providers, got %d", len(chainConfig.Providers))
	}

	path := "testdata/portal_config.toml"
	portalCfg, err := config.LoadPortalConfig(&path)
	if err != nil {
		t.Fatalf("failed to load portal config: %v", err)
	}

	chain, err := loader.BuildChain(chainConfig, portalCfg)
	if err != nil {
		t.Fatalf("failed to build chain: %v", err)
	}

	names := chain.Providers()
	want := []string{"relay", "imgbb", "catbox", "keep.sh", "pics", "data-uri"}
	if len(names) != len(want) {
		t.Fatalf("expected %d providers, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("provider %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestUnknownProviderTypeRejected(t *testing.T) {
	loader := config.NewChainLoader()
	chainConfig, err := loader.LoadFromFile("testdata/bad_providers.toml")
	if err != nil {
		t.Fatalf("failed to load provider chain file: %v", err)
	}
	if _, err := loader.BuildChain(chainConfig, nil); err == nil {
		t.Error("expected unknown provider type to be rejected")
	}
}

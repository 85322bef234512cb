package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule.Interval != 1440*time.Minute {
		t.Errorf("expected 1440m interval, got %s", cfg.Schedule.Interval)
	}
	if cfg.Neevo.Timeout != 30*time.Second || cfg.Pricing.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeouts, got %s / %s", cfg.Neevo.Timeout, cfg.Pricing.Timeout)
	}
	if cfg.Neevo.APIURL != DefaultAPIURL {
		t.Errorf("unexpected api url %s", cfg.Neevo.APIURL)
	}
	if cfg.PricingURL() != "" {
		t.Errorf("expected pricing disabled, got %s", cfg.PricingURL())
	}
	if cfg.DataSource != "neevo" {
		t.Errorf("expected neevo data source, got %s", cfg.DataSource)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
neevo:
  username: alice@example.com
  password: from-file
pricing:
  state: ma
schedule:
  interval: 6h
`)
	t.Setenv("NEEVO_PASSWORD", "from-env")
	t.Setenv("SCAN_INTERVAL", "2h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Neevo.Username != "alice@example.com" {
		t.Errorf("unexpected username %q", cfg.Neevo.Username)
	}
	if cfg.Neevo.Password != "from-env" {
		t.Errorf("expected env password to win, got %q", cfg.Neevo.Password)
	}
	if cfg.Schedule.Interval != 2*time.Hour {
		t.Errorf("expected 2h interval, got %s", cfg.Schedule.Interval)
	}
	if !strings.HasSuffix(cfg.PricingURL(), "pet_pri_wfr_dcus_SMA_w.htm") {
		t.Errorf("unexpected pricing url %s", cfg.PricingURL())
	}
	if cfg.EntryID != DefaultEntryID("alice@example.com") {
		t.Errorf("expected derived entry id, got %s", cfg.EntryID)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "daily")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for invalid SCAN_INTERVAL")
	}
}

func TestPricingURL_ExplicitWins(t *testing.T) {
	cfg := &Config{}
	cfg.Pricing.URL = "https://example.com/price.htm"
	cfg.Pricing.State = "TX"
	if cfg.PricingURL() != "https://example.com/price.htm" {
		t.Errorf("expected explicit url, got %s", cfg.PricingURL())
	}
}

func TestPricingURLForState(t *testing.T) {
	u, ok := PricingURLForState("padd1a")
	if !ok || u != "https://www.eia.gov/dnav/pet/pet_pri_wfr_dcus_R1X_w.htm" {
		t.Errorf("unexpected url %q (ok=%v)", u, ok)
	}
	if _, ok := PricingURLForState("ZZ"); ok {
		t.Error("expected unknown state to fail")
	}
}

func TestDefaultEntryID_Stable(t *testing.T) {
	a := DefaultEntryID("Bob@Example.com")
	b := DefaultEntryID("bob@example.com")
	if a != b {
		t.Errorf("expected case-insensitive entry id, got %s vs %s", a, b)
	}
	if a == DefaultEntryID("carol@example.com") {
		t.Error("expected different accounts to get different ids")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{DataSource: "neevo", EntryID: "e1"}
		c.Neevo.Username = "u"
		c.Neevo.Password = "p"
		c.Neevo.Timeout = time.Second
		c.Pricing.Timeout = time.Second
		c.Schedule.Interval = time.Hour
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	c := valid()
	c.Neevo.Password = ""
	if err := c.Validate(); err == nil {
		t.Error("expected missing password to fail")
	}

	c = valid()
	c.Pricing.State = "ZZ"
	if err := c.Validate(); err == nil {
		t.Error("expected unknown pricing state to fail")
	}

	c = valid()
	c.Telegram.BotToken = "token"
	if err := c.Validate(); err == nil {
		t.Error("expected bot token without chat id to fail")
	}

	c = valid()
	c.DataSource = "mock"
	c.Neevo.Username = ""
	c.Neevo.Password = ""
	if err := c.Validate(); err != nil {
		t.Errorf("expected mock data source without credentials to pass, got %v", err)
	}

	c = valid()
	c.Schedule.Interval = time.Second
	if err := c.Validate(); err == nil {
		t.Error("expected sub-minute interval to fail")
	}
}

func TestLoad_MockSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "mock")
	t.Setenv("HTTP_TOKEN", "s3cret")
	cfg, err := Load(writeConfig(t, "http:\n  addr: \":9090\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EntryID != "mock" {
		t.Errorf("expected mock entry id, got %q", cfg.EntryID)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.HTTP.Token != "s3cret" {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected mock config to validate, got %v", err)
	}
}

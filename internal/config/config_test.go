package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	rate, ok := cfg.Rate("Suite")
	if !ok || rate.IntPart() != 4200 {
		t.Fatalf("expected Suite rate 4200, got %s (known=%v)", rate, ok)
	}
	if _, ok := cfg.Rate("Penthouse"); ok {
		t.Fatalf("unexpected rate for unknown room type")
	}
}

func TestFromYAMLRejectsBadSchedule(t *testing.T) {
	data := strings.Replace(GenerateDefault("Test"), `delay_sweep: "*/5 * * * *"`, `delay_sweep: "every now and then"`, 1)
	if _, err := FromYAML([]byte(data)); err == nil {
		t.Fatalf("expected schedule error")
	}
}

func TestFromYAMLRejectsNegativeRate(t *testing.T) {
	data := strings.Replace(GenerateDefault("Test"), "Standard: 1800", "Standard: -1", 1)
	if _, err := FromYAML([]byte(data)); err == nil {
		t.Fatalf("expected negative rate error")
	}
}

func TestLoadOptionalFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("load optional: %v", err)
	}
	if cfg.Hotel.Name != "Hotel" {
		t.Fatalf("expected default hotel name, got %q", cfg.Hotel.Name)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected missing config error from Load")
	}
	if err := os.WriteFile(filepath.Join(dir, "hotel.yml"), []byte(GenerateDefault("Casa Azul")), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Hotel.Name != "Casa Azul" {
		t.Fatalf("unexpected name %q", cfg.Hotel.Name)
	}
}

func TestValidateWebhooks(t *testing.T) {
	cfg := Default()
	cfg.Webhooks = []WebhookConfig{{Events: []string{"room.assign"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing url error")
	}
	cfg.Webhooks[0].URL = "http://127.0.0.1:9/hook"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid webhook rejected: %v", err)
	}
}

func TestRatesDecodeExactly(t *testing.T) {
	data := strings.Replace(GenerateDefault("Test"), "Suite: 4200", "Suite: 4199.99", 1)
	cfg, err := FromYAML([]byte(data))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	rate, ok := cfg.Rate("Suite")
	if !ok || rate.String() != "4199.99" {
		t.Fatalf("expected exact rate 4199.99, got %s", rate)
	}
	bad := strings.Replace(GenerateDefault("Test"), "Suite: 4200", "Suite: lots", 1)
	if _, err := FromYAML([]byte(bad)); err == nil {
		t.Fatalf("expected non-numeric rate to be rejected")
	}
}

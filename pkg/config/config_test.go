package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	if err := process(&cfg); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2 got %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 4000 || cfg.LLM.ClassifyMaxTokens != 300 {
		t.Fatalf("unexpected token limits %d/%d", cfg.LLM.MaxTokens, cfg.LLM.ClassifyMaxTokens)
	}
	if cfg.LLM.Model != "" {
		t.Fatalf("model must default per provider, got %q", cfg.LLM.Model)
	}
	if cfg.Evaluation.BatchPacing != 500*time.Millisecond {
		t.Fatalf("unexpected pacing %v", cfg.Evaluation.BatchPacing)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "cohere")
	var cfg Config
	if err := process(&cfg); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestWriteDSNFallsBackToRead(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{
		Host: "replica", Port: "5432", User: "ro", Password: "pw", Name: "crm", SSLMode: "disable",
	}}
	if got, want := cfg.GetWriteDSN(), cfg.GetReadDSN(); got != want {
		t.Fatalf("expected write DSN %q got %q", want, got)
	}

	cfg.Database.WriteHost = "primary"
	cfg.Database.WriteUser = "rw"
	want := "host=primary port=5432 user=rw password=pw dbname=crm sslmode=disable"
	if got := cfg.GetWriteDSN(); got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

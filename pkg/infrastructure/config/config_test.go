package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.Planning.TargetDays != 21 {
		t.Errorf("Expected target days 21, got %d", cfg.Planning.TargetDays)
	}
	if cfg.Planning.NumArticlesForExtra != 10 {
		t.Errorf("Expected 10 articles for extra, got %d", cfg.Planning.NumArticlesForExtra)
	}
	if cfg.Planning.Rounding != "half_up" {
		t.Errorf("Expected half_up rounding, got %s", cfg.Planning.Rounding)
	}
	if cfg.Planning.StaleAfterDays != 90 {
		t.Errorf("Expected 90 stale days, got %d", cfg.Planning.StaleAfterDays)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected text output, got %s", cfg.Output.Format)
	}
	if cfg.Log.Output != "stderr" {
		t.Errorf("Expected logs on stderr, got %s", cfg.Log.Output)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palletplan.yaml")
	yaml := `planning:
  target_days: 30
  rounding: half_even
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("PALLETPLAN_PLANNING_NUM_ARTICLES_FOR_EXTRA", "5")
	t.Setenv("PALLETPLAN_SERVER_ADDR", ":9090")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Planning.TargetDays != 30 {
		t.Errorf("Expected target days 30 from file, got %d", cfg.Planning.TargetDays)
	}
	if cfg.Planning.Rounding != "half_even" {
		t.Errorf("Expected half_even from file, got %s", cfg.Planning.Rounding)
	}
	if cfg.Planning.NumArticlesForExtra != 5 {
		t.Errorf("Expected 5 articles from environment, got %d", cfg.Planning.NumArticlesForExtra)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected :9090 from environment, got %s", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Log.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false); err == nil {
		t.Errorf("Expected error for missing config file")
	}
}

func TestToPlanningConfig(t *testing.T) {
	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	cfg.Planning.Rounding = "bankers"
	cfg.Planning.Workers = 4

	planning, err := cfg.Planning.ToPlanningConfig()
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if planning.Rounding != entities.RoundHalfEven {
		t.Errorf("Expected half-even rounding, got %s", planning.Rounding)
	}
	if planning.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", planning.Workers)
	}
}

func TestToPlanningConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PlanningConfig)
		wantCfg bool
	}{
		{"target days too high", func(c *PlanningConfig) { c.TargetDays = 91 }, true},
		{"zero extra articles", func(c *PlanningConfig) { c.NumArticlesForExtra = 0 }, true},
		{"unknown rounding", func(c *PlanningConfig) { c.Rounding = "ceiling" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := PlanningConfig{TargetDays: 21, NumArticlesForExtra: 10, Rounding: "half_up", StaleAfterDays: 90}
			tt.mutate(&cfg)

			_, err := cfg.ToPlanningConfig()
			if err == nil {
				t.Fatalf("Expected error")
			}
			var configErr *entities.ConfigError
			if errors.As(err, &configErr) != tt.wantCfg {
				t.Errorf("Expected ConfigError=%v, got %v", tt.wantCfg, err)
			}
		})
	}
}

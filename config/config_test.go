package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Market.Symbol != "SPY" {
		t.Errorf("expected default symbol SPY, got %q", cfg.Market.Symbol)
	}
	if cfg.Binomial.Steps != 1000 || cfg.Binomial.Model != "crr" {
		t.Errorf("unexpected binomial defaults: %+v", cfg.Binomial)
	}
	if cfg.MonteCarlo.Paths != 100000 || cfg.MonteCarlo.Steps != 252 {
		t.Errorf("unexpected monte carlo defaults: %+v", cfg.MonteCarlo)
	}
	if cfg.Solver.LowerVol >= cfg.Solver.UpperVol {
		t.Errorf("default solver bracket is inverted: %+v", cfg.Solver)
	}
	if cfg.Solver.MaxIterations <= 0 || cfg.Solver.Tolerance <= 0 {
		t.Errorf("default solver bounds must be positive: %+v", cfg.Solver)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("a missing config file is not an error, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected pristine defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("market:\n  symbol: AAPL\n  min_dte: 10\nbinomial:\n  steps: 2500\n  model: lr\n")
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Market.Symbol != "AAPL" || cfg.Market.MinDTE != 10 {
		t.Errorf("market overrides not applied: %+v", cfg.Market)
	}
	if cfg.Binomial.Steps != 2500 || cfg.Binomial.Model != "lr" {
		t.Errorf("binomial overrides not applied: %+v", cfg.Binomial)
	}
	// Untouched sections keep their defaults.
	if cfg.Solver != Default().Solver {
		t.Errorf("solver defaults lost: %+v", cfg.Solver)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := ioutil.WriteFile(path, []byte("market: ["), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

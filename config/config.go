package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// MarketConfig selects the universe to scan and the already-resolved market
// inputs the pricing core cannot fetch itself.
type MarketConfig struct {
	Symbol        string  `yaml:"symbol"`
	RiskFreeRate  float64 `yaml:"risk_free_rate"`
	DividendYield float64 `yaml:"dividend_yield"`
	MinDTE        int     `yaml:"min_dte"`
	MaxDTE        int     `yaml:"max_dte"`
}

// BinomialConfig configures the lattice pricer.
type BinomialConfig struct {
	Steps int    `yaml:"steps"`
	Model string `yaml:"model"`
	Style string `yaml:"style"`
}

// MonteCarloConfig configures the path simulator.
type MonteCarloConfig struct {
	Paths int    `yaml:"paths"`
	Steps int    `yaml:"steps"`
	Seed  uint64 `yaml:"seed"` // 0 means entropy-seeded
}

// SolverConfig configures the implied-volatility root search.
type SolverConfig struct {
	LowerVol      float64 `yaml:"lower_vol"`
	UpperVol      float64 `yaml:"upper_vol"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// ArbitrageConfig configures the mispricing screens.
type ArbitrageConfig struct {
	TransactionCost float64 `yaml:"transaction_cost"`
	MinThreshold    float64 `yaml:"min_threshold"`
}

// GreeksConfig configures the finite-difference estimator.
type GreeksConfig struct {
	BumpSize float64 `yaml:"bump_size"`
}

type Config struct {
	Market     MarketConfig     `yaml:"market"`
	Binomial   BinomialConfig   `yaml:"binomial"`
	MonteCarlo MonteCarloConfig `yaml:"monte_carlo"`
	Solver     SolverConfig     `yaml:"solver"`
	Arbitrage  ArbitrageConfig  `yaml:"arbitrage"`
	Greeks     GreeksConfig     `yaml:"greeks"`
}

// Default returns the engine defaults used when no config file is present.
func Default() Config {
	return Config{
		Market: MarketConfig{
			Symbol:       "SPY",
			RiskFreeRate: 0.0379,
			MinDTE:       5,
			MaxDTE:       45,
		},
		Binomial: BinomialConfig{
			Steps: 1000,
			Model: "crr",
			Style: "american",
		},
		MonteCarlo: MonteCarloConfig{
			Paths: 100000,
			Steps: 252,
		},
		Solver: SolverConfig{
			LowerVol:      1e-6,
			UpperVol:      5,
			Tolerance:     1e-6,
			MaxIterations: 100,
		},
		Arbitrage: ArbitrageConfig{
			TransactionCost: 0,
			MinThreshold:    0.01,
		},
		Greeks: GreeksConfig{
			BumpSize: 0.01,
		},
	}
}

// Load reads a YAML config over the defaults. A missing file is not an
// error: the defaults come back unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %s", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %s", path, err)
	}

	return cfg, nil
}

package models

import (
	"errors"
	"math"
	"testing"
)

func TestMonteCarloSeededRunsAreReproducible(t *testing.T) {
	opt, _ := NewOption(Call, 100, 100, 1, 0.2, 0.05, 0)

	first, _ := NewMonteCarlo(opt, 50, 20000)
	first.Seed(7)
	second, _ := NewMonteCarlo(opt, 50, 20000)
	second.Seed(7)

	p1, se1 := first.Price()
	p2, se2 := second.Price()

	if p1 != p2 || se1 != se2 {
		t.Errorf("same seed must reproduce the run exactly: (%f, %f) vs (%f, %f)", p1, se1, p2, se2)
	}
}

func TestMonteCarloConvergesToAnalytic(t *testing.T) {
	opt, _ := NewOption(Call, 100, 100, 1, 0.2, 0.05, 0)
	analytic := NewBlackScholes(opt).Price()

	mc, err := NewMonteCarlo(opt, 50, 200000)
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	mc.Seed(42)

	price, stdErr := mc.Price()
	if stdErr <= 0 || stdErr > 0.1 {
		t.Fatalf("implausible standard error %f", stdErr)
	}
	if diff := math.Abs(price - analytic); diff > 5*stdErr {
		t.Errorf("estimate %f is %f away from analytic %f, more than 5 standard errors (%f)",
			price, diff, analytic, stdErr)
	}
}

func TestMonteCarloPutConvergesToAnalytic(t *testing.T) {
	opt, _ := NewOption(Put, 100, 100, 1, 0.2, 0.05, 0)
	analytic := NewBlackScholes(opt).Price()

	mc, _ := NewMonteCarlo(opt, 50, 200000)
	mc.Seed(42)

	price, stdErr := mc.Price()
	if diff := math.Abs(price - analytic); diff > 5*stdErr {
		t.Errorf("put estimate %f is more than 5 standard errors from analytic %f", price, analytic)
	}
}

func TestStandardErrorShrinksWithPaths(t *testing.T) {
	opt, _ := NewOption(Call, 100, 100, 1, 0.2, 0.05, 0)

	small, _ := NewMonteCarlo(opt, 20, 10000)
	small.Seed(1)
	large, _ := NewMonteCarlo(opt, 20, 160000)
	large.Seed(1)

	_, seSmall := small.Price()
	_, seLarge := large.Price()

	// A 16x path count should shrink the standard error by about 4x.
	ratio := seSmall / seLarge
	if ratio < 2.5 || ratio > 6.5 {
		t.Errorf("standard error should scale like 1/sqrt(paths): ratio %f", ratio)
	}
}

func TestMonteCarloConfigValidation(t *testing.T) {
	opt, _ := NewOption(Call, 100, 100, 1, 0.2, 0.05, 0)

	if _, err := NewMonteCarlo(opt, 0, 1000); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero steps: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewMonteCarlo(opt, 252, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero paths: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewMonteCarlo(opt, 252, -1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative paths: expected ErrInvalidConfig, got %v", err)
	}
}

package models

import (
	"errors"
	"math"
	"testing"
)

func europeanCall(t *testing.T) *Option {
	t.Helper()
	opt, err := NewOption(Call, 100, 100, 1, 0.2, 0.05, 0)
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	return opt
}

func TestCRRConvergesToAnalytic(t *testing.T) {
	opt := europeanCall(t)
	analytic := NewBlackScholes(opt).Price()

	binomial, err := NewBinomial(opt, European, 5000)
	if err != nil {
		t.Fatalf("binomial: %v", err)
	}
	price, err := binomial.Price("crr")
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	if math.Abs(price-analytic) > 1e-3 {
		t.Errorf("CRR N=5000: expected %f within 1e-3, got %f", analytic, price)
	}
}

func TestJarrowRuddConvergesToAnalytic(t *testing.T) {
	opt := europeanCall(t)
	analytic := NewBlackScholes(opt).Price()

	binomial, _ := NewBinomial(opt, European, 2000)
	price, err := binomial.Price("jr")
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	if math.Abs(price-analytic) > 1e-2 {
		t.Errorf("JR N=2000: expected %f within 1e-2, got %f", analytic, price)
	}
}

func TestLeisenReimerConvergesFast(t *testing.T) {
	opt := europeanCall(t)
	analytic := NewBlackScholes(opt).Price()

	// LR reaches with a few hundred steps what CRR needs thousands for.
	binomial, _ := NewBinomial(opt, European, 501)
	price, err := binomial.Price("lr")
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	if math.Abs(price-analytic) > 1e-4 {
		t.Errorf("LR N=501: expected %f within 1e-4, got %f", analytic, price)
	}
}

func TestCalibrationsAgree(t *testing.T) {
	opt := europeanCall(t)

	prices := make(map[string]float64)
	for _, model := range []string{"crr", "jr", "lr"} {
		binomial, _ := NewBinomial(opt, European, 1001)
		price, err := binomial.Price(model)
		if err != nil {
			t.Fatalf("%s: %v", model, err)
		}
		prices[model] = price
	}

	if math.Abs(prices["crr"]-prices["jr"]) > 0.05 || math.Abs(prices["crr"]-prices["lr"]) > 0.05 {
		t.Errorf("calibrations disagree on the same contract: %v", prices)
	}
}

func TestAmericanPutCarriesPremium(t *testing.T) {
	opt, _ := NewOption(Put, 100, 100, 1, 0.2, 0.05, 0)

	american, _ := NewBinomial(opt, American, 1000)
	european, _ := NewBinomial(opt, European, 1000)

	americanPrice, err := american.Price("crr")
	if err != nil {
		t.Fatalf("american: %v", err)
	}
	europeanPrice, err := european.Price("crr")
	if err != nil {
		t.Fatalf("european: %v", err)
	}

	// With r well above zero the early-exercise right is strictly valuable.
	if americanPrice < europeanPrice {
		t.Errorf("american put %f must dominate european put %f", americanPrice, europeanPrice)
	}
	if americanPrice-europeanPrice < 1e-4 {
		t.Errorf("expected a strict early-exercise premium, got %g", americanPrice-europeanPrice)
	}
}

func TestAmericanCallMatchesEuropeanWithoutDividends(t *testing.T) {
	opt := europeanCall(t)

	american, _ := NewBinomial(opt, American, 500)
	european, _ := NewBinomial(opt, European, 500)

	americanPrice, _ := american.Price("crr")
	europeanPrice, _ := european.Price("crr")

	// Early exercise of a call is never optimal without dividends.
	if math.Abs(americanPrice-europeanPrice) > 1e-9 {
		t.Errorf("american call %f should equal european call %f", americanPrice, europeanPrice)
	}
}

func TestInvalidSelections(t *testing.T) {
	opt := europeanCall(t)

	if _, err := NewBinomial(opt, OptionStyle("bermudan"), 100); !errors.Is(err, ErrInvalidModelSelection) {
		t.Errorf("unknown style: expected ErrInvalidModelSelection, got %v", err)
	}
	if _, err := NewBinomial(opt, European, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero steps: expected ErrInvalidConfig, got %v", err)
	}

	binomial, _ := NewBinomial(opt, European, 100)
	if _, err := binomial.Price("trinomial"); !errors.Is(err, ErrInvalidModelSelection) {
		t.Errorf("unknown model: expected ErrInvalidModelSelection, got %v", err)
	}
}

func TestCalibrationFor(t *testing.T) {
	for name, want := range map[string]Calibration{"crr": CRR{}, "jr": JarrowRudd{}, "lr": LeisenReimer{}} {
		got, err := CalibrationFor(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Errorf("%s: expected %T, got %T", name, want, got)
		}
	}
	if _, err := CalibrationFor("CRR"); err != nil {
		t.Errorf("model names are case-insensitive, got %v", err)
	}
}

package models

import (
	"errors"
	"testing"
)

func TestNewOptionValid(t *testing.T) {
	opt, err := NewOption(Call, 100, 100, 1, 0.2, 0.05, 0)
	if err != nil {
		t.Fatalf("expected valid contract, got %v", err)
	}
	if opt.Type != Call || opt.S != 100 || opt.K != 100 || opt.T != 1 || opt.Sigma != 0.2 || opt.R != 0.05 || opt.Q != 0 {
		t.Fatalf("contract fields not preserved: %+v", opt)
	}
}

func TestNewOptionRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name       string
		optionType OptionType
		s, k, t    float64
		sigma      float64
		q          float64
	}{
		{"unknown type", OptionType("straddle"), 100, 100, 1, 0.2, 0},
		{"zero spot", Call, 0, 100, 1, 0.2, 0},
		{"negative strike", Put, 100, -5, 1, 0.2, 0},
		{"negative maturity", Call, 100, 100, -1, 0.2, 0},
		{"zero volatility", Put, 100, 100, 1, 0, 0},
		{"negative dividend yield", Call, 100, 100, 1, 0.2, -0.01},
	}

	for _, c := range cases {
		_, err := NewOption(c.optionType, c.s, c.k, c.t, c.sigma, 0.05, c.q)
		if !errors.Is(err, ErrInvalidContract) {
			t.Errorf("%s: expected ErrInvalidContract, got %v", c.name, err)
		}
	}
}

func TestIntrinsic(t *testing.T) {
	call, _ := NewOption(Call, 110, 100, 1, 0.2, 0.05, 0)
	if got := call.Intrinsic(110); got != 10 {
		t.Errorf("call intrinsic at 110: expected 10, got %f", got)
	}
	if got := call.Intrinsic(90); got != 0 {
		t.Errorf("call intrinsic at 90: expected 0, got %f", got)
	}

	put, _ := NewOption(Put, 110, 100, 1, 0.2, 0.05, 0)
	if got := put.Intrinsic(90); got != 10 {
		t.Errorf("put intrinsic at 90: expected 10, got %f", got)
	}
	if got := put.Intrinsic(110); got != 0 {
		t.Errorf("put intrinsic at 110: expected 0, got %f", got)
	}
}

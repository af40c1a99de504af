package models

import "fmt"

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

type OptionStyle string

const (
	American OptionStyle = "american"
	European OptionStyle = "european"
)

// Option holds the economic terms of a single option contract. An Option is
// only constructed through NewOption and is never mutated afterwards: pricers
// that need a perturbed contract build a fresh one instead of writing into a
// shared instance.
type Option struct {
	Type  OptionType
	S     float64 // spot price of the underlying
	K     float64 // strike price
	T     float64 // time to maturity in years
	Sigma float64 // volatility
	R     float64 // risk-free rate
	Q     float64 // dividend yield
}

// NewOption validates the economic terms and returns the contract, or an
// error wrapping ErrInvalidContract.
func NewOption(optionType OptionType, s, k, t, sigma, r, q float64) (*Option, error) {
	if optionType != Call && optionType != Put {
		return nil, fmt.Errorf("%w: option type %q must be %q or %q", ErrInvalidContract, optionType, Call, Put)
	}
	if s <= 0 {
		return nil, fmt.Errorf("%w: stock price must be greater than 0", ErrInvalidContract)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: strike price must be greater than 0", ErrInvalidContract)
	}
	if t < 0 {
		return nil, fmt.Errorf("%w: time to maturity must be positive", ErrInvalidContract)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: volatility must be greater than 0", ErrInvalidContract)
	}
	if q < 0 {
		return nil, fmt.Errorf("%w: dividend yield must not be negative", ErrInvalidContract)
	}

	return &Option{
		Type:  optionType,
		S:     s,
		K:     k,
		T:     t,
		Sigma: sigma,
		R:     r,
		Q:     q,
	}, nil
}

// Intrinsic returns the exercise value of the contract at spot price s.
func (o *Option) Intrinsic(s float64) float64 {
	return intrinsic(o.Type, s, o.K)
}

package models

import (
	"fmt"
	"math"
	"strings"
)

// Calibration produces the up factor, down factor and risk-neutral up
// probability for one lattice step of width dt. The three parameterizations
// below are interchangeable inputs to the same backward-induction walk.
type Calibration interface {
	Calibrate(opt *Option, n int, dt float64) (u, d, p float64)
}

// CRR is the Cox-Ross-Rubinstein parameterization.
type CRR struct{}

func (CRR) Calibrate(opt *Option, n int, dt float64) (float64, float64, float64) {
	u := math.Exp(opt.Sigma * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp((opt.R-opt.Q)*dt) - d) / (u - d)
	return u, d, p
}

// JarrowRudd fixes p at one half and centers the moves on the risk-neutral
// drift.
type JarrowRudd struct{}

func (JarrowRudd) Calibrate(opt *Option, n int, dt float64) (float64, float64, float64) {
	drift := (opt.R - opt.Q - 0.5*opt.Sigma*opt.Sigma) * dt
	vol := opt.Sigma * math.Sqrt(dt)
	u := math.Exp(drift + vol)
	d := math.Exp(drift - vol)
	return u, d, 0.5
}

// LeisenReimer matches the terminal step to the Black-Scholes d1/d2 through a
// Peizer-Pratt inversion of the binomial CDF, which converges to the analytic
// price much faster than CRR as n grows.
type LeisenReimer struct{}

func (LeisenReimer) Calibrate(opt *Option, n int, dt float64) (float64, float64, float64) {
	bs := NewBlackScholes(opt)
	d1 := bs.d1()
	d2 := bs.d2()

	p := peizerPratt(d2, n)
	pPrime := peizerPratt(d1, n)

	growth := math.Exp((opt.R - opt.Q) * dt)
	u := growth * pPrime / p
	d := growth * (1 - pPrime) / (1 - p)
	return u, d, p
}

// peizerPratt inverts the Peizer-Pratt approximation of the binomial CDF at z.
func peizerPratt(z float64, n int) float64 {
	nf := float64(n)
	a := z / (nf + 1.0/3 + 0.1/(nf+1))
	return 0.5 + 0.5*math.Copysign(1, z)*math.Sqrt(1-math.Exp(-a*a*(nf+1.0/6)))
}

// CalibrationFor maps a model name onto its calibration. Unknown names fail
// with ErrInvalidModelSelection.
func CalibrationFor(model string) (Calibration, error) {
	switch strings.ToLower(model) {
	case "crr":
		return CRR{}, nil
	case "jr":
		return JarrowRudd{}, nil
	case "lr":
		return LeisenReimer{}, nil
	}
	return nil, fmt.Errorf("%w: unknown binomial model %q, must be crr, jr or lr", ErrInvalidModelSelection, model)
}

// Binomial prices an option on a discrete-time lattice of N steps, supporting
// early exercise for American-style contracts.
type Binomial struct {
	Option *Option
	Style  OptionStyle
	N      int

	dt float64
}

func NewBinomial(option *Option, style OptionStyle, n int) (*Binomial, error) {
	if style != American && style != European {
		return nil, fmt.Errorf("%w: option style %q must be %q or %q", ErrInvalidModelSelection, style, American, European)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: number of steps must be greater than 0", ErrInvalidConfig)
	}

	return &Binomial{
		Option: option,
		Style:  style,
		N:      n,
		dt:     option.T / float64(n),
	}, nil
}

// Price prices the contract under the named calibration (crr, jr or lr).
func (b *Binomial) Price(model string) (float64, error) {
	calibration, err := CalibrationFor(model)
	if err != nil {
		return 0, err
	}
	return b.PriceWith(calibration), nil
}

// PriceWith prices the contract under an explicit calibration.
func (b *Binomial) PriceWith(calibration Calibration) float64 {
	u, d, p := calibration.Calibrate(b.Option, b.N, b.dt)
	return b.backwardInduction(u, d, p)
}

// backwardInduction builds terminal prices S*u^j*d^(N-j) and walks the lattice
// back to time zero. At each interior node an American contract takes the
// better of continuation and immediate exercise; a European one always
// continues.
func (b *Binomial) backwardInduction(u, d, p float64) float64 {
	opt := b.Option

	st := make([]float64, b.N+1)
	payoffs := make([]float64, b.N+1)
	for j := 0; j <= b.N; j++ {
		st[j] = opt.S * math.Pow(u, float64(j)) * math.Pow(d, float64(b.N-j))
		payoffs[j] = intrinsic(opt.Type, st[j], opt.K)
	}

	discount := math.Exp(-opt.R * b.dt)
	for step := b.N - 1; step >= 0; step-- {
		for j := 0; j <= step; j++ {
			continuation := discount * (p*payoffs[j+1] + (1-p)*payoffs[j])

			if b.Style == American {
				// Dividing out one down move recovers this node's
				// stock price at the earlier step.
				st[j] /= d
				payoffs[j] = math.Max(intrinsic(opt.Type, st[j], opt.K), continuation)
			} else {
				payoffs[j] = continuation
			}
		}
	}

	return payoffs[0]
}

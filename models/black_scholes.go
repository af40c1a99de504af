package models

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// BlackScholes prices a European option in closed form.
type BlackScholes struct {
	Option *Option
}

func NewBlackScholes(option *Option) *BlackScholes {
	return &BlackScholes{Option: option}
}

func (bs *BlackScholes) d1() float64 {
	o := bs.Option
	return (math.Log(o.S/o.K) + (o.R-o.Q+0.5*o.Sigma*o.Sigma)*o.T) / (o.Sigma * math.Sqrt(o.T))
}

func (bs *BlackScholes) d2() float64 {
	return bs.d1() - bs.Option.Sigma*math.Sqrt(bs.Option.T)
}

// Price returns the Black-Scholes price of the contract. An expired contract
// (T = 0) is worth exactly its intrinsic value.
func (bs *BlackScholes) Price() float64 {
	o := bs.Option
	return BSPrice(o.Type, o.S, o.K, o.T, o.Sigma, o.R, o.Q)
}

// PriceAt reprices under perturbed parameters without constructing a new
// pricer. The implied volatility solver leans on this to walk sigma.
func (bs *BlackScholes) PriceAt(s, k, t, sigma, r, q float64) float64 {
	return BSPrice(bs.Option.Type, s, k, t, sigma, r, q)
}

// VegaAt is the Vega counterpart of PriceAt.
func (bs *BlackScholes) VegaAt(s, k, t, sigma, r, q float64) float64 {
	return BSVega(s, k, t, sigma, r, q)
}

// BSPrice is the Black-Scholes formula over bare parameters.
func BSPrice(optionType OptionType, s, k, t, sigma, r, q float64) float64 {
	if t == 0 {
		return intrinsic(optionType, s, k)
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	if optionType == Call {
		return s*math.Exp(-q*t)*stdNormal.CDF(d1) - k*math.Exp(-r*t)*stdNormal.CDF(d2)
	}
	return k*math.Exp(-r*t)*stdNormal.CDF(-d2) - s*math.Exp(-q*t)*stdNormal.CDF(-d1)
}

// BSVega is the Black-Scholes Vega over bare parameters.
func BSVega(s, k, t, sigma, r, q float64) float64 {
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	return s * math.Exp(-q*t) * stdNormal.Prob(d1) * sqrtT
}

// Delta is the sensitivity of the price to the spot.
func (bs *BlackScholes) Delta() float64 {
	o := bs.Option
	if o.Type == Call {
		return math.Exp(-o.Q*o.T) * stdNormal.CDF(bs.d1())
	}
	return math.Exp(-o.Q*o.T) * (stdNormal.CDF(bs.d1()) - 1)
}

// Gamma is the sensitivity of Delta to the spot.
func (bs *BlackScholes) Gamma() float64 {
	o := bs.Option
	return math.Exp(-o.Q*o.T) * stdNormal.Prob(bs.d1()) / (o.S * o.Sigma * math.Sqrt(o.T))
}

// Vega is the sensitivity of the price to volatility.
func (bs *BlackScholes) Vega() float64 {
	o := bs.Option
	return BSVega(o.S, o.K, o.T, o.Sigma, o.R, o.Q)
}

// Theta is the sensitivity of the price to the passage of time. The sign
// convention is the market one: a decaying long option carries negative Theta.
func (bs *BlackScholes) Theta() float64 {
	o := bs.Option
	d1, d2 := bs.d1(), bs.d2()

	decay := -(o.S * math.Exp(-o.Q*o.T) * stdNormal.Prob(d1) * o.Sigma) / (2 * math.Sqrt(o.T))
	if o.Type == Call {
		return decay -
			o.R*o.K*math.Exp(-o.R*o.T)*stdNormal.CDF(d2) +
			o.Q*o.S*math.Exp(-o.Q*o.T)*stdNormal.CDF(d1)
	}
	return decay +
		o.R*o.K*math.Exp(-o.R*o.T)*stdNormal.CDF(-d2) -
		o.Q*o.S*math.Exp(-o.Q*o.T)*stdNormal.CDF(-d1)
}

// Rho is the sensitivity of the price to the risk-free rate.
func (bs *BlackScholes) Rho() float64 {
	o := bs.Option
	if o.Type == Call {
		return o.K * o.T * math.Exp(-o.R*o.T) * stdNormal.CDF(bs.d2())
	}
	return -o.K * o.T * math.Exp(-o.R*o.T) * stdNormal.CDF(-bs.d2())
}

// Greeks bundles the five first-order sensitivities of an option price.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Greeks reports all sensitivities in market convention: Vega per 1% vol
// move, Theta per calendar day, Rho per 1% rate move.
func (bs *BlackScholes) Greeks() Greeks {
	return Greeks{
		Delta: bs.Delta(),
		Gamma: bs.Gamma(),
		Vega:  bs.Vega() / 100,
		Theta: bs.Theta() / 365,
		Rho:   bs.Rho() / 100,
	}
}

// PDE evaluates the Black-Scholes partial differential equation at the
// contract's parameters. The residual is zero, up to rounding, for any price
// produced by this pricer.
func (bs *BlackScholes) PDE() float64 {
	o := bs.Option
	return bs.Theta() +
		0.5*o.Sigma*o.Sigma*o.S*o.S*bs.Gamma() +
		o.R*o.S*bs.Delta() -
		o.R*bs.Price()
}

func intrinsic(optionType OptionType, s, k float64) float64 {
	if optionType == Call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

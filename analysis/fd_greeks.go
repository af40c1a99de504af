package analysis

import (
	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/models"
)

// FiniteDifferenceGreeks estimates sensitivities by central differences
// around a base contract, repricing the lattice model with one field bumped
// at a time. It substitutes for analytic Greeks wherever no closed form
// exists, American exercise above all. Each bump builds a fresh validated
// contract; the base contract is never touched.
//
// The bump size h is the caller's trade-off: large h leaks truncation error,
// tiny h leaks rounding error. No automatic step-size selection is done.
type FiniteDifferenceGreeks struct {
	Option *models.Option
	Style  models.OptionStyle
	Model  string
	N      int
}

func NewFiniteDifferenceGreeks(option *models.Option, style models.OptionStyle, model string, n int) (*FiniteDifferenceGreeks, error) {
	if _, err := models.CalibrationFor(model); err != nil {
		return nil, err
	}
	if _, err := models.NewBinomial(option, style, n); err != nil {
		return nil, err
	}

	return &FiniteDifferenceGreeks{
		Option: option,
		Style:  style,
		Model:  model,
		N:      n,
	}, nil
}

// priceAt reprices the lattice model under a contract with the given fields,
// defaulting every parameter to the base contract's value.
func (fd *FiniteDifferenceGreeks) priceAt(s, t, sigma, r float64) (float64, error) {
	opt, err := models.NewOption(fd.Option.Type, s, fd.Option.K, t, sigma, r, fd.Option.Q)
	if err != nil {
		return 0, err
	}
	binomial, err := models.NewBinomial(opt, fd.Style, fd.N)
	if err != nil {
		return 0, err
	}
	return binomial.Price(fd.Model)
}

func (fd *FiniteDifferenceGreeks) Delta(h float64) (float64, error) {
	o := fd.Option
	up, err := fd.priceAt(o.S+h, o.T, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	down, err := fd.priceAt(o.S-h, o.T, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	return (up - down) / (2 * h), nil
}

func (fd *FiniteDifferenceGreeks) Gamma(h float64) (float64, error) {
	o := fd.Option
	up, err := fd.priceAt(o.S+h, o.T, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	mid, err := fd.priceAt(o.S, o.T, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	down, err := fd.priceAt(o.S-h, o.T, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	return (up - 2*mid + down) / (h * h), nil
}

func (fd *FiniteDifferenceGreeks) Vega(h float64) (float64, error) {
	o := fd.Option
	up, err := fd.priceAt(o.S, o.T, o.Sigma+h, o.R)
	if err != nil {
		return 0, err
	}
	down, err := fd.priceAt(o.S, o.T, o.Sigma-h, o.R)
	if err != nil {
		return 0, err
	}
	return (up - down) / (2 * h), nil
}

// Theta here is the raw derivative of price with respect to maturity; the
// market decay convention is its negative.
func (fd *FiniteDifferenceGreeks) Theta(h float64) (float64, error) {
	o := fd.Option
	up, err := fd.priceAt(o.S, o.T+h, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	down, err := fd.priceAt(o.S, o.T-h, o.Sigma, o.R)
	if err != nil {
		return 0, err
	}
	return (up - down) / (2 * h), nil
}

func (fd *FiniteDifferenceGreeks) Rho(h float64) (float64, error) {
	o := fd.Option
	up, err := fd.priceAt(o.S, o.T, o.Sigma, o.R+h)
	if err != nil {
		return 0, err
	}
	down, err := fd.priceAt(o.S, o.T, o.Sigma, o.R-h)
	if err != nil {
		return 0, err
	}
	return (up - down) / (2 * h), nil
}

// Greeks estimates all five sensitivities with one shared bump size.
func (fd *FiniteDifferenceGreeks) Greeks(h float64) (models.Greeks, error) {
	delta, err := fd.Delta(h)
	if err != nil {
		return models.Greeks{}, err
	}
	gamma, err := fd.Gamma(h)
	if err != nil {
		return models.Greeks{}, err
	}
	vega, err := fd.Vega(h)
	if err != nil {
		return models.Greeks{}, err
	}
	theta, err := fd.Theta(h)
	if err != nil {
		return models.Greeks{}, err
	}
	rho, err := fd.Rho(h)
	if err != nil {
		return models.Greeks{}, err
	}

	return models.Greeks{
		Delta: delta,
		Gamma: gamma,
		Vega:  vega,
		Theta: theta,
		Rho:   rho,
	}, nil
}

package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/models"
)

var (
	// ErrNonConvergence reports a solve that exhausted its iteration budget.
	// It is a recoverable outcome, not a fault: the caller must branch on it
	// rather than treat the result as a volatility.
	ErrNonConvergence = errors.New("implied volatility did not converge")

	// ErrNoRootInBracket reports that the market price lies outside the
	// price range spanned by the volatility bracket, so no root exists.
	ErrNoRootInBracket = errors.New("no root in volatility bracket")
)

// Below this Vega the price surface is flat in sigma and a Newton step would
// divide by nearly zero.
const vegaCutoff = 1e-8

const brentEps = 2.220446049250313e-16

// SolverConfig bounds an implied-volatility solve.
type SolverConfig struct {
	LowerVol      float64
	UpperVol      float64
	Tolerance     float64
	MaxIterations int
}

// DefaultSolverConfig mirrors the usual market-fitting bounds: vol in
// [1e-6, 5], price tolerance 1e-6, at most 100 iterations.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		LowerVol:      1e-6,
		UpperVol:      5,
		Tolerance:     1e-6,
		MaxIterations: 100,
	}
}

// ImpliedVolatilitySolver inverts the analytic pricer: given a market price
// and a contract without volatility, it finds the sigma under which the model
// reproduces the market. A successful solve is recorded on the solver itself,
// never on any caller-owned contract.
type ImpliedVolatilitySolver struct {
	MarketPrice float64
	OptionType  models.OptionType
	S           float64
	K           float64
	T           float64
	R           float64
	Q           float64
	Config      SolverConfig

	sigma  float64
	solved bool
}

func NewImpliedVolatilitySolver(marketPrice float64, optionType models.OptionType, s, k, t, r, q float64, config SolverConfig) (*ImpliedVolatilitySolver, error) {
	if marketPrice <= 0 {
		return nil, fmt.Errorf("%w: market price must be greater than 0", models.ErrInvalidContract)
	}
	// Reuse contract validation for the economic fields; the sigma passed
	// here is a placeholder and is discarded.
	if _, err := models.NewOption(optionType, s, k, t, 0.2, r, q); err != nil {
		return nil, err
	}
	if config.LowerVol <= 0 {
		return nil, fmt.Errorf("%w: lower volatility bound must be greater than 0", models.ErrInvalidConfig)
	}
	if config.UpperVol <= config.LowerVol {
		return nil, fmt.Errorf("%w: upper volatility bound must be greater than lower bound", models.ErrInvalidConfig)
	}
	if config.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: maximum iterations must be greater than 0", models.ErrInvalidConfig)
	}
	if config.Tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance must not be negative", models.ErrInvalidConfig)
	}

	return &ImpliedVolatilitySolver{
		MarketPrice: marketPrice,
		OptionType:  optionType,
		S:           s,
		K:           k,
		T:           t,
		R:           r,
		Q:           q,
		Config:      config,
	}, nil
}

func (iv *ImpliedVolatilitySolver) objective(sigma float64) float64 {
	return models.BSPrice(iv.OptionType, iv.S, iv.K, iv.T, sigma, iv.R, iv.Q) - iv.MarketPrice
}

// NewtonRaphson iterates sigma from the initial guess using the analytic
// Vega, clamping each step into the volatility bracket. It stops early with
// ErrNonConvergence when Vega flattens out or the iteration budget runs dry.
func (iv *ImpliedVolatilitySolver) NewtonRaphson(initial float64) (float64, error) {
	sigma := initial
	for i := 0; i < iv.Config.MaxIterations; i++ {
		residual := iv.objective(sigma)
		if math.Abs(residual) < iv.Config.Tolerance {
			iv.sigma = sigma
			iv.solved = true
			return sigma, nil
		}

		vega := models.BSVega(iv.S, iv.K, iv.T, sigma, iv.R, iv.Q)
		if math.Abs(vega) < vegaCutoff {
			break
		}

		sigma -= residual / vega
		sigma = math.Min(math.Max(sigma, iv.Config.LowerVol), iv.Config.UpperVol)
	}
	return 0, ErrNonConvergence
}

// Brent runs a bracketed derivative-free root search over the volatility
// bracket. When both endpoint residuals share a sign there is provably no
// root in range and the solve fails immediately with ErrNoRootInBracket;
// otherwise convergence is guaranteed. Preferred over Newton-Raphson when
// Vega is unreliable: deep in or out of the money, or near expiry.
func (iv *ImpliedVolatilitySolver) Brent() (float64, error) {
	a, b := iv.Config.LowerVol, iv.Config.UpperVol
	fa, fb := iv.objective(a), iv.objective(b)

	if (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("%w: [%g, %g]", ErrNoRootInBracket, a, b)
	}

	root, err := brent(iv.objective, a, b, fa, fb, iv.Config.Tolerance, iv.Config.MaxIterations)
	if err != nil {
		return 0, err
	}

	iv.sigma = root
	iv.solved = true
	return root, nil
}

// ImpliedVolatility returns the last successfully solved volatility.
func (iv *ImpliedVolatilitySolver) ImpliedVolatility() (float64, bool) {
	return iv.sigma, iv.solved
}

// brent is the Van Wijngaarden-Dekker-Brent method: inverse quadratic
// interpolation where it helps, secant where it can, bisection where it must.
// Callers guarantee that fa and fb straddle zero.
func brent(f func(float64) float64, a, b, fa, fb, tol float64, maxIterations int) (float64, error) {
	c, fc := b, fb
	var d, e float64

	for i := 0; i < maxIterations; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*brentEps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}
	return 0, ErrNonConvergence
}

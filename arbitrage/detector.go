package arbitrage

import (
	"fmt"
	"math"

	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/models"
)

// Detector screens market quotes against model prices and static no-arbitrage
// relations. Transaction costs are charged proportionally on the notional of
// each leg; opportunities below MinThreshold after costs are discarded.
type Detector struct {
	TransactionCost float64
	MinThreshold    float64
}

func NewDetector(transactionCost, minThreshold float64) *Detector {
	return &Detector{
		TransactionCost: transactionCost,
		MinThreshold:    minThreshold,
	}
}

// Opportunity is one detected mispricing and the trade that captures it.
type Opportunity struct {
	Exists          bool     `json:"arbitrage_exists"`
	Profit          float64  `json:"profit"`
	Strategy        string   `json:"strategy,omitempty"`
	Actions         []string `json:"actions,omitempty"`
	InitialCashflow float64  `json:"initial_cashflow,omitempty"`
}

// ParityResult reports a put-call parity check.
type ParityResult struct {
	Strike    float64 `json:"strike"`
	CallPrice float64 `json:"call_price"`
	PutPrice  float64 `json:"put_price"`
	Opportunity
}

// PutCallParity checks C + K*e^(-rT) against P + S. A gap wider than costs
// plus the threshold is capturable by a conversion or reverse conversion.
func (d *Detector) PutCallParity(callPrice, putPrice, s, k, t, r float64) ParityResult {
	pvStrike := k * math.Exp(-r*t)
	diff := (callPrice + pvStrike) - (putPrice + s)

	cost := d.TransactionCost * (callPrice + putPrice + s + pvStrike)
	profit := math.Abs(diff) - cost

	result := ParityResult{
		Strike:    k,
		CallPrice: callPrice,
		PutPrice:  putPrice,
		Opportunity: Opportunity{
			Exists: profit >= d.MinThreshold,
			Profit: profit,
		},
	}

	if !result.Exists {
		return result
	}

	if diff > 0 {
		result.Strategy = "Conversion (call is overpriced)"
		result.Actions = []string{
			"Buy 1 put option",
			"Buy 1 share of stock",
			"Sell 1 call option",
			fmt.Sprintf("Lend $%.2f at risk-free rate %.2f%%", pvStrike, r*100),
		}
		result.InitialCashflow = diff
	} else {
		result.Strategy = "Reverse conversion (put is overpriced)"
		result.Actions = []string{
			"Buy 1 call option",
			fmt.Sprintf("Borrow $%.2f at risk-free rate %.2f%%", pvStrike, r*100),
			"Sell 1 put option",
			"Sell 1 share of stock",
		}
		result.InitialCashflow = -diff
	}

	return result
}

// BoxSpread checks the four-leg box at strikes k1 < k2: its maturity payoff
// is k2-k1 with certainty, so its cost must equal the discounted payoff.
func (d *Detector) BoxSpread(c1, c2, p1, p2, k1, k2, t, r float64) (Opportunity, error) {
	if k1 >= k2 {
		return Opportunity{}, fmt.Errorf("%w: k1 must be strictly less than k2", models.ErrInvalidContract)
	}
	if t <= 0 {
		return Opportunity{}, fmt.Errorf("%w: time to maturity must be positive", models.ErrInvalidContract)
	}

	initialCost := (c1 - c2) + (p2 - p1)
	payoff := k2 - k1

	diff := math.Exp(-r*t)*payoff - initialCost
	cost := d.TransactionCost * (c1 + c2 + p1 + p2)
	profit := math.Abs(diff) - cost

	result := Opportunity{
		Exists: profit >= d.MinThreshold,
		Profit: profit,
	}

	if !result.Exists {
		return result, nil
	}

	if diff > 0 {
		result.Strategy = "Buy the box"
		result.Actions = []string{
			fmt.Sprintf("Buy call at strike K1 = %g", k1),
			fmt.Sprintf("Sell call at strike K2 = %g", k2),
			fmt.Sprintf("Sell put at strike K1 = %g", k1),
			fmt.Sprintf("Buy put at strike K2 = %g", k2),
		}
		result.InitialCashflow = -initialCost
	} else {
		result.Strategy = "Sell the box"
		result.Actions = []string{
			fmt.Sprintf("Sell call at strike K1 = %g", k1),
			fmt.Sprintf("Buy call at strike K2 = %g", k2),
			fmt.Sprintf("Buy put at strike K1 = %g", k1),
			fmt.Sprintf("Sell put at strike K2 = %g", k2),
		}
		result.InitialCashflow = initialCost
	}

	return result, nil
}

// ModelResult reports a market-versus-model comparison.
type ModelResult struct {
	MarketPrice float64 `json:"market_price"`
	ModelPrice  float64 `json:"model_price"`
	Delta       float64 `json:"delta"`
	Opportunity
}

// MarketVsModel compares the quoted price with the Black-Scholes price and
// proposes the delta-hedged trade on a wide enough gap.
func (d *Detector) MarketVsModel(marketPrice float64, opt *models.Option) ModelResult {
	bs := models.NewBlackScholes(opt)
	modelPrice := bs.Price()
	delta := bs.Delta()

	diff := marketPrice - modelPrice
	cost := d.TransactionCost * (marketPrice + math.Abs(delta)*opt.S)
	profit := math.Abs(diff) - cost

	result := ModelResult{
		MarketPrice: marketPrice,
		ModelPrice:  modelPrice,
		Delta:       delta,
		Opportunity: Opportunity{
			Exists: profit >= d.MinThreshold,
			Profit: profit,
		},
	}

	if !result.Exists {
		return result
	}

	hedgeCashflow := delta*opt.S - marketPrice
	if diff > 0 {
		result.Strategy = "Sell rich option, delta-hedge"
		result.Actions = []string{
			fmt.Sprintf("Sell 1 %s option", opt.Type),
			fmt.Sprintf("Buy %.4f shares of stock", delta),
		}
		result.InitialCashflow = -hedgeCashflow
	} else {
		result.Strategy = "Buy cheap option, delta-hedge"
		result.Actions = []string{
			fmt.Sprintf("Buy 1 %s option", opt.Type),
			fmt.Sprintf("Sell %.4f shares of stock", delta),
		}
		result.InitialCashflow = hedgeCashflow
	}

	return result
}

// BoundsResult reports a static bound check.
type BoundsResult struct {
	MarketPrice float64 `json:"market_price"`
	LowerBound  float64 `json:"lower_bound"`
	UpperBound  float64 `json:"upper_bound"`
	Violation   string  `json:"violation,omitempty"`
	Opportunity
}

// CheckOptionBounds verifies the static no-arbitrage bounds on an option
// quote. Calls share one pair of bounds; European and American puts differ
// because an American put can be exercised for K immediately.
func (d *Detector) CheckOptionBounds(optionPrice float64, style models.OptionStyle, optionType models.OptionType, s, k, t, r, q float64) BoundsResult {
	var lower, upper float64
	if optionType == models.Call {
		lower = math.Max(0, s*math.Exp(-q*t)-k*math.Exp(-r*t))
		upper = s * math.Exp(-q*t)
	} else if style == models.European {
		lower = math.Max(0, k*math.Exp(-r*t)-s*math.Exp(-q*t))
		upper = k * math.Exp(-r*t)
	} else {
		lower = math.Max(0, k-s*math.Exp(-q*t))
		upper = k
	}

	result := BoundsResult{
		MarketPrice: optionPrice,
		LowerBound:  lower,
		UpperBound:  upper,
	}

	cost := d.TransactionCost * optionPrice
	if optionPrice < lower-cost-d.MinThreshold {
		result.Exists = true
		result.Profit = lower - optionPrice - cost
		result.Violation = "option price is below lower bound"
		result.Actions = []string{fmt.Sprintf("Buy %s option", optionType)}
	} else if optionPrice > upper+cost+d.MinThreshold {
		result.Exists = true
		result.Profit = optionPrice - upper - cost
		result.Violation = "option price is above upper bound"
		result.Actions = []string{fmt.Sprintf("Sell %s option", optionType)}
	}

	return result
}

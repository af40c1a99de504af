package marketdata

// Quotes is the markets/quotes response envelope.
type Quotes struct {
	Quotes struct {
		Quote Quote `json:"quote"`
	} `json:"quotes"`
}

// Quote carries the underlying's last traded price.
type Quote struct {
	Symbol string  `json:"symbol"`
	Last   float64 `json:"last"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Volume int     `json:"volume"`
}

type OptionExpirations struct {
	Expirations struct {
		Expiration []struct {
			Date           string `json:"date"`
			ContractSize   int    `json:"contract_size"`
			ExpirationType string `json:"expiration_type"`
			Strikes        struct {
				Strike []float64 `json:"strike"`
			} `json:"strikes"`
		} `json:"expiration"`
	} `json:"expirations"`
}

// Contract is one listed option quote: the strike plus market prices and the
// exchange-supplied implied volatilities, which is exactly the per-contract
// data the pricing core expects from upstream.
type Contract struct {
	Symbol         string  `json:"symbol"`
	OptionType     string  `json:"option_type"`
	Strike         float64 `json:"strike"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Volume         int     `json:"volume"`
	OpenInterest   int     `json:"open_interest"`
	ExpirationDate string  `json:"expiration_date"`
	Greeks         struct {
		Delta  float64 `json:"delta"`
		Gamma  float64 `json:"gamma"`
		Theta  float64 `json:"theta"`
		Vega   float64 `json:"vega"`
		Rho    float64 `json:"rho"`
		BidIv  float64 `json:"bid_iv"`
		MidIv  float64 `json:"mid_iv"`
		AskIv  float64 `json:"ask_iv"`
		SmvVol float64 `json:"smv_vol"`
	} `json:"greeks"`
}

// Mid is the quote midpoint, used as the observed market price.
func (c Contract) Mid() float64 {
	return (c.Bid + c.Ask) / 2
}

type OptionChain struct {
	Options struct {
		Option []Contract `json:"option"`
	} `json:"options"`
}

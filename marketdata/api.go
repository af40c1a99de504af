package marketdata

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"
)

func get(apiURL, token string) ([]byte, error) {
	u, err := url.ParseRequestURI(apiURL)
	if err != nil {
		return nil, fmt.Errorf("bad request URL: %s", err)
	}

	client := &http.Client{}
	r, _ := http.NewRequest("GET", u.String(), nil)
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	r.Header.Add("Accept", "application/json")

	resp, err := client.Do(r)
	if err != nil {
		return nil, fmt.Errorf("request failed: %s", err)
	}
	defer resp.Body.Close()

	responseData, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response data: %s", err)
	}

	return responseData, nil
}

// GET_LAST_PRICE fetches the underlying's last traded price.
func GET_LAST_PRICE(symbol, token string) (float64, error) {
	apiURL := fmt.Sprintf("https://api.tradier.com/v1/markets/quotes?symbols=%s", symbol)

	responseData, err := get(apiURL, token)
	if err != nil {
		return 0, err
	}

	quotes := &Quotes{}
	if err := json.Unmarshal(responseData, quotes); err != nil {
		return 0, fmt.Errorf("failed to unmarshal quote response data: %s", err)
	}

	if quotes.Quotes.Quote.Last <= 0 {
		return 0, fmt.Errorf("no last price for %s", symbol)
	}

	return quotes.Quotes.Quote.Last, nil
}

// GET_OPTIONS_CHAIN fetches, per expiration between minDTE and maxDTE days
// out, the listed contracts with greeks and implied volatilities attached.
// The result maps expiration date (2006-01-02) to its chain.
func GET_OPTIONS_CHAIN(symbol, token string, minDTE, maxDTE int) (map[string]*OptionChain, error) {
	expirationsURL := fmt.Sprintf("https://api.tradier.com/v1/markets/options/expirations?symbol=%s&includeAllRoots=true&strikes=true&contractSize=true&expirationType=true", symbol)

	expirationsData, err := get(expirationsURL, token)
	if err != nil {
		return nil, err
	}

	expirations := &OptionExpirations{}
	if err := json.Unmarshal(expirationsData, expirations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal expirations response data: %s", err)
	}

	chainMap := make(map[string]*OptionChain)
	today := time.Now()

	for _, expiration := range expirations.Expirations.Expiration {
		expirationTime, err := time.Parse("2006-01-02", expiration.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expiration date: %s", err)
		}

		dte := int(expirationTime.Sub(today).Hours() / 24)
		if dte < minDTE || dte > maxDTE {
			continue
		}

		chainURL := fmt.Sprintf("https://api.tradier.com/v1/markets/options/chains?symbol=%s&expiration=%s&greeks=true", symbol, expiration.Date)
		chainData, err := get(chainURL, token)
		if err != nil {
			return nil, err
		}

		chain := &OptionChain{}
		if err := json.Unmarshal(chainData, chain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chain response data: %s", err)
		}

		chainMap[expiration.Date] = chain
	}

	return chainMap, nil
}

// TimeToMaturity converts an expiration date into year-fraction time from
// now, floored at one calendar day so expiring contracts stay priceable.
func TimeToMaturity(expirationDate string, now time.Time) (float64, error) {
	expirationTime, err := time.Parse("2006-01-02", expirationDate)
	if err != nil {
		return 0, fmt.Errorf("failed to parse expiration date: %s", err)
	}

	years := expirationTime.Sub(now).Hours() / 24 / 365
	if years < 1.0/365 {
		years = 1.0 / 365
	}
	return years, nil
}

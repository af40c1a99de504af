package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/analysis"
	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/arbitrage"
	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/config"
	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/marketdata"
	"github.com/DeeshyData/Options-Pricing-Engine-and-Arbitrage-Detection-Tool/models"
	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"
)

type job struct {
	contract   marketdata.Contract
	expiration string
	maturity   float64
}

// ContractReport is everything the engine derives for one listed contract.
type ContractReport struct {
	Symbol          string                 `json:"symbol"`
	OptionType      string                 `json:"option_type"`
	Strike          float64                `json:"strike"`
	ExpirationDate  string                 `json:"expiration_date"`
	MarketPrice     float64                `json:"market_price"`
	MarketIV        float64                `json:"market_iv"`
	AnalyticPrice   float64                `json:"analytic_price"`
	BinomialPrice   float64                `json:"binomial_price"`
	MonteCarloPrice float64                `json:"monte_carlo_price"`
	MonteCarloSE    float64                `json:"monte_carlo_se"`
	SolvedIV        float64                `json:"solved_iv,omitempty"`
	IVMethod        string                 `json:"iv_method,omitempty"`
	Greeks          models.Greeks          `json:"greeks"`
	LatticeGreeks   models.Greeks          `json:"lattice_greeks"`
	ModelCheck      arbitrage.ModelResult  `json:"model_check"`
	BoundsCheck     arbitrage.BoundsResult `json:"bounds_check"`
}

// ParityReport is one flagged put-call pair, located by expiration.
type ParityReport struct {
	ExpirationDate string `json:"expiration_date"`
	arbitrage.ParityResult
}

// Report is the full scan output written to disk.
type Report struct {
	Symbol        string           `json:"symbol"`
	SpotPrice     float64          `json:"spot_price"`
	RiskFreeRate  float64          `json:"risk_free_rate"`
	DividendYield float64          `json:"dividend_yield"`
	GeneratedAt   string           `json:"generated_at"`
	Contracts     []ContractReport `json:"contracts"`
	ParityChecks  []ParityReport   `json:"parity_checks"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}
	token := os.Getenv("TRADIER_KEY")

	cfgPath := os.Getenv("ENGINE_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	fmt.Printf("Fetching market data for %s\n", cfg.Market.Symbol)

	spot, err := marketdata.GET_LAST_PRICE(cfg.Market.Symbol, token)
	if err != nil {
		log.Fatalf("Error fetching last price for %s: %s", cfg.Market.Symbol, err)
	}

	chain, err := marketdata.GET_OPTIONS_CHAIN(cfg.Market.Symbol, token, cfg.Market.MinDTE, cfg.Market.MaxDTE)
	if err != nil {
		log.Fatalf("Error fetching options chain for %s: %s", cfg.Market.Symbol, err)
	}

	fmt.Printf("Last price for %s: %.2f\n", cfg.Market.Symbol, spot)
	fmt.Printf("Risk-free rate: %.4f\n", cfg.Market.RiskFreeRate)
	fmt.Printf("Expirations in range: %d\n", len(chain))

	jobs := generateJobs(chain, time.Now())
	fmt.Printf("Total contracts to price: %d\n", len(jobs))
	if len(jobs) == 0 {
		fmt.Println("No priceable contracts found. Check min_dte/max_dte and the symbol.")
		return
	}

	numWorkers := workerCount()
	fmt.Printf("Using %d CPUs\n", numWorkers)

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(jobs)),
		mpb.PrependDecorators(
			decor.Name("Pricing"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	contracts := processJobs(jobs, cfg, spot, numWorkers, bar)
	p.Wait()

	sort.Slice(contracts, func(i, j int) bool {
		if contracts[i].ExpirationDate != contracts[j].ExpirationDate {
			return contracts[i].ExpirationDate < contracts[j].ExpirationDate
		}
		if contracts[i].Strike != contracts[j].Strike {
			return contracts[i].Strike < contracts[j].Strike
		}
		return contracts[i].OptionType < contracts[j].OptionType
	})

	parityChecks := runParityChecks(chain, cfg, spot, time.Now())

	flagged := 0
	for _, c := range contracts {
		if c.ModelCheck.Exists || c.BoundsCheck.Exists {
			flagged++
		}
	}
	fmt.Printf("Priced %d contracts, %d flagged by the detector, %d parity pairs checked\n",
		len(contracts), flagged, len(parityChecks))

	report := Report{
		Symbol:        cfg.Market.Symbol,
		SpotPrice:     spot,
		RiskFreeRate:  cfg.Market.RiskFreeRate,
		DividendYield: cfg.Market.DividendYield,
		GeneratedAt:   time.Now().Format(time.RFC3339),
		Contracts:     contracts,
		ParityChecks:  parityChecks,
	}

	jreport, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Printf("Error marshalling report: %s\n", err.Error())
		return
	}

	f := "report.json"
	if err := ioutil.WriteFile(f, jreport, 0644); err != nil {
		fmt.Printf("Error writing to file %s: %s\n", f, err.Error())
		return
	}

	fmt.Printf("Successfully wrote %d contract reports to %s\n", len(contracts), f)
}

func workerCount() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts <= 0 {
		counts = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(counts)
	return counts
}

func generateJobs(chain map[string]*marketdata.OptionChain, now time.Time) []job {
	var jobs []job
	for expiration, optionChain := range chain {
		maturity, err := marketdata.TimeToMaturity(expiration, now)
		if err != nil {
			fmt.Printf("Error parsing expiration date %s: %v\n", expiration, err)
			continue
		}

		for _, contract := range optionChain.Options.Option {
			// A contract with no two-sided quote or no exchange IV cannot
			// be priced against the market.
			if contract.Mid() <= 0 || contract.Greeks.MidIv <= 0 {
				continue
			}
			jobs = append(jobs, job{contract: contract, expiration: expiration, maturity: maturity})
		}
	}
	return jobs
}

func processJobs(jobs []job, cfg config.Config, spot float64, numWorkers int, bar *mpb.Bar) []ContractReport {
	reports := make([]ContractReport, len(jobs))
	keep := make([]bool, len(jobs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, numWorkers)

	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer bar.Increment()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			report, err := priceContract(jobs[i], cfg, spot)
			if err != nil {
				fmt.Printf("Error pricing %s: %s\n", jobs[i].contract.Symbol, err)
				return
			}
			reports[i] = report
			keep[i] = true
		}(i)
	}
	wg.Wait()

	out := make([]ContractReport, 0, len(jobs))
	for i, ok := range keep {
		if ok {
			out = append(out, reports[i])
		}
	}
	return out
}

func priceContract(j job, cfg config.Config, spot float64) (ContractReport, error) {
	optionType := models.OptionType(j.contract.OptionType)
	marketPrice := j.contract.Mid()

	opt, err := models.NewOption(optionType, spot, j.contract.Strike, j.maturity,
		j.contract.Greeks.MidIv, cfg.Market.RiskFreeRate, cfg.Market.DividendYield)
	if err != nil {
		return ContractReport{}, err
	}

	bs := models.NewBlackScholes(opt)

	binomial, err := models.NewBinomial(opt, models.OptionStyle(cfg.Binomial.Style), cfg.Binomial.Steps)
	if err != nil {
		return ContractReport{}, err
	}
	binomialPrice, err := binomial.Price(cfg.Binomial.Model)
	if err != nil {
		return ContractReport{}, err
	}

	mc, err := models.NewMonteCarlo(opt, cfg.MonteCarlo.Steps, cfg.MonteCarlo.Paths)
	if err != nil {
		return ContractReport{}, err
	}
	if cfg.MonteCarlo.Seed != 0 {
		mc.Seed(cfg.MonteCarlo.Seed)
	}
	mcPrice, mcSE := mc.Price()

	fd, err := analysis.NewFiniteDifferenceGreeks(opt, models.OptionStyle(cfg.Binomial.Style),
		cfg.Binomial.Model, cfg.Binomial.Steps)
	if err != nil {
		return ContractReport{}, err
	}
	// Near expiry a maturity bump can step below zero; the lattice greeks
	// are best-effort and report zero rather than dropping the contract.
	latticeGreeks, _ := fd.Greeks(cfg.Greeks.BumpSize)

	detector := arbitrage.NewDetector(cfg.Arbitrage.TransactionCost, cfg.Arbitrage.MinThreshold)

	report := ContractReport{
		Symbol:          j.contract.Symbol,
		OptionType:      j.contract.OptionType,
		Strike:          j.contract.Strike,
		ExpirationDate:  j.expiration,
		MarketPrice:     marketPrice,
		MarketIV:        j.contract.Greeks.MidIv,
		AnalyticPrice:   bs.Price(),
		BinomialPrice:   binomialPrice,
		MonteCarloPrice: mcPrice,
		MonteCarloSE:    mcSE,
		Greeks:          bs.Greeks(),
		LatticeGreeks:   latticeGreeks,
		ModelCheck:      detector.MarketVsModel(marketPrice, opt),
		BoundsCheck: detector.CheckOptionBounds(marketPrice, models.OptionStyle(cfg.Binomial.Style),
			optionType, spot, j.contract.Strike, j.maturity, cfg.Market.RiskFreeRate, cfg.Market.DividendYield),
	}

	solved, method := solveIV(marketPrice, optionType, opt, cfg)
	report.SolvedIV = solved
	report.IVMethod = method

	return report, nil
}

// solveIV backs the implied volatility out of the market mid, preferring
// Brent and falling back to Newton-Raphson from the exchange IV. A contract
// whose quote sits outside the attainable price range simply reports no IV.
func solveIV(marketPrice float64, optionType models.OptionType, opt *models.Option, cfg config.Config) (float64, string) {
	solver, err := analysis.NewImpliedVolatilitySolver(marketPrice, optionType,
		opt.S, opt.K, opt.T, opt.R, opt.Q, analysis.SolverConfig{
			LowerVol:      cfg.Solver.LowerVol,
			UpperVol:      cfg.Solver.UpperVol,
			Tolerance:     cfg.Solver.Tolerance,
			MaxIterations: cfg.Solver.MaxIterations,
		})
	if err != nil {
		return 0, ""
	}

	if sigma, err := solver.Brent(); err == nil {
		return sigma, "brent"
	}
	if sigma, err := solver.NewtonRaphson(opt.Sigma); err == nil {
		return sigma, "newton-raphson"
	}
	return 0, ""
}

// runParityChecks pairs calls and puts by strike within each expiration and
// screens the pairs against put-call parity.
func runParityChecks(chain map[string]*marketdata.OptionChain, cfg config.Config, spot float64, now time.Time) []ParityReport {
	detector := arbitrage.NewDetector(cfg.Arbitrage.TransactionCost, cfg.Arbitrage.MinThreshold)

	var results []ParityReport
	for expiration, optionChain := range chain {
		maturity, err := marketdata.TimeToMaturity(expiration, now)
		if err != nil {
			continue
		}

		calls := make(map[float64]float64)
		puts := make(map[float64]float64)
		for _, contract := range optionChain.Options.Option {
			if contract.Mid() <= 0 {
				continue
			}
			switch contract.OptionType {
			case "call":
				calls[contract.Strike] = contract.Mid()
			case "put":
				puts[contract.Strike] = contract.Mid()
			}
		}

		strikes := make([]float64, 0, len(calls))
		for strike := range calls {
			if _, ok := puts[strike]; ok {
				strikes = append(strikes, strike)
			}
		}
		sort.Float64s(strikes)

		for _, strike := range strikes {
			result := detector.PutCallParity(calls[strike], puts[strike], spot, strike,
				maturity, cfg.Market.RiskFreeRate)
			if result.Exists {
				results = append(results, ParityReport{ExpirationDate: expiration, ParityResult: result})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return math.Abs(results[i].Profit) > math.Abs(results[j].Profit)
	})
	return results
}

package models

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// Paths are simulated in fixed-size chunks so that a seeded run draws the
// same numbers per path regardless of how many workers pick up the chunks.
const pathChunkSize = 4096

var rngPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(uint64(rand.Int63())))
	},
}

// MonteCarlo prices a European option by simulating terminal prices under
// geometric Brownian motion in the risk-neutral measure.
type MonteCarlo struct {
	Option *Option
	NSteps int
	NPaths int

	seed   uint64
	seeded bool
}

func NewMonteCarlo(option *Option, nSteps, nPaths int) (*MonteCarlo, error) {
	if nSteps <= 0 {
		return nil, fmt.Errorf("%w: number of steps must be greater than 0", ErrInvalidConfig)
	}
	if nPaths <= 0 {
		return nil, fmt.Errorf("%w: number of simulation paths must be greater than 0", ErrInvalidConfig)
	}

	return &MonteCarlo{
		Option: option,
		NSteps: nSteps,
		NPaths: nPaths,
	}, nil
}

// Seed pins the simulation's random source, making runs reproducible. Without
// a seed each run draws from a pooled, entropy-seeded source.
func (mc *MonteCarlo) Seed(seed uint64) {
	mc.seed = seed
	mc.seeded = true
}

// Price returns the discounted sample-mean price estimate together with its
// standard error (sample standard deviation over sqrt of the path count).
func (mc *MonteCarlo) Price() (price, stdErr float64) {
	payoffs := mc.simulatePayoffs()
	price = stat.Mean(payoffs, nil)
	stdErr = stat.StdDev(payoffs, nil) / math.Sqrt(float64(mc.NPaths))
	return price, stdErr
}

// simulatePayoffs fans the path chunks out over the available CPUs and
// collects one discounted payoff per path, indexed by path so that the
// result is independent of scheduling.
func (mc *MonteCarlo) simulatePayoffs() []float64 {
	opt := mc.Option
	dt := opt.T / float64(mc.NSteps)
	drift := (opt.R - opt.Q - 0.5*opt.Sigma*opt.Sigma) * dt
	diffusion := opt.Sigma * math.Sqrt(dt)
	discount := math.Exp(-opt.R * opt.T)

	payoffs := make([]float64, mc.NPaths)

	numChunks := (mc.NPaths + pathChunkSize - 1) / pathChunkSize
	chunks := make(chan int, numChunks)
	for c := 0; c < numChunks; c++ {
		chunks <- c
	}
	close(chunks)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > numChunks {
		numWorkers = numChunks
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range chunks {
				rng := mc.chunkRNG(c)

				start := c * pathChunkSize
				end := start + pathChunkSize
				if end > mc.NPaths {
					end = mc.NPaths
				}
				for i := start; i < end; i++ {
					terminal := mc.terminalPrice(drift, diffusion, rng)
					payoffs[i] = discount * intrinsic(opt.Type, terminal, opt.K)
				}

				if !mc.seeded {
					rngPool.Put(rng)
				}
			}
		}()
	}
	wg.Wait()

	return payoffs
}

// chunkRNG returns the random source for one chunk of paths: a deterministic
// per-chunk stream when seeded, a pooled source otherwise.
func (mc *MonteCarlo) chunkRNG(chunk int) *rand.Rand {
	if mc.seeded {
		return rand.New(rand.NewSource(mc.seed + uint64(chunk)))
	}
	return rngPool.Get().(*rand.Rand)
}

// terminalPrice walks one GBM path of NSteps log-returns and returns the
// terminal stock price.
func (mc *MonteCarlo) terminalPrice(drift, diffusion float64, rng *rand.Rand) float64 {
	logPrice := math.Log(mc.Option.S)
	for i := 0; i < mc.NSteps; i++ {
		logPrice += drift + diffusion*rng.NormFloat64()
	}
	return math.Exp(logPrice)
}

// Package bench times JIT compilation and execution of the elementwise
// add kernel and verifies device results against a gonum reference.
package bench

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gkernels/pointwise/elementwise"
	"github.com/gkernels/pointwise/tensor"
	"github.com/notargets/gocca"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Config controls a benchmark run.
type Config struct {
	Sizes      []int   // element counts to benchmark
	Iterations int     // steady-state launches to average
	Atol       float64 // absolute tolerance for verification
	Rtol       float64 // relative tolerance for verification
	Seed       int64   // seed for input generation
}

// DefaultConfig benchmarks one 128-element case with 100 averaged
// iterations and tolerances of 1e-5.
func DefaultConfig() Config {
	return Config{
		Sizes:      []int{128},
		Iterations: 100,
		Atol:       1e-5,
		Rtol:       1e-5,
	}
}

// Result captures the measurements and verification outcome for one
// input size.
type Result struct {
	N               int
	BytesPerTensor  int64
	FirstRun        time.Duration // includes JIT compilation
	SecondRun       time.Duration // warm compiled-kernel cache
	CompileOverhead time.Duration // FirstRun - SecondRun, clamped at 0
	AvgKernel       time.Duration // mean over Iterations launches
	StdDevKernel    time.Duration
	MaxDiff         float64
	Match           bool
	Sample          []float64 // first elements of the device result
	Reference       []float64 // matching elements of the gonum result
}

// Run benchmarks every size in cfg on dev. Each size gets fresh random
// float32 inputs. Every measured region is bracketed by Device.Finish
// so asynchronous device execution cannot leak across timings. A
// verification mismatch is recorded in the Result, not returned as an
// error.
func Run(dev *gocca.OCCADevice, cfg Config) ([]Result, error) {
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("bench: iterations must be positive, got %d", cfg.Iterations)
	}
	if len(cfg.Sizes) == 0 {
		return nil, fmt.Errorf("bench: no sizes configured")
	}

	cache := elementwise.NewCache(dev)
	defer cache.Free()

	rng := rand.New(rand.NewSource(cfg.Seed))

	results := make([]Result, 0, len(cfg.Sizes))
	for _, n := range cfg.Sizes {
		res, err := runSize(dev, cache, rng, n, cfg)
		if err != nil {
			return nil, fmt.Errorf("bench: size %d: %w", n, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func runSize(dev *gocca.OCCADevice, cache *elementwise.Cache,
	rng *rand.Rand, n int, cfg Config) (Result, error) {

	x := tensor.Randn(dev, rng, tensor.Float32, n)
	defer x.Free()
	y := tensor.Randn(dev, rng, tensor.Float32, n)
	defer y.Free()

	res := Result{N: n, BytesPerTensor: x.Bytes()}

	// First run, cold: includes kernel compilation.
	dev.Finish()
	start := time.Now()
	out1, err := elementwise.Add(cache, x, y)
	if err != nil {
		return res, err
	}
	dev.Finish()
	res.FirstRun = time.Since(start)
	out1.Free()

	// Second run: hits the compiled-kernel cache.
	dev.Finish()
	start = time.Now()
	out2, err := elementwise.Add(cache, x, y)
	if err != nil {
		return res, err
	}
	dev.Finish()
	res.SecondRun = time.Since(start)
	defer out2.Free()

	res.CompileOverhead = res.FirstRun - res.SecondRun
	if res.CompileOverhead < 0 {
		res.CompileOverhead = 0
	}

	// Steady-state average over cfg.Iterations launches.
	times := make([]float64, cfg.Iterations)
	for i := range times {
		dev.Finish()
		start = time.Now()
		out, err := elementwise.Add(cache, x, y)
		if err != nil {
			return res, err
		}
		dev.Finish()
		times[i] = float64(time.Since(start))
		out.Free()
	}
	res.AvgKernel = time.Duration(stat.Mean(times, nil))
	res.StdDevKernel = time.Duration(stat.StdDev(times, nil))

	// Verify the warm-path result against the gonum reference.
	ref := widen(x.ToFloat32())
	floats.Add(ref, widen(y.ToFloat32()))
	got := widen(out2.ToFloat32())

	res.MaxDiff = tensor.MaxAbsDiff(got, ref)
	res.Match = tensor.AllClose(got, ref, cfg.Atol, cfg.Rtol)

	sampleLen := 10
	if n < sampleLen {
		sampleLen = n
	}
	res.Sample = got[:sampleLen]
	res.Reference = ref[:sampleLen]

	return res, nil
}

func widen(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

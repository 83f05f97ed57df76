// addbench JIT-compiles the elementwise add kernel, times cold and
// warm launches plus a steady-state average, and verifies the device
// result against a gonum reference computation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gkernels/pointwise/bench"
	"github.com/gkernels/pointwise/device"
)

func main() {
	deviceProps := flag.String("device", "",
		"OCCA device properties JSON, e.g. '{\"mode\": \"CUDA\", \"device_id\": 0}'")
	sizes := flag.String("sizes", "128", "comma-separated element counts to benchmark")
	iters := flag.Int("iters", 100, "steady-state launches to average")
	seed := flag.Int64("seed", 0, "seed for input generation")
	flag.Parse()

	cfg := bench.DefaultConfig()
	cfg.Iterations = *iters
	cfg.Seed = *seed

	var err error
	cfg.Sizes, err = parseSizes(*sizes)
	if err != nil {
		log.Fatalf("invalid -sizes: %v", err)
	}

	devCfg := device.DefaultConfig()
	if *deviceProps != "" {
		devCfg = device.Config{Props: []string{*deviceProps}}
	}
	dev, err := device.Create(devCfg)
	if err != nil {
		log.Fatalf("failed to create device: %v", err)
	}
	defer dev.Free()

	bench.PrintHeader(os.Stdout, dev.Mode())

	results, err := bench.Run(dev, cfg)
	if err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}

	failed := false
	for _, res := range results {
		res.Print(os.Stdout)
		if !res.Match {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("size must be positive, got %d", n)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

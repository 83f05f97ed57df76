// Package elementwise generates, compiles, and launches elementwise
// OKL kernels. Kernel source is built per dtype; compiled kernels are
// cached by a hash of the generated source so repeated launches of the
// same operation reuse the compiled binary.
package elementwise

import (
	"fmt"

	"github.com/gkernels/pointwise/tensor"
	"github.com/notargets/gocca"
	"github.com/zeebo/xxh3"
)

// BlockSize is the number of elements each thread-group processes.
const BlockSize = 1024

// GridFor returns the number of thread-groups needed to cover n
// elements at BlockSize elements per group.
func GridFor(n int) int {
	return (n + BlockSize - 1) / BlockSize
}

// Cache compiles kernels on first use and reuses them afterwards.
// Keys are xxh3-64 hashes of the full generated source, so any change
// to the source text produces a distinct cache entry. A Cache drives a
// single device from a single host goroutine.
type Cache struct {
	device  *gocca.OCCADevice
	kernels map[uint64]*gocca.OCCAKernel
	builds  int
	hits    int
}

// NewCache creates an empty kernel cache bound to a device.
func NewCache(dev *gocca.OCCADevice) *Cache {
	if dev == nil {
		panic("elementwise: nil device")
	}
	return &Cache{
		device:  dev,
		kernels: make(map[uint64]*gocca.OCCAKernel),
	}
}

// Device returns the device this cache compiles for.
func (c *Cache) Device() *gocca.OCCADevice { return c.device }

// Builds returns how many kernels have been compiled.
func (c *Cache) Builds() int { return c.builds }

// Hits returns how many launches reused a compiled kernel.
func (c *Cache) Hits() int { return c.hits }

// kernelFor returns the compiled kernel for source, building it on the
// first request.
func (c *Cache) kernelFor(source, name string) (*gocca.OCCAKernel, error) {
	key := xxh3.HashString(source)
	if kernel, ok := c.kernels[key]; ok {
		c.hits++
		return kernel, nil
	}

	var kernel *gocca.OCCAKernel
	var err error
	if c.device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = c.device.BuildKernelFromString(source, name, props)
	} else {
		kernel, err = c.device.BuildKernelFromString(source, name, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", name, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", name)
	}

	c.builds++
	c.kernels[key] = kernel
	return kernel, nil
}

// Free releases all compiled kernels.
func (c *Cache) Free() {
	for _, kernel := range c.kernels {
		kernel.Free()
	}
	c.kernels = make(map[uint64]*gocca.OCCAKernel)
}

// preamble emits the shared typedefs for a generated kernel.
func preamble(dt tensor.DType) string {
	zero := "0.0"
	if dt == tensor.Float32 {
		zero = "0.0f"
	}
	return fmt.Sprintf(`typedef %s real_t;
#define REAL_ZERO %s
#define BLOCK_N %d
`, dt.OKL(), zero, BlockSize)
}

// addSource generates the elementwise-add kernel for a dtype. Each
// thread-group covers BLOCK_N consecutive elements; the gid < n guard
// masks loads and stores in the trailing group.
func addSource(dt tensor.DType) string {
	return preamble(dt) + `
@kernel void binaryAdd(const real_t *x,
                       const real_t *y,
                       real_t *out,
                       const int n,
                       const int numBlocks) {
	for (int block = 0; block < numBlocks; ++block; @outer) {
		for (int i = 0; i < BLOCK_N; ++i; @inner) {
			const int gid = block * BLOCK_N + i;
			if (gid < n) {
				out[gid] = x[gid] + y[gid];
			}
		}
	}
}
`
}

// blockSumSource generates the per-group partial sum kernel used by
// Sum. Out-of-range lanes contribute REAL_ZERO.
func blockSumSource(dt tensor.DType) string {
	return preamble(dt) + `
@kernel void blockSum(const real_t *x,
                      real_t *partial,
                      const int n,
                      const int numBlocks) {
	for (int block = 0; block < numBlocks; ++block; @outer) {
		@shared real_t tile[BLOCK_N];

		for (int i = 0; i < BLOCK_N; ++i; @inner) {
			const int gid = block * BLOCK_N + i;
			tile[i] = (gid < n) ? x[gid] : REAL_ZERO;
		}

		for (int stride = BLOCK_N / 2; stride > 0; stride /= 2) {
			for (int i = 0; i < BLOCK_N; ++i; @inner) {
				if (i < stride) {
					tile[i] += tile[i + stride];
				}
			}
		}

		for (int i = 0; i < BLOCK_N; ++i; @inner) {
			if (i == 0) {
				partial[block] = tile[0];
			}
		}
	}
}
`
}

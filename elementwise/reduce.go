package elementwise

import (
	"fmt"

	"github.com/gkernels/pointwise/tensor"
	"gonum.org/v1/gonum/floats"
)

// Sum reduces a tensor to a scalar. Each thread-group produces one
// partial sum on the device; the partials are downloaded and finished
// on the host in float64. The host copy is the synchronization point,
// so Sum returns only after device execution has completed.
func Sum(c *Cache, x *tensor.Tensor) (float64, error) {
	if !x.IsContiguous() {
		panic("elementwise: tensor x must be contiguous")
	}

	kernel, err := c.kernelFor(blockSumSource(x.DType()), "blockSum")
	if err != nil {
		return 0, err
	}

	n := x.NumElems()
	numBlocks := GridFor(n)
	partial := tensor.Empty(c.device, x.DType(), numBlocks)
	defer partial.Free()

	if err := kernel.RunWithArgs(x.Mem(), partial.Mem(), int32(n), int32(numBlocks)); err != nil {
		return 0, fmt.Errorf("kernel execution failed: %w", err)
	}

	switch x.DType() {
	case tensor.Float32:
		host := partial.ToFloat32()
		total := 0.0
		for _, v := range host {
			total += float64(v)
		}
		return total, nil
	case tensor.Float64:
		return floats.Sum(partial.ToFloat64()), nil
	}
	panic(fmt.Sprintf("elementwise: unknown dtype %s", x.DType()))
}

package elementwise

import (
	"fmt"

	"github.com/gkernels/pointwise/tensor"
)

// validateBinary enforces the operand contract for binary elementwise
// operations: identical shape and dtype, both contiguous. Violations
// are programmer errors and panic before any device allocation.
func validateBinary(x, y *tensor.Tensor) {
	if !x.SameShape(y) {
		panic(fmt.Sprintf("elementwise: shape mismatch: x=%v, y=%v",
			x.Shape(), y.Shape()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("elementwise: dtype mismatch: x=%s, y=%s",
			x.DType(), y.DType()))
	}
	if !x.IsContiguous() {
		panic("elementwise: tensor x must be contiguous")
	}
	if !y.IsContiguous() {
		panic("elementwise: tensor y must be contiguous")
	}
}

// Add computes out[i] = x[i] + y[i] on the device and returns a fresh
// output tensor of the same shape and dtype. The launch covers the
// index space in GridFor(n) groups of BlockSize; trailing lanes are
// masked in the kernel. Execution may be asynchronous relative to the
// host: callers must synchronize (Device.Finish or a host copy) before
// reading the result or timing the launch.
func Add(c *Cache, x, y *tensor.Tensor) (*tensor.Tensor, error) {
	validateBinary(x, y)

	kernel, err := c.kernelFor(addSource(x.DType()), "binaryAdd")
	if err != nil {
		return nil, err
	}

	out := tensor.Empty(c.device, x.DType(), x.Shape()...)
	n := x.NumElems()
	// OKL "const int" params want 32-bit scalars
	if err := kernel.RunWithArgs(x.Mem(), y.Mem(), out.Mem(),
		int32(n), int32(GridFor(n))); err != nil {
		out.Free()
		return nil, fmt.Errorf("kernel execution failed: %w", err)
	}
	return out, nil
}

// Package tensor provides contiguous, fixed-shape, fixed-dtype buffers
// resident in OCCA device memory, plus host transfer helpers and a
// bridge to gonum vectors.
package tensor

import (
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/notargets/gocca"
	"gonum.org/v1/gonum/mat"
)

// DType identifies the element type of a Tensor.
type DType int

const (
	Float32 DType = iota
	Float64
)

// Size returns the element size in bytes.
func (d DType) Size() int64 {
	switch d {
	case Float32:
		return 4
	case Float64:
		return 8
	}
	panic(fmt.Sprintf("tensor: unknown dtype %d", int(d)))
}

// OKL returns the OKL scalar type name used in generated kernel source.
func (d DType) OKL() string {
	switch d {
	case Float32:
		return "float"
	case Float64:
		return "double"
	}
	panic(fmt.Sprintf("tensor: unknown dtype %d", int(d)))
}

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("dtype(%d)", int(d))
}

// Tensor is a device-resident buffer with a fixed shape and dtype.
// Element layout is row-major; strides are in elements, not bytes.
// Device kernel execution against a Tensor may be asynchronous; host
// reads through ToFloat32/ToFloat64 block until the copy completes.
type Tensor struct {
	device  *gocca.OCCADevice
	mem     *gocca.OCCAMemory
	dtype   DType
	shape   []int
	strides []int
}

func numElems(shape []int) int {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Sprintf("tensor: shape dims must be positive, got %v", shape))
		}
		n *= d
	}
	return n
}

func contiguousStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// Empty allocates an uninitialized device buffer.
func Empty(dev *gocca.OCCADevice, dtype DType, shape ...int) *Tensor {
	if dev == nil {
		panic("tensor: nil device")
	}
	if len(shape) == 0 {
		panic("tensor: shape required")
	}
	n := numElems(shape)
	mem := dev.Malloc(int64(n)*dtype.Size(), nil, nil)
	return &Tensor{
		device:  dev,
		mem:     mem,
		dtype:   dtype,
		shape:   append([]int(nil), shape...),
		strides: contiguousStrides(shape),
	}
}

// Zeros allocates a device buffer and fills it with zeros.
func Zeros(dev *gocca.OCCADevice, dtype DType, shape ...int) *Tensor {
	t := Empty(dev, dtype, shape...)
	n := t.NumElems()
	switch dtype {
	case Float32:
		host := make([]float32, n)
		t.mem.CopyFrom(unsafe.Pointer(&host[0]), int64(n)*dtype.Size())
	case Float64:
		host := make([]float64, n)
		t.mem.CopyFrom(unsafe.Pointer(&host[0]), int64(n)*dtype.Size())
	}
	return t
}

// FromFloat32 uploads host data into a new float32 device buffer.
// With no shape given, the tensor is a vector of len(data).
func FromFloat32(dev *gocca.OCCADevice, data []float32, shape ...int) *Tensor {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	if n := numElems(shape); n != len(data) {
		panic(fmt.Sprintf("tensor: shape %v needs %d elements, data has %d",
			shape, n, len(data)))
	}
	if dev == nil {
		panic("tensor: nil device")
	}
	mem := dev.Malloc(int64(len(data))*Float32.Size(), unsafe.Pointer(&data[0]), nil)
	return &Tensor{
		device:  dev,
		mem:     mem,
		dtype:   Float32,
		shape:   append([]int(nil), shape...),
		strides: contiguousStrides(shape),
	}
}

// FromFloat64 uploads host data into a new float64 device buffer.
func FromFloat64(dev *gocca.OCCADevice, data []float64, shape ...int) *Tensor {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	if n := numElems(shape); n != len(data) {
		panic(fmt.Sprintf("tensor: shape %v needs %d elements, data has %d",
			shape, n, len(data)))
	}
	if dev == nil {
		panic("tensor: nil device")
	}
	mem := dev.Malloc(int64(len(data))*Float64.Size(), unsafe.Pointer(&data[0]), nil)
	return &Tensor{
		device:  dev,
		mem:     mem,
		dtype:   Float64,
		shape:   append([]int(nil), shape...),
		strides: contiguousStrides(shape),
	}
}

// FromVec uploads a gonum vector into a new float64 device buffer.
func FromVec(dev *gocca.OCCADevice, v *mat.VecDense) *Tensor {
	return FromFloat64(dev, v.RawVector().Data, v.Len())
}

// Randn allocates a device buffer filled with standard normal samples
// drawn from rng.
func Randn(dev *gocca.OCCADevice, rng *rand.Rand, dtype DType, shape ...int) *Tensor {
	if len(shape) == 0 {
		panic("tensor: shape required")
	}
	n := numElems(shape)
	switch dtype {
	case Float32:
		host := make([]float32, n)
		for i := range host {
			host[i] = float32(rng.NormFloat64())
		}
		return FromFloat32(dev, host, shape...)
	case Float64:
		host := make([]float64, n)
		for i := range host {
			host[i] = rng.NormFloat64()
		}
		return FromFloat64(dev, host, shape...)
	}
	panic(fmt.Sprintf("tensor: unknown dtype %d", int(dtype)))
}

// Shape returns a copy of the tensor shape.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// Strides returns a copy of the element strides.
func (t *Tensor) Strides() []int { return append([]int(nil), t.strides...) }

// DType returns the element type.
func (t *Tensor) DType() DType { return t.dtype }

// Device returns the owning device.
func (t *Tensor) Device() *gocca.OCCADevice { return t.device }

// Mem returns the underlying device memory, for passing to kernels.
func (t *Tensor) Mem() *gocca.OCCAMemory { return t.mem }

// NumElems returns the logical element count.
func (t *Tensor) NumElems() int {
	n := 1
	for _, d := range t.shape {
		n *= d
	}
	return n
}

// Bytes returns the logical size of the buffer in bytes.
func (t *Tensor) Bytes() int64 { return int64(t.NumElems()) * t.dtype.Size() }

// IsContiguous reports whether the tensor has dense row-major layout.
func (t *Tensor) IsContiguous() bool {
	want := contiguousStrides(t.shape)
	for i := range want {
		if t.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// SameShape reports whether two tensors have identical shapes.
func (t *Tensor) SameShape(o *Tensor) bool {
	if len(t.shape) != len(o.shape) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	return true
}

// AsStrided returns a view of the same device memory with an explicit
// shape and strides. The view shares storage with t; freeing either
// releases the buffer for both. This is the only way to construct a
// non-contiguous tensor.
func (t *Tensor) AsStrided(shape, strides []int) *Tensor {
	if len(shape) != len(strides) {
		panic(fmt.Sprintf("tensor: shape %v and strides %v must have equal rank",
			shape, strides))
	}
	numElems(shape)
	return &Tensor{
		device:  t.device,
		mem:     t.mem,
		dtype:   t.dtype,
		shape:   append([]int(nil), shape...),
		strides: append([]int(nil), strides...),
	}
}

// ToFloat32 copies the buffer to the host. Blocks until any pending
// device work on the buffer has completed.
func (t *Tensor) ToFloat32() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor: ToFloat32 on %s tensor", t.dtype))
	}
	host := make([]float32, t.NumElems())
	t.mem.CopyTo(unsafe.Pointer(&host[0]), t.Bytes())
	return host
}

// ToFloat64 copies the buffer to the host. Blocks until any pending
// device work on the buffer has completed.
func (t *Tensor) ToFloat64() []float64 {
	if t.dtype != Float64 {
		panic(fmt.Sprintf("tensor: ToFloat64 on %s tensor", t.dtype))
	}
	host := make([]float64, t.NumElems())
	t.mem.CopyTo(unsafe.Pointer(&host[0]), t.Bytes())
	return host
}

// ToVec downloads a float64 tensor into a gonum vector.
func (t *Tensor) ToVec() *mat.VecDense {
	return mat.NewVecDense(t.NumElems(), t.ToFloat64())
}

// Free releases the device buffer. Views created with AsStrided share
// storage; free only the owning tensor.
func (t *Tensor) Free() {
	if t.mem != nil {
		t.mem.Free()
		t.mem = nil
	}
}

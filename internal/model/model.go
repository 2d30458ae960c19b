package model

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Layer is one stage of a Network.
type Layer interface {
	Forward(x *mat.VecDense) (*mat.VecDense, error)
	// Params returns views over the layer's parameters in a stable order.
	Params() []NamedTensor
}

// Tensor is a row-major view over parameter storage.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NamedTensor pairs a tensor with its name.
type NamedTensor struct {
	Name string
	Tensor
}

// Len returns the number of elements described by Shape.
func (t Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Clone returns a deep copy that shares no storage with t.
func (t Tensor) Clone() Tensor {
	return Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float64(nil), t.Data...),
	}
}

// SameShape reports whether both tensors have identical dimensions.
func (t Tensor) SameShape(o Tensor) bool {
	if len(t.Shape) != len(o.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != o.Shape[i] {
			return false
		}
	}
	return true
}

func (t Tensor) String() string {
	var sb strings.Builder
	sb.WriteString("tensor(")
	writeNested(&sb, t.Shape, t.Data)
	sb.WriteString(")")
	return sb.String()
}

func writeNested(sb *strings.Builder, shape []int, data []float64) {
	sb.WriteByte('[')
	if len(shape) <= 1 {
		for i, v := range data {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%.4f", v)
		}
		sb.WriteByte(']')
		return
	}
	stride := len(data) / max(shape[0], 1)
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeNested(sb, shape[1:], data[i*stride:(i+1)*stride])
	}
	sb.WriteByte(']')
}

package model

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Linear computes y = W·x + b.
type Linear struct {
	in, out int
	hasBias bool

	weights []float64 // (out, in) row-major
	bias    []float64
	w       *mat.Dense
	b       *mat.VecDense
}

// NewLinear constructs a layer with zeroed parameters. Call Reset to
// initialise it.
func NewLinear(in, out int, bias bool) *Linear {
	if in <= 0 || out <= 0 {
		panic(errors.Errorf("linear: invalid shape in=%d out=%d", in, out))
	}
	l := &Linear{
		in:      in,
		out:     out,
		hasBias: bias,
		weights: make([]float64, out*in),
		bias:    make([]float64, out),
	}
	l.w = mat.NewDense(out, in, l.weights)
	l.b = mat.NewVecDense(out, l.bias)
	return l
}

// In returns the input width.
func (l *Linear) In() int { return l.in }

// Out returns the output width.
func (l *Linear) Out() int { return l.out }

// Reset draws fresh weights with init and a fresh bias from the fan-in
// uniform bound.
func (l *Linear) Reset(rng *rand.Rand, init Initializer) {
	if init == nil {
		init = FanInUniform{}
	}
	init.Fill(rng, l.weights, l.in, l.out)
	if l.hasBias {
		FanInUniform{}.Fill(rng, l.bias, l.in, l.out)
	}
}

// Forward evaluates the layer on x.
func (l *Linear) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if x.Len() != l.in {
		return nil, errors.Errorf("linear: input has %d features, want %d", x.Len(), l.in)
	}
	y := mat.NewVecDense(l.out, nil)
	y.MulVec(l.w, x)
	if l.hasBias {
		y.AddVec(y, l.b)
	}
	return y, nil
}

// Params returns the weight and, if enabled, the bias.
func (l *Linear) Params() []NamedTensor {
	params := []NamedTensor{
		{Name: "weight", Tensor: Tensor{Shape: []int{l.out, l.in}, Data: l.weights}},
	}
	if l.hasBias {
		params = append(params, NamedTensor{Name: "bias", Tensor: Tensor{Shape: []int{l.out}, Data: l.bias}})
	}
	return params
}

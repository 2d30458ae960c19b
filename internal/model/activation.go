package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LeakyReLU passes non-negative values through and scales negative ones by
// NegativeSlope. A zero slope is a plain ReLU.
type LeakyReLU struct {
	NegativeSlope float64
}

func (a LeakyReLU) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	return apply(x, func(v float64) float64 {
		if v >= 0 {
			return v
		}
		return a.NegativeSlope * v
	}), nil
}

func (LeakyReLU) Params() []NamedTensor { return nil }

// Sigmoid squashes every value into (0, 1).
type Sigmoid struct{}

func (Sigmoid) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	return apply(x, func(v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	}), nil
}

func (Sigmoid) Params() []NamedTensor { return nil }

func apply(x *mat.VecDense, fn func(float64) float64) *mat.VecDense {
	n := x.Len()
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		y.SetVec(i, fn(x.AtVec(i)))
	}
	return y
}

package model

import (
	"math"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
)

// Initializer fills parameter storage with starting values.
type Initializer interface {
	Fill(rng *rand.Rand, data []float64, fanIn, fanOut int)
}

// FanInUniform draws from U(-1/sqrt(fanIn), 1/sqrt(fanIn)), the usual
// default for linear layers.
type FanInUniform struct{}

func (FanInUniform) Fill(rng *rand.Rand, data []float64, fanIn, _ int) {
	if fanIn <= 0 {
		for i := range data {
			data[i] = 0
		}
		return
	}
	fillUniform(rng, data, 1/math.Sqrt(float64(fanIn)))
}

// XavierUniform targets variance 2/(fanIn+fanOut).
type XavierUniform struct{}

func (XavierUniform) Fill(rng *rand.Rand, data []float64, fanIn, fanOut int) {
	fillVariance(rng, data, 2.0/float64(fanIn+fanOut))
}

// HeUniform targets variance 2/fanIn.
type HeUniform struct{}

func (HeUniform) Fill(rng *rand.Rand, data []float64, fanIn, _ int) {
	fillVariance(rng, data, 2.0/float64(fanIn))
}

// InitializerByName resolves "fan_in", "xavier" or "he". The empty name
// selects FanInUniform.
func InitializerByName(name string) (Initializer, error) {
	switch strings.ToLower(name) {
	case "", "fan_in":
		return FanInUniform{}, nil
	case "xavier", "glorot":
		return XavierUniform{}, nil
	case "he":
		return HeUniform{}, nil
	}
	return nil, errors.Errorf("unknown initializer %q", name)
}

// uniform on [-a, a] has variance a*a/3
func fillVariance(rng *rand.Rand, data []float64, variance float64) {
	fillUniform(rng, data, math.Sqrt(3*variance))
}

func fillUniform(rng *rand.Rand, data []float64, bound float64) {
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
}

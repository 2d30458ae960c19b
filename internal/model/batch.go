package model

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ForwardBatch evaluates every input with at most workers passes in flight.
// Outputs are returned in input order.
func ForwardBatch(ctx context.Context, net *Network, inputs [][]float64, workers int) ([][]float64, error) {
	if workers <= 0 {
		workers = 1
	}
	outputs := make([][]float64, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := net.Forward(inputs[i])
			if err != nil {
				return errors.Wrapf(err, "input %d", i)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

package runner

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"linearnet/internal/metrics"
	"linearnet/internal/model"
	"linearnet/internal/paramfile"
)

// RunConfig captures the knobs required by Run.
type RunConfig struct {
	Network *model.Network
	Init    model.Initializer
	Inputs  [][]float64
	Seed    int64
	Output  string
	Format  paramfile.Format
	// Load, when set, replaces the random parameters with those in the file.
	Load    string
	Workers int
}

// Run initialises the network, prints its parameters and the output for
// every input to stdout, then writes the parameters to cfg.Output.
func Run(ctx context.Context, cfg RunConfig, stdout io.Writer) error {
	if cfg.Network == nil {
		return errors.New("runner: network is nil")
	}
	if len(cfg.Inputs) == 0 {
		return errors.New("runner: no inputs")
	}
	if cfg.Output == "" {
		return errors.New("runner: output path must be set")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	net := cfg.Network
	net.Reset(rand.New(rand.NewSource(seed)), cfg.Init)
	log.Printf("seed=%d layers=%d", seed, len(net.Layers()))

	sd := net.StateDict()
	if cfg.Load != "" {
		if err := paramfile.Load(cfg.Load, sd, cfg.Format); err != nil {
			return errors.Wrapf(err, "load parameters from %s", cfg.Load)
		}
		log.Printf("loaded=%s tensors=%d", cfg.Load, sd.Len())
	}

	fmt.Fprintln(stdout, sd)

	var window metrics.Window
	start := time.Now()
	outputs, err := model.ForwardBatch(ctx, net, cfg.Inputs, cfg.Workers)
	if err != nil {
		return errors.Wrap(err, "forward")
	}
	window.Record(len(cfg.Inputs), time.Since(start))

	for _, out := range outputs {
		fmt.Fprintln(stdout, paramfile.FormatList(out))
	}

	snap := window.Snapshot()
	log.Printf("passes=%d passes_per_sec=%.1f forward_ms=%.4f workers=%d",
		snap.Passes,
		snap.PassesPerSec,
		snap.AvgForwardMS,
		cfg.Workers,
	)

	if err := paramfile.Save(cfg.Output, sd, cfg.Format); err != nil {
		return errors.Wrapf(err, "save parameters to %s", cfg.Output)
	}
	log.Printf("output=%s format=%s tensors=%d", cfg.Output, cfg.Format, sd.Len())
	return nil
}

package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"linearnet/internal/model"
	"linearnet/internal/paramfile"
)

// Layer types understood by Build.
const (
	LayerLinear    = "linear"
	LayerLeakyReLU = "leaky_relu"
	LayerSigmoid   = "sigmoid"
)

// Layer describes one stage of the network.
type Layer struct {
	Type          string  `yaml:"type"`
	In            int     `yaml:"in,omitempty"`
	Out           int     `yaml:"out,omitempty"`
	Bias          *bool   `yaml:"bias,omitempty"`
	NegativeSlope float64 `yaml:"negative_slope,omitempty"`
}

// HasBias reports whether a linear layer carries a bias. Unset means true.
func (l Layer) HasBias() bool {
	return l.Bias == nil || *l.Bias
}

// Config captures the runtime knobs for a run.
type Config struct {
	Layers     []Layer     `yaml:"layers"`
	Init       string      `yaml:"init"`
	Inputs     [][]float64 `yaml:"inputs"`
	InputsFile string      `yaml:"inputs_file"`
	Seed       int64       `yaml:"seed"`
	Output     string      `yaml:"output"`
	Format     string      `yaml:"format"`
	Load       string      `yaml:"load"`
	Workers    int         `yaml:"workers"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Init       string
	InputsFile string
	Seed       int64
	Output     string
	Format     string
	Load       string
	Workers    int
}

// Default returns a 2→3 linear layer with bias evaluated on (1,0) and
// (0,1), writing flat parameters to "model".
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty file is an empty config
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Layers) == 0 {
		c.Layers = []Layer{{Type: LayerLinear, In: 2, Out: 3}}
	}
	if c.Output == "" {
		c.Output = "model"
	}
	if c.Format == "" {
		c.Format = string(paramfile.FormatFlat)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	// the unit vectors only fit a 2-wide first layer; other widths need
	// inputs or inputs_file
	if len(c.Inputs) == 0 && c.InputsFile == "" && c.InputDim() == 2 {
		c.Inputs = [][]float64{{1.0, 0.0}, {0.0, 1.0}}
	}
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Init != "" {
		c.Init = o.Init
	}
	if o.InputsFile != "" {
		c.InputsFile = o.InputsFile
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.Load != "" {
		c.Load = o.Load
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// InputDim returns the width the first layer expects.
func (c *Config) InputDim() int {
	if len(c.Layers) == 0 {
		return 0
	}
	return c.Layers[0].In
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Layers) == 0 {
		return errors.New("at least one layer must be set")
	}
	if strings.ToLower(c.Layers[0].Type) != LayerLinear {
		return errors.Errorf("first layer must be %s (got %q)", LayerLinear, c.Layers[0].Type)
	}
	width := c.Layers[0].In
	for i, l := range c.Layers {
		switch strings.ToLower(l.Type) {
		case LayerLinear:
			if l.In <= 0 || l.Out <= 0 {
				return errors.Errorf("layer %d: in and out must be > 0 (got %d, %d)", i, l.In, l.Out)
			}
			if l.In != width {
				return errors.Errorf("layer %d: in=%d but previous layer produces %d", i, l.In, width)
			}
			width = l.Out
		case LayerLeakyReLU, LayerSigmoid:
		default:
			return errors.Errorf("layer %d: unknown type %q", i, l.Type)
		}
	}
	for i, in := range c.Inputs {
		if len(in) != c.InputDim() {
			return errors.Errorf("input %d has %d values, want %d", i, len(in), c.InputDim())
		}
	}
	if c.Output == "" {
		return errors.New("output path must be set")
	}
	if _, err := paramfile.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := model.InitializerByName(c.Init); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	return nil
}

// Build constructs the network described by c.Layers. Parameters are left
// zeroed.
func (c *Config) Build() (*model.Network, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	net := model.NewNetwork()
	for _, l := range c.Layers {
		switch strings.ToLower(l.Type) {
		case LayerLinear:
			net.Push(model.NewLinear(l.In, l.Out, l.HasBias()))
		case LayerLeakyReLU:
			net.Push(model.LeakyReLU{NegativeSlope: l.NegativeSlope})
		case LayerSigmoid:
			net.Push(model.Sigmoid{})
		}
	}
	return net, nil
}

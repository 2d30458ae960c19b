package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default invalid: %v", err)
	}
	if cfg.Output != "model" || cfg.Format != "flat" || cfg.Workers != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	want := [][]float64{{1, 0}, {0, 1}}
	if !reflect.DeepEqual(cfg.Inputs, want) {
		t.Fatalf("inputs=%v want %v", cfg.Inputs, want)
	}
	net, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if keys := net.StateDict().Keys(); !reflect.DeepEqual(keys, []string{"model.0.weight", "model.0.bias"}) {
		t.Fatalf("keys=%v", keys)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
layers:
  - type: linear
    in: 2
    out: 4
  - type: leaky_relu
    negative_slope: 0.01
  - type: linear
    in: 4
    out: 1
    bias: false
  - type: sigmoid
init: xavier
seed: 9
format: annotated
workers: 2
inputs:
  - [1, 0]
  - [0.5, 0.5]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Layers) != 4 || cfg.Layers[2].HasBias() || !cfg.Layers[0].HasBias() {
		t.Fatalf("unexpected layers %+v", cfg.Layers)
	}
	if cfg.Seed != 9 || cfg.Init != "xavier" || cfg.Format != "annotated" || cfg.Workers != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Output != "model" {
		t.Fatalf("output default not applied: %q", cfg.Output)
	}
	net, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(net.Layers()) != 4 {
		t.Fatalf("expected 4 layers, got %d", len(net.Layers()))
	}
}

func TestLoadWideLayerWithoutInputs(t *testing.T) {
	path := writeConfig(t, "layers:\n  - type: linear\n    in: 4\n    out: 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Inputs) != 0 {
		t.Fatalf("2-wide default inputs injected into a 4-wide layer: %v", cfg.Inputs)
	}

	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.ApplyOverrides(Overrides{InputsFile: "inputs.txt"})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate with inputs file: %v", err)
	}
	if cfg.InputsFile != "inputs.txt" || cfg.InputDim() != 4 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadNarrowLayerGetsUnitInputs(t *testing.T) {
	path := writeConfig(t, "layers:\n  - type: linear\n    in: 2\n    out: 5\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := [][]float64{{1, 0}, {0, 1}}; !reflect.DeepEqual(cfg.Inputs, want) {
		t.Fatalf("inputs=%v want %v", cfg.Inputs, want)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("empty config %+v differs from Default %+v", cfg, Default())
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "layers:\n  - type: linear\n    in: 2\n    out: 3\nepochs: 10\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateLayerChain(t *testing.T) {
	cases := map[string][]Layer{
		"empty":            nil,
		"activation first": {{Type: LayerSigmoid}, {Type: LayerLinear, In: 2, Out: 3}},
		"width mismatch":   {{Type: LayerLinear, In: 2, Out: 3}, {Type: LayerLinear, In: 4, Out: 1}},
		"unknown type":     {{Type: LayerLinear, In: 2, Out: 3}, {Type: "softmax"}},
	}
	for name, layers := range cases {
		cfg := Default()
		cfg.Layers = layers
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestValidateInputWidth(t *testing.T) {
	cfg := Default()
	cfg.Inputs = [][]float64{{1, 0, 0}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected input width error")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.ApplyOverrides(Overrides{Seed: 42, Output: "out.txt", Format: "annotated", Workers: 3})
	if cfg.Seed != 42 || cfg.Output != "out.txt" || cfg.Format != "annotated" || cfg.Workers != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	cfg.ApplyOverrides(Overrides{})
	if cfg.Seed != 42 || cfg.Output != "out.txt" {
		t.Fatalf("zero overrides changed config: %+v", cfg)
	}
	cfg.ApplyOverrides(Overrides{Format: "json"})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

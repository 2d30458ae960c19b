package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"linearnet/internal/config"
	"linearnet/internal/dataset"
	"linearnet/internal/model"
	"linearnet/internal/paramfile"
	"linearnet/internal/runner"
)

type options struct {
	cfgPath   string
	overrides config.Overrides
}

func registerFlags(fs *flag.FlagSet) *options {
	opts := &options{}
	fs.StringVar(&opts.cfgPath, "config", "", "Path to YAML config (default: 2->3 linear layer)")
	fs.Int64Var(&opts.overrides.Seed, "seed", 0, "PRNG seed; 0 picks one from the clock and logs it, so seed 0 itself cannot be replayed")
	fs.StringVar(&opts.overrides.Output, "output", "", "Parameter file to write")
	fs.StringVar(&opts.overrides.Format, "format", "", "Parameter file format: flat or annotated")
	fs.StringVar(&opts.overrides.Load, "load", "", "Read parameters from this file instead of initialising them")
	fs.StringVar(&opts.overrides.InputsFile, "inputs", "", "File of input vectors, one per line")
	fs.IntVar(&opts.overrides.Workers, "workers", 0, "Concurrent forward passes")
	fs.StringVar(&opts.overrides.Init, "init", "", "Weight initializer: fan_in, xavier or he")
	return opts
}

func main() {
	opts := registerFlags(flag.CommandLine)
	flag.Parse()

	cfg := config.Default()
	if opts.cfgPath != "" {
		var err error
		cfg, err = config.Load(opts.cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	cfg.ApplyOverrides(opts.overrides)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	vectors := cfg.Inputs
	if cfg.InputsFile != "" {
		var err error
		vectors, err = dataset.LoadVectors(cfg.InputsFile, cfg.InputDim())
		if err != nil {
			log.Fatalf("load inputs: %v", err)
		}
		log.Printf("inputs=%s vectors=%d", cfg.InputsFile, len(vectors))
	}
	if len(vectors) == 0 {
		log.Fatalf("invalid config: no inputs for a %d-wide first layer; set inputs, inputs_file or -inputs", cfg.InputDim())
	}

	net, err := cfg.Build()
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	initializer, err := model.InitializerByName(cfg.Init)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	fileFormat, err := paramfile.ParseFormat(cfg.Format)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCfg := runner.RunConfig{
		Network: net,
		Init:    initializer,
		Inputs:  vectors,
		Seed:    cfg.Seed,
		Output:  cfg.Output,
		Format:  fileFormat,
		Load:    cfg.Load,
		Workers: cfg.Workers,
	}

	if err := runner.Run(ctx, runCfg, os.Stdout); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

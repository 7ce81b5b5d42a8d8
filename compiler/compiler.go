// Package compiler runs a complete generation: it loads an API description,
// parses it into a gen.Spec, renders the enabled back-ends and writes every
// artifact below an output directory.
//
//	res, err := compiler.Generate(ctx, &compiler.Config{
//		Input:  "openapi.yaml",
//		Output: "./generated",
//	})
package compiler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/afero"

	"github.com/syssam/specgen/compiler/gen"
	"github.com/syssam/specgen/compiler/gen/gotype"
	"github.com/syssam/specgen/compiler/gen/hook"
	"github.com/syssam/specgen/compiler/gen/sql"
	"github.com/syssam/specgen/compiler/load"
	"github.com/syssam/specgen/internal/debug"
	"github.com/syssam/specgen/internal/sink"
)

// DefaultOutput is the output directory used when none is configured.
const DefaultOutput = "./generated"

// Config configures a generation run.
type Config struct {
	// Input is the path of the source document.
	Input string
	// Output is the directory receiving the artifacts.
	Output string
	// Workers bounds the parallel renders and writes.
	Workers int
	// Targets are the feature names to render. Empty selects the defaults.
	Targets []string
	// GoPackage is the package name of the Go models.
	GoPackage string
	// Fs is the filesystem read and written. Nil selects the OS filesystem.
	Fs afero.Fs
	// Options are additional parser and generator options.
	Options []gen.Option
}

func (c *Config) defaults() *Config {
	cc := *c
	if cc.Output == "" {
		cc.Output = DefaultOutput
	}
	if cc.Workers <= 0 {
		cc.Workers = runtime.GOMAXPROCS(0)
	}
	if cc.Fs == nil {
		cc.Fs = afero.NewOsFs()
	}
	return &cc
}

// GenConfig returns the generator configuration of c.
func (c *Config) GenConfig() (*gen.Config, error) {
	opts := append([]gen.Option(nil), c.Options...)
	if len(c.Targets) > 0 {
		opts = append(opts, gen.WithFeatureNames(c.Targets...))
	}
	if c.GoPackage != "" {
		opts = append(opts, gen.WithPackage(c.GoPackage))
	}
	return gen.NewConfig(opts...)
}

// Result describes a generation run.
type Result struct {
	// Spec is the parsed intermediate representation.
	Spec *gen.Spec
	// Artifacts are the relative paths of the rendered artifacts, in
	// rendering order, whether or not their write succeeded.
	Artifacts []string
	// Metrics are the write results.
	Metrics gen.WriterMetrics
}

// Load reads and parses the input document of cfg.
func Load(cfg *Config) (*gen.Spec, *gen.Config, error) {
	cfg = cfg.defaults()
	gcfg, err := cfg.GenConfig()
	if err != nil {
		return nil, nil, err
	}
	doc, err := load.Load(cfg.Fs, cfg.Input)
	if err != nil {
		return nil, nil, err
	}
	spec, err := gen.ParseConfig(doc, gcfg)
	if err != nil {
		return nil, nil, err
	}
	return spec, gcfg, nil
}

// Backends returns the back-ends of the enabled features, in feature order.
func Backends(c *gen.Config) []gen.Backend {
	var bs []gen.Backend
	for _, f := range c.Features {
		switch f.Name {
		case gen.FeatureSQL.Name:
			bs = append(bs, sql.NewBackend(c.Mapper()))
		case gen.FeatureHooks.Name:
			bs = append(bs, hook.NewBackend(c.Mapper()))
		case gen.FeatureGoModels.Name:
			bs = append(bs, gotype.NewBackend(c))
		}
	}
	return bs
}

// Generate runs the whole pipeline. Load and parse failures abort before
// anything is written. Write failures do not stop sibling writes: the
// returned error joins one *specgen.WriteError per failed artifact and the
// Result is still returned.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	cfg = cfg.defaults()
	spec, gcfg, err := Load(cfg)
	if err != nil {
		return nil, err
	}
	g := gen.NewGenerator(Backends(gcfg)...).WithWorkers(cfg.Workers)
	arts, err := g.Render(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", cfg.Input, err)
	}
	res := &Result{Spec: spec, Artifacts: make([]string, len(arts))}
	for i, a := range arts {
		res.Artifacts[i] = a.Path
	}
	w := gen.NewWriter(sink.New(cfg.Fs, cfg.Output)).WithWorkers(cfg.Workers)
	err = w.WriteAll(ctx, arts)
	res.Metrics = w.Metrics()
	debug.Info("generation finished",
		"input", cfg.Input,
		"output", cfg.Output,
		"written", res.Metrics.FilesWritten,
		"failed", res.Metrics.FilesFailed,
	)
	return res, err
}

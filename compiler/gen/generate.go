package gen

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/specgen/internal/debug"
)

// Generator runs a set of back-ends over a Spec.
// Rendering is pure, so back-ends run concurrently and the artifact order
// only depends on the order of the back-ends.
type Generator struct {
	backends []Backend
	workers  int
}

// NewGenerator creates a generator for the given back-ends.
//
// Example:
//
//	import (
//		"github.com/syssam/specgen/compiler/gen/hook"
//		"github.com/syssam/specgen/compiler/gen/sql"
//	)
//
//	g := gen.NewGenerator(sql.NewBackend(nil), hook.NewBackend(nil))
//	artifacts, err := g.Render(ctx, spec)
func NewGenerator(backends ...Backend) *Generator {
	return &Generator{
		backends: backends,
		workers:  runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Backends returns the configured back-ends.
func (g *Generator) Backends() []Backend {
	return g.backends
}

// Render runs every back-end and returns their artifacts, back-end by
// back-end. Two back-ends producing the same path is a GenerationError.
func (g *Generator) Render(ctx context.Context, s *Spec) ([]Artifact, error) {
	if len(g.backends) == 0 {
		return nil, NewConfigError("Backends", nil, "no backend configured")
	}
	out := make([][]Artifact, len(g.backends))
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for i, b := range g.backends {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			arts, err := b.Generate(s)
			if err != nil {
				return NewGenerationError(b.Name(), "", "render", err)
			}
			debug.Debug("backend rendered", "backend", b.Name(), "artifacts", len(arts))
			out[i] = arts
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	var (
		all   []Artifact
		owner = make(map[string]string)
	)
	for i, arts := range out {
		name := g.backends[i].Name()
		for _, a := range arts {
			if prev, ok := owner[a.Path]; ok {
				return nil, NewGenerationError(name, a.Path, "path already generated by backend "+prev, nil)
			}
			owner[a.Path] = name
			all = append(all, a)
		}
	}
	return all, nil
}

// Generate renders every artifact and writes them through the sink. Write
// failures do not stop sibling writes; they are returned joined, each
// carrying its artifact path. The returned artifacts are those rendered,
// whether or not their write succeeded.
func (g *Generator) Generate(ctx context.Context, s *Spec, sink Sink) ([]Artifact, error) {
	arts, err := g.Render(ctx, s)
	if err != nil {
		return nil, err
	}
	w := NewWriter(sink).WithWorkers(g.workers)
	return arts, w.WriteAll(ctx, arts)
}

package gen

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/internal/debug"
)

// Sink persists a single artifact, creating parent directories as needed.
type Sink interface {
	Write(path string, content []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(path string, content []byte) error

// Write calls f(path, content).
func (f SinkFunc) Write(path string, content []byte) error { return f(path, content) }

// Writer writes artifacts in parallel with collect-all-errors semantics:
// one failed write neither cancels nor corrupts the others.
type Writer struct {
	sink    Sink
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks write results.
type WriterMetrics struct {
	FilesWritten int
	FilesFailed  int
	TotalBytes   int64
}

// NewWriter creates a writer over the given sink.
func NewWriter(sink Sink) *Writer {
	return &Writer{
		sink:    sink,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the write metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll writes every artifact. The returned error joins one WriteError
// per failed artifact, in artifact order. Artifacts not yet started when
// ctx is canceled fail with the context error.
func (w *Writer) WriteAll(ctx context.Context, arts []Artifact) error {
	errs := make([]error, len(arts))
	var eg errgroup.Group
	eg.SetLimit(w.workers)
	for i, a := range arts {
		eg.Go(func() error {
			errs[i] = w.write(ctx, a)
			return nil
		})
	}
	_ = eg.Wait()
	return errors.Join(errs...)
}

func (w *Writer) write(ctx context.Context, a Artifact) error {
	err := ctx.Err()
	if err == nil {
		err = w.sink.Write(a.Path, a.Content)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.metrics.FilesFailed++
		debug.Warn("artifact write failed", "path", a.Path, "error", err)
		var werr *specgen.WriteError
		if errors.As(err, &werr) {
			return err
		}
		return specgen.NewWriteError(a.Path, err)
	}
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(a.Content))
	debug.Debug("artifact written", "path", a.Path, "bytes", len(a.Content))
	return nil
}

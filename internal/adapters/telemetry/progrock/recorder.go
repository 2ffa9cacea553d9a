// Package progrock provides the Progrock implementation of the tracer port.
package progrock

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
)

var _ ports.Tracer = (*Recorder)(nil)

// Recorder implements ports.Tracer using the progrock library: every graph
// operation becomes a vertex on the tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	tape := progrock.NewTape()
	return NewRecorder(tape)
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	rec := progrock.NewRecorder(w)
	return &Recorder{
		w:   w,
		rec: rec,
	}
}

// Start records a new vertex for the named operation.
func (r *Recorder) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	return ctx, &Span{vertex: v}
}

// EmitAffected records the set of invalidated tasks as its own vertex.
func (r *Recorder) EmitAffected(_ context.Context, tasks []domain.TaskID) {
	v := r.rec.Vertex(digest.FromString("affected"), "affected tasks")
	for _, task := range tasks {
		_, _ = fmt.Fprintln(v.Stdout(), string(task))
	}
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Span implements ports.Span wrapping *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder
	err    error
}

// Write forwards to the vertex's stdout stream.
func (s *Span) Write(p []byte) (int, error) {
	return s.vertex.Stdout().Write(p)
}

// End completes the vertex, carrying any recorded error.
func (s *Span) End() {
	s.vertex.Done(s.err)
}

// RecordError records an error to be reported when the span ends.
func (s *Span) RecordError(err error) {
	s.err = err
}

// SetAttribute writes a key-value pair to the vertex output.
func (s *Span) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(s.vertex.Stdout(), "%s=%v\n", key, value)
}

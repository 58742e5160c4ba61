// Package session runs a kerf script end to end: evaluation, validation and
// tessellation. It produces the JSON-ready result consumed by viewers.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/kerf/pkg/eval"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/script"
	"github.com/chazu/kerf/pkg/tessellate"
)

// colorPalette assigns distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Session evaluates scripts against one kernel. Its evaluator, and so its
// realization cache, lives as long as the Session.
type Session struct {
	log    *slog.Logger
	engine *script.Engine
	eval   *eval.Evaluator
}

// MeshData is the JSON-serializable mesh of one part.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// Diagnostic is a JSON-serializable error or warning.
type Diagnostic struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Node    string `json:"node,omitempty"`
	Message string `json:"message"`
}

// Result is the full outcome of one Run.
type Result struct {
	Meshes   []MeshData   `json:"meshes"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// OK reports whether the run produced no errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// New creates a Session. The evaluator options are passed to eval.New.
func New(k kernel.Kernel, log *slog.Logger, engine *script.Engine, opts ...eval.Option) *Session {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if engine == nil {
		engine = script.NewEngine(script.WithLogger(log))
	}
	opts = append([]eval.Option{eval.WithLogger(log)}, opts...)
	return &Session{log: log, engine: engine, eval: eval.New(k, opts...)}
}

// Evaluator returns the session's evaluator.
func (s *Session) Evaluator() *eval.Evaluator { return s.eval }

// Build evaluates source into parts without touching the kernel. The error
// is non-nil for fatal failures and for script errors, which are also
// returned individually.
func (s *Session) Build(source string) (*script.Result, []script.EvalError, error) {
	res, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		return nil, nil, fmt.Errorf("session: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, fmt.Errorf("session: %w", evalErrs[0])
	}
	return res, nil, nil
}

// Run evaluates source, validates the parts and tessellates every solid.
// Failures are reported in the result rather than returned.
func (s *Session) Run(ctx context.Context, source string) Result {
	result := Result{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}

	res, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		s.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if len(evalErrs) > 0 {
		return result
	}

	g := res.Graph()
	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Node: label(g, w.NodeID), Message: w.Message})
	}
	for _, e := range vr.Errors {
		result.Errors = append(result.Errors, Diagnostic{Node: label(g, e.NodeID), Message: e.Message})
	}
	if !vr.OK() {
		return result
	}

	meshes, err := tessellate.Tessellate(ctx, g, s.eval)
	if err != nil {
		s.log.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result
}

// label names a node by its part name when it is a named root.
func label(g *graph.DesignGraph, id graph.NodeID) string {
	if id.IsZero() {
		return ""
	}
	if name := g.NameOf(id); name != "" {
		return name
	}
	return id.Short()
}

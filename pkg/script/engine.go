// Package script evaluates kerf design scripts. A script is a zygomys Lisp
// program run in a fresh sandbox; the parts it names with defpart are the
// result.
package script

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/kerf/pkg/eval"
	"github.com/chazu/kerf/pkg/graph"
)

// EvalError is a non-fatal error in user code, such as a parse error or a
// builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result holds the parts a script defined. Shapes and Names are parallel
// and in definition order; redefining a name replaces its shape in place.
type Result struct {
	Shapes []eval.Shape
	Names  []string
}

// Lookup returns the shape defined under name.
func (r *Result) Lookup(name string) (eval.Shape, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Shapes[i], true
		}
	}
	return nil, false
}

// Graph indexes the defined parts as named roots.
func (r *Result) Graph() *graph.DesignGraph {
	g := graph.New()
	for i, s := range r.Shapes {
		g.Add(r.Names[i], s.Node())
	}
	return g
}

// definitions collects defpart forms during one evaluation.
type definitions struct {
	result Result
}

func (d *definitions) define(name string, s *sexpShape) {
	var v eval.Shape = s.part
	if s.planar {
		v = s.sketch
	}
	for i, n := range d.result.Names {
		if n == name {
			d.result.Shapes[i] = v
			return
		}
	}
	d.result.Names = append(d.result.Names, name)
	d.result.Shapes = append(d.result.Shapes, v)
}

// Engine evaluates scripts. It is safe for concurrent use; each call to
// Evaluate runs in a fresh sandbox.
type Engine struct {
	log     *slog.Logger
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		e.log = l
	}
}

// WithTimeout replaces EvalTimeout as the limit for one evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: EvalTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs source and returns the parts it defines.
//
// Return semantics:
//   - On success: result + nil errors + nil error
//   - On parse or runtime failure: nil result + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		res, errs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: errs, err: err}
	}()

	start := time.Now()
	res, errs, err := e.wait(ch, gen)
	switch {
	case err != nil:
		e.log.Warn("script evaluation failed", "generation", gen, "err", err)
	case len(errs) > 0:
		e.log.Debug("script errors", "generation", gen, "count", len(errs), "first", errs[0].Error())
	default:
		e.log.Debug("script evaluated", "generation", gen, "parts", len(res.Names), "elapsed", time.Since(start))
	}
	return res, errs, err
}

func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	defs := &definitions{}
	registerBuiltins(env, defs)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return &defs.result, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

package script

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned by an evaluation that finished after a newer
// one was started on the same Engine.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// wait returns the result from ch, or a timeout error once the engine's
// limit passes. A result from an older generation is discarded.
//
// On timeout the evaluating goroutine may still be running; its result is
// dropped when it completes.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*Result, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.result, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	}
}

// Package exprtransform compiles and caches the numeric transform
// expressions a dialect definition may declare. Expressions see a single
// variable x (the value being transformed) and must evaluate to a float.
package exprtransform

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Pool caches compiled transform expressions so a dialect compiled once at
// registration never re-parses its expressions per decode/encode call.
type Pool struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewPool creates an empty expression pool.
func NewPool() *Pool {
	return &Pool{programs: make(map[string]*vm.Program)}
}

func env(x float64) map[string]float64 {
	return map[string]float64{"x": x}
}

// Get retrieves or compiles the program for src. Compilation also runs the
// program once against a probe value, so references to anything other than
// x surface at registration time instead of deep inside a decode call.
func (p *Pool) Get(src string) (*vm.Program, error) {
	p.mu.RLock()
	if prog, ok := p.programs[src]; ok {
		p.mu.RUnlock()
		return prog, nil
	}
	p.mu.RUnlock()

	prog, err := expr.Compile(src, expr.Env(env(0)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compiling transform expression %q: %w", src, err)
	}
	if _, err := expr.Run(prog, env(1)); err != nil {
		return nil, fmt.Errorf("probing transform expression %q: %w", src, err)
	}

	p.mu.Lock()
	p.programs[src] = prog
	p.mu.Unlock()
	return prog, nil
}

// Eval runs a compiled program with x bound to the given value.
func (p *Pool) Eval(prog *vm.Program, x float64) (float64, error) {
	out, err := expr.Run(prog, env(x))
	if err != nil {
		return 0, fmt.Errorf("evaluating transform expression: %w", err)
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("transform expression returned %T, want float64", out)
	}
	return f, nil
}

// Func compiles src into a plain numeric function. The returned closure is
// safe for concurrent use; evaluation errors are reported per call.
func (p *Pool) Func(src string) (func(float64) (float64, error), error) {
	prog, err := p.Get(src)
	if err != nil {
		return nil, err
	}
	return func(x float64) (float64, error) {
		return p.Eval(prog, x)
	}, nil
}

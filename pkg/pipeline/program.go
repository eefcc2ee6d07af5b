package pipeline

import (
	"fmt"

	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

// Program is a pipeline whose steps have been resolved and validated.
// Running it cannot fail.
type Program struct {
	source *Pipeline
	steps  []StepFunc
}

// Compile parses expr and binds every step. Unknown transforms and bad
// arguments are reported here rather than at Apply time.
func (p *Parser) Compile(expr string, defaults Defaults) (*Program, error) {
	pl, err := p.ParseString(expr)
	if err != nil {
		return nil, err
	}
	return Bind(pl, defaults)
}

// Bind resolves a parsed pipeline against the transform registry
func Bind(pl *Pipeline, defaults Defaults) (*Program, error) {
	prog := &Program{source: pl, steps: make([]StepFunc, 0, len(pl.Steps))}
	for i, step := range pl.Steps {
		fn, err := bind(step, defaults)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		prog.steps = append(prog.steps, fn)
	}
	return prog, nil
}

// Len returns the number of steps
func (prog *Program) Len() int {
	return len(prog.steps)
}

func (prog *Program) String() string {
	return prog.source.String()
}

// Apply runs every step in order. The input layout is not modified.
func (prog *Program) Apply(l layout.Layout) layout.Layout {
	out := l.Clone()
	for i, fn := range prog.steps {
		out = fn(out)
		Logger().Debug("pipeline step",
			"step", i+1,
			"transform", prog.source.Steps[i].String(),
			"keys", len(out))
	}
	return out
}

package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Pipeline is a sequence of transform steps separated by pipes
type Pipeline struct {
	Steps []*Step `@@ ( Pipe @@ )*`
}

// Step names one transform and its keyword arguments
// Example: mirror(gap=1.5, reference=true)
type Step struct {
	Name string `@Ident`
	Args []*Arg `( LParen ( @@ ( Comma @@ )* )? RParen )?`
}

// Arg is a single key=value argument
type Arg struct {
	Key   string `@Ident Equals`
	Value *Value `@@`
}

// Value is a literal argument value
type Value struct {
	Number *float64 `  @Number`
	Bool   *Boolean `| @( "true" | "false" )`
	Text   *string  `| @String`
}

// Boolean captures true/false keywords
type Boolean bool

// Capture implements participle's Capture interface
func (b *Boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

func (v *Value) String() string {
	switch {
	case v == nil:
		return "<nil>"
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'g', -1, 64)
	case v.Bool != nil:
		return strconv.FormatBool(bool(*v.Bool))
	case v.Text != nil:
		return strconv.Quote(*v.Text)
	}
	return "<empty>"
}

func (s *Step) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.Key + "=" + a.Value.String()
	}
	return fmt.Sprintf("%s(%s)", s.Name, strings.Join(args, ", "))
}

func (p *Pipeline) String() string {
	steps := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = s.String()
	}
	return strings.Join(steps, " | ")
}

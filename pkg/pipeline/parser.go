// Package pipeline parses and runs chains of layout transforms such as
// "flip | mirror(gap=1) | origin | precision(digits=2)".
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses pipeline expressions
type Parser struct {
	parser *participle.Parser[Pipeline]
}

// NewParser creates a new pipeline parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Pipeline](
		participle.Lexer(PipelineLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a pipeline from a reader
func (p *Parser) Parse(r io.Reader) (*Pipeline, error) {
	pl, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return pl, nil
}

// ParseString parses a pipeline expression
func (p *Parser) ParseString(input string) (*Pipeline, error) {
	pl, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return pl, nil
}

// ParseFile parses a pipeline stored in a file. Lines starting with '#'
// are comments.
func (p *Parser) ParseFile(filename string) (*Pipeline, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Package gdparser provides a hand-written, character-level parser for
// GDScript source. It produces a lossless gdast.Tree whose rendering is
// byte-for-byte identical to the input.
package gdparser

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gdparse/pkg/gdast"
)

// DefaultMaxDepth bounds bracket and block nesting.
const DefaultMaxDepth = 256

// Options configures a Parser.
type Options struct {
	// MaxDepth bounds bracket nesting and block nesting. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// Parser parses GDScript text into trees. It holds no per-call state and is
// safe for concurrent use.
type Parser struct {
	maxDepth int
}

// New creates a parser.
func New(opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{maxDepth: maxDepth}
}

// MaxDepth returns the configured nesting limit.
func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// ParseFile parses a whole file (or any fragment of one) into a tree.
//
// The method:
//  1. Checks for context cancellation.
//  2. Scans the text into a contiguous token stream.
//  3. Groups tokens into logical lines.
//  4. Splits the lines into the trivia prefix and top-level members.
//  5. Builds each member's statement arena.
//
// Returns a *ParseError for malformed input.
func (p *Parser) ParseFile(ctx context.Context, text string) (*gdast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	tokens, scanErr := scan(text, p.maxDepth)
	if scanErr != nil {
		return nil, newParseError(text, scanErr.offset, scanErr.err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	lines := splitLogicalLines(tokens)

	spans, err := p.splitMembers(text, tokens, lines)
	if err != nil {
		return nil, err
	}

	tree := &gdast.Tree{}
	prefixEnd := len(lines)
	if len(spans) > 0 {
		prefixEnd = spans[0].firstLine
	}
	if prefixEnd > 0 {
		prefix, prefixErr := buildPrefix(text, tokens, lines[:prefixEnd])
		if prefixErr != nil {
			return nil, prefixErr
		}
		tree.Prefix = prefix
	}

	tree.Members = make([]*gdast.Member, 0, len(spans))
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse cancelled: %w", err)
		}

		member, buildErr := p.buildMember(text, tokens, lines, span)
		if buildErr != nil {
			return nil, buildErr
		}
		tree.Members = append(tree.Members, member)
	}

	return tree, nil
}

func newParseError(text string, offset int, err error) *ParseError {
	line, col := gdast.BuildLines(text).LineAt(offset)
	return &ParseError{Offset: offset, Line: line, Column: col, Err: err}
}

func buildPrefix(text string, tokens []gdast.Token, lines []logicalLine) (*gdast.Prefix, error) {
	first := lines[0].first
	last := lines[len(lines)-1].last
	start := tokens[first].Start
	end := tokens[last].End

	rebased := make([]gdast.Token, 0, last-first+1)
	for _, tok := range tokens[first : last+1] {
		rebased = append(rebased, tok.Shift(-start))
	}

	prefix, err := gdast.NewPrefix(strings.Clone(text[start:end]), rebased)
	if err != nil {
		return nil, fmt.Errorf("build prefix: %w", err)
	}
	return prefix, nil
}

// Package incremental re-parses GDScript after text edits. Given the previous
// tree and the edits that produced the new text, it decides between
// reparsing the whole file and reparsing only the touched top-level members,
// and splices reparsed members into a clone of the old tree.
package incremental

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
)

// Parser is the incremental parsing engine. It is safe for concurrent use;
// each call reads the old tree without modifying it.
type Parser struct {
	parser   FileParser
	reparser *MemberReparser

	mu   sync.RWMutex
	opts Options
}

// NewParser creates an engine backed by parser.
func NewParser(parser FileParser, opts Options) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Parser{
		parser:   parser,
		reparser: NewMemberReparser(parser),
		opts:     opts,
	}, nil
}

// Options returns the current options.
func (p *Parser) Options() Options {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.opts
}

// SetOptions replaces the options. Calls already running keep the options
// they started with.
func (p *Parser) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.opts = opts
	p.mu.Unlock()
	return nil
}

// ParseFile parses newText from scratch.
func (p *Parser) ParseFile(ctx context.Context, newText string) (*gdast.Tree, error) {
	return p.parseFull(ctx, newText)
}

// ParseIncremental produces the tree for newText, reusing members of oldTree
// that the edits did not touch. changes are expressed in old-text
// coordinates, may arrive in any order, and must not overlap.
//
// The method:
//  1. Short-circuits a missing old tree (full parse) and an empty batch
//     (the old tree is returned unchanged).
//  2. Falls back to a full parse when the edited volume is large relative to
//     the original length.
//  3. Maps every edit to the single ordinary member containing it, falling
//     back when an edit touches the prefix, a class attribute, a member
//     boundary or more than one member, or when too many members change.
//  4. Reparses each touched member on its own and splices it into a clone of
//     the old tree. Any failure abandons the clone for a full parse.
//
// Errors are returned for malformed changes, cancellation, and a full parse
// that fails.
func (p *Parser) ParseIncremental(
	ctx context.Context,
	oldTree *gdast.Tree,
	newText string,
	changes []edit.TextChange,
) (*Result, error) {
	opts := p.Options()
	logger := logging.FromContext(ctx)

	if oldTree == nil {
		return p.fullResult(ctx, newText, ReasonNoPreviousTree)
	}
	if len(changes) == 0 {
		return &Result{Kind: ResultNoChanges, Tree: oldTree}, nil
	}

	originalLength := len(newText) - edit.TotalDelta(changes)
	sorted, err := edit.PrepareChanges(changes, originalLength)
	if err != nil {
		return nil, fmt.Errorf("incremental parse: %w", err)
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	if ratio, over := exceedsThreshold(sorted, originalLength, opts.FullReparseThreshold); over {
		logger.Debug("edit volume over threshold",
			logging.FieldRatio, ratio,
			logging.FieldThreshold, opts.FullReparseThreshold)
		return p.fullResult(ctx, newText, ReasonThreshold)
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	if oldTree.OriginLength() != originalLength {
		logger.Debug("edits do not describe the old tree",
			logging.FieldOriginLength, oldTree.OriginLength(),
			logging.FieldExpectedLength, originalLength)
		return p.fullResult(ctx, newText, ReasonLengthMismatch)
	}

	table := BuildOffsetTable(oldTree)
	if len(table) == 0 {
		return p.fullResult(ctx, newText, ReasonNoMembers)
	}

	groups, reason := GroupChanges(sorted, table, oldTree)
	if reason != ReasonNone {
		return p.fullResult(ctx, newText, reason)
	}
	if len(groups) > opts.MaxAffectedMembers {
		logger.Debug("too many members touched",
			logging.FieldAffected, len(groups),
			logging.FieldMaxAffected, opts.MaxAffectedMembers)
		return p.fullResult(ctx, newText, ReasonTooManyMembers)
	}

	return p.splice(ctx, oldTree, newText, sorted, groups)
}

// splice reparses each group's member and replaces it in a clone of oldTree.
// The clone is returned only if every member succeeds.
func (p *Parser) splice(
	ctx context.Context,
	oldTree *gdast.Tree,
	newText string,
	sorted []edit.TextChange,
	groups []ChangeGroup,
) (*Result, error) {
	logger := logging.FromContext(ctx)
	tree := oldTree.Clone()
	memberChanges := make([]MemberChange, 0, len(groups))

	for _, group := range groups {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		adjusted := group.AdjustedSpan(sorted)
		if !plausibleSpan(adjusted, group.Original, len(newText)) {
			logger.Debug("implausible member span",
				logging.FieldMember, group.Index,
				logging.FieldSpanStart, adjusted.Start,
				logging.FieldSpanEnd, adjusted.End())
			return p.fullResult(ctx, newText, ReasonBadSpan)
		}

		member, err := p.reparser.Reparse(ctx, newText, adjusted.Start, adjusted.End())
		if err != nil {
			if !errors.Is(err, ErrReparseFailed) {
				return nil, fmt.Errorf("incremental parse: %w", err)
			}
			logger.Debug("member reparse failed",
				logging.FieldMember, group.Index,
				logging.FieldError, err)
			return p.fullResult(ctx, newText, ReasonMemberReparseFailed)
		}

		old, err := tree.ReplaceMember(group.Index, member)
		if err != nil {
			return nil, fmt.Errorf("incremental parse: %w", err)
		}
		memberChanges = append(memberChanges, MemberChange{Index: group.Index, Old: old, New: member})
	}

	logger.Debug("incremental reparse",
		logging.FieldMembers, len(memberChanges),
		logging.FieldEdits, len(sorted))

	return &Result{Kind: ResultIncremental, Tree: tree, MemberChanges: memberChanges}, nil
}

func (p *Parser) fullResult(ctx context.Context, newText string, reason Reason) (*Result, error) {
	logging.FromContext(ctx).Debug("full reparse", logging.FieldReason, string(reason))

	tree, err := p.parseFull(ctx, newText)
	if err != nil {
		return nil, err
	}
	return fullResult(tree, reason), nil
}

// parseFull runs the whole-file parser. A panic becomes an error here so that
// it never crosses the package boundary.
func (p *Parser) parseFull(ctx context.Context, text string) (tree *gdast.Tree, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			tree = nil
			err = fmt.Errorf("full parse: parser panic: %v", recovered)
		}
	}()

	tree, err = p.parser.ParseFile(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("full parse: %w", err)
	}
	return tree, nil
}

// exceedsThreshold compares the edited volume with the original length.
func exceedsThreshold(changes []edit.TextChange, originalLength int, threshold float64) (float64, bool) {
	if originalLength <= 0 {
		return 0, false
	}

	volume := 0
	for _, change := range changes {
		volume += max(change.OldLength, change.NewLength())
	}

	ratio := float64(volume) / float64(originalLength)
	return ratio, ratio > threshold
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("incremental parse cancelled: %w", err)
	}
	return nil
}

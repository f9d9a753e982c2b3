package gdparser

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gdparse/pkg/gdast"
)

var declarationKinds = map[string]gdast.MemberKind{
	"extends":    gdast.MemberExtends,
	"class_name": gdast.MemberClassName,
	"func":       gdast.MemberFunc,
	"var":        gdast.MemberVar,
	"const":      gdast.MemberConst,
	"signal":     gdast.MemberSignal,
	"enum":       gdast.MemberEnum,
	"class":      gdast.MemberClass,
}

// Annotations that stand alone and apply to the whole script.
var classAnnotations = map[string]struct{}{
	"@tool":          {},
	"@icon":          {},
	"@static_unload": {},
}

// memberSpan is a run of logical lines forming one member.
type memberSpan struct {
	firstLine int
	lastLine  int

	// declLine is the declaring line, or -1 for annotation-only members.
	declLine int
	kind     gdast.MemberKind

	// opensBlock is true when the declaration ends with ':'.
	opensBlock bool
}

// lineHead describes the start of a column-0 logical line.
type lineHead struct {
	// annotations holds the significant-token positions of the leading
	// annotations.
	annotations []int

	// rest is the position in line.significant after the annotations and
	// their arguments.
	rest int
}

// splitMembers assigns every logical line to the prefix or to a member.
// A column-0 code line starts a member unless an annotation-only line is
// waiting for its declaration. Trivia belongs to the member before it.
func (p *Parser) splitMembers(text string, tokens []gdast.Token, lines []logicalLine) ([]memberSpan, error) {
	var spans []memberSpan
	current := -1
	pending := -1

	for idx, line := range lines {
		if line.trivia {
			if current >= 0 {
				spans[current].lastLine = idx
			}
			continue
		}

		firstSig := tokens[line.significant[0]]

		if line.indent > 0 {
			if pending < 0 && current >= 0 && spans[current].opensBlock {
				spans[current].lastLine = idx
				continue
			}
			return nil, newParseError(text, firstSig.Start, ErrUnexpectedIndent)
		}

		head := readHead(tokens, line)
		if head.rest == len(line.significant) {
			name := tokens[line.significant[head.annotations[0]]].Text(text)
			if _, ok := classAnnotations[name]; ok && pending < 0 {
				spans = append(spans, memberSpan{
					firstLine: idx, lastLine: idx, declLine: -1, kind: gdast.MemberClassAnnotation,
				})
				current = len(spans) - 1
				continue
			}
			if pending < 0 {
				pending = idx
				current = -1
			}
			continue
		}

		kind, ok := declarationKind(text, tokens, line, head)
		if !ok {
			return nil, newParseError(text, tokens[line.significant[head.rest]].Start, ErrExpectedDeclaration)
		}

		first := idx
		if pending >= 0 {
			first = pending
		}
		lastSig := tokens[line.significant[len(line.significant)-1]]
		spans = append(spans, memberSpan{
			firstLine:  first,
			lastLine:   idx,
			declLine:   idx,
			kind:       kind,
			opensBlock: lastSig.Kind == gdast.TokColon,
		})
		current = len(spans) - 1
		pending = -1
	}

	if pending >= 0 {
		spans = append(spans, memberSpan{
			firstLine: pending, lastLine: len(lines) - 1, declLine: -1, kind: gdast.MemberAnnotation,
		})
	}

	return spans, nil
}

// readHead skips leading annotations and their parenthesised arguments.
func readHead(tokens []gdast.Token, line logicalLine) lineHead {
	var head lineHead
	sig := line.significant

	pos := 0
	for pos < len(sig) && tokens[sig[pos]].Kind == gdast.TokAnnotation {
		head.annotations = append(head.annotations, pos)
		pos++
		if pos < len(sig) && tokens[sig[pos]].Kind == gdast.TokOpenBracket && tokens[sig[pos]].Start == tokens[sig[pos-1]].End {
			depth := 0
			for ; pos < len(sig); pos++ {
				switch tokens[sig[pos]].Kind {
				case gdast.TokOpenBracket:
					depth++
				case gdast.TokCloseBracket:
					depth--
				}
				if depth == 0 {
					pos++
					break
				}
			}
		}
	}

	head.rest = pos
	return head
}

// declarationKind reads an optional "static" and the declaring keyword.
func declarationKind(text string, tokens []gdast.Token, line logicalLine, head lineHead) (gdast.MemberKind, bool) {
	pos := head.rest
	sig := line.significant
	if tokens[sig[pos]].Text(text) == "static" && pos+1 < len(sig) {
		pos++
	}

	tok := tokens[sig[pos]]
	if tok.Kind != gdast.TokKeyword {
		return 0, false
	}
	kind, ok := declarationKinds[tok.Text(text)]
	return kind, ok
}

// buildMember materialises a member from its line span.
func (p *Parser) buildMember(text string, tokens []gdast.Token, lines []logicalLine, span memberSpan) (*gdast.Member, error) {
	firstTok := lines[span.firstLine].first
	lastTok := lines[span.lastLine].last
	start := tokens[firstTok].Start
	end := tokens[lastTok].End

	rebased := make([]gdast.Token, 0, lastTok-firstTok+1)
	for _, tok := range tokens[firstTok : lastTok+1] {
		rebased = append(rebased, tok.Shift(-start))
	}

	var arena gdast.Arena
	root := arena.Add(gdast.NodeMember, 0, lastTok-firstTok, 0)

	info := gdast.MemberInfo{Kind: span.kind}

	annotationEnd := span.lastLine
	if span.declLine >= 0 {
		annotationEnd = span.declLine - 1
	}
	for idx := span.firstLine; idx <= annotationEnd; idx++ {
		line := lines[idx]
		if line.trivia {
			continue
		}
		node := arena.Add(gdast.NodeAnnotation, line.first-firstTok, line.last-firstTok, line.indent)
		arena.AppendChild(root, node)
		info.Annotations = append(info.Annotations, annotationNames(text, tokens, line)...)
	}

	if span.declLine < 0 {
		if len(info.Annotations) > 0 {
			info.Name = info.Annotations[0]
		}
		if span.kind == gdast.MemberClassAnnotation {
			line := lines[span.firstLine]
			info.Detail = detailText(text, tokens, line.significant[1:])
		}
	} else {
		if err := p.buildBody(text, tokens, lines, span, firstTok, &arena, root); err != nil {
			return nil, err
		}
		fillDeclarationInfo(text, tokens, lines[span.declLine], span, &info)
	}

	member, err := gdast.NewMember(info, strings.Clone(text[start:end]), rebased, arena.Nodes())
	if err != nil {
		return nil, fmt.Errorf("build member at %d: %w", start, err)
	}
	return member, nil
}

// buildBody adds the declaration node and nests body statements under it by
// indentation.
func (p *Parser) buildBody(
	text string,
	tokens []gdast.Token,
	lines []logicalLine,
	span memberSpan,
	firstTok int,
	arena *gdast.Arena,
	root int,
) error {
	type level struct {
		indent int
		node   int
	}

	declLine := lines[span.declLine]
	decl := arena.Add(gdast.NodeDeclaration, declLine.first-firstTok, declLine.last-firstTok, 0)
	arena.AppendChild(root, decl)

	stack := []level{{indent: 0, node: decl}}
	for idx := span.declLine + 1; idx <= span.lastLine; idx++ {
		line := lines[idx]
		if line.trivia {
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].indent >= line.indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) >= p.maxDepth {
			return newParseError(text, tokens[line.first].Start, ErrNestingTooDeep)
		}

		node := arena.Add(gdast.NodeStatement, line.first-firstTok, line.last-firstTok, line.indent)
		arena.AppendChild(stack[len(stack)-1].node, node)
		arena.ExtendTo(node, line.last-firstTok)
		stack = append(stack, level{indent: line.indent, node: node})
	}

	return nil
}

func annotationNames(text string, tokens []gdast.Token, line logicalLine) []string {
	var names []string
	for _, idx := range line.significant {
		if tokens[idx].Kind == gdast.TokAnnotation {
			names = append(names, strings.TrimPrefix(tokens[idx].Text(text), "@"))
		}
	}
	return names
}

// fillDeclarationInfo reads name, detail, static and inline annotations from
// the declaring line.
func fillDeclarationInfo(text string, tokens []gdast.Token, line logicalLine, span memberSpan, info *gdast.MemberInfo) {
	head := readHead(tokens, line)
	sig := line.significant
	for _, pos := range head.annotations {
		info.Annotations = append(info.Annotations, strings.TrimPrefix(tokens[sig[pos]].Text(text), "@"))
	}

	pos := head.rest
	if tokens[sig[pos]].Text(text) == "static" {
		info.Static = true
		pos++
	}
	pos++ // declaring keyword

	if span.kind != gdast.MemberExtends && pos < len(sig) && tokens[sig[pos]].Kind == gdast.TokIdentifier {
		info.Name = tokens[sig[pos]].Text(text)
		pos++
	}

	rest := sig[min(pos, len(sig)):]
	if span.opensBlock && len(rest) > 0 {
		rest = rest[:len(rest)-1]
	}
	info.Detail = detailText(text, tokens, rest)
}

// detailText returns the source between the first and last of the given
// tokens with whitespace runs collapsed.
func detailText(text string, tokens []gdast.Token, sig []int) string {
	if len(sig) == 0 {
		return ""
	}
	raw := text[tokens[sig[0]].Start:tokens[sig[len(sig)-1]].End]
	return strings.Join(strings.Fields(raw), " ")
}

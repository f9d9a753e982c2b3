package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
)

var symbolKinds = map[gdast.MemberKind]protocol.SymbolKind{
	gdast.MemberExtends:         protocol.SymbolKindClass,
	gdast.MemberClassName:       protocol.SymbolKindClass,
	gdast.MemberClassAnnotation: protocol.SymbolKindProperty,
	gdast.MemberFunc:            protocol.SymbolKindMethod,
	gdast.MemberVar:             protocol.SymbolKindField,
	gdast.MemberConst:           protocol.SymbolKindConstant,
	gdast.MemberSignal:          protocol.SymbolKindEvent,
	gdast.MemberEnum:            protocol.SymbolKindEnum,
	gdast.MemberClass:           protocol.SymbolKindClass,
	gdast.MemberAnnotation:      protocol.SymbolKindProperty,
}

// documentSymbols returns one symbol per member of tree, whose source is text.
func documentSymbols(text string, tree *gdast.Tree) []protocol.DocumentSymbol {
	if tree == nil {
		return []protocol.DocumentSymbol{}
	}

	lines := gdast.BuildLines(text)
	symbols := make([]protocol.DocumentSymbol, 0, len(tree.Members))
	offset := tree.PrefixLength()

	for _, member := range tree.Members {
		span := edit.TextSpan{Start: offset, Length: member.OriginLength()}
		selection := span
		if decl, ok := declarationSpan(member); ok {
			selection = edit.TextSpan{Start: offset + decl.Start, Length: decl.Length}
		}

		kind, ok := symbolKinds[member.Kind()]
		if !ok {
			kind = protocol.SymbolKindVariable
		}

		symbol := protocol.DocumentSymbol{
			Name:           symbolName(member),
			Kind:           kind,
			Range:          toRange(text, lines, span),
			SelectionRange: toRange(text, lines, selection),
		}
		if detail := member.Detail(); detail != "" {
			symbol.Detail = &detail
		}

		symbols = append(symbols, symbol)
		offset += member.OriginLength()
	}

	return symbols
}

// symbolName returns a non-empty display name for member.
func symbolName(member *gdast.Member) string {
	switch member.Kind() {
	case gdast.MemberExtends:
		return "extends " + member.Detail()
	case gdast.MemberClassAnnotation, gdast.MemberAnnotation:
		return "@" + member.Name()
	}
	if member.Name() != "" {
		return member.Name()
	}
	return member.Kind().String()
}

// declarationSpan returns the member-relative span of the declaring line.
func declarationSpan(member *gdast.Member) (edit.TextSpan, bool) {
	node, ok := member.Node(member.Declaration())
	if !ok || node.FirstToken < 0 {
		return edit.TextSpan{}, false
	}
	tokens := member.Tokens()
	return edit.NewSpan(tokens[node.FirstToken].Start, tokens[node.LastToken].End), true
}

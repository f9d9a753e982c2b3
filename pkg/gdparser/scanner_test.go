package gdparser

import (
	"testing"

	"github.com/yaklabco/gdparse/pkg/gdast"
)

func TestScan_ValidatesContiguous(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"declaration", "var x: int = 1"},
		{"function", "func f(a, b) -> int:\n\treturn a ** b\n"},
		{"crlf", "var x\r\nvar y\r\n"},
		{"lone cr", "var x\rvar y"},
		{"triple string", "var s = '''a\nb'''"},
		{"node paths", "var n = $Path/To/Node\nvar u = %Unique\n"},
		{"numbers", "var n = [0x1F, 0b101, 1_000, 1.5e-3, .5]"},
		{"operators", "a <<= b >> c != d && e"},
		{"unicode other", "var x = 1 ← 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := scan(tt.content, 0)
			if err != nil {
				t.Fatalf("scan failed: %v", err.err)
			}
			if !gdast.ValidateTokens(tokens, len(tt.content)) {
				t.Errorf("tokens do not cover %q", tt.content)
			}
		})
	}
}

func TestScan_Kinds(t *testing.T) {
	content := "@export var a := &\"n\" # c\n"
	tokens, err := scan(content, 0)
	if err != nil {
		t.Fatalf("scan failed: %v", err.err)
	}

	want := []struct {
		kind gdast.TokenKind
		text string
	}{
		{gdast.TokAnnotation, "@export"},
		{gdast.TokWhitespace, " "},
		{gdast.TokKeyword, "var"},
		{gdast.TokWhitespace, " "},
		{gdast.TokIdentifier, "a"},
		{gdast.TokWhitespace, " "},
		{gdast.TokOperator, ":="},
		{gdast.TokWhitespace, " "},
		{gdast.TokString, "&\"n\""},
		{gdast.TokWhitespace, " "},
		{gdast.TokComment, "# c"},
		{gdast.TokNewline, "\n"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for idx, tok := range tokens {
		if tok.Kind != want[idx].kind || tok.Text(content) != want[idx].text {
			t.Errorf("token %d = (%d, %q), want (%d, %q)",
				idx, tok.Kind, tok.Text(content), want[idx].kind, want[idx].text)
		}
	}
}

func TestScan_PercentDisambiguation(t *testing.T) {
	tests := []struct {
		content string
		kind    gdast.TokenKind
	}{
		{"a %b", gdast.TokOperator},
		{"= %b", gdast.TokNodePath},
		{"(%b", gdast.TokNodePath},
		{"a % b", gdast.TokOperator},
		{"self %b", gdast.TokOperator},
	}

	for _, tt := range tests {
		tokens, err := scan(tt.content, 0)
		if err != nil {
			t.Fatalf("%q: scan failed: %v", tt.content, err.err)
		}
		for _, tok := range tokens {
			text := tok.Text(tt.content)
			if text != "" && text[0] == '%' {
				if tok.Kind != tt.kind {
					t.Errorf("%q: '%%' scanned as %d, want %d", tt.content, tok.Kind, tt.kind)
				}
			}
		}
	}
}

func TestSplitLogicalLines(t *testing.T) {
	content := "var a = [1,\n\t2]\n\n# c\nvar b = 1 + \\\n\t2\n"
	tokens, err := scan(content, 0)
	if err != nil {
		t.Fatalf("scan failed: %v", err.err)
	}

	lines := splitLogicalLines(tokens)
	if len(lines) != 4 {
		t.Fatalf("got %d logical lines, want 4", len(lines))
	}

	wantTrivia := []bool{false, true, true, false}
	for idx, line := range lines {
		if line.trivia != wantTrivia[idx] {
			t.Errorf("line %d trivia = %v, want %v", idx, line.trivia, wantTrivia[idx])
		}
		if line.indent != 0 {
			t.Errorf("line %d indent = %d, want 0", idx, line.indent)
		}
	}

	last := lines[len(lines)-1]
	if got := content[tokens[last.first].Start:tokens[last.last].End]; got != "var b = 1 + \\\n\t2\n" {
		t.Errorf("continued line = %q", got)
	}
}

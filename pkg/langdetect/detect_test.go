package langdetect_test

import (
	"testing"

	"github.com/yaklabco/gdparse/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  string
		expected string
	}{
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hello')",
			expected: "python",
		},
		{
			name:     "extends marker",
			content:  "extends Node2D\n\nfunc _ready():\n\tpass\n",
			expected: "gdscript",
		},
		{
			name:     "annotations",
			content:  "@tool\n@export var speed = 10\n",
			expected: "gdscript",
		},
		{
			name:     "weak markers together",
			content:  "signal died\nfunc die():\n\tdied.emit()\n",
			expected: "gdscript",
		},
		{
			name:     "gd extension with gdscript body",
			filename: "player.gd",
			content:  "class_name Player\nvar hp := 3\n",
			expected: "gdscript",
		},
		{
			name:     "file without extension",
			filename: "player_script",
			content:  "extends CharacterBody2D\n",
			expected: "gdscript",
		},
		{
			name:     "empty content fallback",
			content:  "",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Detect(tt.filename, []byte(tt.content))
			if result != tt.expected {
				t.Errorf("Detect() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestIsGDScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "gdscript", content: "extends Node\n", want: true},
		{name: "python def", content: "def foo():\n    pass\nvar = 1\n", want: false},
		{name: "single weak marker", content: "var x\n", want: false},
		{name: "indented markers ignored", content: "\textends Node\n\t@export var x\n", want: false},
		{name: "crlf", content: "extends Node\r\nfunc a():\r\n\tpass\r\n", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.IsGDScript("", []byte(tt.content)); got != tt.want {
				t.Errorf("IsGDScript() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Content looks like GDScript but has a bash shebang.
	content := []byte("#!/bin/bash\nextends Node\n")
	if result := langdetect.Detect("", content); result != "bash" {
		t.Errorf("Detect() = %q, want %q (shebang should take precedence)", result, "bash")
	}
}

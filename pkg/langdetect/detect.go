// Package langdetect decides whether a file holds GDScript. It uses go-enry
// for shebang, extension and classifier lookups, with GDScript-specific
// patterns to settle the ambiguous ".gd" extension.
package langdetect

import (
	"bytes"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	LangGDScript = "gdscript"
	langPython   = "python"
	langBash     = "bash"
	langText     = "text"
)

// enryGDScript is the linguist name for GDScript.
const enryGDScript = "GDScript"

// classifierCandidates are the languages GDScript is most often confused with.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{enryGDScript, "Python", "GAP", "Shell", "Ruby", "Lua"}

// Detect returns the detected language for a file, lower-cased.
// filename may be empty. Returns "text" if detection fails or confidence is low.
func Detect(filename string, content []byte) string {
	if len(content) == 0 && filename == "" {
		return langText
	}

	// Strategy 1: Check shebang first (most reliable).
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 2: Extension, narrowed by content when several languages share it.
	if filename != "" {
		langs := enry.GetLanguagesByExtension(filename, content, nil)
		switch {
		case len(langs) == 1:
			return normalize(langs[0])
		case len(langs) > 1 && slices.Contains(langs, enryGDScript) && looksLikeGDScript(content):
			return LangGDScript
		case len(langs) > 1:
			if lang, _ := enry.GetLanguageByClassifier(content, langs); lang != "" {
				return normalize(lang)
			}
		}
	}

	// Strategy 3: GDScript patterns.
	if looksLikeGDScript(content) {
		return LangGDScript
	}

	// Strategy 4: Classifier over the usual look-alikes, only when confident.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

// IsGDScript reports whether the file is GDScript.
func IsGDScript(filename string, content []byte) bool {
	return Detect(filename, content) == LangGDScript
}

// strongMarkers only occur at column 0 in GDScript.
//
//nolint:gochecknoglobals // Read-only lookup table.
var strongMarkers = [][]byte{
	[]byte("extends "),
	[]byte("class_name "),
	[]byte("@tool"),
	[]byte("@export"),
	[]byte("@onready"),
	[]byte("@icon("),
}

// weakMarkers are shared with other languages and need company.
//
//nolint:gochecknoglobals // Read-only lookup table.
var weakMarkers = [][]byte{
	[]byte("func "),
	[]byte("static func "),
	[]byte("signal "),
	[]byte("var "),
	[]byte("const "),
	[]byte("enum "),
}

// looksLikeGDScript scores column-0 lines. Python's "def" rules it out.
func looksLikeGDScript(content []byte) bool {
	strong, weak := 0, 0

	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}
		if bytes.HasPrefix(line, []byte("def ")) || bytes.HasPrefix(line, []byte("import ")) {
			return false
		}
		for _, marker := range strongMarkers {
			if bytes.HasPrefix(line, marker) {
				strong++
			}
		}
		for _, marker := range weakMarkers {
			if bytes.HasPrefix(line, marker) {
				weak++
				break
			}
		}
	}

	return strong > 0 || weak >= 2
}

// normalize converts go-enry language names to lower-case tags.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "Python":
		return langPython
	default:
		return strings.ToLower(lang)
	}
}

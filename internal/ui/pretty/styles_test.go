package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	assert.Equal(t, text, styles.Bold.Render(text), "No-color Bold should not add formatting")
	assert.Equal(t, text, styles.Error.Render(text), "No-color Error should not add formatting")
	assert.Equal(t, text, styles.Kind.Render(text), "No-color Kind should not add formatting")
}

func TestStyles_AllFieldsInitialized(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)

	for name, rendered := range map[string]string{
		"Error":        styles.Error.Render("x"),
		"Warning":      styles.Warning.Render("x"),
		"Success":      styles.Success.Render("x"),
		"Failure":      styles.Failure.Render("x"),
		"FilePath":     styles.FilePath.Render("x"),
		"Location":     styles.Location.Render("x"),
		"Kind":         styles.Kind.Render("x"),
		"Name":         styles.Name.Render("x"),
		"Detail":       styles.Detail.Render("x"),
		"Reason":       styles.Reason.Render("x"),
		"DiffHeader":   styles.DiffHeader.Render("x"),
		"DiffHunk":     styles.DiffHunk.Render("x"),
		"DiffAdd":      styles.DiffAdd.Render("x"),
		"DiffRemove":   styles.DiffRemove.Render("x"),
		"DiffContext":  styles.DiffContext.Render("x"),
		"SummaryTitle": styles.SummaryTitle.Render("x"),
		"SummaryValue": styles.SummaryValue.Render("x"),
		"Dim":          styles.Dim.Render("x"),
		"Bold":         styles.Bold.Render("x"),
	} {
		assert.NotEmpty(t, rendered, name)
	}
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled(pretty.ColorAlways, &buf))
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	t.Parallel()

	assert.False(t, pretty.IsColorEnabled(pretty.ColorNever, os.Stdout))
}

func TestIsColorEnabled_AutoMode_NonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, &buf))
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	// Even with a TTY, NO_COLOR should disable colors.
	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, os.Stdout))
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}

func TestValidColorMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode string
		want bool
	}{
		{"", true},
		{"auto", true},
		{"always", true},
		{"never", true},
		{"sometimes", false},
		{"AUTO", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pretty.ValidColorMode(tt.mode))
		})
	}
}

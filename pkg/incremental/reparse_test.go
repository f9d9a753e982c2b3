package incremental_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/gdast"
	"github.com/yaklabco/gdparse/pkg/gdparser"
	"github.com/yaklabco/gdparse/pkg/incremental"
)

// parserFunc adapts a function to the FileParser interface.
type parserFunc func(ctx context.Context, text string) (*gdast.Tree, error)

func (f parserFunc) ParseFile(ctx context.Context, text string) (*gdast.Tree, error) {
	return f(ctx, text)
}

func TestMemberReparser(t *testing.T) {
	t.Parallel()

	reparser := incremental.NewMemberReparser(gdparser.New(gdparser.Options{}))

	tests := []struct {
		name    string
		text    string
		start   int
		end     int
		want    string
		wantErr bool
	}{
		{
			name:  "whole member",
			text:  "func a():\n\treturn 1\nfunc b():\n\tpass\n",
			start: 0, end: 20,
			want: "func a():\n\treturn 1\n",
		},
		{
			name:  "start expands to line start",
			text:  "var x = 1\nvar y = 2\n",
			start: 13, end: 20,
			want: "var y = 2\n",
		},
		{
			name:  "last member without newline",
			text:  "var x = 1\nvar y = 2",
			start: 10, end: 19,
			want: "var y = 2",
		},
		{
			name:  "two members",
			text:  "func a():\n\tpass\nvar z = 1\nfunc b():\n\tpass\n",
			start: 0, end: 26,
			wantErr: true,
		},
		{
			name:  "unterminated string",
			text:  "var a = 1 \"\"\"\nvar b = 2 # \"\"\"\n",
			start: 0, end: 14,
			wantErr: true,
		},
		{
			name:  "trailing continuation",
			text:  "func a():\n\tpass \\\nfunc b():\n\tpass\n",
			start: 0, end: 18,
			wantErr: true,
		},
		{
			name:  "dangling annotation",
			text:  "@export\nvar b\n",
			start: 0, end: 8,
			wantErr: true,
		},
		{
			name:  "class attribute",
			text:  "extends Node\nvar b\n",
			start: 0, end: 13,
			wantErr: true,
		},
		{
			name:  "leading trivia",
			text:  "# c\nvar b\n",
			start: 0, end: 10,
			wantErr: true,
		},
		{
			name:  "region not ending at a line break",
			text:  "var a = 1\nvar b\n",
			start: 0, end: 5,
			wantErr: true,
		},
		{
			name:  "empty region",
			text:  "var a\n",
			start: 3, end: 0,
			wantErr: true,
		},
		{
			name:  "end out of range",
			text:  "var a\n",
			start: 0, end: 99,
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			member, err := reparser.Reparse(context.Background(), testCase.text, testCase.start, testCase.end)
			if testCase.wantErr {
				require.ErrorIs(t, err, incremental.ErrReparseFailed)
				var reparseErr *incremental.ReparseError
				require.ErrorAs(t, err, &reparseErr)
				assert.NotEmpty(t, reparseErr.Reason)
				assert.Nil(t, member)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, member.Render())
		})
	}
}

func TestMemberReparserRecoversPanic(t *testing.T) {
	t.Parallel()

	reparser := incremental.NewMemberReparser(parserFunc(func(context.Context, string) (*gdast.Tree, error) {
		panic("stack guard tripped")
	}))

	_, err := reparser.Reparse(context.Background(), "var a\n", 0, 6)
	require.ErrorIs(t, err, incremental.ErrReparseFailed)
	assert.Contains(t, err.Error(), "stack guard tripped")
}

func TestMemberReparserPropagatesCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reparser := incremental.NewMemberReparser(gdparser.New(gdparser.Options{}))
	_, err := reparser.Reparse(ctx, "var a\n", 0, 6)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, incremental.ErrReparseFailed))
}

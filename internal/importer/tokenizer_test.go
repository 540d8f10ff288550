package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name:        "plain rows",
			input:       "Item,Qty\nA100,5\nA200,3\n",
			wantHeaders: []string{"Item", "Qty"},
			wantRows:    [][]string{{"A100", "5"}, {"A200", "3"}},
		},
		{
			name:        "quoted comma stays literal",
			input:       "Item,Description\nA100,\"Beef, Ground\"\n",
			wantHeaders: []string{"Item", "Description"},
			wantRows:    [][]string{{"A100", "Beef, Ground"}},
		},
		{
			name:        "doubled quote escapes a literal quote",
			input:       `a,"b""c",d`,
			wantHeaders: []string{"a", `b"c`, "d"},
			wantRows:    [][]string{},
		},
		{
			name:        "blank lines skipped, first non-blank is header",
			input:       "\n\nItem,Qty\n\nA100,5\n\n",
			wantHeaders: []string{"Item", "Qty"},
			wantRows:    [][]string{{"A100", "5"}},
		},
		{
			name:        "ragged rows pass through",
			input:       "Item,Qty,Value\nA100,5\nA200,3,10,extra",
			wantHeaders: []string{"Item", "Qty", "Value"},
			wantRows:    [][]string{{"A100", "5"}, {"A200", "3", "10", "extra"}},
		},
		{
			name:        "crlf line endings",
			input:       "Item,Qty\r\nA100,5\r\n",
			wantHeaders: []string{"Item", "Qty"},
			wantRows:    [][]string{{"A100", "5"}},
		},
		{
			name:        "fields trimmed",
			input:       " Item , Qty \n A100 , 5 \n",
			wantHeaders: []string{"Item", "Qty"},
			wantRows:    [][]string{{"A100", "5"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Tokenize(tt.input)
			assert.Equal(t, tt.wantHeaders, table.Headers)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}

func TestTokenizeNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\n  ",
		`"unterminated quote`,
		"\",,,\"\"\"",
		"\x00\x01garbage",
	}

	for _, input := range inputs {
		require.NotPanics(t, func() { Tokenize(input) })
	}

	assert.True(t, Tokenize("").Empty())
	assert.True(t, Tokenize("  \n  ").Empty())
}

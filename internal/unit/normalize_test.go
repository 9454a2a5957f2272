package unit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapses blank runs", input: "line1\n\n\nline2\n\n", want: "line1\n\nline2\n"},
		{name: "adds trailing newline", input: "a\nb", want: "a\nb\n"},
		{name: "strips trailing blanks", input: "a\n\n \n\t\n", want: "a\n"},
		{name: "empty input", input: "", want: "\n"},
		{name: "only blanks", input: "\n\n\n", want: "\n"},
		{name: "whitespace lines count as blank", input: "a\n  \n\t\nb\n", want: "a\n  \nb\n"},
		{name: "crlf", input: "a\r\n\r\n\r\nb\r\n", want: "a\n\nb\n"},
		{name: "keeps leading single blank", input: "\na\n", want: "\na\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func lineSoup() *rapid.Generator[string] {
	line := rapid.SampledFrom([]string{"", " ", "\t", "\r", "[Unit]", "Key=value", "# comment", "x"})
	return rapid.Custom(func(t *rapid.T) string {
		return strings.Join(rapid.SliceOf(line).Draw(t, "lines"), "\n")
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.OneOf(rapid.String(), lineSoup()).Draw(t, "input")

		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	})
}

func TestNormalize_Invariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		out := Normalize(lineSoup().Draw(t, "input"))

		if !strings.HasSuffix(out, "\n") {
			t.Fatalf("missing trailing newline: %q", out)
		}
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "" && strings.TrimSpace(lines[i-1]) == "" {
				t.Fatalf("consecutive blank lines at %d: %q", i, out)
			}
		}
		if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			t.Fatalf("trailing blank line: %q", out)
		}
	})
}

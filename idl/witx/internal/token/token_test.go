package token

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"parens",
			"()",
			[]Token{{"(", LParen, 1}, {")", RParen, 1}},
		},
		{
			"module",
			"(module $wasi_snapshot_preview1)",
			[]Token{{"(", LParen, 1}, {"module", Ident, 1}, {"$wasi_snapshot_preview1", Ident, 1}, {")", RParen, 1}},
		},
		{
			"newlines",
			"(\ntypename\n)",
			[]Token{{"(", LParen, 1}, {"typename", Ident, 2}, {")", RParen, 3}},
		},
		{
			"annotation",
			"(@witx tag u16)",
			[]Token{{"(", LParen, 1}, {"@witx", Ident, 1}, {"tag", Ident, 1}, {"u16", Ident, 1}, {")", RParen, 1}},
		},
		{
			"interface",
			"@interface func",
			[]Token{{"@interface", Ident, 1}, {"func", Ident, 1}},
		},
		{
			"string",
			`(export "fd_write")`,
			[]Token{{"(", LParen, 1}, {"export", Ident, 1}, {"fd_write", String, 1}, {")", RParen, 1}},
		},
		{
			"escaped string",
			`"a\"b"`,
			[]Token{{`a\"b`, String, 1}},
		},
		{
			"doc comment",
			";;; The file descriptor.\n$fd",
			[]Token{{"$fd", Ident, 2}},
		},
		{
			"block comment",
			"(; outer (; inner ;) ;) $x",
			[]Token{{"$x", Ident, 1}},
		},
		{
			"block comment newlines",
			"(;\n\n;)$x",
			[]Token{{"$x", Ident, 3}},
		},
		{
			"number",
			"(@witx repr 32)",
			[]Token{{"(", LParen, 1}, {"@witx", Ident, 1}, {"repr", Ident, 1}, {"32", Number, 1}, {")", RParen, 1}},
		},
		{
			"digit-leading case name",
			"$2big",
			[]Token{{"$2big", Ident, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.expected), tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestType_String(t *testing.T) {
	if LParen.String() != "'('" || Ident.String() != "identifier" || Type(99).String() != "unknown" {
		t.Error("unexpected Type.String output")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pack

import "testing"

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "simple sentence", text: "the quick brown fox", want: 4},
		{name: "punctuation is not a word", text: "hello, world!", want: 2},
		{name: "underscore joins a word", text: "snake_case identifier", want: 2},
		{name: "digits count", text: "version 2 of 3", want: 4},
		{name: "hyphen splits", text: "word-boundary", want: 2},
		{name: "markdown markup ignored", text: "## Heading\n\n*bold* text", want: 3},
		{name: "unicode letters", text: "naïve café Zürich", want: 3},
		{name: "whitespace only", text: " \n\t  ", want: 0},
		{name: "invalid utf8 replaced", text: "abc\xffdef", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Words(tt.text); got != tt.want {
				t.Errorf("Words(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

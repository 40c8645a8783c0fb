// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pack

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordRE matches one word: a maximal run of letters, digits, or underscore.
// The Unicode classes keep counts stable for non-ASCII prose.
var wordRE = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Words counts the words in text. Bytes that are not valid UTF-8 are
// replaced with U+FFFD before counting, so a corrupt artifact still gets a
// usable count instead of an error.
func Words(text string) int {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return len(wordRE.FindAllStringIndex(text, -1))
}

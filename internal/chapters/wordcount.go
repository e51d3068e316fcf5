package chapters

import (
	"strings"
	"unicode"

	"github.com/jaytaylor/html2text"
)

// WordCount counts the non-space runes of content once markup is stripped.
// Each CJK character counts as one word.
func WordCount(content string) int {
	plain := strings.TrimSpace(content)
	if strings.ContainsAny(plain, "<&") {
		if text, err := html2text.FromString(plain, html2text.Options{OmitLinks: true}); err == nil {
			plain = text
		}
	}
	n := 0
	for _, r := range plain {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

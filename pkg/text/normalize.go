package text

import (
	"regexp"
	"strings"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n\s*`)
	lineBreak      = regexp.MustCompile(`\n\s*`)
)

// Normalize collapses runs of whitespace within lines and keeps at most one
// blank line between paragraphs.
func Normalize(text string) string {
	text = strings.TrimSpace(text)

	// \a marks line breaks while spaces are collapsed
	text = strings.ReplaceAll(text, "\a", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = paragraphBreak.ReplaceAllString(text, "\a\a")
	text = lineBreak.ReplaceAllString(text, "\a")

	text = strings.Join(strings.Fields(text), " ")

	text = strings.ReplaceAll(text, "\a ", "\a")
	text = strings.ReplaceAll(text, " \a", "\a")
	text = strings.ReplaceAll(text, "\a", "\n")

	return strings.TrimSpace(text)
}

// Strip removes every occurrence of the given characters from text.
func Strip(text string, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}

		return r
	}, text)
}

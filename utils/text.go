package utils

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed used for read-time estimates
const WordsPerMinute = 200

// ExcerptLength is the maximum number of runes in a post excerpt
const ExcerptLength = 200

var newlineRuns = regexp.MustCompile(`\n+`)

// Paragraphs splits text on runs of newlines, dropping blank pieces
func Paragraphs(text string) []string {
	parts := newlineRuns.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// ReadTimeMinutes estimates reading time as ceil(words/200), never below one.
// Words are counted by splitting on single spaces, so an empty text counts one word.
func ReadTimeMinutes(text string) int {
	words := len(strings.Split(text, " "))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the first paragraph of text, cut on a word boundary
func Excerpt(text string) string {
	paras := Paragraphs(text)
	if len(paras) == 0 {
		return ""
	}
	first := strings.TrimSpace(paras[0])
	if utf8.RuneCountInString(first) <= ExcerptLength {
		return first
	}

	runes := []rune(first)[:ExcerptLength]
	cut := len(runes)
	for i := len(runes) - 1; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}

// FormatPostDate renders a post date as "January 2, 2006"
func FormatPostDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}

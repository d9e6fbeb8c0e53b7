// Package colorlex provides the fixed vocabulary of garment color names and a
// whole-word matcher over arbitrary text.
package colorlex

import (
	"regexp"
	"strings"
)

// knownColors is the vocabulary matched against line-sheet text and OCR output.
// The list is literal: overlapping names ("Red" and "Haute Red") coexist and
// alternation order decides which one a given span of text matches.
var knownColors = []string{
	// Basic colors
	"Black", "White", "Red", "Blue", "Green", "Yellow", "Orange", "Purple", "Pink", "Brown", "Gray", "Grey",
	// Common colors
	"Beige", "Ivory", "Cream", "Gold", "Silver", "Bronze", "Copper", "Maroon", "Mustard", "Khaki", "Olive",
	"Tan", "Camel", "Burgundy", "Wine", "Magenta", "Lavender", "Lilac", "Mint", "Emerald", "Jade", "Navy",
	"Peach", "Sky", "Rust", "Cyan", "Teal", "Coral", "Charcoal", "Sand", "Mauve", "Turquoise", "Apricot",
	"Salmon", "Plum", "Ochre", "Denim", "Indigo", "Amber", "Lime", "Sapphire", "Pearl", "Slate", "Azure",
	"Rose", "Berry", "Blush", "Vanilla", "Chocolate", "Mocha", "Haute Red", "Mediterrania",
	// Seen on supplier sheets
	"Brick", "Crimson", "Fuchsia", "Lemon", "Ruby", "Scarlet", "Tangerine", "Violet", "Amethyst",
	"Aqua", "Aquamarine", "Bisque", "Chartreuse", "Orchid", "Tomato", "Wheat",
}

// Lexicon matches a fixed set of color names case-insensitively on word
// boundaries. Immutable after construction and safe for concurrent use.
type Lexicon struct {
	names   []string
	pattern *regexp.Regexp
}

// Default is the process-wide lexicon, built once from knownColors.
var Default = New(knownColors)

// New builds a Lexicon from a list of color names.
func New(names []string) *Lexicon {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}

	return &Lexicon{
		names:   names,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Match returns the color names contained in text, normalized to title case
// and deduplicated. Order is first occurrence in the text.
func (l *Lexicon) Match(text string) []string {
	var found []string
	seen := make(map[string]bool)

	for _, m := range l.pattern.FindAllString(text, -1) {
		name := TitleCase(m)
		if seen[name] {
			continue
		}
		seen[name] = true
		found = append(found, name)
	}

	return found
}

// Contains reports whether text contains at least one vocabulary color.
func (l *Lexicon) Contains(text string) bool {
	return l.pattern.MatchString(text)
}

// TitleCase normalizes a matched color name: first letter of each word upper,
// rest lower ("HAUTE RED" becomes "Haute Red").
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

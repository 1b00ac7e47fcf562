// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizeWhitespace trims s and collapses every run of whitespace
// (including the ideographic space U+3000) into a single ASCII space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldWidth maps full-width Latin letters, digits and punctuation to their
// ASCII forms and half-width katakana to full-width katakana.
//
// Example:
//
//	FoldWidth("ＢＥＥＲ") returns "BEER"
//	FoldWidth("ﾕﾘｴ") returns "ユリエ"
func FoldWidth(s string) string {
	return width.Fold.String(s)
}

// NormalizeKeyword prepares user text for exact keyword comparison:
// width folding, lowercasing and whitespace normalization.
func NormalizeKeyword(s string) string {
	return NormalizeWhitespace(strings.ToLower(FoldWidth(s)))
}

// Package normalize turns the raw text layer of a registration form into a
// single printable-ASCII line in which bilingual field labels are separated
// by '|'.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Delimiter separates field parts once the Devanagari half of each bilingual
// label has been removed.
const Delimiter = "|"

// misencodedApostrophe is a UTF-8 right single quote decoded as CP1252.
const misencodedApostrophe = "â€™"

var (
	devanagariPattern  = regexp.MustCompile(`[\x{0900}-\x{097F}]+`)
	controlPattern     = regexp.MustCompile(`[\x{00}-\x{1F}\x{7F}-\x{9F}]`)
	nonASCIIPattern    = regexp.MustCompile(`[^\x{00}-\x{7E}]`)
	apostropheReplacer = strings.NewReplacer(misencodedApostrophe, "'")
	parenReplacer      = strings.NewReplacer("( ", "(", " )", ")")
)

// Normalize runs every step of the pipeline in order. It never fails and
// returns "" for "".
func Normalize(raw string) string {
	text := CollapseWhitespace(raw)
	text = StripMarks(text)
	text = FixApostrophes(text)
	text = ReplaceDevanagari(text)
	text = RemoveControl(text)
	text = RemoveNonASCII(text)
	return TidyParens(text)
}

// CollapseWhitespace flattens the document into one line: blank lines are
// dropped, whitespace runs inside a line become one space, and lines are
// joined with a single space.
func CollapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.FieldsFunc(line, isSpace)
		if len(words) == 0 {
			continue
		}
		kept = append(kept, strings.Join(words, " "))
	}
	return strings.Join(kept, " ")
}

// isSpace also treats the ASCII file, group, record and unit separators as
// whitespace; PDF producers emit them between words.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// StripMarks decomposes text (NFD) and drops every nonspacing mark, leaving
// base letters behind.
func StripMarks(text string) string {
	decomposed := norm.NFD.String(text)
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, decomposed)
}

// FixApostrophes repairs the mojibake apostrophe some PDF producers emit.
// Only the literal sequence is replaced. Inside Normalize it runs after
// StripMarks, which has already split the 'â' into "a" plus a mark, so the
// leftover "a€™" reaches RemoveNonASCII and ends up as a bare "a".
func FixApostrophes(text string) string {
	return apostropheReplacer.Replace(text)
}

// ReplaceDevanagari replaces each maximal run of Devanagari characters
// (U+0900-U+097F) with Delimiter.
func ReplaceDevanagari(text string) string {
	return devanagariPattern.ReplaceAllLiteralString(text, Delimiter)
}

// RemoveControl deletes C0 and C1 control characters.
func RemoveControl(text string) string {
	text = controlPattern.ReplaceAllLiteralString(text, "")
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, text)
}

// RemoveNonASCII deletes everything outside U+0000-U+007E.
func RemoveNonASCII(text string) string {
	return nonASCIIPattern.ReplaceAllLiteralString(text, "")
}

// TidyParens removes the padding that whitespace collapsing leaves inside
// parenthesized labels.
func TidyParens(text string) string {
	return parenReplacer.Replace(text)
}

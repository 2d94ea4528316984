// Package arabtext normalizes Arabic names so that spellings that differ only
// by diacritics or letter variants compare equal. Used by the import pipeline
// and by student search.
package arabtext

import (
	"strings"
	"unicode"
)

// tashkeel and related combining marks stripped during normalization.
var diacritics = []*unicode.RangeTable{
	{R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1}, // honorifics & small marks
		{Lo: 0x064B, Hi: 0x065F, Stride: 1}, // fathatan .. wavy hamza below
		{Lo: 0x0670, Hi: 0x0670, Stride: 1}, // superscript alef
		{Lo: 0x06D6, Hi: 0x06ED, Stride: 1}, // quranic annotation marks
	}},
}

// letter folds: variant forms to a canonical bare form.
var letterFolds = map[rune]rune{
	'أ': 'ا', // alef with hamza above
	'إ': 'ا', // alef with hamza below
	'آ': 'ا', // alef with madda
	'ٱ': 'ا', // alef wasla
	'ؤ': 'و', // waw with hamza
	'ئ': 'ي', // yeh with hamza
	'ة': 'ه', // teh marbuta
	'ى': 'ي', // alef maksura
}

// Normalize strips Arabic diacritics, folds variant letter forms, collapses
// runs of whitespace and lowercases any embedded Latin text.
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true // leading whitespace is dropped
	for _, r := range s {
		if unicode.IsOneOf(diacritics, r) {
			continue
		}
		if folded, ok := letterFolds[r]; ok {
			r = folded
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		lastSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSpace(b.String())
}

// Equal reports whether two names normalize to the same form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Match reports whether two names are considered the same for matching
// purposes: normalized equality, or one normalized form containing the other.
// Empty names never match.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

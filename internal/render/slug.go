package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify lowers s into a URL-safe permalink segment: Unicode is decomposed
// and combining marks stripped (so "café" becomes "cafe"), runs of anything
// that is not a letter or digit collapse to a single hyphen.
func Slugify(s string) string {
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark, dropped
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

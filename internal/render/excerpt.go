package render

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Excerpt extracts the leading text of a rendered HTML fragment for use as a
// feed description. Tags are stripped; the result is truncated to maxRunes
// at a word boundary with an ellipsis appended.
func Excerpt(fragment []byte, maxRunes int) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(fragment))

	var b strings.Builder
	depth := 0 // inside elements whose text is skipped (script/style)
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skippedElement(string(name)) {
				depth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skippedElement(string(name)) && depth > 0 {
				depth--
			}
		case html.TextToken:
			if depth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
		if b.Len() > maxRunes*4 { // enough bytes collected for any truncation
			break
		}
	}

	return truncate(b.String(), maxRunes)
}

func skippedElement(name string) bool {
	return name == "script" || name == "style"
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

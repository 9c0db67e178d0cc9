package extraction

import (
	"html"
	"regexp"
	"strings"
)

var (
	markupTag    = regexp.MustCompile(`<[^>]*>`)
	scriptBlocks = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
)

// NormalizeText strips markup and OCR noise from raw source text while
// preserving line structure, since downstream extraction is line-oriented.
func NormalizeText(raw string) string {
	text := scriptBlocks.ReplaceAllString(raw, "\n")
	text = markupTag.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Map(dropControlRune, line)
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func dropControlRune(r rune) rune {
	if r == '\t' {
		return ' '
	}
	if r < 0x20 || r == 0x7f || r == 0x200b || r == 0xfeff {
		return -1
	}
	return r
}

package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/bookcard/layout"
)

// widther is the part of *canvas.FontFace the wrapper needs.
type widther interface {
	TextWidth(string) float64
}

var _ widther = (*canvas.FontFace)(nil)

// greedyWrap breaks content into lines no wider than width (mm). Explicit
// newlines always break; runs of whitespace are break opportunities and are
// dropped at the start of a wrapped line, like CSS white-space: normal.
// Words wider than the line are split between characters.
func greedyWrap(content string, width float64, face widther) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []layout.TextLine
	var builder strings.Builder
	current := 0.0
	// softBreak 表示上一行因宽度折断，紧随的显式换行不再产生空行。
	softBreak := false
	// 末尾是显式换行时，该换行已经结束了最后一行。
	endsWithNewline := false

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{})
			}
			return
		}
		text := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		lines = append(lines, layout.TextLine{Content: text, Width: face.TextWidth(text)})
		builder.Reset()
		current = 0
		softBreak = !force
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		current += w
		softBreak = false
	}

	for _, token := range tokenizeContent(content) {
		endsWithNewline = token == "\n"
		if token == "\n" {
			if builder.Len() == 0 && softBreak {
				softBreak = false
				continue
			}
			emit(true)
			continue
		}
		space := isSpaceToken(token)
		if space && builder.Len() == 0 {
			continue
		}
		tokenWidth := face.TextWidth(token)
		if current > 0 && current+tokenWidth > limit {
			emit(false)
			if space {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(token, tokenWidth)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if current > 0 && current+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk, chunkWidth)
		}
	}
	if builder.Len() > 0 || (!softBreak && !endsWithNewline) {
		emit(true)
	}
	return lines
}

func isSpaceToken(token string) bool {
	return strings.TrimFunc(token, unicode.IsSpace) == ""
}

// tokenizeContent splits s into alternating word and whitespace runs, with
// each newline as its own token.
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face widther) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var runes []rune
	for _, r := range token {
		runes = append(runes, r)
		if len(runes) > 1 && face.TextWidth(string(runes)) > limit {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = []rune{r}
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

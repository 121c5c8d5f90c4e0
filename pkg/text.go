package pkg

import (
	"strings"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/go-errors/errors"

	"github.com/kubesail/pibox-epaper/mono"
)

// TextLayout describes how a block of text is placed on the canvas.
type TextLayout struct {
	Text string

	Width, Height int
	Margin        int
	// WrapWidth is the maximum number of characters per line. Zero disables
	// wrapping.
	WrapWidth int
	// LineGap is added to the font size to get the line advance.
	LineGap int
	Font    FontSpec
}

// DefaultTextLayout returns the layout used for the quotation screen.
func DefaultTextLayout(text string) TextLayout {
	return TextLayout{
		Text:      text,
		Width:     DefaultScreenWidth,
		Height:    DefaultScreenHeight,
		Margin:    DefaultMargin,
		WrapWidth: DefaultWrap,
		LineGap:   DefaultLineGap,
		Font:      FontSpec{Path: DefaultFontPath, Size: DefaultFontSize},
	}
}

// WrapText splits text into paragraphs on blank lines and wraps each one to
// at most width characters, breaking on whitespace. Words longer than width
// are split. Consecutive paragraphs are separated by one empty line.
func WrapText(text string, width int) []string {
	var lines []string
	for i, para := range paragraphs(text) {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrapWords(para, width)...)
	}
	return lines
}

// paragraphs returns the words of each paragraph.
func paragraphs(text string) [][]string {
	var out [][]string
	var cur []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			if cur != nil {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, words...)
	}
	if cur != nil {
		out = append(out, cur)
	}
	return out
}

func wrapWords(words []string, width int) []string {
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var lines []string
	var b strings.Builder
	n := 0
	flush := func() {
		if n > 0 {
			lines = append(lines, b.String())
			b.Reset()
			n = 0
		}
	}
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if n > 0 && n+1+wl <= width {
			b.WriteByte(' ')
			b.WriteString(w)
			n += 1 + wl
			continue
		}
		flush()
		for wl > width {
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
			wl -= width
		}
		b.WriteString(w)
		n = wl
	}
	flush()
	return lines
}

// RenderText draws the wrapped text onto a white canvas, black on white.
//
// Lines are placed from the top margin down. A line that would extend past
// the bottom edge, and every line after it, is dropped. The number of lines
// placed, blank separators included, is returned with the canvas.
func RenderText(l TextLayout) (*mono.Image, int, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, 0, errors.Errorf("invalid canvas size %dx%d", l.Width, l.Height)
	}
	face, err := LoadFont(l.Font)
	if err != nil {
		return nil, 0, err
	}
	defer face.Close()

	dc := gg.NewContext(l.Width, l.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face)

	lines := WrapText(l.Text, l.WrapWidth)
	y := float64(l.Margin)
	drawn := 0
	for _, line := range lines {
		if y+l.Font.Size > float64(l.Height) {
			logDebug("text clipped", "dropped", len(lines)-drawn, "y", y)
			break
		}
		if line != "" {
			dc.DrawStringAnchored(line, float64(l.Margin), y, 0, 1)
		}
		drawn++
		y += l.Font.Size + float64(l.LineGap)
	}
	logDebug("text rendered", "lines", drawn, "wrapped", len(lines))
	return mono.Threshold(dc.Image(), 0x80), drawn, nil
}

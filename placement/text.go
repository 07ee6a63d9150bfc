package placement

import "unicode/utf8"

// average glyph width relative to the font size
const charWidthRatio = 0.6

// EstimateTextMetrics approximates the box of a single line of text.
func EstimateTextMetrics(text string, fontSize float64) TextMetrics {
	return TextMetrics{
		Width:    float64(utf8.RuneCountInString(text)) * fontSize * charWidthRatio,
		Height:   fontSize,
		Text:     text,
		FontSize: fontSize,
	}
}

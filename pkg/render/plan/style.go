package plan

import (
	"bytes"
	"encoding/xml"
)

const (
	fontFamily     = "Inter, Helvetica, Arial, sans-serif"
	fontWidthRatio = 0.9
	fontCharWidth  = 0.55
	fontSizeMin    = 6.0
	fontSizeMax    = 14.0

	strokeColor    = "#334155"
	selectedColor  = "#2563eb"
	alignColor     = "#f59e0b"
	meshColor      = "#ec4899"
	centerColor    = "#64748b"
	fallbackFill   = "#e2e8f0"
	housingOpacity = 0.35
)

// fontSizeFor picks a font size that fits text of n characters into width.
func fontSizeFor(width float64, n int) float64 {
	n = max(1, n)
	byWidth := (width * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func fillOf(color string) string {
	if color == "" {
		return fallbackFill
	}
	return escapeXML(color)
}

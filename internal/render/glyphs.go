package render

// A 3x5 raster face for the percentage overlay. basicfont's smallest face
// is 7x13, which cannot fit three glyphs on a 25-pixel matrix, so the
// overlay carries its own digits. Each glyph row is a 3-bit mask, MSB on
// the left.
const (
	glyphWidth   = 3
	glyphHeight  = 5
	glyphSpacing = 1
)

var glyphs = map[rune][glyphHeight]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b001, 0b010, 0b010},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'%': {0b101, 0b001, 0b010, 0b100, 0b101},
}

// textSize returns the pixel extent of s in this face. Runes without a
// glyph still advance the pen so layout stays stable.
func textSize(s string) (w, h int) {
	n := len([]rune(s))
	if n == 0 {
		return 0, 0
	}
	return n*(glyphWidth+glyphSpacing) - glyphSpacing, glyphHeight
}

// drawText rasters s into the frame with its top-left corner at (x,y).
func drawText(f *Frame, s string, x, y int, v uint8) {
	for _, r := range s {
		g, ok := glyphs[r]
		if ok {
			for row := 0; row < glyphHeight; row++ {
				for col := 0; col < glyphWidth; col++ {
					if g[row]&(1<<(glyphWidth-1-col)) != 0 {
						f.Set(x+col, y+row, v)
					}
				}
			}
		}
		x += glyphWidth + glyphSpacing
	}
}

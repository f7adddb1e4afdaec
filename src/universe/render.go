package universe

import "strings"

//glyphs used by the text rendering
const (
	AliveGlyph = '■'
	DeadGlyph  = '□'
)

// Render returns the grid as text: one line per row, one glyph per cell,
// every line terminated by '\n'.
func (u *Universe) Render() string {
	return renderWords(u.width, u.height, u.cells.Words())
}

func (u *Universe) String() string {
	return u.Render()
}

//renderWords renders any buffer with the packed layout of Universe.Cells
func renderWords(width, height uint32, words []uint32) string {
	var b strings.Builder
	b.Grow(int(height) * (int(width)*3 + 1))
	i := 0
	for row := uint32(0); row < height; row++ {
		for col := uint32(0); col < width; col++ {
			if words[i>>5]&(1<<uint(i&31)) != 0 {
				b.WriteRune(AliveGlyph)
			} else {
				b.WriteRune(DeadGlyph)
			}
			i++
		}
		b.WriteByte('\n')
	}
	return b.String()
}

package view

import "image/color"

// fillPackedRGBA converts the first n bits of a packed cell buffer (see
// universe.Universe.Cells) into RGBA pixels in buf.
func fillPackedRGBA(buf []byte, words []uint32, n int, on, off color.RGBA) {
	for i := 0; i < n; i++ {
		col := off
		if words[i>>5]&(1<<uint(i&31)) != 0 {
			col = on
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

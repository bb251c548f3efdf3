package kfmt

import "io"

// hexdumpWidth is the number of bytes printed per row.
const hexdumpWidth = 8

// Hexdump writes data to w as rows of hexdumpWidth bytes, each prefixed by
// its offset. The last row is padded with blanks:
//
//	0x000000: ff ff 00 00 00 9a cf 00
//	0x000008: 67 00
func Hexdump(w io.Writer, data []byte) {
	for offset := 0; offset < len(data); offset += hexdumpWidth {
		Fprintf(w, "0x%6x: ", offset)
		for i := offset; i < offset+hexdumpWidth; i++ {
			if i < len(data) {
				Fprintf(w, "%2x ", data[i])
			} else {
				Fprintf(w, "   ")
			}
		}
		Fprintf(w, "\n")
	}
}

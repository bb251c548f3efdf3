//go:build !386

package emu

const (
	crtCursorHigh = 0x0e
	crtCursorLow  = 0x0f
)

// CRT models the VGA CRT controller register file reached through the
// index/data port pair.
type CRT struct {
	Index     uint8
	Registers [0x19]uint8
}

// Write stores val into the currently selected register.
func (c *CRT) Write(val uint8) {
	if int(c.Index) < len(c.Registers) {
		c.Registers[c.Index] = val
	}
}

// Read returns the currently selected register.
func (c *CRT) Read() uint8 {
	if int(c.Index) < len(c.Registers) {
		return c.Registers[c.Index]
	}
	return 0xff
}

// CursorOffset returns the linear cell index of the hardware cursor.
func (c *CRT) CursorOffset() uint16 {
	return uint16(c.Registers[crtCursorHigh])<<8 | uint16(c.Registers[crtCursorLow])
}

// DAC models the VGA palette RAM. Colors are written as three 6-bit
// components after selecting an index.
type DAC struct {
	Palette [256][3]uint8

	index     uint8
	component uint8
}

// SetWriteIndex selects the palette entry for the next data writes.
func (d *DAC) SetWriteIndex(index uint8) {
	d.index, d.component = index, 0
}

// WriteData stores the next color component. After the blue component
// the write index advances to the next entry.
func (d *DAC) WriteData(val uint8) {
	d.Palette[d.index][d.component] = val & 0x3f
	if d.component++; d.component == 3 {
		d.component = 0
		d.index++
	}
}

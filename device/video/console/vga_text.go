package console

import (
	"image/color"
	"io"

	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/kfmt"
)

// VGA ports used by the text console.
const (
	crtIndexPort  = 0x3d4
	crtDataPort   = 0x3d5
	crtCursorHigh = 0x0e
	crtCursorLow  = 0x0f

	dacWriteIndexPort = 0x3c8
	dacDataPort       = 0x3c9
)

// FramebufferAddr is the physical address of the colour text mode
// framebuffer.
const FramebufferAddr = 0xb8000

// egaPalette holds the 16 default EGA colors.
var egaPalette = [16]color.RGBA{
	{R: 0, G: 0, B: 0},       /* black */
	{R: 0, G: 0, B: 170},     /* blue */
	{R: 0, G: 170, B: 0},     /* green */
	{R: 0, G: 170, B: 170},   /* cyan */
	{R: 170, G: 0, B: 0},     /* red */
	{R: 170, G: 0, B: 170},   /* magenta */
	{R: 170, G: 85, B: 0},    /* brown */
	{R: 170, G: 170, B: 170}, /* light gray */
	{R: 85, G: 85, B: 85},    /* dark gray */
	{R: 85, G: 85, B: 255},   /* light blue */
	{R: 85, G: 255, B: 85},   /* light green */
	{R: 85, G: 255, B: 255},  /* light cyan */
	{R: 255, G: 85, B: 85},   /* light red */
	{R: 255, G: 85, B: 255},  /* light magenta */
	{R: 255, G: 255, B: 85},  /* yellow */
	{R: 255, G: 255, B: 255}, /* white */
}

var errNoFramebuffer = &kernel.Error{Module: "vga_text_console", Message: "framebuffer is smaller than the console dimensions"}

// VgaTextConsole implements an EGA-compatible text console using VGA mode
// 0x3. The console supports the default 16 EGA colors which can be
// overridden using the SetPaletteColor method.
//
// Each character in the console framebuffer is represented using two bytes,
// a byte for the character ASCII code and a byte that encodes the foreground
// and background colors (4 bits for each).
//
// The default settings for the console are:
//   - light gray text (color 7) on blue background (color 1).
//   - space as the clear character
type VgaTextConsole struct {
	width  uint32
	height uint32

	fb    []uint16
	ports cpu.Ports

	palette   [16]color.RGBA
	defaultFg uint8
	defaultBg uint8
	clearChar uint16
}

// Init sets up the console to render into fb, which must hold at least
// columns*rows cells. Cursor and palette updates are written to ports.
// Init does not allocate so it can run before the Go allocator is
// available.
func (cons *VgaTextConsole) Init(columns, rows uint32, fb []uint16, ports cpu.Ports) {
	cons.width = columns
	cons.height = rows
	cons.fb = fb
	cons.ports = ports
	cons.palette = egaPalette
	cons.clearChar = uint16(' ')

	// light gray text on blue background
	cons.defaultFg = 7
	cons.defaultBg = 1
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.width, cons.height
}

// DefaultColors returns the default foreground and background colors
// used by this console.
func (cons *VgaTextConsole) DefaultColors() (fg uint8, bg uint8) {
	return cons.defaultFg, cons.defaultBg
}

// Fill sets the contents of the specified rectangular region to the requested
// color. Both x and y coordinates are 1-based.
func (cons *VgaTextConsole) Fill(x, y, width, height uint32, fg, bg uint8) {
	var (
		clr                  = (((uint16(bg) << 4) | uint16(fg)) << 8) | cons.clearChar
		rowOffset, colOffset uint32
	)

	// clip rectangle
	if x == 0 {
		x = 1
	} else if x >= cons.width {
		x = cons.width
	}

	if y == 0 {
		y = 1
	} else if y >= cons.height {
		y = cons.height
	}

	if x+width-1 > cons.width {
		width = cons.width - x + 1
	}

	if y+height-1 > cons.height {
		height = cons.height - y + 1
	}

	rowOffset = ((y - 1) * cons.width) + (x - 1)
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset = rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = clr
		}
	}
}

// Scroll the console contents to the specified direction. The caller
// is responsible for updating (e.g. clear or replace) the contents of
// the region that was scrolled.
func (cons *VgaTextConsole) Scroll(dir ScrollDir, lines uint32) {
	if lines == 0 || lines > cons.height {
		return
	}

	var i uint32
	offset := lines * cons.width

	switch dir {
	case ScrollDirUp:
		for ; i < (cons.height-lines)*cons.width; i++ {
			cons.fb[i] = cons.fb[i+offset]
		}
	case ScrollDirDown:
		for i = cons.height*cons.width - 1; i >= offset; i-- {
			cons.fb[i] = cons.fb[i-offset]
		}
	}
}

// Write a char to the specified location. If fg or bg exceed the supported
// colors for this console, they will be set to their default value. Both x and
// y coordinates are 1-based
func (cons *VgaTextConsole) Write(ch byte, fg, bg uint8, x, y uint32) {
	if x < 1 || x > cons.width || y < 1 || y > cons.height {
		return
	}

	maxColorIndex := uint8(len(cons.palette) - 1)
	if fg > maxColorIndex {
		fg = cons.defaultFg
	}
	if bg > maxColorIndex {
		bg = cons.defaultBg
	}

	cons.fb[((y-1)*cons.width)+(x-1)] = (((uint16(bg) << 4) | uint16(fg)) << 8) | uint16(ch)
}

// SetCursor moves the hardware cursor to column x, row y. Positions outside
// the console are clipped to its edges. The CRT controller takes the cell
// index low byte first.
func (cons *VgaTextConsole) SetCursor(x, y uint32) {
	if x < 1 {
		x = 1
	} else if x > cons.width {
		x = cons.width
	}

	if y < 1 {
		y = 1
	} else if y > cons.height {
		y = cons.height
	}

	index := (y-1)*cons.width + (x - 1)
	cons.ports.PortWriteByte(crtIndexPort, crtCursorLow)
	cons.ports.PortWriteByte(crtDataPort, uint8(index))
	cons.ports.PortWriteByte(crtIndexPort, crtCursorHigh)
	cons.ports.PortWriteByte(crtDataPort, uint8(index>>8))
}

// Cell returns the character and color attribute stored at column x, row y.
// Both coordinates are 1-based.
func (cons *VgaTextConsole) Cell(x, y uint32) (ch byte, fg, bg uint8) {
	if x < 1 || x > cons.width || y < 1 || y > cons.height {
		return 0, 0, 0
	}

	v := cons.fb[((y-1)*cons.width)+(x-1)]
	return byte(v), uint8(v>>8) & 0xf, uint8(v >> 12)
}

// Palette returns the active color palette for this console.
func (cons *VgaTextConsole) Palette() []color.RGBA {
	return cons.palette[:]
}

// SetPaletteColor updates the color definition for the specified
// palette index. Passing a color index greater than the number of
// supported colors should be a no-op.
func (cons *VgaTextConsole) SetPaletteColor(index uint8, rgba color.RGBA) {
	if index >= uint8(len(cons.palette)) {
		return
	}

	cons.palette[index] = rgba

	// Load palette entry to the DAC. In this mode, colors are specified
	// using 6-bits for each component; the RGB values need to be converted
	// to the 0-63 range.
	cons.ports.PortWriteByte(dacWriteIndexPort, index)
	cons.ports.PortWriteByte(dacDataPort, rgba.R>>2)
	cons.ports.PortWriteByte(dacDataPort, rgba.G>>2)
	cons.ports.PortWriteByte(dacDataPort, rgba.B>>2)
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes this driver.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	if uint32(len(cons.fb)) < cons.width*cons.height {
		return errNoFramebuffer
	}

	kfmt.Fprintf(w, "%dx%d text mode\n", cons.width, cons.height)
	return nil
}

//go:build !386

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/k0kubun/pp/v3"

	"github.com/fincham/vidic/emu"
	"github.com/fincham/vidic/kernel/hal"
	"github.com/fincham/vidic/kernel/kmain"
)

const statusLine = "CPU halted. Press any key to exit."

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[bootsim] error: %s\n", err.Error())
	os.Exit(1)
}

// machineState is the part of the emulated machine printed by -dump.
type machineState struct {
	Registers emu.Registers
	PIC       [2]emu.PIC
	Cursor    [2]uint32
	BootState string
	Trace     []string
}

func snapshot(m *emu.Machine) machineState {
	x, y := m.Cursor()
	return machineState{
		Registers: m.Regs,
		PIC:       m.PIC,
		Cursor:    [2]uint32{x, y},
		BootState: kmain.Context().State().String(),
		Trace:     m.Trace(),
	}
}

// boot runs the kernel on a fresh machine. A vector other than 0x80 makes
// the demonstration interrupt use that vector instead.
func boot(cols, rows uint32, vector uint8, debugger bool) (*emu.Machine, error) {
	m := emu.New(cols, rows)
	m.DebuggerAttached = debugger

	if vector == 0x80 {
		return m, m.BootKernel()
	}

	return m, m.BootKernelWith(emu.Redirect{Machine: m, Vector: vector})
}

// style returns the tcell style for a VGA attribute byte.
func style(attr uint8, palette []color.RGBA) tcell.Style {
	fg, bg := palette[attr&0x0f], palette[(attr>>4)&0x0f]
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// render copies the text framebuffer of m onto screen and places the
// cursor where the VGA hardware cursor is.
func render(screen tcell.Screen, m *emu.Machine, palette []color.RGBA) {
	screen.Clear()

	for y := uint32(0); y < m.Rows; y++ {
		for x := uint32(0); x < m.Columns; x++ {
			cell := m.Framebuffer[y*m.Columns+x]
			ch := rune(byte(cell))
			if ch < 0x20 || ch > 0x7e {
				ch = ' '
			}
			screen.SetContent(int(x), int(y), ch, nil, style(uint8(cell>>8), palette))
		}
	}

	for i, ch := range statusLine {
		screen.SetContent(i, int(m.Rows), ch, nil, tcell.StyleDefault.Reverse(true))
	}

	x, y := m.Cursor()
	screen.ShowCursor(int(x-1), int(y-1))
	screen.Show()
}

// waitForKey redraws the screen on resize until a key is pressed.
func waitForKey(screen tcell.Screen, m *emu.Machine, palette []color.RGBA) {
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventKey:
			return
		case *tcell.EventResize:
			screen.Sync()
			render(screen, m, palette)
		case nil:
			return
		}
	}
}

func printScreen(w io.Writer, m *emu.Machine) {
	for _, row := range m.Screen() {
		fmt.Fprintln(w, row)
	}
}

func runTool() error {
	noUI := flag.Bool("noui", false, "print the final screen contents instead of opening a terminal UI")
	dumpState := flag.Bool("dump", false, "pretty-print the machine state after the CPU halts")
	vector := flag.Uint("vector", 0x80, "the interrupt vector raised by the demonstration step")
	debugger := flag.Bool("debugger", false, "let int3 stop in an attached debugger instead of going through the IDT")
	cols := flag.Uint("cols", 80, "text mode columns")
	rows := flag.Uint("rows", 25, "text mode rows")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "bootsim: boot the kernel on an emulated PC\n\n")
		fmt.Fprint(os.Stderr, "Usage: bootsim [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch {
	case flag.NArg() != 0:
		return errors.New("unexpected arguments")
	case *vector > 0xff:
		return fmt.Errorf("invalid interrupt vector %d", *vector)
	case *cols == 0 || *rows == 0 || *cols > 255 || *rows > 255:
		return errors.New("text mode dimensions must be between 1 and 255")
	}

	m, bootErr := boot(uint32(*cols), uint32(*rows), uint8(*vector), *debugger)

	if *noUI {
		printScreen(os.Stdout, m)
	} else if cons := hal.ActiveConsole(); cons != nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err = screen.Init(); err != nil {
			return err
		}

		render(screen, m, cons.Palette())
		waitForKey(screen, m, cons.Palette())
		screen.Fini()
	}

	if *dumpState {
		pp.Fprintln(os.Stderr, snapshot(m))
	}

	return bootErr
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}

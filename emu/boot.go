//go:build !386

package emu

import (
	"errors"
	"fmt"

	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/hal"
	"github.com/fincham/vidic/kernel/kmain"
)

// ErrNotHalted is returned by Boot when the booted code returns instead of
// halting the CPU.
var ErrNotHalted = errors.New("emu: boot code returned without halting the cpu")

// haltSignal unwinds the boot goroutine when the CPU halts.
type haltSignal struct{}

// Fault describes a triple fault: an exception raised while delivering a
// double fault. A real machine resets at this point.
type Fault struct {
	// Vector is the IDT slot whose delivery failed last.
	Vector uint8

	// Reason describes the failed check.
	Reason string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("triple fault delivering vector 0x%02x: %s", f.Vector, f.Reason)
}

// Boot runs fn on m until the CPU halts. It returns nil after a halt,
// whether through Halt or a kernel panic, a *Fault after a triple fault
// and ErrNotHalted if fn returns.
func (m *Machine) Boot(fn func()) (err error) {
	defer func() {
		r := recover()
		switch cause := r.(type) {
		case nil:
		case haltSignal:
		case *Fault:
			err = cause
		case *kernel.Error:
			if cause != cpu.ErrHostHalt {
				panic(r)
			}
			m.Regs.IF = false
			m.Regs.Halted = true
		default:
			panic(r)
		}
	}()

	fn()
	return ErrNotHalted
}

// BootKernel resets the kernel's device registry and boots the kernel on
// m, with its text console mapped onto m.Framebuffer.
func (m *Machine) BootKernel() error {
	return m.BootKernelWith(m)
}

// BootKernelWith boots the kernel like BootKernel but issues every
// privileged operation through ops. ops must forward to m; wrappers such
// as Redirect change individual instructions.
func (m *Machine) BootKernelWith(ops cpu.Ops) error {
	hal.Reset()
	m.Handlers = &kmain.Context().Handlers

	return m.Boot(func() {
		kmain.Start(ops, m.Framebuffer, m.Columns, m.Rows)
	})
}

// Redirect models a kernel image whose INT 0x80 instruction was patched to
// raise Vector instead.
type Redirect struct {
	*Machine
	Vector uint8
}

// SoftwareInterrupt raises r.Vector.
func (r Redirect) SoftwareInterrupt() {
	r.Interrupt(r.Vector)
}

// Screen returns the text shown on the framebuffer, one string per row
// with trailing blanks removed.
func (m *Machine) Screen() []string {
	rows := make([]string, 0, m.Rows)
	for off := uint32(0); off+m.Columns <= uint32(len(m.Framebuffer)); off += m.Columns {
		row := make([]byte, m.Columns)
		end := 0
		for i, cell := range m.Framebuffer[off : off+m.Columns] {
			if row[i] = byte(cell); row[i] != ' ' && row[i] != 0 {
				end = i + 1
			}
		}
		rows = append(rows, string(row[:end]))
	}
	return rows
}

// Cursor returns the 1-based column and row of the hardware cursor.
func (m *Machine) Cursor() (uint32, uint32) {
	if m.Columns == 0 {
		return 1, 1
	}
	off := uint32(m.CRT.CursorOffset())
	return off%m.Columns + 1, off/m.Columns + 1
}

// Package cpu is the only place where the kernel issues privileged x86
// instructions. Code above this package works on plain data records and
// reaches the hardware through the Ops interface, so the boot sequence can
// run unchanged against an emulated machine.
package cpu

import "github.com/fincham/vidic/kernel/desc"

// Ports is implemented by objects that can perform byte-sized port I/O.
// Callers rely on writes reaching the device in the order they are issued.
type Ports interface {
	// PortWriteByte writes val to the given I/O port.
	PortWriteByte(port uint16, val uint8)

	// PortReadByte reads a byte from the given I/O port.
	PortReadByte(port uint16) uint8
}

// Ops is the set of privileged operations issued while bringing up
// segmentation and interrupt handling.
type Ops interface {
	Ports

	// LoadGDT loads GDTR from the supplied pseudo-descriptor. The new
	// layout only takes effect for a segment register once that register
	// is reloaded.
	LoadGDT(*desc.TablePointer)

	// ReloadCS performs a far control transfer back into the current
	// instruction stream using sel, forcing CS to be reloaded.
	ReloadCS(sel uint16)

	// ReloadDataSegments loads sel into DS, ES, FS, GS and SS.
	ReloadDataSegments(sel uint16)

	// LoadIDT loads IDTR from the supplied pseudo-descriptor.
	LoadIDT(*desc.TablePointer)

	// DisableInterrupts clears the interrupt flag.
	DisableInterrupts()

	// Breakpoint raises a debugger breakpoint trap (int3).
	Breakpoint()

	// SoftwareInterrupt raises interrupt vector 0x80 (int $0x80).
	SoftwareInterrupt()

	// Halt disables interrupts and halts the CPU. It never returns.
	Halt()
}

// Native issues the real instructions on the CPU the kernel runs on.
var Native Ops = native{}

type native struct{}

func (native) PortWriteByte(port uint16, val uint8) { PortWriteByte(port, val) }
func (native) PortReadByte(port uint16) uint8       { return PortReadByte(port) }
func (native) LoadGDT(ptr *desc.TablePointer)       { LoadGDT(ptr.Addr()) }
func (native) ReloadCS(sel uint16)                  { ReloadCS(sel) }
func (native) ReloadDataSegments(sel uint16)        { ReloadDataSegments(sel) }
func (native) LoadIDT(ptr *desc.TablePointer)       { LoadIDT(ptr.Addr()) }
func (native) DisableInterrupts()                   { DisableInterrupts() }
func (native) Breakpoint()                          { Breakpoint() }
func (native) SoftwareInterrupt()                   { SoftwareInterrupt() }
func (native) Halt()                                { Halt() }

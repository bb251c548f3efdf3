//go:build !386

package cpu

import "github.com/fincham/vidic/kernel"

// The kernel only runs on 386. Host builds (tests, tools, the emulator)
// link against these stubs so that an accidental use of the real
// instructions panics instead of silently doing nothing.
var (
	errHostInstruction = &kernel.Error{Module: "cpu", Message: "privileged instruction issued on a host build"}

	// ErrHostHalt is the value Halt panics with on a host build.
	ErrHostHalt = &kernel.Error{Module: "cpu", Message: "cpu halted"}
)

func LoadGDT(uintptr)             { panic(errHostInstruction) }
func ReloadCS(uint16)             { panic(errHostInstruction) }
func ReloadDataSegments(uint16)   { panic(errHostInstruction) }
func LoadIDT(uintptr)             { panic(errHostInstruction) }
func DisableInterrupts()          { panic(errHostInstruction) }
func Breakpoint()                 { panic(errHostInstruction) }
func SoftwareInterrupt()          { panic(errHostInstruction) }
func PortWriteByte(uint16, uint8) { panic(errHostInstruction) }
func PortReadByte(uint16) uint8   { panic(errHostInstruction) }

// Halt panics with ErrHostHalt so that code which halts the machine can be
// exercised by tests that recover the panic.
func Halt() { panic(ErrHostHalt) }

// Package gate provides the interrupt entry points referenced by the IDT.
//
// Every vector listed in Vectors has its own trampoline. A trampoline
// pushes its vector number and jumps to a shared entry routine which calls
// Dispatch. Dispatch prints the vector label, raises a breakpoint so an
// attached debugger stops, and halts the machine. Trampolines never return
// from the interrupt: there is no IRET path and exceptions that push an
// error code leave it on the stack.
package gate

//go:generate go run ../../tools/genentries -out-dir .

import (
	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/kfmt"
)

// HandlerTable maps each interrupt number to the linear address of its
// trampoline. A zero entry means the vector has no trampoline.
type HandlerTable [256]uintptr

// Vector returns the interrupt number whose trampoline lives at addr.
func (ht *HandlerTable) Vector(addr uintptr) (InterruptNumber, bool) {
	if addr == 0 {
		return 0, false
	}

	for n, entry := range ht {
		if entry == addr {
			return InterruptNumber(n), true
		}
	}

	return 0, false
}

// Halter is implemented by objects that can stop the machine. Halt is not
// expected to return.
type Halter interface {
	Halt()
}

var (
	errNotInstalled = &kernel.Error{Module: "gate", Message: "interrupt dispatched before trampolines were installed"}

	activeOps    cpu.Ops
	activeHalter Halter
)

// Install records the trampoline address of every entry in Vectors into
// ht. All other slots are cleared. Subsequent interrupts issue their
// breakpoint through ops and stop the machine through halter; if halter is
// nil, ops.Halt is used.
func Install(ht *HandlerTable, ops cpu.Ops, halter Halter) {
	*ht = HandlerTable{}
	for slot, v := range Vectors {
		ht[v.Number] = entryAddr(slot)
	}

	if halter == nil {
		halter = ops
	}

	activeOps, activeHalter = ops, halter
}

// Dispatch runs the diagnostic action for interrupt n: it prints the
// vector label, raises a breakpoint trap and halts. A breakpoint raised
// while handling Breakpoint would re-enter this trampoline forever, so
// vector 3 skips the trap. Dispatch never returns.
func Dispatch(n InterruptNumber) {
	if activeOps == nil {
		kfmt.Panic(errNotInstalled)
		return
	}

	kfmt.Printf("[gate] %s (vector 0x%2x)\n", n.Label(), uint8(n))

	if n != Breakpoint {
		activeOps.Breakpoint()
	}

	activeHalter.Halt()
}

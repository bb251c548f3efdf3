// Package boot drives the protected-mode setup sequence: it installs the
// segment and interrupt descriptor tables, remaps the PICs, raises one
// software interrupt through the new IDT and halts.
package boot

import (
	"github.com/fincham/vidic/device/pic"
	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/desc"
	"github.com/fincham/vidic/kernel/gate"
	"github.com/fincham/vidic/kernel/gdt"
	"github.com/fincham/vidic/kernel/hal"
	"github.com/fincham/vidic/kernel/idt"
	"github.com/fincham/vidic/kernel/kfmt"
)

var errInvalidTransition = &kernel.Error{Module: "boot", Message: "invalid boot state transition"}

// Context owns every table built during boot. A single Context lives for
// the whole lifetime of the kernel; the CPU keeps pointers into it once the
// tables are loaded, so it must never move or be reused for another boot.
type Context struct {
	GDT        gdt.Table
	TSS        gdt.TaskState
	GDTPointer desc.TablePointer

	Handlers   gate.HandlerTable
	IDT        idt.Table
	IDTPointer desc.TablePointer

	PIC pic.Controller

	ops   cpu.Ops
	state State
}

// State returns the current boot state.
func (ctx *Context) State() State {
	return ctx.state
}

// advance moves ctx to next. Any transition other than the next state in
// sequence, or a halt, is fatal.
func (ctx *Context) advance(next State) {
	if !ctx.state.canAdvance(next) {
		kfmt.Panic(errInvalidTransition)
		return
	}
	ctx.state = next
}

// Run executes the complete boot sequence on ops. It returns only if ops
// returns from Halt.
func Run(ctx *Context, ops cpu.Ops) {
	ctx.ops = ops

	SetupSegments(ctx)
	SetupInterrupts(ctx)
	RemapPIC(ctx)
	Demonstrate(ctx)
	ctx.Halt()
}

// SetupSegments builds the GDT, dumps it and switches the CPU onto it.
func SetupSegments(ctx *Context) {
	kfmt.Printf("Setting up the GDT...\n")

	ctx.GDTPointer = gdt.Build(&ctx.GDT, &ctx.TSS)

	kfmt.Printf("This GDT was built:\n")
	kfmt.Hexdump(kfmt.Output(), ctx.GDT.Bytes())

	gdt.Activate(ctx.ops, &ctx.GDTPointer)
	ctx.advance(SegmentTableActive)

	kfmt.Printf("Installed GDT.\n")
}

// SetupInterrupts installs the trampolines, builds the IDT pointing at
// them and loads it.
func SetupInterrupts(ctx *Context) {
	kfmt.Printf("Setting up the IDT...\n")

	gate.Install(&ctx.Handlers, ctx.ops, ctx)
	ctx.IDTPointer = idt.Build(&ctx.IDT, &ctx.Handlers, gdt.KernelCode)
	idt.Activate(ctx.ops, &ctx.IDTPointer)
	ctx.advance(InterruptTableActive)

	kfmt.Printf("Installed IDT.\n")
}

// RemapPIC moves IRQ0-15 to the vectors right after the CPU exceptions,
// keeping the interrupt masks.
func RemapPIC(ctx *Context) {
	kfmt.Printf("Remapping the PIC...\n")

	ctx.PIC.Init(ctx.ops, pic.MasterOffset, pic.SlaveOffset)
	if err := hal.InitDriver(&ctx.PIC); err != nil {
		kfmt.Panic(err)
		return
	}
	ctx.advance(PICRemapped)

	kfmt.Printf("Remapped PIC.\n")
}

// Demonstrate raises the syscall vector through the installed gate. The
// trampoline halts the machine so on real hardware this never returns.
func Demonstrate(ctx *Context) {
	ctx.advance(Demonstrating)

	kfmt.Printf("Triggering interrupt 0x%2x...\n", uint8(gate.Syscall))
	ctx.ops.SoftwareInterrupt()
}

// Halt moves ctx to Halted and stops the CPU with interrupts disabled.
func (ctx *Context) Halt() {
	if ctx.state != Halted {
		ctx.advance(Halted)
		kfmt.Printf("Halting CPU.\n")
	}

	ctx.ops.Halt()
}

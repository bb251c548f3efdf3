//go:build !386

// Package emu runs the kernel boot sequence on a host. Machine implements
// cpu.Ops on top of an emulated register file: descriptor table registers
// and segment selectors, the two 8259 PICs, the VGA CRT controller and
// DAC, and interrupt delivery through the loaded IDT.
//
// Segment register loads and gate lookups are checked the way an i386
// checks them. A failed check raises an exception through the IDT, and
// failures while delivering exceptions escalate to a double fault and
// finally a triple fault, which ends the run with a *Fault.
package emu

import (
	"fmt"
	"unsafe"

	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/cpu/cputest"
	"github.com/fincham/vidic/kernel/desc"
	"github.com/fincham/vidic/kernel/gate"
)

// I/O ports decoded by the machine.
const (
	portMasterCommand = 0x20
	portMasterData    = 0x21
	portSlaveCommand  = 0xa0
	portSlaveData     = 0xa1
	portDACWriteIndex = 0x3c8
	portDACData       = 0x3c9
	portCRTIndex      = 0x3d4
	portCRTData       = 0x3d5

	// floatingBus is returned by reads from unmapped ports.
	floatingBus = 0xff
)

// Registers is the architectural state touched by the boot sequence.
type Registers struct {
	GDTR, IDTR desc.TablePointer

	CS, DS, ES, FS, GS, SS uint16

	// IF is the interrupt flag.
	IF bool

	// Halted is set once the CPU executes HLT with interrupts disabled.
	Halted bool
}

// Machine is an emulated i386 PC.
type Machine struct {
	Regs Registers

	// PIC holds the master and slave interrupt controllers.
	PIC [2]PIC
	CRT CRT
	DAC DAC

	// Framebuffer is the VGA text mode memory.
	Framebuffer   []uint16
	Columns, Rows uint32

	// Handlers maps gate offsets back to interrupt numbers. It plays the
	// part of the trampoline code in the kernel text: a gate whose offset
	// is not listed does not point at executable kernel code.
	Handlers *gate.HandlerTable

	// DebuggerAttached makes INT3 stop in the (absent) debugger and
	// resume, instead of being delivered through the IDT.
	DebuggerAttached bool

	trace cputest.Recorder
}

// Boot-time state left behind by the firmware and boot loader: flat
// protected mode segments set up by the loader, interrupts disabled and
// the BIOS interrupt masks still programmed.
const (
	loaderCodeSelector = 0x10
	loaderDataSelector = 0x18

	firmwareMasterMask = 0xb8
	firmwareSlaveMask  = 0x8e
)

// New returns a machine with a blank text framebuffer of the given size.
func New(columns, rows uint32) *Machine {
	m := &Machine{
		Framebuffer: make([]uint16, columns*rows),
		Columns:     columns,
		Rows:        rows,
	}

	m.Regs.CS = loaderCodeSelector
	m.Regs.DS, m.Regs.ES, m.Regs.FS, m.Regs.GS, m.Regs.SS =
		loaderDataSelector, loaderDataSelector, loaderDataSelector, loaderDataSelector, loaderDataSelector
	m.PIC[0].IMR = firmwareMasterMask
	m.PIC[1].IMR = firmwareSlaveMask

	return m
}

// Trace returns the privileged operations issued so far, in order, using
// the same mnemonics as cputest.Recorder. Exceptions, interrupt deliveries
// and shutdowns are listed as they happen.
func (m *Machine) Trace() []string {
	return m.trace.Ops
}

func (m *Machine) note(format string, args ...interface{}) {
	m.trace.Ops = append(m.trace.Ops, fmt.Sprintf(format, args...))
}

// PortWriteByte decodes a write to the PIC or VGA ports. Writes to other
// ports are traced and dropped.
func (m *Machine) PortWriteByte(port uint16, val uint8) {
	m.trace.PortWriteByte(port, val)

	switch port {
	case portMasterCommand:
		m.PIC[0].WriteCommand(val)
	case portMasterData:
		m.PIC[0].WriteData(val)
	case portSlaveCommand:
		m.PIC[1].WriteCommand(val)
	case portSlaveData:
		m.PIC[1].WriteData(val)
	case portCRTIndex:
		m.CRT.Index = val
	case portCRTData:
		m.CRT.Write(val)
	case portDACWriteIndex:
		m.DAC.SetWriteIndex(val)
	case portDACData:
		m.DAC.WriteData(val)
	}
}

// PortReadByte returns the value of a decoded port, or the floating bus
// value for unmapped ports.
func (m *Machine) PortReadByte(port uint16) uint8 {
	m.trace.PortReadByte(port)

	switch port {
	case portMasterCommand:
		return m.PIC[0].ReadCommand()
	case portMasterData:
		return m.PIC[0].ReadData()
	case portSlaveCommand:
		return m.PIC[1].ReadCommand()
	case portSlaveData:
		return m.PIC[1].ReadData()
	case portCRTIndex:
		return m.CRT.Index
	case portCRTData:
		return m.CRT.Read()
	}

	return floatingBus
}

// LoadGDT latches the pseudo-descriptor into GDTR. Like LGDT it does not
// check the table contents.
func (m *Machine) LoadGDT(ptr *desc.TablePointer) {
	m.trace.LoadGDT(ptr)
	m.Regs.GDTR = *ptr
}

// LoadIDT latches the pseudo-descriptor into IDTR.
func (m *Machine) LoadIDT(ptr *desc.TablePointer) {
	m.trace.LoadIDT(ptr)
	m.Regs.IDTR = *ptr
}

// ReloadCS performs the far jump. sel must name a present code segment of
// the current privilege level, otherwise the jump faults and CS keeps its
// old value.
func (m *Machine) ReloadCS(sel uint16) {
	m.trace.ReloadCS(sel)

	seg, exc, reason := m.segment(sel)
	if reason == "" && !seg.IsCode() {
		exc, reason = gate.GPFException, "far jump to a non-code segment"
	}
	if reason == "" && seg.DPL() != m.cpl() {
		exc, reason = gate.GPFException, "far jump across privilege levels"
	}
	if reason == "" && !seg.Present() {
		exc, reason = gate.SegmentNotPresent, "far jump to a non-present segment"
	}

	if reason != "" {
		m.raise(exc, sel, reason)
		return
	}

	m.Regs.CS = sel
}

// ReloadDataSegments loads sel into every data segment register. Since SS
// is loaded too, sel must name a present writable data segment at the
// current privilege level.
func (m *Machine) ReloadDataSegments(sel uint16) {
	m.trace.ReloadDataSegments(sel)

	seg, exc, reason := m.segment(sel)
	if reason == "" && !seg.IsWritableData() {
		exc, reason = gate.GPFException, "data segment is not writable"
	}
	if reason == "" && (seg.DPL() != m.cpl() || uint8(sel&3) != m.cpl()) {
		exc, reason = gate.GPFException, "stack segment privilege differs from CPL"
	}
	if reason == "" && !seg.Present() {
		exc, reason = gate.StackSegmentFault, "stack segment is not present"
	}

	if reason != "" {
		m.raise(exc, sel, reason)
		return
	}

	m.Regs.DS, m.Regs.ES, m.Regs.FS, m.Regs.GS, m.Regs.SS = sel, sel, sel, sel, sel
}

// DisableInterrupts clears IF.
func (m *Machine) DisableInterrupts() {
	m.trace.DisableInterrupts()
	m.Regs.IF = false
}

// Breakpoint executes INT3.
func (m *Machine) Breakpoint() {
	m.trace.Breakpoint()
	if m.DebuggerAttached {
		return
	}

	m.deliver(uint8(gate.Breakpoint), false)
}

// SoftwareInterrupt executes INT 0x80.
func (m *Machine) SoftwareInterrupt() {
	m.trace.SoftwareInterrupt()
	m.deliver(uint8(gate.Syscall), false)
}

// Interrupt delivers vector through the IDT as if an INT instruction with
// that operand had been executed.
func (m *Machine) Interrupt(vector uint8) {
	m.note("int 0x%02x", vector)
	m.deliver(vector, false)
}

// Halt executes CLI; HLT. With interrupts disabled the CPU never resumes,
// so Halt unwinds to Boot.
func (m *Machine) Halt() {
	m.trace.Halt()
	m.Regs.IF = false
	m.Regs.Halted = true
	panic(haltSignal{})
}

// cpl returns the current privilege level.
func (m *Machine) cpl() uint8 {
	return uint8(m.Regs.CS & 3)
}

// segment returns the GDT descriptor named by sel, or the exception raised
// by referencing it.
func (m *Machine) segment(sel uint16) (desc.Segment, gate.InterruptNumber, string) {
	switch {
	case m.Regs.GDTR.Table() == nil:
		return desc.Segment{}, gate.GPFException, "no GDT loaded"
	case sel&^3 == 0:
		return desc.Segment{}, gate.GPFException, "null selector"
	case sel&4 != 0:
		return desc.Segment{}, gate.GPFException, "selector references an LDT"
	case uint32(sel&^7)+desc.EntrySize-1 > uint32(m.Regs.GDTR.Limit):
		return desc.Segment{}, gate.GPFException, "selector beyond GDT limit"
	}

	return *(*desc.Segment)(unsafe.Add(m.Regs.GDTR.Table(), uintptr(sel&^7))), 0, ""
}

// gateTarget resolves IDT slot vector to the interrupt number of the
// trampoline it enters, or the exception raised while doing so.
func (m *Machine) gateTarget(vector uint8) (gate.InterruptNumber, gate.InterruptNumber, string) {
	offset := uint32(vector) * desc.EntrySize
	if m.Regs.IDTR.Table() == nil || offset+desc.EntrySize-1 > uint32(m.Regs.IDTR.Limit) {
		return 0, gate.GPFException, "vector beyond IDT limit"
	}

	g := *(*desc.Gate)(unsafe.Add(m.Regs.IDTR.Table(), uintptr(offset)))
	if !g.Present() {
		return 0, gate.SegmentNotPresent, "gate not present"
	}
	if t := g.Type(); t != desc.GateInterrupt32 && t != desc.GateTrap32 {
		return 0, gate.GPFException, "not an interrupt or trap gate"
	}

	seg, exc, reason := m.segment(g.Selector)
	switch {
	case reason != "":
		return 0, exc, "gate selector: " + reason
	case !seg.IsCode():
		return 0, gate.GPFException, "gate selector is not a code segment"
	case !seg.Present():
		return 0, gate.SegmentNotPresent, "gate code segment not present"
	}

	if m.Handlers == nil {
		return 0, gate.GPFException, "gate offset is not kernel code"
	}
	n, ok := m.Handlers.Vector(uintptr(g.Offset()))
	if !ok {
		return 0, gate.GPFException, "gate offset is not kernel code"
	}

	return n, 0, ""
}

// raise signals exception exc caused by selector sel.
func (m *Machine) raise(exc gate.InterruptNumber, sel uint16, reason string) {
	m.note("exception 0x%02x (%s) selector 0x%04x: %s", uint8(exc), exc.Label(), sel, reason)
	m.deliver(uint8(exc), true)
}

// deliver transfers control through IDT slot vector. A fault while
// fetching the gate is delivered in its place; a fault while delivering
// an exception becomes a double fault, and a fault while delivering the
// double fault shuts the machine down.
func (m *Machine) deliver(vector uint8, exception bool) {
	depth := 0
	if exception {
		depth = 1
	}

	for {
		n, exc, reason := m.gateTarget(vector)
		if reason == "" {
			m.note("deliver 0x%02x", vector)
			m.Regs.IF = false
			gate.Dispatch(n)
			return
		}

		m.note("exception 0x%02x (%s) delivering 0x%02x: %s", uint8(exc), exc.Label(), vector, reason)
		switch depth {
		case 0:
			vector = uint8(exc)
		case 1:
			vector = uint8(gate.DoubleFault)
		default:
			m.note("triple fault")
			m.Regs.Halted = true
			panic(&Fault{Vector: vector, Reason: reason})
		}
		depth++
	}
}

var _ cpu.Ops = (*Machine)(nil)

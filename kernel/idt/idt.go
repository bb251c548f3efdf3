// Package idt builds the interrupt descriptor table and loads it into the
// CPU.
package idt

import (
	"unsafe"

	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/desc"
	"github.com/fincham/vidic/kernel/gate"
	"github.com/fincham/vidic/kernel/mem"
)

// Entries is the number of gates in the table; one per interrupt number.
const Entries = 256

// Table is the in-memory gate table handed to LIDT.
type Table [Entries]desc.Gate

// gateAttr selects a present 32-bit interrupt gate that can only be
// raised from ring 0 by software. Hardware interrupts and exceptions
// ignore the DPL.
const gateAttr = desc.GateInterrupt32 | desc.AccessPresent

// Build clears every slot of t and installs an interrupt gate for each
// vector that has a trampoline in handlers. Gates use codeSel as their
// code segment selector. Vectors without a trampoline stay zeroed (not
// present); raising one faults.
func Build(t *Table, handlers *gate.HandlerTable, codeSel uint16) desc.TablePointer {
	mem.Zero(unsafe.Pointer(t), unsafe.Sizeof(*t))

	for vector, addr := range handlers {
		if addr == 0 {
			continue
		}

		t[vector] = desc.EncodeGate(uint32(addr), codeSel, gateAttr|desc.DPL(0))
	}

	return desc.NewTablePointer(unsafe.Pointer(t), unsafe.Sizeof(*t))
}

// Activate loads the table described by ptr. The new gates apply to the
// next interrupt; no control transfer is needed.
func Activate(ops cpu.Ops, ptr *desc.TablePointer) {
	ops.LoadIDT(ptr)
}

// Bytes returns the raw contents of t as the CPU sees them.
func (t *Table) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(t)), unsafe.Sizeof(*t))
}

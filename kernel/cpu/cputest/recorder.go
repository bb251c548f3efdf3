// Package cputest provides a cpu.Ops implementation that records every
// privileged operation instead of executing it.
package cputest

import (
	"fmt"

	"github.com/fincham/vidic/kernel/desc"
)

// Recorder logs each operation as a short mnemonic string, e.g.
// "outb 0x20 0x11". Port reads return the value stored in PortValues for
// that port (0 if unset).
type Recorder struct {
	Ops        []string
	PortValues map[uint16]uint8

	// GDT and IDT hold the last pseudo-descriptors passed to LoadGDT and
	// LoadIDT.
	GDT desc.TablePointer
	IDT desc.TablePointer
}

func (r *Recorder) record(format string, args ...interface{}) {
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

func (r *Recorder) PortWriteByte(port uint16, val uint8) {
	r.record("outb 0x%02x 0x%02x", port, val)
	if r.PortValues == nil {
		r.PortValues = make(map[uint16]uint8)
	}
	r.PortValues[port] = val
}

func (r *Recorder) PortReadByte(port uint16) uint8 {
	r.record("inb 0x%02x", port)
	return r.PortValues[port]
}

func (r *Recorder) LoadGDT(ptr *desc.TablePointer) {
	r.GDT = *ptr
	r.record("lgdt limit=0x%04x", ptr.Limit)
}

func (r *Recorder) ReloadCS(sel uint16)           { r.record("ljmp 0x%02x", sel) }
func (r *Recorder) ReloadDataSegments(sel uint16) { r.record("mov ds,es,fs,gs,ss 0x%02x", sel) }

func (r *Recorder) LoadIDT(ptr *desc.TablePointer) {
	r.IDT = *ptr
	r.record("lidt limit=0x%04x", ptr.Limit)
}

func (r *Recorder) DisableInterrupts() { r.record("cli") }
func (r *Recorder) Breakpoint()        { r.record("int3") }
func (r *Recorder) SoftwareInterrupt() { r.record("int 0x80") }
func (r *Recorder) Halt()              { r.record("hlt") }

//go:build !386

package emu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fincham/vidic/kernel/gate"
	"github.com/fincham/vidic/kernel/gdt"
	"github.com/fincham/vidic/kernel/hal"
	"github.com/fincham/vidic/kernel/idt"
	"github.com/fincham/vidic/kernel/kfmt"
)

// tables is a minimal boot arena for exercising the machine directly.
type tables struct {
	gdt      gdt.Table
	tss      gdt.TaskState
	handlers gate.HandlerTable
	idt      idt.Table
}

func loadTables(m *Machine, tbl *tables) {
	gdtPtr := gdt.Build(&tbl.gdt, &tbl.tss)
	m.LoadGDT(&gdtPtr)

	gate.Install(&tbl.handlers, m, nil)
	idtPtr := idt.Build(&tbl.idt, &tbl.handlers, gdt.KernelCode)
	m.LoadIDT(&idtPtr)
	m.Handlers = &tbl.handlers
}

func captureOutput(t *testing.T) *bytes.Buffer {
	hal.Reset()
	t.Cleanup(hal.Reset)

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	return &buf
}

func TestReloadCSWithoutGDT(t *testing.T) {
	captureOutput(t)
	m := New(80, 25)

	err := m.Boot(func() { m.ReloadCS(gdt.KernelCode) })

	fault, ok := err.(*Fault)
	if !ok {
		t.Fatalf("expected a triple fault; got %v", err)
	}

	if fault.Vector != uint8(gate.DoubleFault) {
		t.Fatalf("expected the double fault delivery to fail last; got vector 0x%02x", fault.Vector)
	}

	if m.Regs.CS != loaderCodeSelector {
		t.Fatalf("expected CS to keep the loader selector; got 0x%02x", m.Regs.CS)
	}

	trace := m.Trace()
	if trace[0] != "ljmp 0x08" || trace[len(trace)-1] != "triple fault" {
		t.Fatalf("unexpected trace: %q", trace)
	}
}

func TestSegmentLoads(t *testing.T) {
	specs := []struct {
		op       func(m *Machine)
		expFault bool
		expCS    uint16
		expData  uint16
	}{
		{func(m *Machine) { m.ReloadCS(gdt.KernelCode) }, false, gdt.KernelCode, loaderDataSelector},
		// ring 3 segments from ring 0
		{func(m *Machine) { m.ReloadCS(gdt.UserCode) }, true, loaderCodeSelector, loaderDataSelector},
		{func(m *Machine) { m.ReloadDataSegments(gdt.UserData) }, true, loaderCodeSelector, loaderDataSelector},
		{func(m *Machine) { m.ReloadDataSegments(gdt.KernelData) }, false, loaderCodeSelector, gdt.KernelData},
		// null selector
		{func(m *Machine) { m.ReloadCS(0) }, true, loaderCodeSelector, loaderDataSelector},
		// data segment as code
		{func(m *Machine) { m.ReloadCS(gdt.KernelData) }, true, loaderCodeSelector, loaderDataSelector},
		// code segment as data
		{func(m *Machine) { m.ReloadDataSegments(gdt.KernelCode) }, true, loaderCodeSelector, loaderDataSelector},
		// system segment as data
		{func(m *Machine) { m.ReloadDataSegments(gdt.TaskStateSel) }, true, loaderCodeSelector, loaderDataSelector},
		// beyond the table limit
		{func(m *Machine) { m.ReloadCS(0x30) }, true, loaderCodeSelector, loaderDataSelector},
		// LDT selector
		{func(m *Machine) { m.ReloadCS(0x0c) }, true, loaderCodeSelector, loaderDataSelector},
	}

	for specIndex, spec := range specs {
		captureOutput(t)

		var tbl tables
		m := New(80, 25)
		gdtPtr := gdt.Build(&tbl.gdt, &tbl.tss)
		m.LoadGDT(&gdtPtr)

		err := m.Boot(func() {
			spec.op(m)
			m.Halt()
		})

		if _, isFault := err.(*Fault); isFault != spec.expFault {
			t.Errorf("[spec %d] expected fault: %t; got %v", specIndex, spec.expFault, err)
		}

		if m.Regs.CS != spec.expCS || m.Regs.SS != spec.expData || m.Regs.DS != spec.expData {
			t.Errorf("[spec %d] expected CS=0x%02x DS=SS=0x%02x; got CS=0x%02x DS=0x%02x SS=0x%02x",
				specIndex, spec.expCS, spec.expData, m.Regs.CS, m.Regs.DS, m.Regs.SS)
		}
	}
}

func TestInterruptDelivery(t *testing.T) {
	specs := []struct {
		debugger bool
		raise    func(m *Machine)
		expLines []string
		expNot   []string
	}{
		{
			false,
			(*Machine).SoftwareInterrupt,
			[]string{"[gate] Syscall (vector 0x80)", "[gate] Breakpoint (vector 0x03)"},
			nil,
		},
		{
			true,
			(*Machine).SoftwareInterrupt,
			[]string{"[gate] Syscall (vector 0x80)"},
			[]string{"Breakpoint"},
		},
		{
			true,
			func(m *Machine) { m.Interrupt(0x21) },
			[]string{"[gate] IRQ1 Keyboard (vector 0x21)"},
			[]string{"Syscall"},
		},
		{
			true,
			(*Machine).Breakpoint,
			nil,
			[]string{"[gate]"},
		},
	}

	for specIndex, spec := range specs {
		buf := captureOutput(t)

		var tbl tables
		m := New(80, 25)
		m.DebuggerAttached = spec.debugger
		loadTables(m, &tbl)

		err := m.Boot(func() {
			spec.raise(m)
			m.Halt()
		})
		if err != nil {
			t.Errorf("[spec %d] expected the machine to halt; got %v", specIndex, err)
			continue
		}

		out := buf.String()
		for _, exp := range spec.expLines {
			if strings.Count(out, exp) != 1 {
				t.Errorf("[spec %d] expected output to contain %q once; got:\n%s", specIndex, exp, out)
			}
		}
		for _, notExp := range spec.expNot {
			if strings.Contains(out, notExp) {
				t.Errorf("[spec %d] expected output not to contain %q; got:\n%s", specIndex, notExp, out)
			}
		}
	}
}

func TestInterruptEscalation(t *testing.T) {
	specs := []struct {
		setup    func(m *Machine, tbl *tables)
		expFault bool
		expTrace string
	}{
		// zeroed gate: #NP is delivered through its own gate
		{
			func(m *Machine, tbl *tables) {},
			false,
			"exception 0x0b (Segment Not Present) delivering 0xc8: gate not present",
		},
		// no #NP gate either: double fault handler runs
		{
			func(m *Machine, tbl *tables) { tbl.idt[gate.SegmentNotPresent] = tbl.idt[200] },
			false,
			"deliver 0x08",
		},
		// nothing usable: shutdown
		{
			func(m *Machine, tbl *tables) {
				tbl.idt[gate.SegmentNotPresent] = tbl.idt[200]
				tbl.idt[gate.DoubleFault] = tbl.idt[200]
			},
			true,
			"triple fault",
		},
		// gate pointing outside the kernel text
		{
			func(m *Machine, tbl *tables) { tbl.idt[200] = tbl.idt[gate.Syscall]; tbl.idt[200].OffsetLow++ },
			false,
			"exception 0x0d (General Protection Fault) delivering 0xc8: gate offset is not kernel code",
		},
	}

	for specIndex, spec := range specs {
		captureOutput(t)

		var tbl tables
		m := New(80, 25)
		m.DebuggerAttached = true
		loadTables(m, &tbl)
		spec.setup(m, &tbl)

		err := m.Boot(func() { m.Interrupt(200) })
		if _, isFault := err.(*Fault); isFault != spec.expFault {
			t.Errorf("[spec %d] expected fault: %t; got %v", specIndex, spec.expFault, err)
		}

		var found bool
		for _, op := range m.Trace() {
			if op == spec.expTrace {
				found = true
			}
		}
		if !found {
			t.Errorf("[spec %d] expected trace to contain %q; got %q", specIndex, spec.expTrace, m.Trace())
		}
	}
}

func TestPortsAndBoot(t *testing.T) {
	m := New(80, 25)

	if got := m.PortReadByte(0x21); got != firmwareMasterMask {
		t.Fatalf("expected firmware master mask; got 0x%02x", got)
	}
	if got := m.PortReadByte(0x60); got != floatingBus {
		t.Fatalf("expected unmapped port to read 0x%02x; got 0x%02x", floatingBus, got)
	}

	m.PortWriteByte(0x3d4, 0x0f)
	m.PortWriteByte(0x3d5, 81)
	m.PortWriteByte(0x3d4, 0x0e)
	m.PortWriteByte(0x3d5, 0)
	if x, y := m.Cursor(); x != 2 || y != 2 {
		t.Fatalf("expected cursor at (2, 2); got (%d, %d)", x, y)
	}

	if err := m.Boot(func() {}); err != ErrNotHalted {
		t.Fatalf("expected ErrNotHalted; got %v", err)
	}
}

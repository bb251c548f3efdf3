//go:build !386

package emu

import "testing"

func TestPICInitSequence(t *testing.T) {
	specs := []struct {
		command uint8
		data    []uint8
		expBase uint8
		expCasc uint8
		expMode uint8
		expInit bool
		expIMR  uint8
	}{
		// cascaded, ICW4 needed, then a mask write
		{0x11, []uint8{0x20, 0x04, 0x01, 0xb8}, 0x20, 0x04, 0x01, true, 0xb8},
		// single controller, ICW4 needed: ICW3 is skipped
		{0x13, []uint8{0x28, 0x01}, 0x28, 0, 0x01, true, 0},
		// cascaded without ICW4
		{0x10, []uint8{0x70, 0x02}, 0x70, 0x02, 0, true, 0},
		// incomplete sequence
		{0x11, []uint8{0x30}, 0x30, 0, 0, false, 0},
		// low bits of ICW2 are ignored
		{0x11, []uint8{0x2f, 0x04, 0x01}, 0x28, 0x04, 0x01, true, 0},
	}

	for specIndex, spec := range specs {
		p := PIC{IMR: 0xff}
		p.WriteCommand(spec.command)
		for _, val := range spec.data {
			p.WriteData(val)
		}

		if p.VectorBase != spec.expBase || p.Cascade != spec.expCasc || p.Mode != spec.expMode {
			t.Errorf("[spec %d] expected base/cascade/mode 0x%02x/0x%02x/0x%02x; got 0x%02x/0x%02x/0x%02x",
				specIndex, spec.expBase, spec.expCasc, spec.expMode, p.VectorBase, p.Cascade, p.Mode)
		}

		if p.Initialized != spec.expInit {
			t.Errorf("[spec %d] expected Initialized to be %t", specIndex, spec.expInit)
		}

		if got := p.ReadData(); got != spec.expIMR {
			t.Errorf("[spec %d] expected IMR 0x%02x; got 0x%02x", specIndex, spec.expIMR, got)
		}
	}
}

func TestPICCommands(t *testing.T) {
	p := PIC{IRR: 0x11, ISR: 0x06}

	if got := p.ReadCommand(); got != 0x11 {
		t.Fatalf("expected IRR to be read by default; got 0x%02x", got)
	}

	// OCW3: read ISR
	p.WriteCommand(0x0b)
	if got := p.ReadCommand(); got != 0x06 {
		t.Fatalf("expected ISR after OCW3; got 0x%02x", got)
	}

	// non-specific EOI clears the highest priority bit
	p.WriteCommand(0x20)
	if p.ISR != 0x04 {
		t.Fatalf("expected EOI to clear ISR bit 1; got 0x%02x", p.ISR)
	}

	// OCW3: read IRR
	p.WriteCommand(0x0a)
	if got := p.ReadCommand(); got != 0x11 {
		t.Fatalf("expected IRR after OCW3; got 0x%02x", got)
	}
}

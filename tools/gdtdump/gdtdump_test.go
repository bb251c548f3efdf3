package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/k0kubun/pp/v3"

	"github.com/fincham/vidic/kernel/gate"
	"github.com/fincham/vidic/kernel/gdt"
	"github.com/fincham/vidic/kernel/idt"
)

func TestDecodeGDT(t *testing.T) {
	var (
		table gdt.Table
		tss   gdt.TaskState
	)
	gdt.Build(&table, &tss)

	specs := []struct {
		kind, selector, access, limit string
		dpl                           uint8
	}{
		{"null", "0x00", "0x00", "0x00000", 0},
		{"code", "0x08", "0x9a", "0xfffff", 0},
		{"data rw", "0x10", "0x92", "0xfffff", 0},
		{"code", "0x18", "0xfa", "0xfffff", 3},
		{"data rw", "0x20", "0xf2", "0xfffff", 3},
		{"tss32", "0x28", "0x89", "0x00067", 0},
	}

	views := decodeGDT(&table)
	if len(views) != len(specs) {
		t.Fatalf("expected %d entries; got %d", len(specs), len(views))
	}

	for specIndex, spec := range specs {
		v := views[specIndex]
		if v.Kind != spec.kind || v.Selector != spec.selector || v.Access != spec.access || v.Limit != spec.limit || v.DPL != spec.dpl {
			t.Errorf("[spec %d] expected %+v; got %+v", specIndex, spec, v)
		}
	}
}

func TestDecodeIDT(t *testing.T) {
	var (
		handlers gate.HandlerTable
		ints     idt.Table
	)
	gate.Install(&handlers, nil, nil)
	idt.Build(&ints, &handlers, gdt.KernelCode)

	views := decodeIDT(&ints)
	if len(views) != len(gate.Vectors) {
		t.Fatalf("expected %d populated gates; got %d", len(gate.Vectors), len(views))
	}

	last := views[len(views)-1]
	if last.Vector != "0x80" || last.Label != "Syscall" || last.Selector != "0x08" || last.Type != "interrupt32" || !last.Present {
		t.Fatalf("unexpected syscall gate: %+v", last)
	}
}

func TestDump(t *testing.T) {
	printer := pp.New()
	printer.SetColoringEnabled(false)

	specs := []struct {
		raw, withIDT bool
		exp          []string
		notExp       []string
	}{
		{false, false, []string{"tss32", "0x9a"}, []string{"Syscall"}},
		{false, true, []string{"tss32", "Syscall", "interrupt32"}, nil},
		{true, false, []string{"0x000008: ff ff 00 00 00 9a cf 00 \n"}, []string{"0x000030: "}},
		{true, true, []string{"0x000008: ff ff 00 00 00 9a cf 00 \n", "0x0007f8: "}, nil},
	}

	for specIndex, spec := range specs {
		var buf bytes.Buffer
		dump(&buf, printer, spec.raw, spec.withIDT)

		out := buf.String()
		for _, exp := range spec.exp {
			if !strings.Contains(out, exp) {
				t.Errorf("[spec %d] expected output to contain %q; got:\n%s", specIndex, exp, out)
			}
		}
		for _, notExp := range spec.notExp {
			if strings.Contains(out, notExp) {
				t.Errorf("[spec %d] expected output not to contain %q", specIndex, notExp)
			}
		}
	}
}

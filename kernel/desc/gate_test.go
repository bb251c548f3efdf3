package desc

import (
	"math/rand"
	"testing"
	"unsafe"
)

func TestGateLayout(t *testing.T) {
	if got := unsafe.Sizeof(Gate{}); got != EntrySize {
		t.Fatalf("expected a gate descriptor to occupy %d bytes; got %d", EntrySize, got)
	}

	g := EncodeGate(0x00104abc, 0x08, GateInterrupt32)
	raw := *(*[EntrySize]byte)(unsafe.Pointer(&g))
	exp := [EntrySize]byte{0xbc, 0x4a, 0x08, 0x00, 0x00, 0x8e, 0x10, 0x00}

	if raw != exp || g.Bytes() != exp {
		t.Fatalf("expected gate bytes % x; got % x (Bytes: % x)", exp, raw, g.Bytes())
	}
}

func TestEncodeGateForcesPresent(t *testing.T) {
	for attr := 0; attr < 256; attr++ {
		g := EncodeGate(0, 0, uint8(attr))
		if !g.Present() {
			t.Fatalf("expected present bit to be set for type_attr 0x%x", attr)
		}

		if got, exp := g.TypeAttr, uint8(attr)|AccessPresent; got != exp {
			t.Fatalf("expected type_attr 0x%x; got 0x%x", exp, got)
		}
	}
}

func TestGateRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0x80))

	for i := 0; i < 10000; i++ {
		offset, sel, attr := rng.Uint32(), uint16(rng.Uint32()), uint8(rng.Uint32())
		g := EncodeGate(offset, sel, attr)

		if got := g.Offset(); got != offset {
			t.Fatalf("expected offset 0x%x to round-trip; got 0x%x", offset, got)
		}
		if got := g.Selector; got != sel {
			t.Fatalf("expected selector 0x%x to round-trip; got 0x%x", sel, got)
		}
		if g.Zero != 0 {
			t.Fatalf("expected reserved byte to be zero; got 0x%x", g.Zero)
		}
	}
}

func TestGateAccessors(t *testing.T) {
	g := EncodeGate(0x1000, 0x08, DPL(3)|GateTrap32)
	if got := g.DPL(); got != 3 {
		t.Errorf("expected DPL 3; got %d", got)
	}
	if got := g.Type(); got != GateTrap32 {
		t.Errorf("expected type 0x%x; got 0x%x", GateTrap32, got)
	}
	if g.IsZero() {
		t.Error("expected encoded gate not to be zero")
	}
	if !(Gate{}).IsZero() {
		t.Error("expected empty gate to be zero")
	}
}

func TestTablePointer(t *testing.T) {
	var table [6]Segment
	ptr := NewTablePointer(unsafe.Pointer(&table[0]), unsafe.Sizeof(table))

	if ptr.Limit != 47 {
		t.Errorf("expected limit 47; got %d", ptr.Limit)
	}
	if exp := uint32(uintptr(unsafe.Pointer(&table[0]))); ptr.Base != exp {
		t.Errorf("expected base 0x%x; got 0x%x", exp, ptr.Base)
	}
	if ptr.Table() != unsafe.Pointer(&table[0]) {
		t.Error("expected Table() to return the table address")
	}
	if got := ptr.Entries(); got != 6 {
		t.Errorf("expected 6 entries; got %d", got)
	}

	// The CPU reads a 16-bit limit immediately followed by the base.
	raw := (*[6]byte)(unsafe.Pointer(ptr.Addr()))
	gotLimit := uint16(raw[0]) | uint16(raw[1])<<8
	gotBase := uint32(raw[2]) | uint32(raw[3])<<8 | uint32(raw[4])<<16 | uint32(raw[5])<<24
	if gotLimit != ptr.Limit || gotBase != ptr.Base {
		t.Errorf("expected pseudo-descriptor {0x%x, 0x%x}; got {0x%x, 0x%x}", ptr.Limit, ptr.Base, gotLimit, gotBase)
	}
}

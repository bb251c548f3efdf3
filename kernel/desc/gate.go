package desc

// Gate is a 32-bit IDT gate descriptor laid out exactly as the CPU expects
// it in memory.
type Gate struct {
	OffsetLow  uint16
	Selector   uint16
	Zero       uint8
	TypeAttr   uint8
	OffsetHigh uint16
}

// EncodeGate packs a handler offset, code segment selector and
// type/attribute byte into a gate. The present bit is always set,
// whatever typeAttr contains.
func EncodeGate(offset uint32, selector uint16, typeAttr uint8) Gate {
	return Gate{
		OffsetLow:  uint16(offset),
		Selector:   selector,
		TypeAttr:   typeAttr | AccessPresent,
		OffsetHigh: uint16(offset >> 16),
	}
}

// Offset returns the handler entry point.
func (g Gate) Offset() uint32 {
	return uint32(g.OffsetHigh)<<16 | uint32(g.OffsetLow)
}

// Type returns the gate type code.
func (g Gate) Type() uint8 {
	return g.TypeAttr & 0x0F
}

// DPL returns the lowest privilege level allowed to invoke the gate with
// a software interrupt.
func (g Gate) DPL() uint8 {
	return (g.TypeAttr & accessDPLMask) >> accessDPLShift
}

// Present returns true if the P bit is set.
func (g Gate) Present() bool {
	return g.TypeAttr&AccessPresent != 0
}

// IsZero returns true for an unused (all-zero) slot.
func (g Gate) IsZero() bool {
	return g == Gate{}
}

// Bytes returns the in-memory (little-endian) representation of g.
func (g Gate) Bytes() [EntrySize]byte {
	return [EntrySize]byte{
		byte(g.OffsetLow), byte(g.OffsetLow >> 8),
		byte(g.Selector), byte(g.Selector >> 8),
		g.Zero,
		g.TypeAttr,
		byte(g.OffsetHigh), byte(g.OffsetHigh >> 8),
	}
}

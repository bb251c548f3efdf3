// Package desc packs and unpacks the 8-byte descriptor formats consumed by
// the x86 protected-mode MMU and interrupt logic: GDT segment descriptors,
// IDT interrupt gates and the 6-byte pseudo-descriptor loaded by LGDT/LIDT.
//
// All encoders are total: they never validate their input. The CPU checks
// descriptors when a selector is loaded or a gate is taken, not here.
package desc

// EntrySize is the size in bytes of both segment descriptors and gates.
const EntrySize = 8

// Access byte layout (bits 40-47 of a descriptor):
//
//	+---+-----+---+---------------+
//	| 7 | 6 5 | 4 | 3   2   1   0 |
//	+---+-----+---+---------------+
//	| P | DPL | S |     Type      |
//	+---+-----+---+---------------+
const (
	// AccessAccessed is set by the CPU the first time the segment is used.
	AccessAccessed uint8 = 1 << 0

	// AccessRW marks code segments as readable and data segments as
	// writable.
	AccessRW uint8 = 1 << 1

	// AccessDirection selects expand-down data segments or conforming
	// code segments.
	AccessDirection uint8 = 1 << 2

	// AccessExecutable marks a code segment.
	AccessExecutable uint8 = 1 << 3

	// AccessCodeData is the S bit. It is set for code/data segments and
	// clear for system descriptors (TSS, LDT, gates).
	AccessCodeData uint8 = 1 << 4

	// AccessPresent is the P bit. Referencing a descriptor without it
	// raises #NP.
	AccessPresent uint8 = 1 << 7

	accessDPLShift = 5
	accessDPLMask  = 3 << accessDPLShift
)

// System descriptor and gate type codes, used with AccessCodeData clear.
const (
	TypeTSS32Available uint8 = 0x9
	TypeTSS32Busy      uint8 = 0xB
	GateInterrupt32    uint8 = 0xE
	GateTrap32         uint8 = 0xF
)

// Flag nibble layout (upper half of byte 6 of a segment descriptor):
//
//	+---+---+---+-----+
//	| 7 | 6 | 5 |  4  |
//	+---+---+---+-----+
//	| G | D | L | AVL |
//	+---+---+---+-----+
const (
	FlagAvailable     uint8 = 1 << 4
	FlagLong          uint8 = 1 << 5
	FlagSize32        uint8 = 1 << 6
	FlagGranularity4K uint8 = 1 << 7

	flagMask = 0xF0
)

// DPL returns the access byte bits for the given privilege ring (0-3).
func DPL(ring uint8) uint8 {
	return (ring << accessDPLShift) & accessDPLMask
}

// Selector returns the segment selector for a GDT entry index with the
// requested privilege level. The table indicator bit is always 0 (GDT).
func Selector(index uint16, rpl uint8) uint16 {
	return index<<3 | uint16(rpl&3)
}

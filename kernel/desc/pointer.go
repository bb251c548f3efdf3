package desc

import "unsafe"

// TablePointer is the operand of the LGDT and LIDT instructions: a 16-bit
// limit immediately followed by a 32-bit linear base address.
//
// Go would pad a {uint16, uint32} struct to 8 bytes, which breaks that
// 6-byte layout. Limit is therefore placed at offset 2 so that Limit and
// Base are contiguous, and Addr returns the address of Limit.
type TablePointer struct {
	_     uint16
	Limit uint16
	Base  uint32

	// table keeps the full address of the table. It is identical to Base
	// on a 32-bit kernel; host builds use it to reach tables above 4GiB.
	table unsafe.Pointer
}

// NewTablePointer returns the pseudo-descriptor for a table of size bytes
// starting at table.
func NewTablePointer(table unsafe.Pointer, size uintptr) TablePointer {
	return TablePointer{
		Limit: uint16(size - 1),
		Base:  uint32(uintptr(table)),
		table: table,
	}
}

// Addr returns the address of the 6-byte pseudo-descriptor.
func (p *TablePointer) Addr() uintptr {
	return uintptr(unsafe.Pointer(&p.Limit))
}

// Table returns a pointer to the first table entry.
func (p *TablePointer) Table() unsafe.Pointer {
	return p.table
}

// Entries returns the number of 8-byte entries covered by Limit.
func (p *TablePointer) Entries() int {
	return (int(p.Limit) + 1) / EntrySize
}

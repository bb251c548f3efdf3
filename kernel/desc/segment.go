package desc

// Segment is a GDT segment descriptor laid out exactly as the CPU expects
// it in memory. Field order and sizes leave no padding so that a [N]Segment
// array can be handed to LGDT as-is.
type Segment struct {
	LimitLow   uint16
	BaseLow    uint16
	BaseMiddle uint8
	AccessByte uint8

	// FlagsLimit holds limit bits 16-19 in its low nibble and the
	// granularity flags in its high nibble.
	FlagsLimit uint8
	BaseHigh   uint8
}

// EncodeSegment packs a (base, limit, access, granularity) tuple into a
// descriptor. Only bits 0-19 of limit and bits 4-7 of granularity are
// used; the remaining bits are dropped so that neither can bleed into the
// other half of the shared byte.
func EncodeSegment(base, limit uint32, access, granularity uint8) Segment {
	return Segment{
		LimitLow:   uint16(limit),
		BaseLow:    uint16(base),
		BaseMiddle: uint8(base >> 16),
		AccessByte: access,
		FlagsLimit: uint8(limit>>16)&0x0F | granularity&flagMask,
		BaseHigh:   uint8(base >> 24),
	}
}

// Base returns the 32-bit linear base address.
func (s Segment) Base() uint32 {
	return uint32(s.BaseHigh)<<24 | uint32(s.BaseMiddle)<<16 | uint32(s.BaseLow)
}

// Limit returns the raw 20-bit limit, in granularity units.
func (s Segment) Limit() uint32 {
	return uint32(s.FlagsLimit&0x0F)<<16 | uint32(s.LimitLow)
}

// Access returns the access byte.
func (s Segment) Access() uint8 {
	return s.AccessByte
}

// Flags returns the granularity flag nibble, in bits 4-7.
func (s Segment) Flags() uint8 {
	return s.FlagsLimit & flagMask
}

// DPL returns the descriptor privilege level.
func (s Segment) DPL() uint8 {
	return (s.AccessByte & accessDPLMask) >> accessDPLShift
}

// Present returns true if the P bit is set.
func (s Segment) Present() bool {
	return s.AccessByte&AccessPresent != 0
}

// IsCode returns true for executable code/data segments.
func (s Segment) IsCode() bool {
	return s.AccessByte&(AccessCodeData|AccessExecutable) == AccessCodeData|AccessExecutable
}

// IsWritableData returns true for non-executable, writable code/data
// segments.
func (s Segment) IsWritableData() bool {
	return s.AccessByte&(AccessCodeData|AccessExecutable|AccessRW) == AccessCodeData|AccessRW
}

// Bytes returns the in-memory (little-endian) representation of s.
func (s Segment) Bytes() [EntrySize]byte {
	return [EntrySize]byte{
		byte(s.LimitLow), byte(s.LimitLow >> 8),
		byte(s.BaseLow), byte(s.BaseLow >> 8),
		s.BaseMiddle,
		s.AccessByte,
		s.FlagsLimit,
		s.BaseHigh,
	}
}

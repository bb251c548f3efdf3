// Package mem provides the raw memory primitives used before the Go
// allocator is available.
package mem

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
	Gb        = 1024 * Mb
)

// In returns s as a whole number of unit-sized blocks, rounding down.
func (s Size) In(unit Size) uint64 {
	return uint64(s / unit)
}

//go:build !386

package gate

// Host builds have no real trampolines. Each vector gets a fixed synthetic
// address instead, laid out as if the entry points were 16-byte aligned
// stubs in the kernel text section.
const (
	hostEntryBase   = 0x00101000
	hostEntryStride = 16
)

func entryAddr(slot int) uintptr {
	return hostEntryBase + uintptr(Vectors[slot].Number)*hostEntryStride
}

package mem

import "unsafe"

// Memset sets size bytes at the given address to the supplied value.
// Instead of a byte loop it makes log2(size) copy calls, each doubling the
// initialized prefix.
func Memset(addr uintptr, value byte, size Size) {
	if size == 0 {
		return
	}

	target := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	target[0] = value
	for index := Size(1); index < size; index *= 2 {
		copy(target[index:], target[:index])
	}
}

// Zero clears the size bytes starting at ptr.
func Zero(ptr unsafe.Pointer, size uintptr) {
	Memset(uintptr(ptr), 0, Size(size))
}

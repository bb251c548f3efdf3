package mem

import (
	"testing"
	"unsafe"
)

func TestMemset(t *testing.T) {
	// memset with a 0 size should be a no-op
	Memset(uintptr(0), 0x00, 0)

	for _, size := range []int{1, 2, 3, 104, 2048, 4096 + 7} {
		buf := make([]byte, size+1)
		for i := range buf {
			buf[i] = 0xFE
		}

		Memset(uintptr(unsafe.Pointer(&buf[0])), 0x5a, Size(size))

		for i := 0; i < size; i++ {
			if got := buf[i]; got != 0x5a {
				t.Fatalf("[block of %d bytes] expected byte %d to be 0x5a; got 0x%x", size, i, got)
			}
		}

		if buf[size] != 0xFE {
			t.Fatalf("[block of %d bytes] expected the byte past the block to be untouched", size)
		}
	}
}

func TestZero(t *testing.T) {
	var record struct {
		a, b uint32
		c    [10]uint16
	}
	record.a, record.b, record.c[9] = 1, 2, 3

	Zero(unsafe.Pointer(&record), unsafe.Sizeof(record))

	if record.a != 0 || record.b != 0 || record.c[9] != 0 {
		t.Fatalf("expected record to be cleared; got %+v", record)
	}
}

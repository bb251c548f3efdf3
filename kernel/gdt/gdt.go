// Package gdt builds the flat-model global descriptor table used by the
// kernel and switches the running CPU onto it.
package gdt

import (
	"math"
	"unsafe"

	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/desc"
	"github.com/fincham/vidic/kernel/mem"
)

// Entry indices. A selector for an entry is its index multiplied by the
// descriptor size.
const (
	nullIndex = iota
	kernelCodeIndex
	kernelDataIndex
	userCodeIndex
	userDataIndex
	taskStateIndex

	// Entries is the number of descriptors in the table.
	Entries
)

// Selectors for each descriptor, all with RPL 0.
const (
	KernelCode   uint16 = kernelCodeIndex * desc.EntrySize
	KernelData   uint16 = kernelDataIndex * desc.EntrySize
	UserCode     uint16 = userCodeIndex * desc.EntrySize
	UserData     uint16 = userDataIndex * desc.EntrySize
	TaskStateSel uint16 = taskStateIndex * desc.EntrySize
)

const (
	// flatLimit together with 4 KiB granularity spans the whole 4 GiB
	// address space.
	flatLimit = 0xFFFFF

	// flatFlags selects 4 KiB granularity and 32-bit operand size.
	flatFlags = desc.FlagGranularity4K | desc.FlagSize32

	codeAccess = desc.AccessPresent | desc.AccessCodeData | desc.AccessExecutable | desc.AccessRW
	dataAccess = desc.AccessPresent | desc.AccessCodeData | desc.AccessRW
	tssAccess  = desc.AccessPresent | desc.TypeTSS32Available
)

// Table is the in-memory descriptor table handed to LGDT.
type Table [Entries]desc.Segment

// Comptime check that the table fits in the 16-bit limit field.
var _ = [math.MaxUint16]struct{}{}[math.MaxUint16-unsafe.Sizeof(Table{})]

// Build writes the flat-model descriptors into t and returns the
// pseudo-descriptor that describes it. The TSS descriptor points at tss,
// which is zeroed. Building into the same t and tss always yields the same
// bytes.
func Build(t *Table, tss *TaskState) desc.TablePointer {
	mem.Zero(unsafe.Pointer(tss), unsafe.Sizeof(*tss))

	t[nullIndex] = desc.Segment{}
	t[kernelCodeIndex] = desc.EncodeSegment(0, flatLimit, codeAccess|desc.DPL(0), flatFlags)
	t[kernelDataIndex] = desc.EncodeSegment(0, flatLimit, dataAccess|desc.DPL(0), flatFlags)
	t[userCodeIndex] = desc.EncodeSegment(0, flatLimit, codeAccess|desc.DPL(3), flatFlags)
	t[userDataIndex] = desc.EncodeSegment(0, flatLimit, dataAccess|desc.DPL(3), flatFlags)
	t[taskStateIndex] = desc.EncodeSegment(
		uint32(uintptr(unsafe.Pointer(tss))),
		uint32(unsafe.Sizeof(*tss)-1),
		tssAccess,
		0,
	)

	return desc.NewTablePointer(unsafe.Pointer(t), unsafe.Sizeof(*t))
}

// Activate loads the table described by ptr and moves the running CPU onto
// it: CS is reloaded with KernelCode through a far transfer and every data
// segment register is reloaded with KernelData.
func Activate(ops cpu.Ops, ptr *desc.TablePointer) {
	ops.LoadGDT(ptr)
	ops.ReloadCS(KernelCode)
	ops.ReloadDataSegments(KernelData)
}

// Bytes returns the raw contents of t as the CPU sees them.
func (t *Table) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(t)), unsafe.Sizeof(*t))
}

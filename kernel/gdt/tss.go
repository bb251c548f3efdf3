package gdt

import "unsafe"

// TaskState is the 32-bit task state segment. The kernel reserves one and
// describes it in the GDT but never loads the task register.
type TaskState struct {
	PrevTask uint16
	_        uint16
	ESP0     uint32
	SS0      uint16
	_        uint16
	ESP1     uint32
	SS1      uint16
	_        uint16
	ESP2     uint32
	SS2      uint16
	_        uint16
	CR3      uint32
	EIP      uint32
	EFLAGS   uint32
	EAX      uint32
	ECX      uint32
	EDX      uint32
	EBX      uint32
	ESP      uint32
	EBP      uint32
	ESI      uint32
	EDI      uint32
	ES       uint16
	_        uint16
	CS       uint16
	_        uint16
	SS       uint16
	_        uint16
	DS       uint16
	_        uint16
	FS       uint16
	_        uint16
	GS       uint16
	_        uint16
	LDT      uint16
	_        uint16
	Trap     uint16
	IOMap    uint16
}

// taskStateSize is the architectural size of a 32-bit TSS.
const taskStateSize = 104

// Comptime check that TaskState matches the hardware layout.
var _ = [1]struct{}{}[unsafe.Sizeof(TaskState{})-taskStateSize]

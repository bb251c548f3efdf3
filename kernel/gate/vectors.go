package gate

// InterruptNumber describes an x86 interrupt/exception/trap slot.
type InterruptNumber uint8

const (
	// DivideByZero occurs when dividing any number by 0 using the DIV or
	// IDIV instruction.
	DivideByZero = InterruptNumber(0)

	// Debug is raised by single-stepping and by debug register matches.
	Debug = InterruptNumber(1)

	// NMI (non-maskable-interrupt) is a hardware interrupt that indicates
	// issues with RAM or unrecoverable hardware problems.
	NMI = InterruptNumber(2)

	// Breakpoint is raised by the INT3 instruction.
	Breakpoint = InterruptNumber(3)

	// Overflow is raised by INTO when the overflow flag is set.
	Overflow = InterruptNumber(4)

	// BoundRangeExceeded occurs when the BOUND instruction is invoked with
	// an index out of range.
	BoundRangeExceeded = InterruptNumber(5)

	// InvalidOpcode occurs when the CPU attempts to execute an invalid or
	// undefined instruction opcode.
	InvalidOpcode = InterruptNumber(6)

	// DeviceNotAvailable occurs when the CPU attempts to execute an FPU
	// instruction while no FPU is available.
	DeviceNotAvailable = InterruptNumber(7)

	// DoubleFault occurs when an exception is raised while the CPU is
	// trying to deliver another one. A fault while delivering a double
	// fault resets the machine (triple fault).
	DoubleFault = InterruptNumber(8)

	// CoprocessorSegmentOverrun is reserved on CPUs after the 386.
	CoprocessorSegmentOverrun = InterruptNumber(9)

	// InvalidTSS occurs when a task switch references an invalid TSS.
	InvalidTSS = InterruptNumber(10)

	// SegmentNotPresent occurs when loading a segment register or taking
	// a gate whose descriptor has the present bit clear.
	SegmentNotPresent = InterruptNumber(11)

	// StackSegmentFault occurs when the stack segment limit check fails or
	// SS is loaded with a non-present segment.
	StackSegmentFault = InterruptNumber(12)

	// GPFException occurs when a general protection fault occurs.
	GPFException = InterruptNumber(13)

	// PageFaultException occurs when a page directory or page table entry
	// is not present or when a protection check fails.
	PageFaultException = InterruptNumber(14)

	// FloatingPointException occurs when an unmasked x87 exception is
	// pending while CR0.NE is set.
	FloatingPointException = InterruptNumber(16)

	// IRQBase is the vector assigned to IRQ0 once the PICs are remapped.
	// IRQ n is delivered on IRQBase+n.
	IRQBase = InterruptNumber(0x20)

	// Syscall is the software interrupt vector raised by INT 0x80.
	Syscall = InterruptNumber(0x80)
)

// Vector pairs an interrupt number with the label printed when its
// trampoline runs.
type Vector struct {
	Number InterruptNumber
	Label  string
}

// Vectors lists every interrupt number that receives a trampoline. Entry
// order matches the order of the assembly entry points.
var Vectors = [...]Vector{
	{DivideByZero, "Divide Error"},
	{Debug, "Debug"},
	{NMI, "Non-maskable Interrupt"},
	{Breakpoint, "Breakpoint"},
	{Overflow, "Overflow"},
	{BoundRangeExceeded, "Bound Range Exceeded"},
	{InvalidOpcode, "Invalid Opcode"},
	{DeviceNotAvailable, "Device Not Available"},
	{DoubleFault, "Double Fault"},
	{CoprocessorSegmentOverrun, "Coprocessor Segment Overrun"},
	{InvalidTSS, "Invalid TSS"},
	{SegmentNotPresent, "Segment Not Present"},
	{StackSegmentFault, "Stack-Segment Fault"},
	{GPFException, "General Protection Fault"},
	{PageFaultException, "Page Fault"},
	{FloatingPointException, "x87 Floating-Point Exception"},
	{IRQBase + 0, "IRQ0 Timer"},
	{IRQBase + 1, "IRQ1 Keyboard"},
	{IRQBase + 2, "IRQ2 Cascade"},
	{IRQBase + 3, "IRQ3 COM2"},
	{IRQBase + 4, "IRQ4 COM1"},
	{IRQBase + 5, "IRQ5 LPT2"},
	{IRQBase + 6, "IRQ6 Floppy"},
	{IRQBase + 7, "IRQ7 LPT1"},
	{IRQBase + 8, "IRQ8 CMOS Clock"},
	{IRQBase + 9, "IRQ9 Free"},
	{IRQBase + 10, "IRQ10 Free"},
	{IRQBase + 11, "IRQ11 Free"},
	{IRQBase + 12, "IRQ12 PS/2 Mouse"},
	{IRQBase + 13, "IRQ13 FPU"},
	{IRQBase + 14, "IRQ14 Primary ATA"},
	{IRQBase + 15, "IRQ15 Secondary ATA"},
	{Syscall, "Syscall"},
}

// Label returns the label for n or "Unknown" if n has no trampoline.
func (n InterruptNumber) Label() string {
	for _, v := range Vectors {
		if v.Number == n {
			return v.Label
		}
	}
	return "Unknown"
}

package cpu

// LoadGDT executes LGDT with the 6-byte pseudo-descriptor at ptrAddr.
func LoadGDT(ptrAddr uintptr)

// ReloadCS reloads CS with sel by issuing a far return to its own caller.
func ReloadCS(sel uint16)

// ReloadDataSegments loads sel into DS, ES, FS, GS and SS.
func ReloadDataSegments(sel uint16)

// LoadIDT executes LIDT with the 6-byte pseudo-descriptor at ptrAddr.
func LoadIDT(ptrAddr uintptr)

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt disables interrupts and stops instruction execution. Halt never
// returns; an NMI that wakes the CPU drops straight back into HLT.
func Halt()

// Breakpoint executes INT3.
func Breakpoint()

// SoftwareInterrupt executes INT $0x80.
func SoftwareInterrupt()

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

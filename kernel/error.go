package kernel

// Error describes a fatal condition raised while bringing up the machine.
//
// The boot path runs before any allocator exists, so errors.New cannot be
// used. Every Error is declared up front as a package-level pointer and
// handed to kfmt.Panic when it is raised.
type Error struct {
	// Module names the package that raised the error, e.g. "gdt".
	Module string

	// Message is the human-readable description printed by kfmt.Panic.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

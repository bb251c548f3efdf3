package kfmt

import (
	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/cpu"
)

// cpuHaltFn is mocked by tests.
var cpuHaltFn = cpu.Halt

// Panic prints a banner describing e to the active output sink and halts
// the CPU. It never returns: partially initialized descriptor tables are
// worse than none, so there is nothing to recover to.
//
// e may be a *kernel.Error, an error or a string. Any other value (including
// nil) prints the banner without a cause line.
func Panic(e interface{}) {
	var module, msg string

	switch cause := e.(type) {
	case *kernel.Error:
		if cause != nil {
			module, msg = cause.Module, cause.Message
		}
	case error:
		module, msg = "rt", cause.Error()
	case string:
		module, msg = "rt", cause
	}

	Printf("\n-----------------------------------\n")
	if msg != "" {
		Printf("[%s] unrecoverable error: %s\n", module, msg)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	cpuHaltFn()
}

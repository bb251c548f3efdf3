// Command vidic is the kernel image. The rt0 assembly code calls
// kmain.Kmain directly; main only exists so the linker keeps it.
package main

import "github.com/fincham/vidic/kernel/kmain"

// multibootInfoPtr is never set. Passing a variable instead of a constant
// stops the compiler from inlining Kmain away.
var multibootInfoPtr uintptr

func main() {
	kmain.Kmain(multibootInfoPtr)
}

package kmain

import (
	"unsafe"

	"github.com/fincham/vidic/device/tty"
	"github.com/fincham/vidic/device/video/console"
	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/boot"
	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/hal"
	"github.com/fincham/vidic/kernel/hal/multiboot"
	"github.com/fincham/vidic/kernel/kfmt"
	"github.com/fincham/vidic/kernel/mem"
)

// Text mode geometry used when the boot loader does not describe the
// framebuffer.
const (
	defaultColumns = 80
	defaultRows    = 25
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// The kernel runs before the Go allocator is available, so every
	// long-lived object is a package-level variable.
	vgaConsole console.VgaTextConsole
	vt         tty.VT
	bootCtx    boot.Context
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code
// after setting up a stack and a minimal g0 struct that allows Go code to
// run on it.
//
// The rt0 code passes the address of the multiboot info payload provided by
// the bootloader.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)

	cols, rows, fbAddr := uint32(defaultColumns), uint32(defaultRows), uintptr(console.FramebufferAddr)
	if info := multiboot.GetFramebufferInfo(); info != nil && info.Type == multiboot.FramebufferTypeEGA {
		cols, rows, fbAddr = info.Width, info.Height, uintptr(info.PhysAddr)
	}

	fb := unsafe.Slice((*uint16)(unsafe.Pointer(fbAddr)), cols*rows)
	Start(cpu.Native, fb, cols, rows)
}

// Start brings up the terminal on the text framebuffer fb and runs the boot
// sequence on ops. It never returns.
func Start(ops cpu.Ops, fb []uint16, cols, rows uint32) {
	ops.DisableInterrupts()

	vgaConsole.Init(cols, rows, fb, ops)
	vt.Init(tty.DefaultTabWidth)
	if err := hal.InitTerminal(&vgaConsole, &vt); err != nil {
		kfmt.Panic(err)
	}

	kfmt.Printf("Called kernel main().\n")
	if name := multiboot.BootLoaderName(); name != "" {
		kfmt.Printf("Booted by %s\n", name)
	}
	if cmdLine := multiboot.CmdLine(); cmdLine != "" {
		kfmt.Printf("Command line: %s\n", cmdLine)
	}
	if avail := mem.Size(multiboot.AvailableMemory()); avail != 0 {
		kfmt.Printf("Available memory: %d KiB\n", avail.In(mem.Kb))
	}

	bootCtx = boot.Context{}
	boot.Run(&bootCtx, ops)

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating kfmt.Panic as dead-code and eliminating it.
	kfmt.Panic(errKmainReturned)
}

// Context returns the boot context used by the last call to Start.
func Context() *boot.Context {
	return &bootCtx
}

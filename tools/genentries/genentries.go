package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"

	"github.com/fincham/vidic/kernel/gate"
)

// entriesPerRow is the number of entry points per line of the entries
// array literal.
const entriesPerRow = 8

const generatedHeader = "// Code generated by genentries; DO NOT EDIT.\n\n"

const goPrologue = `package gate

import "unsafe"

// Per-vector entry points implemented in entry_386.s. Each one pushes its
// vector number and jumps to commonEntry.
`

const goEpilogue = `
// entryAddr returns the address of the first instruction of the entry point
// for Vectors[slot].
func entryAddr(slot int) uintptr {
	fn := entries[slot]
	return **(**uintptr)(unsafe.Pointer(&fn))
}

// dispatchEntry is called by commonEntry with the vector number pushed by
// the trampoline.
//
//go:nosplit
func dispatchEntry(vector uint32) {
	Dispatch(InterruptNumber(vector))
}
`

const asmPrologue = `#include "textflag.h"

// Each entry point pushes its vector number so that commonEntry can pass it
// to dispatchEntry as the first argument.
`

const asmEpilogue = `
// commonEntry runs with the vector number on top of the stack, which is
// where the Go calling convention expects the first argument of a call.
TEXT ·commonEntry(SB),NOSPLIT,$0
	CALL ·dispatchEntry(SB)

	// dispatchEntry halts and never returns; stop here if it ever does.
	CLI
halt:
	HLT
	JMP halt
`

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[genentries] error: %s\n", err.Error())
	os.Exit(1)
}

// genGoFile returns the gofmt-ed Go declarations for the entry points of
// vectors.
func genGoFile(vectors []gate.Vector) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprint(&buf, generatedHeader, goPrologue)
	for _, v := range vectors {
		fmt.Fprintf(&buf, "func entry%d()\n", v.Number)
	}

	fmt.Fprint(&buf, "\n// commonEntry forwards the vector pushed by an entry point to dispatchEntry.\n")
	fmt.Fprint(&buf, "func commonEntry()\n\n")

	fmt.Fprint(&buf, "// entries is indexed like Vectors.\n")
	fmt.Fprint(&buf, "var entries = [len(Vectors)]func(){")
	for i, v := range vectors {
		if i%entriesPerRow == 0 {
			fmt.Fprint(&buf, "\n\t")
		} else {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "entry%d,", v.Number)
	}
	fmt.Fprint(&buf, "\n}\n", goEpilogue)

	return format.Source(buf.Bytes())
}

// genAsmFile returns the 386 assembly for the entry points of vectors.
func genAsmFile(vectors []gate.Vector) []byte {
	var buf bytes.Buffer

	fmt.Fprint(&buf, generatedHeader, asmPrologue)
	for _, v := range vectors {
		fmt.Fprintf(&buf, "\nTEXT ·entry%d(SB),NOSPLIT,$0\n", v.Number)
		fmt.Fprintf(&buf, "\tPUSHL $%d\n", v.Number)
		fmt.Fprint(&buf, "\tJMP ·commonEntry(SB)\n")
	}
	fmt.Fprint(&buf, asmEpilogue)

	return buf.Bytes()
}

func runTool() error {
	outDir := flag.String("out-dir", ".", "the directory to write entry_386.go and entry_386.s to")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "genentries: generate the interrupt entry points for gate.Vectors\n\n")
		fmt.Fprint(os.Stderr, "Usage: genentries [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 {
		return errors.New("unexpected arguments")
	}

	goData, err := genGoFile(gate.Vectors[:])
	if err != nil {
		return err
	}

	if err = os.WriteFile(filepath.Join(*outDir, "entry_386.go"), goData, 0644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(*outDir, "entry_386.s"), genAsmFile(gate.Vectors[:]), 0644)
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}

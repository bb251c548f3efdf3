package main

import (
	"debug/elf"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fincham/vidic/kernel/gate"
)

// gatePkg is the import path prefix of the trampoline symbols.
const gatePkg = "github.com/fincham/vidic/kernel/gate"

type entry struct {
	vector gate.Vector
	symbol string
	vma    uint64
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[entrymap] error: %s\n", err.Error())
	os.Exit(1)
}

// resolveEntries looks up the trampoline of every vector in symbols. Every
// vector must have its own symbol inside the text section.
func resolveEntries(vectors []gate.Vector, symbols []elf.Symbol, text *elf.Section) ([]*entry, error) {
	entries := make([]*entry, 0, len(vectors))
	byName := make(map[string]*entry, len(vectors))
	for _, v := range vectors {
		e := &entry{vector: v, symbol: fmt.Sprintf("%s.entry%d", gatePkg, v.Number)}
		entries = append(entries, e)
		byName[e.symbol] = e
	}

	for _, symbol := range symbols {
		if e := byName[symbol.Name]; e != nil {
			e.vma = symbol.Value
		}
	}

	seen := make(map[uint64]*entry, len(entries))
	for _, e := range entries {
		switch {
		case e.vma == 0:
			return nil, fmt.Errorf("could not locate address of %q", e.symbol)
		case text != nil && (e.vma < text.Addr || e.vma >= text.Addr+text.Size):
			return nil, fmt.Errorf("%q at 0x%x is outside the text section", e.symbol, e.vma)
		case seen[e.vma] != nil:
			return nil, fmt.Errorf("%q and %q share address 0x%x", seen[e.vma].symbol, e.symbol, e.vma)
		}
		seen[e.vma] = e
	}

	return entries, nil
}

func printEntries(w io.Writer, entries []*entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "0x%02x  0x%08x  %s\n", uint8(e.vector.Number), e.vma, e.vector.Label)
	}
}

func runTool() error {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "entrymap: list the interrupt entry points of a kernel image\n\n")
		fmt.Fprint(os.Stderr, "Usage: entrymap kernel.elf\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("missing kernel image argument")
	}

	imgFile := flag.Arg(0)
	f, err := elf.Open(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if f.Machine != elf.EM_386 {
		return fmt.Errorf("%s: expected an i386 image; got %s", imgFile, f.Machine)
	}

	symbols, err := f.Symbols()
	if err != nil {
		return err
	}

	entries, err := resolveEntries(gate.Vectors[:], symbols, f.Section(".text"))
	if err != nil {
		return fmt.Errorf("%s: %w", imgFile, err)
	}

	printEntries(os.Stdout, entries)
	return nil
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}

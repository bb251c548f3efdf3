package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/fincham/vidic/kernel/desc"
	"github.com/fincham/vidic/kernel/gate"
	"github.com/fincham/vidic/kernel/gdt"
	"github.com/fincham/vidic/kernel/idt"
	"github.com/fincham/vidic/kernel/kfmt"
)

// segmentView is the decoded form of a GDT entry.
type segmentView struct {
	Index    int
	Selector string
	Kind     string
	Base     string
	Limit    string
	Access   string
	Flags    string
	DPL      uint8
	Present  bool
}

// gateView is the decoded form of a populated IDT slot.
type gateView struct {
	Vector   string
	Label    string
	Offset   string
	Selector string
	Type     string
	DPL      uint8
	Present  bool
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[gdtdump] error: %s\n", err.Error())
	os.Exit(1)
}

func segmentKind(s desc.Segment) string {
	switch {
	case s == desc.Segment{}:
		return "null"
	case s.Access()&desc.AccessCodeData == 0:
		if s.Access()&0x0f == desc.TypeTSS32Available {
			return "tss32"
		}
		return "system"
	case s.IsCode():
		return "code"
	case s.IsWritableData():
		return "data rw"
	default:
		return "data ro"
	}
}

func decodeGDT(t *gdt.Table) []segmentView {
	views := make([]segmentView, 0, len(t))
	for i, s := range t {
		views = append(views, segmentView{
			Index:    i,
			Selector: fmt.Sprintf("0x%02x", i*desc.EntrySize),
			Kind:     segmentKind(s),
			Base:     fmt.Sprintf("0x%08x", s.Base()),
			Limit:    fmt.Sprintf("0x%05x", s.Limit()),
			Access:   fmt.Sprintf("0x%02x", s.Access()),
			Flags:    fmt.Sprintf("0x%x", s.Flags()>>4),
			DPL:      s.DPL(),
			Present:  s.Present(),
		})
	}
	return views
}

func decodeIDT(t *idt.Table) []gateView {
	var views []gateView
	for n, g := range t {
		if g.IsZero() {
			continue
		}

		kind := "unknown"
		switch g.Type() {
		case desc.GateInterrupt32:
			kind = "interrupt32"
		case desc.GateTrap32:
			kind = "trap32"
		}

		views = append(views, gateView{
			Vector:   fmt.Sprintf("0x%02x", n),
			Label:    gate.InterruptNumber(n).Label(),
			Offset:   fmt.Sprintf("0x%08x", g.Offset()),
			Selector: fmt.Sprintf("0x%02x", g.Selector),
			Type:     kind,
			DPL:      g.DPL(),
			Present:  g.Present(),
		})
	}
	return views
}

// dump builds the boot tables exactly as the kernel does and writes them
// to w. With raw set, the GDT is printed as a hex dump instead.
func dump(w io.Writer, printer *pp.PrettyPrinter, raw, withIDT bool) {
	var (
		table gdt.Table
		tss   gdt.TaskState
	)

	ptr := gdt.Build(&table, &tss)
	if raw {
		kfmt.Hexdump(w, table.Bytes())
	} else {
		printer.Fprintln(w, ptr.Limit)
		printer.Fprintln(w, decodeGDT(&table))
	}

	if !withIDT {
		return
	}

	var (
		handlers gate.HandlerTable
		ints     idt.Table
	)

	gate.Install(&handlers, nil, nil)
	idtPtr := idt.Build(&ints, &handlers, gdt.KernelCode)
	if raw {
		kfmt.Hexdump(w, ints.Bytes())
		return
	}

	printer.Fprintln(w, idtPtr.Limit)
	printer.Fprintln(w, decodeIDT(&ints))
}

func runTool() error {
	raw := flag.Bool("raw", false, "print the tables as hex dumps")
	withIDT := flag.Bool("idt", false, "also dump the interrupt descriptor table")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "gdtdump: print the descriptor tables built at boot\n\n")
		fmt.Fprint(os.Stderr, "Usage: gdtdump [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 {
		return errors.New("unexpected arguments")
	}

	printer := pp.New()
	printer.SetColoringEnabled(!*noColor)

	dump(os.Stdout, printer, *raw, *withIDT)
	return nil
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}

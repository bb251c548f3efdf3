package pic

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/fincham/vidic/kernel/cpu/cputest"
)

func TestRemap(t *testing.T) {
	specs := []struct {
		masks        Masks
		masterOffset uint8
		slaveOffset  uint8
		exp          []string
	}{
		{
			Masks{Master: 0xb8, Slave: 0x8e},
			0x20, 0x28,
			[]string{
				"inb 0x21",
				"inb 0xa1",
				"outb 0x20 0x11",
				"outb 0xa0 0x11",
				"outb 0x21 0x20",
				"outb 0xa1 0x28",
				"outb 0x21 0x04",
				"outb 0xa1 0x02",
				"outb 0x21 0x01",
				"outb 0xa1 0x01",
				"outb 0x21 0xb8",
				"outb 0xa1 0x8e",
			},
		},
		{
			Masks{Master: 0xff, Slave: 0xff},
			0x70, 0x78,
			[]string{
				"inb 0x21",
				"inb 0xa1",
				"outb 0x20 0x11",
				"outb 0xa0 0x11",
				"outb 0x21 0x70",
				"outb 0xa1 0x78",
				"outb 0x21 0x04",
				"outb 0xa1 0x02",
				"outb 0x21 0x01",
				"outb 0xa1 0x01",
				"outb 0x21 0xff",
				"outb 0xa1 0xff",
			},
		},
	}

	for specIndex, spec := range specs {
		rec := cputest.Recorder{
			PortValues: map[uint16]uint8{
				MasterData: spec.masks.Master,
				SlaveData:  spec.masks.Slave,
			},
		}

		got := Remap(&rec, spec.masterOffset, spec.slaveOffset)
		if got != spec.masks {
			t.Errorf("[spec %d] expected returned masks %+v; got %+v", specIndex, spec.masks, got)
		}

		if !reflect.DeepEqual(rec.Ops, spec.exp) {
			t.Errorf("[spec %d] expected port sequence:\n%q\ngot:\n%q", specIndex, spec.exp, rec.Ops)
		}

		// The last writes to the data ports restore the masks.
		if rec.PortValues[MasterData] != spec.masks.Master || rec.PortValues[SlaveData] != spec.masks.Slave {
			t.Errorf("[spec %d] expected masks to be restored", specIndex)
		}
	}
}

func TestReadMasks(t *testing.T) {
	rec := cputest.Recorder{PortValues: map[uint16]uint8{MasterData: 0x01, SlaveData: 0x02}}

	if got, exp := ReadMasks(&rec), (Masks{Master: 0x01, Slave: 0x02}); got != exp {
		t.Fatalf("expected %+v; got %+v", exp, got)
	}

	if exp := []string{"inb 0x21", "inb 0xa1"}; !reflect.DeepEqual(rec.Ops, exp) {
		t.Fatalf("expected ops %q; got %q", exp, rec.Ops)
	}
}

func TestControllerDriverInit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var (
			c   Controller
			buf bytes.Buffer
			rec = cputest.Recorder{PortValues: map[uint16]uint8{MasterData: 0xfb, SlaveData: 0xff}}
		)

		c.Init(&rec, MasterOffset, SlaveOffset)
		if err := c.DriverInit(&buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if exp := "IRQ0-7 -> 0x20, IRQ8-15 -> 0x28, masks 0xfb/0xff\n"; buf.String() != exp {
			t.Fatalf("expected output %q; got %q", exp, buf.String())
		}

		if exp := (Masks{Master: 0xfb, Slave: 0xff}); c.Masks() != exp {
			t.Fatalf("expected preserved masks %+v; got %+v", exp, c.Masks())
		}

		if len(rec.Ops) != 12 {
			t.Fatalf("expected a full remap sequence; got %q", rec.Ops)
		}
	})

	t.Run("invalid offsets", func(t *testing.T) {
		specs := []struct {
			master, slave uint8
		}{
			{0x08, 0x70},
			{0x20, 0x21},
			{0x20, 0x20},
			{0x00, 0x28},
		}

		for specIndex, spec := range specs {
			var (
				c   Controller
				rec cputest.Recorder
			)

			c.Init(&rec, spec.master, spec.slave)
			if err := c.DriverInit(&bytes.Buffer{}); err != errBadOffset {
				t.Errorf("[spec %d] expected errBadOffset; got %v", specIndex, err)
			}

			if len(rec.Ops) != 0 {
				t.Errorf("[spec %d] expected no port access; got %q", specIndex, rec.Ops)
			}
		}
	})

	t.Run("driver info", func(t *testing.T) {
		var c Controller
		if exp := "8259_pic"; c.DriverName() != exp {
			t.Fatalf("expected DriverName() to return %q; got %q", exp, c.DriverName())
		}

		if major, minor, patch := c.DriverVersion(); major != 0 || minor != 0 || patch != 1 {
			t.Fatalf("expected DriverVersion() to return 0.0.1; got %d.%d.%d", major, minor, patch)
		}
	})
}

package kfmt

import (
	"bytes"
	"strings"
	"testing"
)

func TestHexdump(t *testing.T) {
	specs := []struct {
		data []byte
		exp  string
	}{
		{
			nil,
			"",
		},
		{
			[]byte{0xff, 0xff, 0x00, 0x00, 0x00, 0x9a, 0xcf, 0x00},
			"0x000000: ff ff 00 00 00 9a cf 00 \n",
		},
		{
			[]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			"0x000000: 00 01 02 03 04 05 06 07 \n" +
				"0x000008: 08 09 0a " + strings.Repeat("   ", 5) + "\n",
		},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		Hexdump(&buf, spec.data)

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected:\n%q\ngot:\n%q", specIndex, spec.exp, got)
		}
	}
}

func TestHexdumpOffsets(t *testing.T) {
	var buf bytes.Buffer
	Hexdump(&buf, make([]byte, 48))

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), []byte{'\n'})
	if len(lines) != 6 {
		t.Fatalf("expected 6 rows; got %d", len(lines))
	}

	if exp := "0x000028: "; !bytes.HasPrefix(lines[5], []byte(exp)) {
		t.Fatalf("expected last row to start with %q; got %q", exp, lines[5])
	}
}

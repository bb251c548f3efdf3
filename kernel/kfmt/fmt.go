// Package kfmt provides the kernel's logging primitives: an allocation-free
// Printf, a hex dump helper and the Panic routine that halts the machine.
package kfmt

import (
	"io"
	"unsafe"
)

// maxBufSize defines the scratch space used for formatting numbers.
const maxBufSize = 32

const digits = "0123456789abcdef"

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	// numBuf is filled right-to-left by fmtInt. The kernel runs a single
	// thread while booting so the buffer can be shared.
	numBuf [maxBufSize]byte

	// singleByte passes individual characters to doWrite without
	// converting strings to byte slices.
	singleByte = []byte{0}

	// earlyBuffer captures output written before a terminal is attached.
	earlyBuffer ringBuffer

	// outputSink receives the output of Printf. While nil, output is
	// kept in earlyBuffer.
	outputSink io.Writer
)

// SetOutputSink makes w the target for Printf and replays any output that
// was buffered while no sink was attached.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		earlyBuffer.WriteTo(w)
	}
}

// Output returns an io.Writer that forwards to the active output sink, or
// to the early buffer if no sink has been attached yet. The returned value
// stays valid across calls to SetOutputSink.
func Output() io.Writer {
	return sinkWriter{}
}

type sinkWriter struct{}

func (sinkWriter) Write(p []byte) (int, error) {
	if outputSink != nil {
		return outputSink.Write(p)
	}
	return earlyBuffer.Write(p)
}

// Printf formats according to a format specifier and writes to the active
// output sink. It is safe to call before the Go allocator is available.
//
// The following subset of fmt verbs is supported:
//
//	%s  string or []byte
//	%c  a single byte
//	%d  base 10 integer, left-padded with spaces
//	%o  base 8 integer, left-padded with zeroes
//	%x  base 16 integer (lower-case), left-padded with zeroes
//	%t  "true" or "false"
//	%%  a literal percent sign
//
// A decimal width may precede the verb. Values that are shorter than the
// width are padded; longer values are never truncated.
//
// Only built-in integer, string, []byte and bool types are recognized.
// io.Stringer and error values are not inspected because doing so requires
// itables and reflection that are not available this early.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes its output to w. Passing a nil w
// writes to the early output buffer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		fmtLen   = len(format)
	)

	for i := 0; i < fmtLen; i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		width = 0
		for i++; i < fmtLen && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == fmtLen {
			doWrite(w, errNoVerb)
			break
		}

		verb := format[i]
		switch verb {
		case '%':
			writeByte(w, '%')
			continue
		case 'd', 'o', 'x', 's', 'c', 't':
		default:
			doWrite(w, errNoVerb)
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		switch verb {
		case 'd':
			fmtInt(w, args[argIndex], 10, width)
		case 'o':
			fmtInt(w, args[argIndex], 8, width)
		case 'x':
			fmtInt(w, args[argIndex], 16, width)
		case 's':
			fmtString(w, args[argIndex], width)
		case 'c':
			fmtChar(w, args[argIndex])
		case 't':
			fmtBool(w, args[argIndex])
		}
		argIndex++
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case b:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

func fmtChar(w io.Writer, v interface{}) {
	switch ch := v.(type) {
	case uint8:
		writeByte(w, ch)
	case int32:
		if ch < 0 || ch > 0x7f {
			ch = '?'
		}
		writeByte(w, byte(ch))
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtString writes a string or []byte value, left-padded with spaces up to
// width.
func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		fmtRepeat(w, ' ', width-len(s))
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		fmtRepeat(w, ' ', width-len(s))
		doWrite(w, s)
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtRepeat(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt writes an integer value in the requested base. Base 10 values are
// padded with spaces and the sign hugs the digits; base 8 and 16 values are
// padded with zeroes and the sign precedes the padding.
func fmtInt(w io.Writer, v interface{}, base, width int) {
	var (
		uval uint64
		neg  bool
	)

	switch n := v.(type) {
	case uint8:
		uval = uint64(n)
	case uint16:
		uval = uint64(n)
	case uint32:
		uval = uint64(n)
	case uint64:
		uval = n
	case uint:
		uval = uint64(n)
	case uintptr:
		uval = uint64(n)
	case int8:
		neg, uval = splitSign(int64(n))
	case int16:
		neg, uval = splitSign(int64(n))
	case int32:
		neg, uval = splitSign(int64(n))
	case int64:
		neg, uval = splitSign(n)
	case int:
		neg, uval = splitSign(int64(n))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if width > maxBufSize-1 {
		width = maxBufSize - 1
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
	}

	pos := maxBufSize
	for {
		pos--
		numBuf[pos] = digits[uval%uint64(base)]
		uval /= uint64(base)
		if uval == 0 {
			break
		}
	}

	if neg && padCh == ' ' {
		pos--
		numBuf[pos] = '-'
	}

	for maxBufSize-pos < width {
		pos--
		numBuf[pos] = padCh
	}

	if neg && padCh == '0' {
		writeByte(w, '-')
	}

	doWrite(w, numBuf[pos:])
}

func splitSign(v int64) (bool, uint64) {
	if v < 0 {
		return true, uint64(-v)
	}
	return false, uint64(v)
}

func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

// doWrite hides p from escape analysis. The compiler cannot see through the
// io.Writer call and would otherwise move every Printf argument to the
// heap, which crashes the kernel before an allocator is available.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
		return
	}
	earlyBuffer.Write(p)
}

// noEscape hides a pointer from escape analysis. It mirrors the helper in
// runtime/stubs.go.
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

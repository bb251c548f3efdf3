package kfmt

import "io"

// earlyBufferSize holds two full 80x25 screens of text. It must be a
// power of 2.
const earlyBufferSize = 4096

// ringBuffer keeps the most recent earlyBufferSize bytes written to it.
// Once full, new writes overwrite the oldest data.
type ringBuffer struct {
	data [earlyBufferSize]byte
	head int
	size int
}

// Write implements io.Writer. It never fails.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[(rb.head+rb.size)&(earlyBufferSize-1)] = b
		if rb.size < earlyBufferSize {
			rb.size++
			continue
		}
		rb.head = (rb.head + 1) & (earlyBufferSize - 1)
	}

	return len(p), nil
}

// Read implements io.Reader. It returns io.EOF once the buffer is drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.size == 0 {
		return 0, io.EOF
	}

	var n int
	for ; n < len(p) && rb.size > 0; n++ {
		p[n] = rb.data[rb.head]
		rb.head = (rb.head + 1) & (earlyBufferSize - 1)
		rb.size--
	}

	return n, nil
}

// WriteTo drains the buffer into w using at most two writes. It lets
// io.Copy work without allocating an intermediate buffer.
func (rb *ringBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for rb.size > 0 {
		end := rb.head + rb.size
		if end > earlyBufferSize {
			end = earlyBufferSize
		}

		n, err := w.Write(rb.data[rb.head:end])
		total += int64(n)
		rb.head = (rb.head + n) & (earlyBufferSize - 1)
		rb.size -= n

		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}

	return total, nil
}

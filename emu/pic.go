//go:build !386

package emu

// PIC models one 8259A programmable interrupt controller as far as the
// kernel programs it: the ICW1-ICW4 initialization sequence, the mask
// register and the OCW2/OCW3 commands.
type PIC struct {
	// IRR, ISR and IMR are the request, in-service and mask registers.
	IRR, ISR, IMR uint8

	// VectorBase is the vector of IRQ0 on this controller (ICW2).
	VectorBase uint8

	// Cascade is the ICW3 value: the slave bitmap on a master, or the
	// cascade identity on a slave.
	Cascade uint8

	// Mode is the ICW4 value.
	Mode uint8

	// Initialized is set once the initialization sequence completes.
	Initialized bool

	step     icwStep
	needICW4 bool
	single   bool
	readISR  bool
}

type icwStep uint8

const (
	icwDone icwStep = iota
	icwExpect2
	icwExpect3
	icwExpect4
)

const (
	icw1Init     = 0x10
	icw1NeedICW4 = 0x01
	icw1Single   = 0x02

	ocw3Select  = 0x08
	ocw3ReadReg = 0x02
	ocw3ISR     = 0x01

	ocw2EOI = 0x20
)

// WriteCommand handles a write to the command port.
func (p *PIC) WriteCommand(val uint8) {
	switch {
	case val&icw1Init != 0:
		// ICW1 restarts initialization and clears the mask register.
		p.IMR, p.ISR, p.IRR = 0, 0, 0
		p.needICW4 = val&icw1NeedICW4 != 0
		p.single = val&icw1Single != 0
		p.Initialized = false
		p.step = icwExpect2
	case val&ocw3Select != 0:
		if val&ocw3ReadReg != 0 {
			p.readISR = val&ocw3ISR != 0
		}
	case val&ocw2EOI != 0:
		p.eoi()
	}
}

// WriteData handles a write to the data port. During initialization the
// byte is the next ICW; afterwards it replaces the mask register.
func (p *PIC) WriteData(val uint8) {
	switch p.step {
	case icwExpect2:
		p.VectorBase = val &^ 7
		switch {
		case !p.single:
			p.step = icwExpect3
		case p.needICW4:
			p.step = icwExpect4
		default:
			p.finishInit()
		}
	case icwExpect3:
		p.Cascade = val
		if p.needICW4 {
			p.step = icwExpect4
		} else {
			p.finishInit()
		}
	case icwExpect4:
		p.Mode = val
		p.finishInit()
	default:
		p.IMR = val
	}
}

// ReadCommand returns the IRR or ISR, as selected by the last OCW3.
func (p *PIC) ReadCommand() uint8 {
	if p.readISR {
		return p.ISR
	}
	return p.IRR
}

// ReadData returns the mask register.
func (p *PIC) ReadData() uint8 {
	return p.IMR
}

func (p *PIC) finishInit() {
	p.step = icwDone
	p.Initialized = true
}

// eoi clears the highest priority in-service bit.
func (p *PIC) eoi() {
	for bit := uint8(0); bit < 8; bit++ {
		if p.ISR&(1<<bit) != 0 {
			p.ISR &^= 1 << bit
			return
		}
	}
}

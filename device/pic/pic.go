// Package pic programs the pair of cascaded 8259 programmable interrupt
// controllers found on PC compatible machines.
//
// After reset the master PIC delivers IRQ0-7 on vectors 0x08-0x0f, which
// collide with CPU exceptions. Remap moves both controllers to a caller
// supplied vector base while keeping the interrupt masks intact.
package pic

import (
	"io"

	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/cpu"
	"github.com/fincham/vidic/kernel/kfmt"
)

// I/O ports of the two controllers.
const (
	MasterCommand uint16 = 0x20
	MasterData    uint16 = 0x21
	SlaveCommand  uint16 = 0xa0
	SlaveData     uint16 = 0xa1
)

// Initialization command words.
const (
	// icw1Init starts the initialization sequence; icw1ICW4 announces that
	// ICW4 will be sent.
	icw1Init = 0x10
	icw1ICW4 = 0x01

	// icw3MasterSlaveLine tells the master that a slave hangs off IRQ2.
	icw3MasterSlaveLine = 1 << 2

	// icw3SlaveIdentity tells the slave its cascade identity.
	icw3SlaveIdentity = 2

	// icw48086 selects 8086/88 mode.
	icw48086 = 0x01
)

// Default vector bases for IRQ0-7 and IRQ8-15 after remapping.
const (
	MasterOffset uint8 = 0x20
	SlaveOffset  uint8 = 0x28
)

// Masks holds the interrupt mask registers of both controllers. A set bit
// disables the corresponding IRQ line.
type Masks struct {
	Master uint8
	Slave  uint8
}

// ReadMasks returns the current interrupt mask registers.
func ReadMasks(ports cpu.Ports) Masks {
	return Masks{
		Master: ports.PortReadByte(MasterData),
		Slave:  ports.PortReadByte(SlaveData),
	}
}

// Remap reinitializes both controllers so that IRQ0-7 are delivered on
// masterOffset..masterOffset+7 and IRQ8-15 on slaveOffset..slaveOffset+7.
// The masks in effect before the call are restored afterwards and
// returned.
//
// Writes happen in the exact order the 8259 expects: ICW1 to both command
// ports, then ICW2, ICW3 and ICW4 to the data ports. No delay is inserted
// between writes.
func Remap(ports cpu.Ports, masterOffset, slaveOffset uint8) Masks {
	masks := ReadMasks(ports)

	ports.PortWriteByte(MasterCommand, icw1Init|icw1ICW4)
	ports.PortWriteByte(SlaveCommand, icw1Init|icw1ICW4)

	ports.PortWriteByte(MasterData, masterOffset)
	ports.PortWriteByte(SlaveData, slaveOffset)

	ports.PortWriteByte(MasterData, icw3MasterSlaveLine)
	ports.PortWriteByte(SlaveData, icw3SlaveIdentity)

	ports.PortWriteByte(MasterData, icw48086)
	ports.PortWriteByte(SlaveData, icw48086)

	ports.PortWriteByte(MasterData, masks.Master)
	ports.PortWriteByte(SlaveData, masks.Slave)

	return masks
}

var errBadOffset = &kernel.Error{Module: "8259_pic", Message: "vector offsets must be 8-aligned and clear of CPU exceptions"}

// Controller exposes the PIC pair as a device driver. Initializing it
// remaps the controllers to MasterOffset and SlaveOffset.
type Controller struct {
	ports        cpu.Ports
	masterOffset uint8
	slaveOffset  uint8
	masks        Masks
}

// Init selects the ports used to reach the controllers and the vector
// bases applied by DriverInit.
func (c *Controller) Init(ports cpu.Ports, masterOffset, slaveOffset uint8) {
	c.ports = ports
	c.masterOffset = masterOffset
	c.slaveOffset = slaveOffset
}

// Masks returns the masks preserved by the last remap.
func (c *Controller) Masks() Masks {
	return c.masks
}

// DriverName returns the name of this driver.
func (c *Controller) DriverName() string {
	return "8259_pic"
}

// DriverVersion returns the version of this driver.
func (c *Controller) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit remaps the controllers.
func (c *Controller) DriverInit(w io.Writer) *kernel.Error {
	if !validOffset(c.masterOffset) || !validOffset(c.slaveOffset) || c.masterOffset == c.slaveOffset {
		return errBadOffset
	}

	c.masks = Remap(c.ports, c.masterOffset, c.slaveOffset)
	kfmt.Fprintf(w, "IRQ0-7 -> 0x%2x, IRQ8-15 -> 0x%2x, masks 0x%2x/0x%2x\n",
		c.masterOffset, c.slaveOffset, c.masks.Master, c.masks.Slave)
	return nil
}

// validOffset reports whether off can serve as a vector base. The 8259
// ignores the low 3 bits of ICW2 and vectors below 0x20 belong to the CPU.
func validOffset(off uint8) bool {
	return off&7 == 0 && off >= 0x20
}

// Package hal brings up the devices the kernel needs for its own output
// and keeps track of every initialized driver.
package hal

import (
	"io"

	"github.com/fincham/vidic/device"
	"github.com/fincham/vidic/device/tty"
	"github.com/fincham/vidic/device/video/console"
	"github.com/fincham/vidic/kernel"
	"github.com/fincham/vidic/kernel/kfmt"
)

// maxDrivers bounds the number of drivers the HAL can track. The list is a
// fixed array so that registering a driver never allocates.
const maxDrivers = 8

// ConsoleDriver is implemented by console devices that are also drivers.
type ConsoleDriver interface {
	console.Device
	device.Driver
}

// managedDevices contains the devices initialized by the HAL.
type managedDevices struct {
	activeConsole console.Device
	activeTTY     *tty.VT

	// activeDrivers tracks all initialized device drivers.
	activeDrivers [maxDrivers]device.Driver
	driverCount   int
}

var (
	devices managedDevices

	// prefixBuf holds the "[hal] name(x.y.z): " prefix of the driver
	// being initialized.
	prefixBuf fixedBuffer

	errTooManyDrivers = &kernel.Error{Module: "hal", Message: "driver table is full"}
)

// ActiveTTY returns the currently active TTY.
func ActiveTTY() *tty.VT {
	return devices.activeTTY
}

// ActiveConsole returns the currently active console.
func ActiveConsole() console.Device {
	return devices.activeConsole
}

// Drivers returns the drivers that were successfully initialized, in
// initialization order.
func Drivers() []device.Driver {
	return devices.activeDrivers[:devices.driverCount]
}

// Reset forgets all initialized devices, discards any buffered kfmt output
// and detaches the kfmt output sink.
func Reset() {
	devices = managedDevices{}
	kfmt.SetOutputSink(io.Discard)
	kfmt.SetOutputSink(nil)
}

// InitTerminal initializes cons and vt, links the terminal to the console,
// clears the screen and makes the terminal the kfmt output sink. Output
// logged before this call, including the driver init lines, is replayed on
// the terminal.
func InitTerminal(cons ConsoleDriver, vt *tty.VT) *kernel.Error {
	if err := InitDriver(cons); err != nil {
		return err
	}
	devices.activeConsole = cons

	vt.AttachTo(cons)
	vt.Clear()
	if err := InitDriver(vt); err != nil {
		return err
	}
	devices.activeTTY = vt

	kfmt.SetOutputSink(vt)
	return nil
}

// InitDriver runs the init code of drv. Lines logged by the driver are
// prefixed with its name and version. Successfully initialized drivers are
// added to the list returned by Drivers.
func InitDriver(drv device.Driver) *kernel.Error {
	if devices.driverCount == maxDrivers {
		return errTooManyDrivers
	}

	prefixBuf.Reset()
	major, minor, patch := drv.DriverVersion()
	kfmt.Fprintf(&prefixBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)

	w := kfmt.PrefixWriter{Sink: kfmt.Output(), Prefix: prefixBuf.Bytes()}
	if err := drv.DriverInit(&w); err != nil {
		kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
		return err
	}

	kfmt.Fprintf(&w, "initialized\n")
	devices.activeDrivers[devices.driverCount] = drv
	devices.driverCount++
	return nil
}

// fixedBuffer is an io.Writer backed by a fixed array. Writes that do not
// fit are truncated.
type fixedBuffer struct {
	data [64]byte
	len  int
}

func (b *fixedBuffer) Write(p []byte) (int, error) {
	n := copy(b.data[b.len:], p)
	b.len += n
	return len(p), nil
}

func (b *fixedBuffer) Reset() {
	b.len = 0
}

func (b *fixedBuffer) Bytes() []byte {
	return b.data[:b.len]
}

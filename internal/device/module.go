// Package device defines Module, the handle to a populated slot produced by
// a successful probe and consumed by the scanner, selector, upload engine,
// and inventory layers.
package device

import (
	"github.com/GOcontroll/flash-module/internal/firmware"
	"github.com/GOcontroll/flash-module/internal/reset"
	"github.com/GOcontroll/flash-module/internal/spi"
)

// Interrupt names a slot's falling-edge interrupt line. The protocol is
// driven entirely by polling with sleeps, so no edge events are read. The
// line is only recorded by name: it is not requested from the kernel, so
// holding an Interrupt does not keep another process from claiming it.
type Interrupt struct {
	Line string
}

// Close is a no-op, since no line is held.
func (i *Interrupt) Close() error {
	return nil
}

// Module is a handle to a populated slot: it exclusively owns the slot's
// SPI endpoint, reset sink, and interrupt line for as long as the owning
// operation runs.
type Module struct {
	Slot         int
	SPI          spi.Transport
	Reset        *reset.Line
	Interrupt    *Interrupt
	Firmware     firmware.Version
	Manufacturer uint32
	QRFront      uint32
	QRBack       uint32
}

// Close releases the module's exclusively-owned resources. Call when the
// owning operation (probe, upload, scan) ends.
func (m *Module) Close() error {
	var err error
	if m.SPI != nil {
		err = m.SPI.Close()
	}
	if m.Interrupt != nil {
		m.Interrupt.Close()
	}
	return err
}

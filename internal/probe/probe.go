// Package probe implements the module probe (C6): reset a slot, read its
// identity frame, and validate it. Probe failures are never fatal — they
// produce "vacant" (a nil Module, nil error) per spec §4.4 and §7.
package probe

import (
	"time"

	"github.com/GOcontroll/flash-module/internal/codec"
	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/firmware"
	"github.com/GOcontroll/flash-module/internal/reset"
	"github.com/GOcontroll/flash-module/internal/spi"
)

// dummyWriteLen is the size of the priming write sent before the reset
// cycle (spec §4.4 step 1, §2.2 of SPEC_FULL.md).
const dummyWriteLen = 5

// Sleep abstracts time.Sleep so tests can run the reset cycle instantly.
type Sleep func(time.Duration)

// Probe runs the probe procedure against an already-open transport and
// reset line for one slot, attaching the optional interrupt-line handle to
// the returned Module. It
// returns (nil, nil) for a vacant slot and only returns a non-nil error for
// conditions outside the documented "vacant" outcomes (there are none at
// present; the signature keeps the door open without the caller needing to
// special-case it).
func Probe(slot int, transport spi.Transport, line *reset.Line, irq *device.Interrupt, sleep Sleep) (*device.Module, error) {
	if sleep == nil {
		sleep = time.Sleep
	}

	// Step 1: prime the module's SPI with a dummy write. A failure here
	// means the slot is vacant, not a fatal condition (§4.4, §2.2).
	if err := transport.Write(make([]byte, dummyWriteLen)); err != nil {
		return nil, nil
	}

	// Step 2: reset-cycle the slot.
	if err := line.Cycle(sleep); err != nil {
		return nil, nil
	}

	// Steps 3-4: send the identity request, receive the reply.
	tx := codec.NewShortFrame(codec.OpIdentity)
	codec.Finish(tx)
	rx, err := transport.Exchange(tx)
	if err != nil {
		return nil, nil
	}

	if !codec.IsIdentityReply(rx) {
		return nil, nil
	}

	id := codec.DecodeIdentity(rx)
	m := &device.Module{
		Slot:         slot,
		SPI:          transport,
		Reset:        line,
		Interrupt:    irq,
		Firmware:     firmware.Version(id.Firmware),
		Manufacturer: id.Manufacturer,
		QRFront:      id.QRFront,
		QRBack:       id.QRBack,
	}
	return m, nil
}

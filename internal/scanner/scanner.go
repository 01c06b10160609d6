// Package scanner implements the scanner (C7): probe every slot of a
// controller variant in parallel and collect the modules that answered.
//
// Each slot's resources are opened and owned by its own goroutine; there is
// no shared mutable state between slots, so no locking is required beyond
// the WaitGroup join. This mirrors the teacher's worker-per-unit fan-out
// idiom (src/runtime/scheduler_cores.go's one-goroutine-per-core loop),
// adapted here to one goroutine per slot instead of one per CPU core.
package scanner

import (
	"sync"

	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/platform"
	"github.com/GOcontroll/flash-module/internal/probe"
	"github.com/GOcontroll/flash-module/internal/reset"
	"github.com/GOcontroll/flash-module/internal/spi"
)

// Opener opens the transport, reset line, and interrupt-line handle for one
// slot. The default, Real, opens the actual spidev node and sysfs brightness
// file; tests substitute a fake.
type Opener func(info platform.SlotInfo) (spi.Transport, *reset.Line, *device.Interrupt, error)

// Real opens the real hardware resources for a slot.
func Real(info platform.SlotInfo) (spi.Transport, *reset.Line, *device.Interrupt, error) {
	d, err := spi.Open(info.SPIDevice)
	if err != nil {
		return nil, nil, nil, err
	}
	line := reset.Open(info.ResetPath)
	irq := &device.Interrupt{Line: info.InterruptLine}
	return d, line, irq, nil
}

// Scan probes every slot of variant in parallel and returns the modules
// that responded. No ordering is guaranteed between slots. A slot whose
// Opener fails (e.g. the spidev node doesn't exist) is treated the same as
// a probe failure: vacant, omitted from the result, never an error.
func Scan(variant platform.Variant, open Opener, sleep probe.Sleep) []*device.Module {
	if open == nil {
		open = Real
	}
	n := variant.Slots()
	results := make([]*device.Module, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for s := 1; s <= n; s++ {
		slot := s
		go func() {
			defer wg.Done()
			info, err := platform.Lookup(variant, slot)
			if err != nil {
				return
			}
			transport, line, irq, err := open(info)
			if err != nil {
				return
			}
			m, _ := probe.Probe(slot, transport, line, irq, sleep)
			if m == nil {
				transport.Close()
				return
			}
			results[slot-1] = m
		}()
	}
	wg.Wait()

	modules := make([]*device.Module, 0, n)
	for _, m := range results {
		if m != nil {
			modules = append(modules, m)
		}
	}
	return modules
}

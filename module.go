// Package module is the process surface: Scan, Update, and Overwrite, wired
// together from the platform map, scanner, selector, upload engine, and
// inventory layers. A calling driver (CLI, service) owns everything outside
// this surface: argument parsing, interactive prompts, co-resident service
// lifecycle, and progress rendering.
package module

import (
	"context"
	"fmt"
	"sync"

	"github.com/GOcontroll/flash-module/internal/config"
	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/firmware"
	"github.com/GOcontroll/flash-module/internal/inventory"
	"github.com/GOcontroll/flash-module/internal/platform"
	"github.com/GOcontroll/flash-module/internal/scanner"
	"github.com/GOcontroll/flash-module/internal/selector"
	"github.com/GOcontroll/flash-module/internal/upload"
)

// Module re-exports the scanned/populated device handle so callers outside
// internal/ don't need to import internal/device directly.
type Module = device.Module

// UpdateTarget selects which slots an Update call should consider: either
// every module the most recent Scan found, or one specific slot.
type UpdateTarget struct {
	All  bool
	Slot int
}

// AllModules targets every discovered module.
func AllModules() UpdateTarget { return UpdateTarget{All: true} }

// OneSlot targets a single slot.
func OneSlot(slot int) UpdateTarget { return UpdateTarget{Slot: slot} }

// Outcome classifies a per-slot Update result.
type Outcome int

const (
	// Updated means the slot was flashed with a newer compatible version.
	Updated Outcome = iota
	// NoUpdateAvailable means the slot is already at the highest compatible
	// version in the candidate set, or no candidate matched its hardware.
	NoUpdateAvailable
	// Failed means the upload engine returned an error; see Result.Err.
	Failed
)

// Result is one slot's outcome from an Update call.
type Result struct {
	Outcome Outcome
	Version firmware.Version
	Err     error
}

// Engine bundles the runtime configuration and firmware-directory path
// every process-surface call needs, constructed once by the driver.
type Engine struct {
	Variant   platform.Variant
	Config    config.Options
	FirmwareDir string
}

// NewEngine builds an Engine from loaded configuration.
func NewEngine(variant platform.Variant, opts config.Options) *Engine {
	return &Engine{Variant: variant, Config: opts, FirmwareDir: opts.FirmwareDir}
}

// Scan probes every slot of e's variant and returns the modules that
// responded. ctx cancellation is observed between the scan and returning;
// the scan itself (one goroutine per slot) always runs to completion since
// individual probes are not cancellable mid-flight (spec §5).
func (e *Engine) Scan(ctx context.Context) ([]*Module, error) {
	modules := scanner.Scan(e.Variant, nil, nil)
	if err := ctx.Err(); err != nil {
		for _, m := range modules {
			m.Close()
		}
		return nil, err
	}
	return modules, nil
}

// imagePath returns where v's S-record file should live under e's firmware
// directory.
func (e *Engine) imagePath(v firmware.Version) string {
	return fmt.Sprintf("%s/%s", e.FirmwareDir, v.Filename())
}

// Update selects and applies the best compatible firmware from candidates
// to every module in target, recording one Result per attempted slot. A
// slot with no compatible or newer candidate gets NoUpdateAvailable and is
// never touched. Per spec §5, each module's overwrite runs in its own task:
// one goroutine per module, joined before the single post-join inventory
// write, mirroring scanner.Scan's one-goroutine-per-slot fan-out.
func (e *Engine) Update(ctx context.Context, modules []*Module, target UpdateTarget, candidates []firmware.Version) (map[int]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var toUpdate []*Module
	for _, m := range modules {
		if !target.All && m.Slot != target.Slot {
			continue
		}
		toUpdate = append(toUpdate, m)
	}

	slotResults := make([]Result, len(toUpdate))
	var wg sync.WaitGroup
	wg.Add(len(toUpdate))
	for i, m := range toUpdate {
		i, m := i, m
		go func() {
			defer wg.Done()
			best, ok := selector.Select(m, candidates)
			if !ok {
				slotResults[i] = Result{Outcome: NoUpdateAvailable}
				return
			}
			slotResults[i] = e.overwriteModule(m, best, false)
		}()
	}
	wg.Wait()

	results := make(map[int]Result, len(toUpdate))
	for i, m := range toUpdate {
		results[m.Slot] = slotResults[i]
	}

	if err := e.saveInventory(toUpdate); err != nil {
		return results, err
	}
	return results, nil
}

// Overwrite forces slot's module to version regardless of the selector's
// compatibility rules when force is set; otherwise it defers to Select and
// returns an error, without touching the module, when version is not a
// valid upgrade.
func (e *Engine) Overwrite(ctx context.Context, m *Module, version firmware.Version, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.Variant.ValidSlot(m.Slot) {
		return fmt.Errorf("module: slot %d out of range 1..=%d for %s", m.Slot, e.Variant.Slots(), e.Variant)
	}
	if !force {
		if _, ok := selector.Select(m, []firmware.Version{version}); !ok {
			return fmt.Errorf("module: %v is not a compatible upgrade for slot %d", version, m.Slot)
		}
	}
	result := e.overwriteModule(m, version, force)
	if result.Err != nil {
		return result.Err
	}
	return e.saveInventory([]*Module{m})
}

func (e *Engine) overwriteModule(m *Module, version firmware.Version, force bool) Result {
	err := upload.Upload(m, e.imagePath(version), version, e.Config.UploadConfig(), nil, nil)
	if err != nil {
		return Result{Outcome: Failed, Err: err}
	}
	return Result{Outcome: Updated, Version: version}
}

func (e *Engine) saveInventory(modules []*Module) error {
	if len(modules) == 0 {
		return nil
	}
	return inventory.Update(e.Config.InventoryPath, e.Variant, func(r *inventory.Record) error {
		for _, m := range modules {
			if err := r.Set(m); err != nil {
				return err
			}
		}
		return nil
	})
}

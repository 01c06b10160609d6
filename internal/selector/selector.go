// Package selector implements the update selector (C10): pick the highest
// compatible firmware version for a module from a candidate set.
package selector

import (
	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/firmware"
)

// Select picks f in candidates such that f's hardware matches m's current
// firmware's hardware, f is not the erased sentinel, f is strictly newer
// than m's current software (or m's current software is itself erased), and
// f's software is maximal among the remaining candidates. The second,
// boolean return is false when no such f exists — not an error.
func Select(m *device.Module, candidates []firmware.Version) (firmware.Version, bool) {
	var best firmware.Version
	found := false

	for _, f := range candidates {
		if f.Hardware() != m.Firmware.Hardware() {
			continue
		}
		if f.IsErased() {
			continue
		}
		if !(m.Firmware.IsErased() || m.Firmware.SoftwareLess(f)) {
			continue
		}
		if !found || best.SoftwareLess(f) {
			best = f
			found = true
		}
	}
	return best, found
}

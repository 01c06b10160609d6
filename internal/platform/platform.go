// Package platform holds the per-controller-variant slot map: which SPI
// device, reset line, and interrupt line back each numbered slot. This is
// data, not code, kept in one place per spec.
package platform

import "fmt"

// Variant identifies one of the three controller hardware families.
type Variant int

const (
	IV Variant = iota
	Mini
	Display
)

// String names the variant, matching the substrings the platform
// description file carries ("Moduline IV", "Moduline Mini", "Moduline
// Screen").
func (v Variant) String() string {
	switch v {
	case IV:
		return "Moduline IV"
	case Mini:
		return "Moduline Mini"
	case Display:
		return "Moduline Screen"
	default:
		return "unknown variant"
	}
}

// Slots returns the slot count for the variant.
func (v Variant) Slots() int {
	switch v {
	case IV:
		return 8
	case Mini:
		return 4
	case Display:
		return 2
	default:
		return 0
	}
}

// ValidSlot reports whether slot is in range 1..=N for the variant. This is
// the corrected range check: the original source's guard
// (`slot < N || slot >= 1`) is trivially true for any unsigned slot.
func (v Variant) ValidSlot(slot int) bool {
	return slot >= 1 && slot <= v.Slots()
}

// SlotInfo is the resource table entry for one slot: its SPI device node,
// reset brightness-file path, and interrupt gpio line name.
type SlotInfo struct {
	SPIDevice     string
	ResetPath     string
	InterruptLine string
}

var ivSlots = map[int]SlotInfo{
	1: {"/dev/spidev1.0", resetPath(1), interruptLine(1)},
	2: {"/dev/spidev1.1", resetPath(2), interruptLine(2)},
	3: {"/dev/spidev2.0", resetPath(3), interruptLine(3)},
	4: {"/dev/spidev2.1", resetPath(4), interruptLine(4)},
	5: {"/dev/spidev2.2", resetPath(5), interruptLine(5)},
	6: {"/dev/spidev2.3", resetPath(6), interruptLine(6)},
	7: {"/dev/spidev0.0", resetPath(7), interruptLine(7)},
	8: {"/dev/spidev0.1", resetPath(8), interruptLine(8)},
}

var miniSlots = map[int]SlotInfo{
	1: {"/dev/spidev1.0", resetPath(1), interruptLine(1)},
	2: {"/dev/spidev1.1", resetPath(2), interruptLine(2)},
	3: {"/dev/spidev2.0", resetPath(3), interruptLine(3)},
	4: {"/dev/spidev2.1", resetPath(4), interruptLine(4)},
}

var displaySlots = map[int]SlotInfo{
	1: {"/dev/spidev1.0", resetPath(1), interruptLine(1)},
	2: {"/dev/spidev1.1", resetPath(2), interruptLine(2)},
}

func resetPath(slot int) string {
	return fmt.Sprintf("/sys/class/leds/ResetM-%d/brightness", slot)
}

func interruptLine(slot int) string {
	return fmt.Sprintf("ModuleInterrupt-%d", slot)
}

// Lookup returns the SlotInfo for (variant, slot), or an error if the slot is
// out of range for the variant.
func Lookup(v Variant, slot int) (SlotInfo, error) {
	if !v.ValidSlot(slot) {
		return SlotInfo{}, fmt.Errorf("platform: slot %d out of range 1..=%d for %s", slot, v.Slots(), v)
	}
	var table map[int]SlotInfo
	switch v {
	case IV:
		table = ivSlots
	case Mini:
		table = miniSlots
	case Display:
		table = displaySlots
	default:
		return SlotInfo{}, fmt.Errorf("platform: unknown variant %v", v)
	}
	return table[slot], nil
}

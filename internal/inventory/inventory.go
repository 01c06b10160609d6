// Package inventory persists the on-disk module inventory (C11): which
// firmware version, manufacturer, and QR codes are installed in each slot of
// a controller. The file is a fixed-width, four-line, colon-separated
// record; every update is a read-modify-write guarded by an exclusive file
// lock and written back atomically.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/platform"
)

// rows indexes the four fixed inventory lines in file order.
const (
	rowFirmware = iota
	rowManufacturer
	rowQRFront
	rowQRBack
	rowCount
)

// Record is the parsed four-line inventory, one column per slot.
type Record struct {
	variant platform.Variant
	columns [rowCount][]string
}

// blank synthesises an all-empty record sized to v's slot count.
func blank(v platform.Variant) *Record {
	r := &Record{variant: v}
	for row := range r.columns {
		r.columns[row] = make([]string, v.Slots())
	}
	return r
}

// Load reads path and parses it into a Record. A missing file, or one that
// is not exactly rowCount lines with v.Slots() columns each, is not an
// error: it yields a blank template, matching the original tool's
// self-healing behaviour toward a corrupt or first-run inventory file.
func Load(path string, v platform.Variant) (*Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return blank(v), nil
	}
	if err != nil {
		return nil, fmt.Errorf("inventory: read %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != rowCount {
		return blank(v), nil
	}

	r := &Record{variant: v}
	for row, line := range lines {
		cols := strings.Split(line, ":")
		if len(cols) != v.Slots() {
			return blank(v), nil
		}
		r.columns[row] = cols
	}
	return r, nil
}

// Set overwrites the column for m.Slot with m's current firmware,
// manufacturer, and QR fields.
func (r *Record) Set(m *device.Module) error {
	if !r.variant.ValidSlot(m.Slot) {
		return fmt.Errorf("inventory: slot %d out of range 1..=%d", m.Slot, r.variant.Slots())
	}
	i := m.Slot - 1
	r.columns[rowFirmware][i] = m.Firmware.String()
	r.columns[rowManufacturer][i] = strconv.FormatUint(uint64(m.Manufacturer), 10)
	r.columns[rowQRFront][i] = strconv.FormatUint(uint64(m.QRFront), 10)
	r.columns[rowQRBack][i] = strconv.FormatUint(uint64(m.QRBack), 10)
	return nil
}

// Clear blanks the column for slot, marking it vacant.
func (r *Record) Clear(slot int) error {
	if !r.variant.ValidSlot(slot) {
		return fmt.Errorf("inventory: slot %d out of range 1..=%d", slot, r.variant.Slots())
	}
	i := slot - 1
	for row := range r.columns {
		r.columns[row][i] = ""
	}
	return nil
}

// bytes rejoins the record into the on-disk four-line format.
func (r *Record) bytes() []byte {
	var b strings.Builder
	for row := range r.columns {
		b.WriteString(strings.Join(r.columns[row], ":"))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Save writes r back to path atomically: the new content lands in a
// sibling temp file first, then replaces path via rename.
func Save(path string, r *Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".modules-*.tmp")
	if err != nil {
		return fmt.Errorf("inventory: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(r.bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("inventory: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("inventory: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("inventory: rename into place: %w", err)
	}
	return nil
}

// Update performs the full read-modify-write cycle under an exclusive file
// lock held for the entire operation, so two concurrent driver invocations
// serialize instead of racing on modules.txt: load the record, apply edit,
// save. edit receives the loaded Record to mutate via Set/Clear. The lock
// file lives alongside path with a ".lock" suffix.
func Update(path string, v platform.Variant, edit func(*Record) error) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("inventory: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	r, err := Load(path, v)
	if err != nil {
		return err
	}
	if err := edit(r); err != nil {
		return err
	}
	return Save(path, r)
}

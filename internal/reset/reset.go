// Package reset drives a module's reset line through its sysfs-style
// brightness sink: writing ASCII "255" asserts reset, "0" deasserts it.
package reset

import (
	"fmt"
	"os"
	"time"
)

// PulseWidth is the settle time used on both sides of a reset cycle.
const PulseWidth = 200 * time.Millisecond

// Line owns one slot's reset brightness file.
type Line struct {
	path string
}

// Open returns a Line bound to the brightness file at path. The file is not
// opened persistently; each Assert/Deassert is an independent write so a
// Line carries no open file descriptor to leak.
func Open(path string) *Line {
	return &Line{path: path}
}

// Assert writes "255" to the brightness file, holding the module in reset.
func (l *Line) Assert() error {
	return l.write("255")
}

// Deassert writes "0" to the brightness file, releasing the module from
// reset.
func (l *Line) Deassert() error {
	return l.write("0")
}

func (l *Line) write(value string) error {
	if err := os.WriteFile(l.path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("reset: write %q to %s: %w", value, l.path, err)
	}
	return nil
}

// Cycle performs the probe reset sequence: assert, wait PulseWidth,
// deassert, wait PulseWidth.
func (l *Line) Cycle(sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	if err := l.Assert(); err != nil {
		return err
	}
	sleep(PulseWidth)
	if err := l.Deassert(); err != nil {
		return err
	}
	sleep(PulseWidth)
	return nil
}

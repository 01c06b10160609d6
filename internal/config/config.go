// Package config loads the optional YAML override file that tunes the
// protocol's hard-coded timing and retry constants, and the firmware/
// inventory directory paths, without requiring a file to exist at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/GOcontroll/flash-module/internal/upload"
)

// DefaultPath is where Load looks absent an override from the environment.
const DefaultPath = "/etc/flash-module/config.yaml"

// EnvOverride names the environment variable that redirects Load to a
// different file.
const EnvOverride = "FLASH_MODULE_CONFIG"

// Options carries every operator-tunable value. The zero value is not
// valid; use Defaults to get one pre-filled with spec-mandated constants.
//
// ResetPulseWidth is loaded and range-checked but not applied: the probe's
// reset cycle always waits reset.PulseWidth.
type Options struct {
	ResetPulseWidth  time.Duration `yaml:"reset_pulse_width"`
	EraseDelay       time.Duration `yaml:"erase_delay"`
	InterFrameDelay  time.Duration `yaml:"inter_frame_delay"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	MaxErrors        int           `yaml:"max_errors"`
	FirmwareDir      string        `yaml:"firmware_dir"`
	InventoryPath    string        `yaml:"inventory_path"`
}

// Defaults returns the hard-coded constants spec.md requires absent any
// override file.
func Defaults() Options {
	return Options{
		ResetPulseWidth: 200 * time.Millisecond,
		EraseDelay:      2500 * time.Millisecond,
		InterFrameDelay: 1 * time.Millisecond,
		RetryDelay:      5 * time.Millisecond,
		MaxErrors:        10,
		FirmwareDir:      "/usr/module-firmware",
		InventoryPath:    "/usr/module-firmware/modules.txt",
	}
}

// UploadConfig projects o onto the upload engine's own Config type.
func (o Options) UploadConfig() upload.Config {
	return upload.Config{
		EraseDelay:     o.EraseDelay,
		InterFrameUnit: o.InterFrameDelay,
		RetryDelay:     o.RetryDelay,
		MaxErrors:      o.MaxErrors,
	}
}

// Verify range-checks o, rejecting nonsensical overrides before they reach
// the engine: negative durations, a zero-or-negative error budget, or empty
// path fields.
func (o Options) Verify() error {
	if o.ResetPulseWidth <= 0 {
		return fmt.Errorf("config: reset_pulse_width must be positive, got %s", o.ResetPulseWidth)
	}
	if o.EraseDelay <= 0 {
		return fmt.Errorf("config: erase_delay must be positive, got %s", o.EraseDelay)
	}
	if o.InterFrameDelay < 0 {
		return fmt.Errorf("config: inter_frame_delay must not be negative, got %s", o.InterFrameDelay)
	}
	if o.RetryDelay < 0 {
		return fmt.Errorf("config: retry_delay must not be negative, got %s", o.RetryDelay)
	}
	if o.MaxErrors <= 0 {
		return fmt.Errorf("config: max_errors must be positive, got %d", o.MaxErrors)
	}
	if o.FirmwareDir == "" {
		return fmt.Errorf("config: firmware_dir must not be empty")
	}
	if o.InventoryPath == "" {
		return fmt.Errorf("config: inventory_path must not be empty")
	}
	return nil
}

// Load resolves the override path (EnvOverride if set, else DefaultPath),
// and layers any YAML fields found there onto Defaults. A missing file is
// not an error: Load returns Defaults unchanged.
func Load() (Options, error) {
	path := os.Getenv(EnvOverride)
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom layers path's YAML fields onto Defaults. A missing file returns
// Defaults unchanged; a malformed one is an error.
func LoadFrom(path string) (Options, error) {
	opts := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := opts.Verify(); err != nil {
		return Options{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

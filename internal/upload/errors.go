package upload

import (
	"errors"
	"fmt"
)

// Phase identifies which part of an overwrite failed, for Error.
type Phase int

const (
	// PhasePreUpload covers reading the S-record file and sending the
	// erase+commit frame. A failure here leaves the module's flash intact.
	PhasePreUpload Phase = iota
	// PhaseUpload covers the delayed-echo pipeline itself. A failure here
	// leaves the module's flash erased but not (fully) rewritten.
	PhaseUpload
	// PhasePostUpload covers the best-effort cancel/boot-to-firmware frame
	// sent after a successful upload; failures here do not affect the
	// reported result.
	PhasePostUpload
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpload:
		return "pre-upload"
	case PhaseUpload:
		return "upload"
	case PhasePostUpload:
		return "post-upload"
	default:
		return "unknown phase"
	}
}

// ErrFirmwareUntouched means the pre-upload phase failed before the erase
// frame was accepted: the file was unreadable or too short, or the erase
// frame itself failed to transmit. The module's flash is intact; the caller
// may retry safely.
var ErrFirmwareUntouched = errors.New("firmware untouched")

// ErrFirmwareCorrupted means the erase+commit frame was accepted and the
// module's flash is in an indeterminate state. The caller must not restart
// co-resident services that expect a working module.
var ErrFirmwareCorrupted = errors.New("firmware corrupted")

// Error reports an overwrite failure for a specific slot and phase,
// wrapping one of ErrFirmwareUntouched or ErrFirmwareCorrupted.
type Error struct {
	Slot  int
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("slot %d: %s: %v", e.Slot, e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func untouched(slot int, err error) error {
	return &Error{Slot: slot, Phase: PhasePreUpload, Err: fmt.Errorf("%w: %v", ErrFirmwareUntouched, err)}
}

func corrupted(slot int, err error) error {
	return &Error{Slot: slot, Phase: PhaseUpload, Err: fmt.Errorf("%w: %v", ErrFirmwareCorrupted, err)}
}

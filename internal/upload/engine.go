// Package upload implements the upload engine (C9): the pipelined,
// self-correcting bootloader state machine described in spec.md §4.7. This
// is the core of the system — see spec.md §4.7.3 for the authoritative
// description of the delayed-echo pipeline; this file implements it
// exactly, including the parity-swap recovery scheme.
package upload

import (
	"time"

	"github.com/inhies/go-bytesize"

	"github.com/GOcontroll/flash-module/internal/codec"
	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/firmware"
	"github.com/GOcontroll/flash-module/internal/srec"
)

// sentinelLineCheck is the engine's MAX_SENTINEL: a line_check value that
// can never equal a real line index, used to recognize "no line has been
// confirmed yet" distinctly from "line 0 was confirmed" (spec §4.7.2,
// §8 "MAX_SENTINEL first-frame rule"). The original bootloader client
// conflated this with the real index 0; spec.md deliberately redesigns it
// as a true sentinel (spec.md §9 implies removing exactly this kind of
// accidental-zero-initialization reliance).
const sentinelLineCheck = -1

// Config carries the protocol's timing and retry-budget constants. Defaults
// match spec.md exactly; internal/config may override them from an
// operator-supplied file.
type Config struct {
	EraseDelay     time.Duration // wait after the erase+commit frame
	InterFrameUnit time.Duration // wait after every data-frame exchange
	RetryDelay     time.Duration // wait after the terminal-guard probe and before the long-frame probe
	MaxErrors      int           // retry budget before FirmwareCorrupted
}

// DefaultConfig returns spec.md's hard-coded constants: 2500ms erase delay,
// 1ms inter-frame delay, 5ms retry delay, 10-error budget.
func DefaultConfig() Config {
	return Config{
		EraseDelay:     2500 * time.Millisecond,
		InterFrameUnit: 1 * time.Millisecond,
		RetryDelay:     5 * time.Millisecond,
		MaxErrors:      10,
	}
}

// Sleep abstracts time.Sleep so tests can run the retry loop instantly.
type Sleep func(time.Duration)

// Upload drives slot m's bootloader through the full firmware image at
// path, targeting newVersion. On success, m.Firmware is updated to
// newVersion and nil is returned. Any failure is an *Error wrapping either
// ErrFirmwareUntouched (flash intact, safe to retry) or
// ErrFirmwareCorrupted (flash erased, do not restart co-resident services).
func Upload(m *device.Module, path string, newVersion firmware.Version, cfg Config, sink Sink, sleep Sleep) error {
	if sink == nil {
		sink = NopSink{}
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	// §4.7.1 pre-upload: load and validate the image.
	file, err := srec.Load(path)
	if err != nil {
		return untouched(m.Slot, err)
	}

	eraseFrame := codec.NewEraseFrame(newVersion.Software())
	if err := m.SPI.Write(eraseFrame); err != nil {
		return untouched(m.Slot, err)
	}
	sleep(cfg.EraseDelay)

	// From this point on, any failure is FirmwareCorrupted: the module's
	// flash has been erased but not rewritten.
	if err := runPipeline(m, file, cfg, sink, sleep); err != nil {
		return corrupted(m.Slot, err)
	}

	// §4.7.4 post-upload: best-effort cancel, report success regardless.
	_ = m.SPI.Write(codec.NewCancelFrame())

	m.Firmware = newVersion
	return nil
}

// runPipeline implements spec.md §4.7.2-§4.7.3 exactly.
func runPipeline(m *device.Module, file *srec.File, cfg Config, sink Sink, sleep Sleep) error {
	lineNumber := 0
	lineCheck := sentinelLineCheck
	errorCount := 0
	var messageType byte

	// offsets[i] is the number of relayed bytes in the lines before line i;
	// offsets[file.Len()] is the size of the whole image.
	offsets := make([]float64, file.Len()+1)
	for i := 0; i < file.Len(); i++ {
		offsets[i+1] = offsets[i]
		if r, err := file.At(i); err == nil {
			offsets[i+1] += float64(len(r.Raw))
		}
	}
	total := bytesize.New(offsets[file.Len()])

	for {
		rec, err := file.At(lineNumber)
		if err != nil {
			return err
		}
		messageType = rec.Type

		if messageType == srec.TerminalType && lineCheck != lineNumber {
			probe := codec.NewStatusFrame()
			rx, perr := m.SPI.Exchange(probe)
			if perr == nil && codec.Ack(rx, uint16(lineCheck)) {
				sleep(cfg.RetryDelay)
				// fall through to send the terminal data frame below
			} else {
				errorCount++
				lineNumber, lineCheck = lineCheck, lineNumber
				messageType = 0
				sleep(cfg.RetryDelay)
				if errorCount > cfg.MaxErrors {
					return errBadAck
				}
				continue
			}
		}

		frame, ferr := codec.NewDataFrame(uint16(lineNumber), messageType, rec.Raw)
		if ferr != nil {
			return ferr
		}
		rx, err := m.SPI.Exchange(frame)
		sleep(cfg.InterFrameUnit)

		sink.Report(Update{
			Slot:       m.Slot,
			Line:       lineNumber,
			TotalLines: file.Len(),
			BytesSent:  bytesize.New(offsets[lineNumber]),
			TotalBytes: total,
		})

		if lineCheck == sentinelLineCheck {
			// The reply to the very first exchange is necessarily junk:
			// discard it unconditionally.
			lineCheck = 0
			lineNumber = 1
			continue
		}

		if err != nil {
			lineNumber, lineCheck = lineCheck, lineNumber
			messageType = 0
			errorCount++
			if errorCount > cfg.MaxErrors {
				return err
			}
			continue
		}

		if codec.Ack(rx, uint16(lineCheck)) {
			if errorCount&1 == 1 {
				lineNumber, lineCheck = lineCheck, lineNumber
			} else {
				lineCheck = lineNumber
			}

			if messageType == srec.TerminalType {
				sleep(cfg.RetryDelay)
				longFrame := codec.NewLongStatusFrame()
				rx2, lerr := m.SPI.Exchange(longFrame)
				if lerr == nil && codec.IsFirmwareRunning(rx2) {
					return nil
				}
				messageType = 0
				continue
			}
			lineNumber++
			errorCount = 0
			continue
		}

		lineNumber, lineCheck = lineCheck, lineNumber
		messageType = 0
		errorCount++
		if errorCount > cfg.MaxErrors {
			return errBadAck
		}
	}
}

var errBadAck = errAck("repeated bad acknowledgement during firmware upload")

type errAck string

func (e errAck) Error() string { return string(e) }

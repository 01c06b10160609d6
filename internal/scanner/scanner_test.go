package scanner

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GOcontroll/flash-module/internal/codec"
	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/platform"
	"github.com/GOcontroll/flash-module/internal/reset"
	"github.com/GOcontroll/flash-module/internal/spi"
	"github.com/GOcontroll/flash-module/internal/spi/spitest"
)

func noopSleep(time.Duration) {}

func validIdentityReply(hw [4]byte) []byte {
	rx := codec.NewShortFrame(codec.OpIdentity)
	rx[6], rx[7], rx[8], rx[9] = hw[0], hw[1], hw[2], hw[3]
	codec.Finish(rx)
	return rx
}

func TestScanCollectsOnlyLiveSlots(t *testing.T) {
	dir := t.TempDir()

	open := func(info platform.SlotInfo) (spi.Transport, *reset.Line, *device.Interrupt, error) {
		line := reset.Open(filepath.Join(dir, filepath.Base(info.SPIDevice)))
		switch info.SPIDevice {
		case "/dev/spidev1.1": // slot 2: vacant (transport error)
			return &spitest.Fake{Replies: []spitest.Reply{{Err: errors.New("enoent")}}}, line, &device.Interrupt{}, nil
		default:
			return &spitest.Fake{Replies: []spitest.Reply{{}, {RX: validIdentityReply([4]byte{20, 10, 1, 5})}}}, line, &device.Interrupt{}, nil
		}
	}

	modules := Scan(platform.Display, open, noopSleep)
	if len(modules) != 1 {
		t.Fatalf("expected 1 live module out of 2 slots, got %d", len(modules))
	}
	if modules[0].Slot != 1 {
		t.Errorf("expected slot 1 to be the live module, got slot %d", modules[0].Slot)
	}
}

func TestScanOpenerFailureIsVacant(t *testing.T) {
	open := func(info platform.SlotInfo) (spi.Transport, *reset.Line, *device.Interrupt, error) {
		return nil, nil, nil, errors.New("no such spidev node")
	}
	modules := Scan(platform.Mini, open, noopSleep)
	if len(modules) != 0 {
		t.Fatalf("expected no modules when every opener fails, got %d", len(modules))
	}
}

package probe

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GOcontroll/flash-module/internal/codec"
	"github.com/GOcontroll/flash-module/internal/reset"
	"github.com/GOcontroll/flash-module/internal/spi/spitest"
)

func noopSleep(time.Duration) {}

func validIdentityReply() []byte {
	rx := codec.NewShortFrame(codec.OpIdentity)
	copy(rx[6:13], []byte{20, 10, 1, 5, 2, 0, 0})
	rx[13], rx[14], rx[15], rx[16] = 0, 0, 0, 1
	rx[17], rx[18], rx[19], rx[20] = 0, 0, 0, 2
	rx[21], rx[22], rx[23], rx[24] = 0, 0, 0, 3
	codec.Finish(rx)
	return rx
}

func TestProbeSuccess(t *testing.T) {
	fake := &spitest.Fake{Replies: []spitest.Reply{
		{},                          // dummy write
		{RX: validIdentityReply()}, // identity reply
	}}
	line := reset.Open(filepath.Join(t.TempDir(), "brightness"))

	m, err := Probe(3, fake, line, nil, noopSleep)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected a Module for a valid identity reply")
	}
	if m.Slot != 3 {
		t.Errorf("Slot = %d, want 3", m.Slot)
	}
	if m.Manufacturer != 1 || m.QRFront != 2 || m.QRBack != 3 {
		t.Errorf("Manufacturer=%d QRFront=%d QRBack=%d", m.Manufacturer, m.QRFront, m.QRBack)
	}
	if len(fake.Sent) != 2 {
		t.Fatalf("expected 2 exchanges (dummy write + identity), got %d", len(fake.Sent))
	}
}

func TestProbeVacantOnDummyWriteFailure(t *testing.T) {
	fake := &spitest.Fake{Replies: []spitest.Reply{
		{Err: errors.New("no such device")},
	}}
	line := reset.Open(filepath.Join(t.TempDir(), "brightness"))

	m, err := Probe(1, fake, line, nil, noopSleep)
	if err != nil {
		t.Fatalf("expected probe failure to be non-fatal, got err: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil Module for vacant slot")
	}
}

func TestProbeVacantOnBadChecksum(t *testing.T) {
	bad := validIdentityReply()
	bad[len(bad)-1] ^= 0xFF
	fake := &spitest.Fake{Replies: []spitest.Reply{
		{},
		{RX: bad},
	}}
	line := reset.Open(filepath.Join(t.TempDir(), "brightness"))

	m, err := Probe(1, fake, line, nil, noopSleep)
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Fatal("expected nil Module for invalid checksum")
	}
}

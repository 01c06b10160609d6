package spi

import "testing"

// These expected values are the well-known SPI_IOC_* constants from
// linux/spi/spidev.h; checking them pins this package to the kernel ABI
// without needing a real spidev node.
func TestIOCConstants(t *testing.T) {
	if iocWrMode != 0x40016b01 {
		t.Errorf("iocWrMode = %#x, want 0x40016b01 (SPI_IOC_WR_MODE)", iocWrMode)
	}
	if iocWrBitsPerWord != 0x40016b03 {
		t.Errorf("iocWrBitsPerWord = %#x, want 0x40016b03 (SPI_IOC_WR_BITS_PER_WORD)", iocWrBitsPerWord)
	}
	if iocWrMaxSpeedHz != 0x40046b04 {
		t.Errorf("iocWrMaxSpeedHz = %#x, want 0x40046b04 (SPI_IOC_WR_MAX_SPEED_HZ)", iocWrMaxSpeedHz)
	}
}

func TestMessageIOC(t *testing.T) {
	if got := messageIOC(1); got != 0x40206b00 {
		t.Errorf("messageIOC(1) = %#x, want 0x40206b00 (SPI_IOC_MESSAGE(1))", got)
	}
}

// Package spi implements the Linux spidev transport: exchanging a frame
// full-duplex over /dev/spidevN.M via ioctl, configured for 8 bits per word,
// mode 0, at a fixed maximum clock rate.
//
// The ioctl number layout is grounded on the kernel's linux/spi/spidev.h ABI,
// the same one used by
// other_examples/464e6495_google-periph__host-sysfs-spi.go.go; this package
// talks to it directly through golang.org/x/sys/unix rather than bringing in
// a full SPI driver framework, since the engine only ever needs one
// operation: a synchronous full-duplex exchange.
package spi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	modeZero    = 0
	bitsPerWord = 8
	maxSpeedHz  = 2_000_000 // 2 MHz
)

const spiIOCMagic = 'k'

// iow replicates the standard Linux _IOW macro composition used by
// linux/spi/spidev.h: dir<<30 | type<<8 | nr | size<<16, with dir fixed to
// _IOC_WRITE since every ioctl this package issues is a write.
func iow(nr, size uint32) uint32 {
	const iocWrite = 1
	return iocWrite<<30 | uint32(spiIOCMagic)<<8 | nr | size<<16
}

var (
	iocWrMode        = iow(1, 1)
	iocWrBitsPerWord = iow(3, 1)
	iocWrMaxSpeedHz  = iow(4, 4)
)

// transferStruct mirrors struct spi_ioc_transfer from linux/spi/spidev.h.
type transferStruct struct {
	txBuf       uint64
	rxBuf       uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNbits     uint8
	rxNbits     uint8
	pad         uint16
}

// messageIOC computes the equivalent of SPI_IOC_MESSAGE(n): a single
// transferStruct is 32 bytes on the wire.
func messageIOC(n int) uint32 {
	const iocWrite = 1
	return iocWrite<<30 | uint32(spiIOCMagic)<<8 | 0 | uint32(n*32)<<16
}

// Transport is the synchronous full-duplex exchange the upload engine and
// module probe drive the bootloader with.
type Transport interface {
	// Exchange writes tx and reads len(tx) bytes back into a fresh buffer.
	Exchange(tx []byte) (rx []byte, err error)
	// Write performs a write-only exchange, discarding any reply.
	Write(tx []byte) error
	Close() error
}

// TransportError wraps a kernel/bus failure. The engine treats it identically
// to a bad checksum: retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("spi: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Device is a spidev-backed Transport, exclusively owning one open file
// descriptor.
type Device struct {
	fd int
}

// Open opens path (e.g. "/dev/spidev1.0") and configures it for 8 bits per
// word, mode 0, at 2 MHz.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, &TransportError{Op: "open " + path, Err: err}
	}
	d := &Device{fd: fd}
	if err := d.configure(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return d, nil
}

func (d *Device) configure() error {
	mode := uint8(modeZero)
	if err := d.ioctlSetU8(iocWrMode, mode); err != nil {
		return &TransportError{Op: "set mode", Err: err}
	}
	if err := d.ioctlSetU8(iocWrBitsPerWord, bitsPerWord); err != nil {
		return &TransportError{Op: "set bits per word", Err: err}
	}
	if err := d.ioctlSetU32(iocWrMaxSpeedHz, maxSpeedHz); err != nil {
		return &TransportError{Op: "set max speed", Err: err}
	}
	return nil
}

func (d *Device) ioctlSetU8(req uint32, val uint8) error {
	v := val
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uintptr(req), uintptr(unsafe.Pointer(&v)))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *Device) ioctlSetU32(req uint32, val uint32) error {
	v := val
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uintptr(req), uintptr(unsafe.Pointer(&v)))
	if errno != 0 {
		return errno
	}
	return nil
}

// Exchange performs a full-duplex SPI transaction: tx is written, and
// len(tx) bytes are read back.
func (d *Device) Exchange(tx []byte) ([]byte, error) {
	rx := make([]byte, len(tx))
	if err := d.transfer(tx, rx); err != nil {
		return nil, err
	}
	return rx, nil
}

// Write performs a write-only transaction, discarding the reply.
func (d *Device) Write(tx []byte) error {
	return d.transfer(tx, nil)
}

func (d *Device) transfer(tx, rx []byte) error {
	if len(tx) == 0 {
		return nil
	}
	xfer := transferStruct{
		length:      uint32(len(tx)),
		speedHz:     maxSpeedHz,
		bitsPerWord: bitsPerWord,
	}
	xfer.txBuf = uint64(uintptr(unsafe.Pointer(&tx[0])))
	if len(rx) != 0 {
		xfer.rxBuf = uint64(uintptr(unsafe.Pointer(&rx[0])))
	}
	req := messageIOC(1)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uintptr(req), uintptr(unsafe.Pointer(&xfer)))
	if errno != 0 {
		return &TransportError{Op: "exchange", Err: errno}
	}
	return nil
}

// Close releases the underlying file descriptor.
func (d *Device) Close() error {
	return unix.Close(d.fd)
}

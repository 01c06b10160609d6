// Package spitest provides an in-memory spi.Transport double so the upload
// engine, probe, and scanner can be exercised in tests without real
// hardware.
package spitest

import "github.com/GOcontroll/flash-module/internal/spi"

// Fake is an in-memory spi.Transport: each call to Exchange pops the next
// scripted reply (or, if the script is exhausted, a TransportError). Every
// exchanged tx frame is recorded for assertions.
type Fake struct {
	Replies []Reply
	Sent    [][]byte
	next    int
	Closed  bool
}

// Reply scripts one exchange: either a reply frame or a transport error.
type Reply struct {
	RX  []byte
	Err error
}

func (f *Fake) Exchange(tx []byte) ([]byte, error) {
	cp := make([]byte, len(tx))
	copy(cp, tx)
	f.Sent = append(f.Sent, cp)
	if f.next >= len(f.Replies) {
		return nil, &spi.TransportError{Op: "exchange", Err: errScriptExhausted}
	}
	r := f.Replies[f.next]
	f.next++
	if r.Err != nil {
		return nil, &spi.TransportError{Op: "exchange", Err: r.Err}
	}
	return r.RX, nil
}

func (f *Fake) Write(tx []byte) error {
	_, err := f.Exchange(tx)
	return err
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

var errScriptExhausted = fakeError("spitest: reply script exhausted")

type fakeError string

func (e fakeError) Error() string { return string(e) }

// Package srec reads a Motorola S-record firmware image: "Stll<payload-hex>
// <cksum-hex>\n" per line. The engine only needs the type nibble, the
// declared length, and the raw hex bytes at fixed character offsets — it
// never recomputes or verifies the S-record's own trailing checksum byte;
// the module's bootloader is the authoritative verifier (spec §9).
package srec

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TerminalType is the S-record type marking the end of the image.
const TerminalType = 7

// File is a loaded S-record image split into its textual lines, indexable
// by line number the same way the upload engine's line_number cursor
// addresses them.
type File struct {
	lines []string
}

// Load reads path in full and splits it into lines. Per spec, a file with
// one line or fewer (no data beyond a lone terminal, or nothing at all) is
// rejected: the caller should treat this as FirmwareUntouched.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("srec: read %s: %w", path, err)
	}
	lines := strings.Split(string(data), "\n")
	// Drop a single trailing empty line left by a final newline, matching
	// the original line-count semantics (a file ending in "\n" should not
	// count an extra blank record).
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= 1 {
		return nil, fmt.Errorf("srec: %s has %d line(s), need more than 1", path, len(lines))
	}
	return &File{lines: lines}, nil
}

// Len returns the number of records in the file.
func (f *File) Len() int {
	return len(f.lines)
}

// Record is one decoded S-record line: its type nibble, declared length, and
// the raw bytes relayed on the wire for an opcode-39 data frame.
type Record struct {
	Type   byte
	Length byte
	// Raw is the (Length+1)-byte sequence the engine blits into a data
	// frame's payload, unexamined: it starts at the record's length field
	// itself (reread as one more data byte — numerically identical to
	// Length) and runs through the full Length-byte payload. This matches
	// the original bootloader client's message_pointer loop, which begins
	// at character offset 2 (the length field) rather than offset 4 (the
	// first declared payload byte); see original_source/src/main.rs lines
	// 366-380.
	Raw []byte
}

// At decodes the record at line index i.
func (f *File) At(i int) (Record, error) {
	if i < 0 || i >= len(f.lines) {
		return Record{}, fmt.Errorf("srec: line %d out of range (file has %d lines)", i, len(f.lines))
	}
	line := f.lines[i]
	if len(line) < 4 {
		return Record{}, fmt.Errorf("srec: line %d too short to contain a header", i)
	}
	typ, err := strconv.ParseUint(line[1:2], 16, 8)
	if err != nil {
		return Record{}, fmt.Errorf("srec: line %d: invalid type nibble: %w", i, err)
	}
	length, err := strconv.ParseUint(line[2:4], 16, 8)
	if err != nil {
		return Record{}, fmt.Errorf("srec: line %d: invalid length byte: %w", i, err)
	}
	end := 4 + 2*int(length)
	if end > len(line) {
		return Record{}, fmt.Errorf("srec: line %d: declared length %d overruns line", i, length)
	}
	rawHex := line[2:end]
	raw := make([]byte, 0, len(rawHex)/2)
	for p := 0; p+2 <= len(rawHex); p += 2 {
		b, err := strconv.ParseUint(rawHex[p:p+2], 16, 8)
		if err != nil {
			return Record{}, fmt.Errorf("srec: line %d: invalid raw byte at offset %d: %w", i, p, err)
		}
		raw = append(raw, byte(b))
	}
	return Record{Type: byte(typ), Length: byte(length), Raw: raw}, nil
}

// Package firmware implements the FirmwareVersion value type: the 7-byte
// hardware+software identifier carried in every module identity frame and
// encoded in every firmware filename.
package firmware

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered 7-tuple (h0,h1,h2,h3,s0,s1,s2). The first four bytes
// identify hardware (family, class, variant, revision); the last three are
// the software version.
type Version [7]byte

// Erased is the sentinel meaning "no firmware installed / erased flash".
var Erased = Version{255, 255, 255, 255, 255, 255, 255}

// Hardware returns the four hardware-identifying bytes.
func (v Version) Hardware() [4]byte {
	return [4]byte{v[0], v[1], v[2], v[3]}
}

// Software returns the three software-version bytes.
func (v Version) Software() [3]byte {
	return [3]byte{v[4], v[5], v[6]}
}

// IsErased reports whether v is the (255,255,255) erased sentinel on its
// software triple.
func (v Version) IsErased() bool {
	return v.Software() == Erased.Software()
}

// SoftwareLess reports whether v's software triple sorts before other's,
// lexicographically.
func (v Version) SoftwareLess(other Version) bool {
	a, b := v.Software(), other.Software()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// String formats v as "h0-h1-h2-h3-s0-s1-s2".
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, b := range v {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, "-")
}

// Filename returns v's on-disk S-record filename, "<h0-h1-h2-h3-s0-s1-s2>.srec".
func (v Version) Filename() string {
	return v.String() + ".srec"
}

// Parse parses "h0-h1-h2-h3-s0-s1-s2", with or without a trailing ".srec",
// into a Version. Every component must be a decimal integer in 0..=255.
func Parse(s string) (Version, error) {
	name := strings.TrimSuffix(s, ".srec")
	fields := strings.Split(name, "-")
	if len(fields) != 7 {
		return Version{}, fmt.Errorf("firmware: %q does not have 7 hyphen-separated fields", s)
	}
	var v Version
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Version{}, fmt.Errorf("firmware: invalid component %q in %q: %w", f, s, err)
		}
		v[i] = byte(n)
	}
	return v, nil
}

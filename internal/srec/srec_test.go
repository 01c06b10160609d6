package srec

import (
	"path/filepath"
	"testing"

	"os"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fw.srec")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRejectsSingleLine(t *testing.T) {
	path := writeFile(t, "S70500000000FA")
	if _, err := Load(path); err == nil {
		t.Fatal("expected single-line file to be rejected")
	}
}

func TestLoadSplitsLines(t *testing.T) {
	path := writeFile(t, "S1030000FC\nS9030000FC\n")
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
}

func TestAtDecodesHeaderAndRaw(t *testing.T) {
	// Type 1, length 0x02 (2 bytes): raw region starts at the length field
	// itself and runs through the 2-byte payload: "02" + "AB" + "CD".
	path := writeFile(t, "S102ABCD12\nS9030000FC\n")
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := f.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Type != 1 {
		t.Errorf("Type = %d, want 1", rec.Type)
	}
	if rec.Length != 2 {
		t.Errorf("Length = %d, want 2", rec.Length)
	}
	want := []byte{0x02, 0xAB, 0xCD}
	if len(rec.Raw) != len(want) {
		t.Fatalf("Raw = %v, want %v", rec.Raw, want)
	}
	for i := range want {
		if rec.Raw[i] != want[i] {
			t.Errorf("Raw[%d] = %#x, want %#x", i, rec.Raw[i], want[i])
		}
	}
}

func TestAtTerminalType(t *testing.T) {
	path := writeFile(t, "S1020102FC\nS70500000000FA\n")
	f, _ := Load(path)
	rec, err := f.At(1)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Type != TerminalType {
		t.Errorf("Type = %d, want %d", rec.Type, TerminalType)
	}
}

func TestAtOutOfRange(t *testing.T) {
	path := writeFile(t, "S1020102FC\nS9030000FC\n")
	f, _ := Load(path)
	if _, err := f.At(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestAtOverrunLength(t *testing.T) {
	path := writeFile(t, "S1FF0102FC\nS9030000FC\n")
	f, _ := Load(path)
	if _, err := f.At(0); err == nil {
		t.Fatal("expected overrun error for declared length exceeding line")
	}
}

package platform

import "testing"

func TestValidSlot(t *testing.T) {
	cases := []struct {
		v    Variant
		slot int
		want bool
	}{
		{IV, 0, false},
		{IV, 1, true},
		{IV, 8, true},
		{IV, 9, false},
		{Mini, 4, true},
		{Mini, 5, false},
		{Display, 2, true},
		{Display, 3, false},
	}
	for _, c := range cases {
		if got := c.v.ValidSlot(c.slot); got != c.want {
			t.Errorf("%v.ValidSlot(%d) = %v, want %v", c.v, c.slot, got, c.want)
		}
	}
}

func TestLookupTables(t *testing.T) {
	info, err := Lookup(IV, 3)
	if err != nil {
		t.Fatal(err)
	}
	if info.SPIDevice != "/dev/spidev2.0" {
		t.Errorf("IV slot 3 SPI device = %q, want /dev/spidev2.0", info.SPIDevice)
	}

	info, err = Lookup(Mini, 1)
	if err != nil {
		t.Fatal(err)
	}
	if info.SPIDevice != "/dev/spidev1.0" {
		t.Errorf("Mini slot 1 SPI device = %q, want /dev/spidev1.0", info.SPIDevice)
	}

	if _, err := Lookup(Display, 3); err == nil {
		t.Fatal("expected out-of-range error for Display slot 3")
	}
}

func TestSlotsAndString(t *testing.T) {
	if IV.Slots() != 8 || Mini.Slots() != 4 || Display.Slots() != 2 {
		t.Fatal("unexpected slot counts")
	}
	if IV.String() != "Moduline IV" {
		t.Errorf("IV.String() = %q", IV.String())
	}
}

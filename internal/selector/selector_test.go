package selector

import (
	"testing"

	"github.com/GOcontroll/flash-module/internal/device"
	"github.com/GOcontroll/flash-module/internal/firmware"
)

func v(s string) firmware.Version {
	ver, err := firmware.Parse(s)
	if err != nil {
		panic(err)
	}
	return ver
}

func TestSelectPicksHighestCompatible(t *testing.T) {
	m := &device.Module{Firmware: v("20-10-1-5-1-0-0")}
	candidates := []firmware.Version{
		v("20-10-1-5-1-5-0"),
		v("20-10-1-5-2-0-0"),
		v("20-10-2-5-9-0-0"), // different hardware, excluded
	}
	got, ok := Select(m, candidates)
	if !ok {
		t.Fatal("expected a compatible update")
	}
	if got != v("20-10-1-5-2-0-0") {
		t.Errorf("Select = %v, want 20-10-1-5-2-0-0", got)
	}
}

func TestSelectNoCompatibleHardware(t *testing.T) {
	m := &device.Module{Firmware: v("20-10-1-5-1-0-0")}
	candidates := []firmware.Version{v("20-10-2-5-9-0-0")}
	_, ok := Select(m, candidates)
	if ok {
		t.Fatal("expected no compatible update")
	}
}

func TestSelectErasedSourceAcceptsAnyUpgrade(t *testing.T) {
	m := &device.Module{Firmware: v("20-10-1-5-255-255-255")}
	candidates := []firmware.Version{v("20-10-1-5-0-0-1")}
	got, ok := Select(m, candidates)
	if !ok || got != v("20-10-1-5-0-0-1") {
		t.Fatalf("Select = %v, %v; want 20-10-1-5-0-0-1, true", got, ok)
	}
}

func TestSelectErasedTargetNeverChosen(t *testing.T) {
	m := &device.Module{Firmware: v("20-10-1-5-1-0-0")}
	candidates := []firmware.Version{v("20-10-1-5-255-255-255")}
	_, ok := Select(m, candidates)
	if ok {
		t.Fatal("erased sentinel must never be chosen as an upgrade target")
	}
}

func TestSelectNoOpWhenUpToDate(t *testing.T) {
	m := &device.Module{Firmware: v("20-10-1-5-5-0-0")}
	candidates := []firmware.Version{v("20-10-1-5-5-0-0"), v("20-10-1-5-4-0-0")}
	_, ok := Select(m, candidates)
	if ok {
		t.Fatal("expected no-op when candidate set contains nothing newer")
	}
}

package config

import "testing"

func TestResolveKnownCombination(t *testing.T) {
	r, err := Resolve(Config{Model: Model603E, BusFrequencyMHz: 66, ClockRatioTenths: 30}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.PLLConfig != 0x2 {
		t.Fatalf("PLLConfig = %#x, want 0x2", r.PLLConfig)
	}
	if got, want := r.HID1(), uint32(0x2)<<28; got != want {
		t.Fatalf("HID1() = %#x, want %#x", got, want)
	}
	if r.DecrDivider != 12 {
		t.Fatalf("DecrDivider = %d, want 12", r.DecrDivider)
	}
}

func TestResolveUnsupportedCombinationErrors(t *testing.T) {
	_, err := Resolve(Config{Model: Model603E, BusFrequencyMHz: 66, ClockRatioTenths: 99}, nil)
	if err == nil {
		t.Fatal("expected error for unsupported bus/multiplier combination")
	}
}

func TestResolveDiffersPerModel(t *testing.T) {
	_, err := Resolve(Config{Model: Model603R, BusFrequencyMHz: 66, ClockRatioTenths: 30}, nil)
	if err == nil {
		t.Fatal("603r has no 3.0x entry in the table; expected an error")
	}

	r, err := Resolve(Config{Model: Model603R, BusFrequencyMHz: 66, ClockRatioTenths: 40}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.PLLConfig != 0xA {
		t.Fatalf("PLLConfig = %#x, want 0xA", r.PLLConfig)
	}
}

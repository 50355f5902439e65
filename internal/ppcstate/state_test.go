package ppcstate

import "testing"

func TestResetSetsPowerOnPC(t *testing.T) {
	s := New()
	s.GPR[3] = 0xDEADBEEF
	s.MSR = 0xFFFFFFFF
	s.Reset()
	if s.PC != 0xFFF00100 {
		t.Fatalf("PC after Reset = %#x, want 0xFFF00100", s.PC)
	}
	if s.MSR != MSRIP {
		t.Fatalf("MSR after Reset = %#x, want %#x (only IP set)", s.MSR, MSRIP)
	}
	if s.GPR[3] != 0 {
		t.Fatalf("GPR[3] after Reset = %#x, want 0", s.GPR[3])
	}
}

func TestResetPreservesPVRAndHID1(t *testing.T) {
	s := New()
	s.PVR = 0x00060104
	s.HID1 = 0x80000000
	s.Reset()
	if s.PVR != 0x00060104 {
		t.Fatalf("PVR after Reset = %#x, want preserved value", s.PVR)
	}
	if s.HID1 != 0x80000000 {
		t.Fatalf("HID1 after Reset = %#x, want preserved value", s.HID1)
	}
}

func TestTimebaseAdvancesWithCycles(t *testing.T) {
	s := New()
	s.SetTimebase(0)
	s.AdvanceCycles(4)
	if got := s.Timebase(); got != 1 {
		t.Fatalf("Timebase() after 4 cycles = %d, want 1", got)
	}
	s.AdvanceCycles(4)
	if got := s.Timebase(); got != 2 {
		t.Fatalf("Timebase() after 8 cycles = %d, want 2", got)
	}
}

func TestDecrementerCountsDownAndFires(t *testing.T) {
	s := New()
	fires := s.SetDecrementer(2)
	if fires {
		t.Fatal("SetDecrementer(2) should not fire immediately")
	}
	s.AdvanceCycles(8) // 2 decrementer ticks
	if got := s.Decrementer(); got != 0 {
		t.Fatalf("Decrementer() after 8 cycles = %d, want 0", got)
	}
	s.AdvanceCycles(4) // one more tick: wraps negative
	if got := s.Decrementer(); got != -1 {
		t.Fatalf("Decrementer() after 12 cycles = %d, want -1", got)
	}
}

func TestDecrementerFireCycleMatchesZeroPoint(t *testing.T) {
	s := New()
	s.SetDecrementer(2)
	fireAt := s.DecrementerFireCycle()
	s.AdvanceCycles(fireAt - s.Cycle())
	if got := s.Decrementer(); got != 0 {
		t.Fatalf("Decrementer() at computed fire cycle = %d, want 0", got)
	}
}

func TestSetDecrementerNegativeFiresImmediately(t *testing.T) {
	s := New()
	if !s.SetDecrementer(-1) {
		t.Fatal("SetDecrementer(-1) should report an immediate fire")
	}
	if !s.SetDecrementer(0) {
		t.Fatal("SetDecrementer(0) should report an immediate fire")
	}
}

func TestCRFieldPackAndUnpackRoundTrip(t *testing.T) {
	s := New()
	s.SetCRField(0, 0x8)
	s.SetCRField(1, 0x4)
	s.SetCRField(7, 0xF)
	packed := s.PackedCR()

	var s2 State
	s2.SetPackedCR(packed)
	if s2.CRField(0) != 0x8 || s2.CRField(1) != 0x4 || s2.CRField(7) != 0xF {
		t.Fatalf("round trip mismatch: CR=%v", s2.CR)
	}
}

func TestPackedCRFieldZeroIsMostSignificantNibble(t *testing.T) {
	s := New()
	s.SetCRField(0, 0xA)
	if got, want := s.PackedCR(), uint32(0xA)<<28; got != want {
		t.Fatalf("PackedCR() = %#x, want %#x", got, want)
	}
}

func TestFPRBitsRoundTrip(t *testing.T) {
	s := New()
	s.FPR[5] = 3.25
	bits := s.FPRAsBits(5)
	s.SetFPRFromBits(6, bits)
	if s.FPR[6] != 3.25 {
		t.Fatalf("FPR[6] after bit round trip = %v, want 3.25", s.FPR[6])
	}
}

func TestFindRegion(t *testing.T) {
	s := New()
	s.Regions = []FetchRegion{
		{GuestStart: 0, GuestEnd: 0x7FFFFF, Host: make([]byte, 0x800000)},
		{GuestStart: 0xFF800000, GuestEnd: 0xFFFFFFFF, Host: make([]byte, 0x800000)},
	}
	if _, ok := s.FindRegion(0x1000); !ok {
		t.Fatal("expected RAM region to cover 0x1000")
	}
	if _, ok := s.FindRegion(0xFFF00100); !ok {
		t.Fatal("expected ROM region to cover 0xFFF00100")
	}
	if _, ok := s.FindRegion(0x80000000); ok {
		t.Fatal("expected no region to cover an unmapped address")
	}
}

func TestFetchWordReadsBigEndian(t *testing.T) {
	r := FetchRegion{GuestStart: 0x1000, GuestEnd: 0x1FFF, Host: []byte{0x7C, 0x00, 0x00, 0x00}}
	if got := r.FetchWord(0x1000); got != 0x7C000000 {
		t.Fatalf("FetchWord = %#x, want 0x7c000000", got)
	}
}

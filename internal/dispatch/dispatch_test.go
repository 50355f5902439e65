package dispatch

import "testing"

func TestNewTableStartsAtCompileStub(t *testing.T) {
	tbl := NewTable(0x1000, 0x2000)
	if got := tbl.Lookup(0); got != 0x1000 {
		t.Fatalf("Lookup(0) = %#x, want compile stub 0x1000", got)
	}
	if got := tbl.Lookup(romBase); got != 0x1000 {
		t.Fatalf("Lookup(romBase) = %#x, want compile stub 0x1000", got)
	}
}

func TestInstallAndLookupRAM(t *testing.T) {
	tbl := NewTable(0x1000, 0x2000)
	tbl.Install(0x100, 0xABCD)
	if got := tbl.Lookup(0x100); got != 0xABCD {
		t.Fatalf("Lookup(0x100) = %#x, want 0xabcd", got)
	}
	// A neighboring slot must be unaffected.
	if got := tbl.Lookup(0x104); got != 0x1000 {
		t.Fatalf("Lookup(0x104) = %#x, want unchanged compile stub", got)
	}
}

func TestInstallAndLookupROM(t *testing.T) {
	tbl := NewTable(0x1000, 0x2000)
	tbl.Install(romBase+0x40, 0xBEEF)
	if got := tbl.Lookup(romBase + 0x40); got != 0xBEEF {
		t.Fatalf("Lookup(romBase+0x40) = %#x, want 0xbeef", got)
	}
}

func TestLookupOutsideRegionsReturnsInvalidStub(t *testing.T) {
	tbl := NewTable(0x1000, 0x2000)
	if got := tbl.Lookup(0x80000000); got != 0x2000 {
		t.Fatalf("Lookup(unmapped) = %#x, want invalid stub 0x2000", got)
	}
}

func TestResetDiscardsInstalledEntries(t *testing.T) {
	tbl := NewTable(0x1000, 0x2000)
	tbl.Install(0x100, 0xABCD)
	tbl.Reset()
	if got := tbl.Lookup(0x100); got != 0x1000 {
		t.Fatalf("Lookup(0x100) after Reset = %#x, want compile stub 0x1000", got)
	}
}

func TestCovers(t *testing.T) {
	if !Covers(0) || !Covers(ramSize - 1) {
		t.Fatal("Covers should include the whole RAM region")
	}
	if Covers(ramSize) {
		t.Fatal("Covers should exclude one past the RAM region")
	}
	if !Covers(romBase) || !Covers(0xFFFFFFFF) {
		t.Fatal("Covers should include the whole ROM region")
	}
}

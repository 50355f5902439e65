package membus

import "testing"

func TestRAMReadWriteRoundTrip32(t *testing.T) {
	b := NewRAM()
	b.Write32(0x1000, 0xCAFEBABE)
	if got := b.Read32(0x1000); got != 0xCAFEBABE {
		t.Fatalf("Read32 = %#x, want %#x", got, 0xCAFEBABE)
	}
	// Big-endian: the high byte lands at the lowest address.
	if got := b.Read8(0x1000); got != 0xCA {
		t.Fatalf("Read8(base) = %#x, want 0xCA", got)
	}
}

func TestRAMReadWriteRoundTrip16And64(t *testing.T) {
	b := NewRAM()
	b.Write16(0x200, 0xBEEF)
	if got := b.Read16(0x200); got != 0xBEEF {
		t.Fatalf("Read16 = %#x, want 0xBEEF", got)
	}

	b.Write64(0x300, 0x0123456789ABCDEF)
	if got := b.Read64(0x300); got != 0x0123456789ABCDEF {
		t.Fatalf("Read64 = %#x, want 0x0123456789ABCDEF", got)
	}
}

func TestRAMROMRegionIsIndependentOfRAM(t *testing.T) {
	b := NewRAM()
	b.Write32(0, 0x11111111)
	b.Write32(romBase, 0x22222222)
	if got := b.Read32(0); got != 0x11111111 {
		t.Fatalf("RAM[0] = %#x, want 0x11111111", got)
	}
	if got := b.Read32(romBase); got != 0x22222222 {
		t.Fatalf("ROM[base] = %#x, want 0x22222222", got)
	}
}

func TestFastRAMCovers(t *testing.T) {
	f := FastRAM{HostBase: 0x1000, Size: ramSize}
	if !f.Covers(0) || !f.Covers(ramSize-1) {
		t.Fatal("FastRAM.Covers should include the whole window")
	}
	if f.Covers(ramSize) {
		t.Fatal("FastRAM.Covers should exclude one past the window")
	}
}

func TestFastRAMZeroSizeCoversNothing(t *testing.T) {
	var f FastRAM
	if f.Covers(0) {
		t.Fatal("zero-value FastRAM should not cover address 0")
	}
}

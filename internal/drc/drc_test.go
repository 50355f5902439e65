package drc

import (
	"testing"
	"unsafe"

	"github.com/trzy/ppc603edrc/internal/config"
	"github.com/trzy/ppc603edrc/internal/membus"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// regionSize matches membus.RAM's fixed 8 MiB RAM/ROM windows (spec.md §3).
const regionSize = 8 * 1024 * 1024

// harness wires a fresh DRC against a fresh RAM+ROM bus, aliasing the same
// backing memory into the fetch regions the block compiler reads opcodes
// from, the way a real host driving this package would: the bus and the
// instruction fetch path share one block of memory, not separate copies.
func harness(t *testing.T) (*DRC, *membus.RAM) {
	t.Helper()
	ram := membus.NewRAM()

	ramHost := unsafe.Slice((*byte)(unsafe.Pointer(ram.RAMHostBase())), regionSize)
	romHost := unsafe.Slice((*byte)(unsafe.Pointer(ram.ROMHostBase())), regionSize)

	d, err := Init(Config{
		Model:            config.Model603E,
		BusFrequencyMHz:  66,
		ClockRatioTenths: 30,
		Bus:              ram,
		Regions: []ppcstate.FetchRegion{
			{GuestStart: 0, GuestEnd: regionSize - 1, Host: ramHost},
			{GuestStart: 0xFF800000, GuestEnd: 0xFFFFFFFF, Host: romHost},
		},
		Fast:          membus.FastRAM{HostBase: ram.RAMHostBase(), Size: regionSize},
		CodeCacheSize: 64 * 1024,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d, ram
}

// --- instruction word encoders, matching the PowerPC 603e field layout
// internal/interp/decode.go decodes against. ---

func encD(op, rd, ra uint32, simm uint16) uint32 {
	return op<<26 | rd<<21 | ra<<16 | uint32(simm)
}

func encB(pc uint32, target uint32) uint32 {
	li := target - pc
	return 18<<26 | (li & 0x03FFFFFC)
}

func encXSPR(rd, spr, xo uint32) uint32 {
	low := spr & 0x1F
	high := (spr >> 5) & 0x1F
	return 31<<26 | rd<<21 | low<<16 | high<<11 | xo<<1
}

func encXArith(rd, ra, rb, xo uint32, rc bool) uint32 {
	w := 31<<26 | rd<<21 | ra<<16 | rb<<11 | xo<<1
	if rc {
		w |= 1
	}
	return w
}

func encTWI(to, ra uint32, simm uint16) uint32 {
	return 3<<26 | to<<21 | ra<<16 | uint32(simm)
}

// scenario 1 (spec.md §8.1): addi/addis build 0x00011234 in r3, then a
// self-branch ends the block; after 3 cycles cycles_consumed == 3.
func TestScenarioAddImmThenBranch(t *testing.T) {
	d, bus := harness(t)

	pc := d.GetPC() // reset default, 0xFFF00100
	bus.Write32(pc, encD(14, 3, 0, 0x1234))    // addi r3,0,0x1234
	bus.Write32(pc+4, encD(15, 3, 3, 0x0001))  // addis r3,r3,1
	branchPC := pc + 8
	bus.Write32(branchPC, encB(branchPC, branchPC)) // b .

	consumed := d.Execute(3)

	if got := d.GetGPR(3); got != 0x00011234 {
		t.Errorf("r3 = %#x, want 0x00011234", got)
	}
	if got := d.GetPC(); got != branchPC {
		t.Errorf("PC = %#x, want %#x", got, branchPC)
	}
	if consumed != 3 {
		t.Errorf("cycles_consumed = %d, want 3", consumed)
	}
}

// scenario 2 (spec.md §8.2): mflr reads LR without disturbing it.
func TestScenarioMoveFromLR(t *testing.T) {
	d, bus := harness(t)
	d.SetPC(0xFFF00200)
	if err := d.SetSPR(ppcstate.SPRLR, 0xDEADBEEF); err != nil {
		t.Fatalf("SetSPR(LR): %v", err)
	}

	pc := d.GetPC()
	bus.Write32(pc, encXSPR(5, ppcstate.SPRLR, 339)) // mfspr r5, LR
	branchPC := pc + 4
	bus.Write32(branchPC, encB(branchPC, branchPC)) // b .

	d.Execute(2)

	if got := d.GetGPR(5); got != 0xDEADBEEF {
		t.Errorf("r5 = %#x, want 0xDEADBEEF", got)
	}
	lr, err := d.GetSPR(ppcstate.SPRLR)
	if err != nil {
		t.Fatalf("GetSPR(LR): %v", err)
	}
	if lr != 0xDEADBEEF {
		t.Errorf("LR = %#x, want unchanged 0xDEADBEEF", lr)
	}
}

// scenario 3 (spec.md §8.3): subfc. r3,r2,r1 with r1=1, r2=0 computes
// r3 = r1-r2 = 1 with a carry out and CR0 == 0b0100 (greater, SO clear).
func TestScenarioSubfcDot(t *testing.T) {
	d, bus := harness(t)
	d.SetPC(0xFFF00300)
	d.SetGPR(1, 1)
	d.SetGPR(2, 0)

	pc := d.GetPC()
	bus.Write32(pc, encXArith(3, 2, 1, 8, true)) // subfc. r3,r2,r1
	branchPC := pc + 4
	bus.Write32(branchPC, encB(branchPC, branchPC)) // b .

	consumed := d.Execute(2)

	if got := d.GetGPR(3); got != 1 {
		t.Errorf("r3 = %#x, want 1", got)
	}
	xer, err := d.GetSPR(ppcstate.SPRXER)
	if err != nil {
		t.Fatalf("GetSPR(XER): %v", err)
	}
	if xer&ppcstate.XERCA == 0 {
		t.Errorf("XER.CA not set, XER = %#x", xer)
	}
	if cr0 := (d.GetCR() >> 28) & 0xF; cr0 != 0b0100 {
		t.Errorf("CR0 = %#04b, want 0b0100", cr0)
	}
	if got := d.GetPC(); got != branchPC {
		t.Errorf("PC = %#x, want %#x", got, branchPC)
	}
	if consumed != 2 {
		t.Errorf("cycles_consumed = %d, want 2", consumed)
	}
}

// scenario 4 (spec.md §8.4): DEC=3 with MSR.EE=1 fires the decrementer
// exception after 12 of the 20 requested host cycles, landing at
// 0xFFF00900 (MSR.IP=1's vector base). The remaining 8 cycles run the
// self-branch parked at the vector so the full 20-cycle request completes
// without faulting on an unbacked fetch.
func TestScenarioDecrementerException(t *testing.T) {
	d, bus := harness(t)
	d.SetPC(0)
	d.SetMSR(ppcstate.MSRIP | ppcstate.MSREE)
	if err := d.SetSPR(ppcstate.SPRDEC, 3); err != nil {
		t.Fatalf("SetSPR(DEC): %v", err)
	}

	for pc := uint32(0); pc < 20*4; pc += 4 {
		bus.Write32(pc, encD(24, 0, 0, 0)) // ori r0,r0,0 (nop)
	}
	const vector = 0xFFF00900
	bus.Write32(vector, encB(vector, vector)) // b . parked at the vector

	consumed := d.Execute(20)

	if consumed != 20 {
		t.Errorf("cycles_consumed = %d, want 20", consumed)
	}
	if got := d.GetPC(); got != vector {
		t.Errorf("PC = %#x, want %#x", got, uint32(vector))
	}
	srr1, err := d.GetSPR(ppcstate.SPRSRR1)
	if err != nil {
		t.Fatalf("GetSPR(SRR1): %v", err)
	}
	if srr1&ppcstate.SRR1TrapBit != 0 {
		t.Errorf("SRR1 trap bit set on a decrementer exception: %#x", srr1)
	}
}

// scenario 5 (spec.md §8.5): twi 31,r3,0x123 with r3==0x123 satisfies the
// equality predicate unconditionally (TO==31 sets every bit) and delivers
// a program exception to 0xFFF00700 (MSR.IP=1).
func TestScenarioTrapIPSet(t *testing.T) {
	d, bus := harness(t)
	d.SetPC(0xFFF00400)
	d.SetGPR(3, 0x123)

	pc := d.GetPC()
	bus.Write32(pc, encTWI(31, 3, 0x123))
	const vector = 0xFFF00700
	bus.Write32(vector, encB(vector, vector))

	d.Execute(2)

	if got := d.GetPC(); got != vector {
		t.Errorf("PC = %#x, want %#x", got, uint32(vector))
	}
	srr0, err := d.GetSPR(ppcstate.SPRSRR0)
	if err != nil {
		t.Fatalf("GetSPR(SRR0): %v", err)
	}
	if srr0 != pc+4 {
		t.Errorf("SRR0 = %#x, want %#x (address after the trap)", srr0, pc+4)
	}
	srr1, err := d.GetSPR(ppcstate.SPRSRR1)
	if err != nil {
		t.Fatalf("GetSPR(SRR1): %v", err)
	}
	if srr1&ppcstate.SRR1TrapBit == 0 {
		t.Errorf("SRR1 trap bit not set: %#x", srr1)
	}
}

// scenario 6 (spec.md §8.6): the same trap with MSR.IP=0 vectors to
// 0x00000700 instead of 0xFFF00700.
func TestScenarioTrapIPClear(t *testing.T) {
	d, bus := harness(t)
	d.SetPC(0x400)
	d.SetMSR(0) // IP clear
	d.SetGPR(3, 0x123)

	pc := d.GetPC()
	bus.Write32(pc, encTWI(31, 3, 0x123))
	const vector = 0x00000700
	bus.Write32(vector, encB(vector, vector))

	d.Execute(2)

	if got := d.GetPC(); got != vector {
		t.Errorf("PC = %#x, want %#x", got, uint32(vector))
	}
}

package interp

import (
	"encoding/binary"
	"testing"

	"github.com/trzy/ppc603edrc/internal/membus"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// newTestMachine builds a Machine whose fetch region and bus are backed by
// the same flat RAM image, with instructions placed at guest address 0.
func newTestMachine(t *testing.T, program []uint32) (*Machine, *membus.RAM) {
	t.Helper()
	s := ppcstate.New()
	s.PC = 0
	bus := membus.NewRAM()
	code := make([]byte, len(program)*4)
	for i, word := range program {
		binary.BigEndian.PutUint32(code[i*4:], word)
		bus.Write32(uint32(i*4), word)
	}
	s.Regions = []ppcstate.FetchRegion{{GuestStart: 0, GuestEnd: 0x7FFFFF, Host: rawRAMBytes(bus)}}
	return New(s, bus), bus
}

// rawRAMBytes exposes enough of the RAM region for FetchRegion to read
// instruction words; the test writes through the bus so the fetch view and
// the load/store view stay consistent.
func rawRAMBytes(r *membus.RAM) []byte {
	buf := make([]byte, 8*1024*1024)
	for i := 0; i < len(buf); i += 4 {
		binary.BigEndian.PutUint32(buf[i:], r.Read32(uint32(i)))
	}
	return buf
}

func encodeD(op, rd, ra uint32, simm int32) uint32 {
	return op<<26 | rd<<21 | ra<<16 | uint32(uint16(simm))
}

func encodeX(op, rd, ra, rb, xo uint32, rc bool) uint32 {
	w := op<<26 | rd<<21 | ra<<16 | rb<<11 | xo<<1
	if rc {
		w |= 1
	}
	return w
}

func TestAddiComputesSum(t *testing.T) {
	m, _ := newTestMachine(t, []uint32{encodeD(14, 3, 0, 100)})
	m.Step()
	if m.S.GPR[3] != 100 {
		t.Fatalf("r3 = %d, want 100", m.S.GPR[3])
	}
	if m.S.PC != 4 {
		t.Fatalf("pc = %#x, want 4", m.S.PC)
	}
}

func TestAddOEDetectsSignedOverflow(t *testing.T) {
	// add. r3, r1, r2 with OE set (XO add=266, oe bit is bit 10 from lsb)
	word := encodeX(31, 3, 1, 2, 266, true) | 1<<10
	m, _ := newTestMachine(t, []uint32{word})
	m.S.GPR[1] = 0x7FFFFFFF
	m.S.GPR[2] = 1
	m.Step()
	if m.S.XER&ppcstate.XEROV == 0 {
		t.Fatal("expected XER.OV set on signed overflow")
	}
	if m.S.CRField(0)&0x1 == 0 {
		t.Fatal("expected CR0.SO copied from XER.SO")
	}
}

func TestAndiDotSetsCR0Zero(t *testing.T) {
	word := uint32(28<<26 | 1<<21 | 2<<16 | 0x0F)
	m, _ := newTestMachine(t, []uint32{word})
	m.S.GPR[1] = 0xF0
	m.Step()
	if m.S.GPR[2] != 0 {
		t.Fatalf("r2 = %#x, want 0", m.S.GPR[2])
	}
	if m.S.CRField(0) != 0x2 {
		t.Fatalf("cr0 = %#x, want EQ set (0x2)", m.S.CRField(0))
	}
}

func TestRlwinmExtractsField(t *testing.T) {
	// rlwinm r2, r1, 0, 24, 31 -- isolate the low byte
	word := uint32(21<<26 | 1<<21 | 2<<16 | 0<<11 | 24<<6 | 31<<1)
	m, _ := newTestMachine(t, []uint32{word})
	m.S.GPR[1] = 0xAABBCCDD
	m.Step()
	if m.S.GPR[2] != 0xDD {
		t.Fatalf("r2 = %#x, want 0xdd", m.S.GPR[2])
	}
}

func TestBranchCondAlwaysTaken(t *testing.T) {
	// bc with BO=0x14 (branch always: ignore both CTR and CR), target +8
	word := 16<<26 | 0x14<<21 | 0<<16 | uint32(uint16(8))
	m, _ := newTestMachine(t, []uint32{word, encodeD(14, 0, 0, 0), encodeD(14, 5, 0, 77)})
	m.Step()
	if m.S.PC != 8 {
		t.Fatalf("pc = %#x, want 8", m.S.PC)
	}
}

func TestBranchToLRRoundTrip(t *testing.T) {
	bl := 18<<26 | uint32(8) | 1 // b +8, LK=1
	m, _ := newTestMachine(t, []uint32{bl, encodeD(14, 0, 0, 0), word19BclrAlways()})
	m.Step() // bl
	if m.S.LR != 4 {
		t.Fatalf("lr = %#x, want 4", m.S.LR)
	}
	m.Step() // PC=8: bclr
	if m.S.PC != 4 {
		t.Fatalf("pc after blr = %#x, want 4", m.S.PC)
	}
}

func word19BclrAlways() uint32 {
	// bclr with BO=0x14 (branch always, ignore CTR and CR)
	return 19<<26 | 0x14<<21 | 0<<16 | 16<<1
}

func TestTwiFiresProgramException(t *testing.T) {
	// twi 0x04 (trap-if-equal), r3, 0 -- fires when r3 == 0
	word := uint32(3<<26 | 0x04<<21 | 3<<16 | 0)
	m, _ := newTestMachine(t, []uint32{word})
	m.S.MSR = ppcstate.MSRIP
	m.S.GPR[3] = 0
	m.Step()
	if m.S.PC != ppcstate.VectorProgram+0xFFF00000 {
		t.Fatalf("pc = %#x, want program vector", m.S.PC)
	}
	if m.S.SRR1&0x00020000 == 0 {
		t.Fatal("expected trap bit set in SRR1")
	}
}

func TestStwLwzRoundTrip(t *testing.T) {
	stw := encodeD(36, 5, 0, 0x100)
	lwz := encodeD(32, 6, 0, 0x100)
	m, _ := newTestMachine(t, []uint32{stw, lwz})
	m.S.GPR[5] = 0xCAFEBABE
	m.Step()
	m.Step()
	if m.S.GPR[6] != 0xCAFEBABE {
		t.Fatalf("r6 = %#x, want 0xcafebabe", m.S.GPR[6])
	}
}

func TestFaddsRoundsToSinglePrecision(t *testing.T) {
	// fadds f3, f1, f2 (opcode 59, XO=21)
	word := uint32(59<<26 | 3<<21 | 1<<16 | 2<<11 | 21<<1)
	m, _ := newTestMachine(t, []uint32{word})
	m.setFR(1, 1.0)
	m.setFR(2, 0.1)
	m.Step()
	if got := m.frVal(3); got != roundSingle(1.1) {
		t.Fatalf("f3 = %v, want %v", got, roundSingle(1.1))
	}
}

func TestFcmpuReportsUnorderedForNaN(t *testing.T) {
	word := uint32(63<<26 | 0<<23 | 1<<16 | 2<<11 | 0<<1)
	m, _ := newTestMachine(t, []uint32{word})
	m.setFR(1, 0)
	m.setFR(2, nan())
	m.Step()
	if m.S.CRField(0) != 0x1 {
		t.Fatalf("cr0 = %#x, want unordered (0x1)", m.S.CRField(0))
	}
}

func nan() float64 {
	var z float64
	return z / z
}

func TestMfsprMtsprRoundTripLR(t *testing.T) {
	const spr = ppcstate.SPRLR
	low5 := uint32(spr & 0x1F)
	high5 := uint32((spr >> 5) & 0x1F)
	mtlr := encodeX(31, 5, low5, high5, 467, false)
	mflr := encodeX(31, 6, low5, high5, 339, false)
	m, _ := newTestMachine(t, []uint32{mtlr, mflr})
	m.S.GPR[5] = 0x12345678
	m.Step()
	m.Step()
	if m.S.LR != 0x12345678 {
		t.Fatalf("lr = %#x, want 0x12345678", m.S.LR)
	}
	if m.S.GPR[6] != 0x12345678 {
		t.Fatalf("r6 = %#x, want 0x12345678", m.S.GPR[6])
	}
}

package interp

import (
	"fmt"

	"github.com/trzy/ppc603edrc/internal/fatal"
	"github.com/trzy/ppc603edrc/internal/membus"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// Machine pairs architectural state with the bus it executes against. It
// is the receiver for every helper in this package, and its Step method
// is the reference engine spec.md §8's differential tests run the
// translator's output against.
type Machine struct {
	S   *ppcstate.State
	Bus membus.Bus

	// FPSCR is a simplified floating-point status/control register. The
	// spec defers bit-exact FPSCR reproduction (spec.md §9 "Floating-point
	// semantics"); this only tracks the handful of bits the mtfsb0/1,
	// mtfsf(i), and mffs instructions manipulate so those instructions have
	// somewhere real to read from and write to.
	FPSCR uint32
}

// New returns a Machine executing against s and bus.
func New(s *ppcstate.State, bus membus.Bus) *Machine {
	return &Machine{S: s, Bus: bus}
}

// Step fetches, decodes, and executes exactly one instruction at the
// current PC, then advances PC by 4 unless the instruction itself
// retargeted it (branches, sc, rfi, a taken trap). An opcode with no
// implementation is the "invalid opcode" fatal condition (spec.md §7):
// Step aborts through internal/fatal instead of executing it.
func (m *Machine) Step() {
	region, ok := m.S.FindRegion(m.S.PC)
	if !ok {
		fatal.Abort("interp: fetch from unmapped region", "pc", m.S.PC)
		return
	}
	word := region.FetchWord(m.S.PC)
	d := Decode(word)

	nextPC := m.S.PC + 4
	if !m.execute(d, &nextPC) {
		fatal.Abort("interp: invalid opcode", "pc", m.S.PC, "word", fmt.Sprintf("%#08x", d.Word))
		return
	}
	m.S.PC = nextPC
}

// execute dispatches one decoded instruction. nextPC starts as PC+4 and
// may be overwritten by control-flow instructions; the return value
// reports whether the instruction was recognized.
func (m *Machine) execute(d Decoded, nextPC *uint32) bool {
	switch d.Opcode {
	case 14, 15, 12, 13, 7, 8: // addi, addis, addic, addic., mulli, subfic
		m.execArithImm(d)
		return true
	case 3: // twi
		m.execTrapImm(d, nextPC)
		return true
	case 10, 11: // cmpli, cmpi
		m.execCompareImm(d)
		return true
	case 16: // bc
		m.execBranchCond(d, nextPC)
		return true
	case 18: // b
		m.execBranchUncond(d, nextPC)
		return true
	case 17: // sc
		m.execSyscall(nextPC)
		return true
	case 19:
		return m.execOp19(d, nextPC)
	case 20, 21, 23: // rlwimi, rlwinm, rlwnm
		m.execRotate(d)
		return true
	case 24, 25, 26, 27, 28, 29: // ori, oris, xori, xoris, andi., andis.
		m.execLogicalImm(d)
		return true
	case 31:
		return m.execOp31(d, nextPC)
	case 32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47:
		m.execLoadStoreD(d)
		return true
	case 48, 49, 50, 51, 52, 53, 54, 55:
		m.execFPLoadStoreD(d)
		return true
	case 59:
		return m.execOp59(d)
	case 63:
		return m.execOp63(d)
	default:
		return false
	}
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// setCR0 implements spec.md §3's invariant: "CR field 0 after an
// Rc-suffixed integer operation encodes the sign comparison of the result
// against zero, bit 0 copied from XER.SO."
func (m *Machine) setCR0(result uint32) {
	var lt, gt, eq uint8
	sresult := int32(result)
	switch {
	case sresult < 0:
		lt = 1
	case sresult > 0:
		gt = 1
	default:
		eq = 1
	}
	so := boolToUint8(m.S.XER&ppcstate.XERSO != 0)
	m.S.SetCRField(0, lt<<3|gt<<2|eq<<1|so)
}

// setCompareCR compares two values (signed or unsigned per signed) and
// writes lt/gt/eq/so into the given CR field, used by cmp/cmpi/cmpl/cmpli.
func (m *Machine) setCompareCR(field int, a, b uint32, signed bool) {
	var lt, gt, eq uint8
	if signed {
		sa, sb := int32(a), int32(b)
		switch {
		case sa < sb:
			lt = 1
		case sa > sb:
			gt = 1
		default:
			eq = 1
		}
	} else {
		switch {
		case a < b:
			lt = 1
		case a > b:
			gt = 1
		default:
			eq = 1
		}
	}
	so := boolToUint8(m.S.XER&ppcstate.XERSO != 0)
	m.S.SetCRField(field, lt<<3|gt<<2|eq<<1|so)
}

func (m *Machine) setXERSOOV(overflow bool) {
	if overflow {
		m.S.XER |= ppcstate.XEROV | ppcstate.XERSO
	} else {
		m.S.XER &^= ppcstate.XEROV
	}
}

func (m *Machine) setXERCA(carry bool) {
	if carry {
		m.S.XER |= ppcstate.XERCA
	} else {
		m.S.XER &^= ppcstate.XERCA
	}
}

// effectiveAddr computes RA + disp, or 0 + disp when RA == 0 (spec.md
// §4.4 "Memory loads"/"Memory stores").
func (m *Machine) effectiveAddr(ra uint32, disp int32) uint32 {
	var base uint32
	if ra != 0 {
		base = m.S.GPR[ra]
	}
	return uint32(int32(base) + disp)
}

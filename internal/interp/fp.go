package interp

import "math"

// float32BitsToFloat64Bits widens a binary32 value's raw bits into the
// raw bits of its binary64 equivalent, used by the FPR file (which spec.md
// §3/§4.4 stores uniformly as binary64) whenever a single-precision form
// loads or computes a value.
func float32BitsToFloat64Bits(bits uint32) uint64 {
	return math.Float64bits(float64(math.Float32frombits(bits)))
}

// float64BitsToFloat32Bits narrows a binary64 value's raw bits down to its
// binary32 equivalent's raw bits.
func float64BitsToFloat32Bits(bits uint64) uint32 {
	return math.Float32bits(float32(math.Float64frombits(bits)))
}

func (m *Machine) frVal(n uint32) float64 {
	return math.Float64frombits(m.S.FPRAsBits(int(n)))
}

func (m *Machine) setFR(n uint32, v float64) {
	m.S.SetFPRFromBits(int(n), math.Float64bits(v))
}

// roundSingle rounds a binary64 intermediate result through binary32,
// matching the single-precision forms' stated precision (spec.md §9
// "Floating-point semantics": round-to-nearest-even throughout, no
// attempt at bit-exact FPSCR rounding-mode selection).
func roundSingle(v float64) float64 {
	return float64(float32(v))
}

// execOp59 handles the single-precision arithmetic family under primary
// opcode 59: fdivs, fsubs, fadds, fmuls, fmsubs, fmadds, fnmsubs,
// fnmadds, fres. All of these are A-form; the extended opcode occupies
// only bits 1-5, with FRC in bits 6-10, so it's decoded locally rather
// than via Decoded.XO (which would fold FRC's bits in).
func (m *Machine) execOp59(d Decoded) bool {
	axo := (d.Word >> 1) & 0x1F
	a, b, c := m.frVal(d.RA), m.frVal(d.RB), m.frVal(d.RC)
	var result float64
	handled := true
	switch axo {
	case 18: // fdivs
		result = roundSingle(a / b)
	case 20: // fsubs
		result = roundSingle(a - b)
	case 21: // fadds
		result = roundSingle(a + b)
	case 24: // fres
		result = roundSingle(1.0 / b)
	case 25: // fmuls
		result = roundSingle(a * c)
	case 28: // fmsubs
		result = roundSingle(a*c - b)
	case 29: // fmadds
		result = roundSingle(a*c + b)
	case 30: // fnmsubs
		result = roundSingle(-(a*c - b))
	case 31: // fnmadds
		result = roundSingle(-(a*c + b))
	default:
		handled = false
	}
	if !handled {
		return false
	}
	m.setFR(d.RD, result)
	if d.Rc {
		m.setCR1()
	}
	return true
}

// execOp63 handles the double-precision arithmetic family and the
// X-form floating status/compare/move instructions under primary
// opcode 63.
func (m *Machine) execOp63(d Decoded) bool {
	if m.execOp63AForm(d) {
		return true
	}
	return m.execOp63XForm(d)
}

func (m *Machine) execOp63AForm(d Decoded) bool {
	axo := (d.Word >> 1) & 0x1F
	a, b, c := m.frVal(d.RA), m.frVal(d.RB), m.frVal(d.RC)
	var result float64
	handled := true
	switch axo {
	case 18: // fdiv
		result = a / b
	case 20: // fsub
		result = a - b
	case 21: // fadd
		result = a + b
	case 22: // fsqrt
		result = math.Sqrt(b)
	case 23: // fsel
		if a >= 0 {
			result = c
		} else {
			result = b
		}
	case 25: // fmul
		result = a * c
	case 26: // frsqrte
		result = 1.0 / math.Sqrt(b)
	case 28: // fmsub
		result = a*c - b
	case 29: // fmadd
		result = a*c + b
	case 30: // fnmsub
		result = -(a*c - b)
	case 31: // fnmadd
		result = -(a*c + b)
	default:
		handled = false
	}
	if !handled {
		return false
	}
	m.setFR(d.RD, result)
	if d.Rc {
		m.setCR1()
	}
	return true
}

// setCR1 copies FPSCR's top four exception bits (FX/FEX/VX/OX) into CR
// field 1, the Rc-suffixed floating-point result per spec.md §4.4.
func (m *Machine) setCR1() {
	m.S.SetCRField(1, uint8(m.FPSCR>>28))
}

func (m *Machine) execOp63XForm(d Decoded) bool {
	switch d.XO {
	case 0: // fcmpu
		m.setFCmp(int(d.CRFD), m.frVal(d.RA), m.frVal(d.RB))
	case 32: // fcmpo
		m.setFCmp(int(d.CRFD), m.frVal(d.RA), m.frVal(d.RB))
	case 12: // frsp
		m.setFR(d.RD, roundSingle(m.frVal(d.RB)))
	case 14: // fctiw
		m.setFR(d.RD, float64(int32(math.RoundToEven(m.frVal(d.RB)))))
	case 15: // fctiwz
		m.setFR(d.RD, float64(int32(m.frVal(d.RB))))
	case 40: // fneg
		m.setFR(d.RD, -m.frVal(d.RB))
	case 72: // fmr
		m.setFR(d.RD, m.frVal(d.RB))
	case 136: // fnabs
		m.setFR(d.RD, -math.Abs(m.frVal(d.RB)))
	case 264: // fabs
		m.setFR(d.RD, math.Abs(m.frVal(d.RB)))
	case 64: // mcrfs
		m.execMCRFS(d)
	case 38: // mtfsb1 -- BT is the 5-bit bit number, carried in the RD field position
		m.FPSCR |= 1 << (31 - (d.RD & 0x1F))
	case 70: // mtfsb0
		m.FPSCR &^= 1 << (31 - (d.RD & 0x1F))
	case 134: // mtfsfi -- BF selects the destination nibble, IMM its new value
		shift := uint(28 - 4*d.CRFD)
		m.FPSCR = (m.FPSCR &^ (0xF << shift)) | ((d.UIMM16 & 0xF) << shift)
	case 583: // mffs
		m.setFR(d.RD, math.Float64frombits(uint64(m.FPSCR)<<32))
	case 711: // mtfsf
		m.FPSCR = uint32(m.S.FPRAsBits(int(d.RB)) >> 32)
	default:
		return false
	}
	return true
}

// setFCmp implements fcmpu/fcmpo's CR-field result (spec.md §4.4
// "Floating point": "ordered/unordered compares collapse to the same
// unordered-aware comparison since NaN propagation, not trap delivery, is
// what the DRC's guests rely on").
func (m *Machine) setFCmp(field int, a, b float64) {
	var lt, gt, eq, un uint8
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		un = 1
	case a < b:
		lt = 1
	case a > b:
		gt = 1
	default:
		eq = 1
	}
	m.S.SetCRField(field, lt<<3|gt<<2|eq<<1|un)
}

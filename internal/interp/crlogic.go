package interp

// execCRLogical handles the condition-register logical family (spec.md
// §4.4 "Condition-register logicals": "deferred to interpreter helpers").
// BT/BA/BB here are full CR-bit indices (0-31), decoded from the same
// RD/RA/RB field positions the X-form encoding shares with integer ops.
func (m *Machine) execCRLogical(d Decoded) bool {
	a, b := m.crBit(d.RA), m.crBit(d.RB)
	var result bool
	handled := true
	switch d.XO {
	case 257: // crand
		result = a && b
	case 449: // cror
		result = a || b
	case 193: // crxor
		result = a != b
	case 129: // crandc
		result = a && !b
	case 33: // crnor
		result = !(a || b)
	case 289: // creqv
		result = a == b
	case 225: // crnand
		result = !(a && b)
	case 417: // crorc
		result = a || !b
	default:
		handled = false
	}
	if !handled {
		return false
	}
	m.setCRBit(d.RD, result)
	return true
}

// execMCRF handles mcrf: copy CR field BFA into field BF.
func (m *Machine) execMCRF(d Decoded) {
	m.S.SetCRField(int(d.CRFD), m.S.CRField(int(d.CRFA)))
}

// execMCRXR handles mcrxr: copy XER's SO/OV/CA (plus a reserved zero bit)
// into CR field BF, then clear those XER bits.
func (m *Machine) execMCRXR(d Decoded) {
	var v uint8
	if m.S.XER&0x80000000 != 0 {
		v |= 0x8
	}
	if m.S.XER&0x40000000 != 0 {
		v |= 0x4
	}
	if m.S.XER&0x20000000 != 0 {
		v |= 0x2
	}
	m.S.SetCRField(int(d.CRFD), v)
	m.S.XER &^= 0xE0000000
}

// execMCRFS handles mcrfs: copy an FPSCR field into a CR field. The
// simplified FPSCR this package models has no sub-field structure beyond
// the bits mtfsb0/1 manipulate, so the copy is a best-effort 4-bit window
// rather than a hardware-exact field extraction.
func (m *Machine) execMCRFS(d Decoded) {
	shift := uint(28 - 4*d.CRFA)
	m.S.SetCRField(int(d.CRFD), uint8((m.FPSCR>>shift)&0xF))
}

package interp

// execCompareImm handles cmpi and cmpli (spec.md §4.4 "Compares").
// Primary opcode 11 is cmpi (signed), opcode 10 is cmpli (unsigned); both
// place the destination CR field in the CRFD field and the left operand
// in RA.
func (m *Machine) execCompareImm(d Decoded) {
	ra := m.S.GPR[d.RA]
	if d.Opcode == 11 {
		m.setCompareCR(int(d.CRFD), ra, uint32(d.SIMM16), true)
	} else {
		m.setCompareCR(int(d.CRFD), ra, d.UIMM16, false)
	}
}

// execCompareReg handles cmp and cmpl under primary opcode 31.
func (m *Machine) execCompareReg(d Decoded) bool {
	switch d.XO {
	case 0: // cmp
		m.setCompareCR(int(d.CRFD), m.S.GPR[d.RA], m.S.GPR[d.RB], true)
	case 32: // cmpl
		m.setCompareCR(int(d.CRFD), m.S.GPR[d.RA], m.S.GPR[d.RB], false)
	default:
		return false
	}
	return true
}

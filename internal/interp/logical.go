package interp

// execLogicalImm handles ori, oris, xori, xoris, andi., andis. (spec.md
// §4.4 "Logicals"). andi./andis. always update CR0, matching the real
// instruction's mnemonic dot; the others never do.
func (m *Machine) execLogicalImm(d Decoded) {
	rs := m.S.GPR[d.RD] // for these D-form ops the "RD" field position holds RS
	switch d.Opcode {
	case 24: // ori
		m.S.GPR[d.RA] = rs | d.UIMM16
	case 25: // oris
		m.S.GPR[d.RA] = rs | (d.UIMM16 << 16)
	case 26: // xori
		m.S.GPR[d.RA] = rs ^ d.UIMM16
	case 27: // xoris
		m.S.GPR[d.RA] = rs ^ (d.UIMM16 << 16)
	case 28: // andi.
		result := rs & d.UIMM16
		m.S.GPR[d.RA] = result
		m.setCR0(result)
	case 29: // andis.
		result := rs & (d.UIMM16 << 16)
		m.S.GPR[d.RA] = result
		m.setCR0(result)
	}
}

// execLogicalReg handles the register-register logical family under
// primary opcode 31: and, andc, or, orc, xor, nand, nor, eqv, extsb,
// extsh, cntlzw.
func (m *Machine) execLogicalReg(d Decoded) bool {
	rs, rb := m.S.GPR[d.RD], m.S.GPR[d.RB]
	var result uint32
	handled := true
	switch d.XO {
	case 28: // and
		result = rs & rb
	case 60: // andc
		result = rs &^ rb
	case 444: // or
		result = rs | rb
	case 412: // orc
		result = rs | ^rb
	case 316: // xor
		result = rs ^ rb
	case 476: // nand
		result = ^(rs & rb)
	case 124: // nor
		result = ^(rs | rb)
	case 284: // eqv
		result = ^(rs ^ rb)
	case 954: // extsb
		result = uint32(int32(int8(rs)))
	case 922: // extsh
		result = uint32(int32(int16(rs)))
	case 26: // cntlzw
		result = uint32(countLeadingZeros(rs))
	default:
		handled = false
	}
	if !handled {
		return false
	}
	m.S.GPR[d.RA] = result
	if d.Rc {
		m.setCR0(result)
	}
	return true
}

func countLeadingZeros(v uint32) int {
	if v == 0 {
		return 32
	}
	n := 0
	for v&0x80000000 == 0 {
		v <<= 1
		n++
	}
	return n
}

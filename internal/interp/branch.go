package interp

// execBranchUncond handles the unconditional branch `b` (spec.md §4.4
// "Branches"): AA selects absolute vs PC-relative target, LK selects
// whether LR is updated to the instruction following the branch.
func (m *Machine) execBranchUncond(d Decoded, nextPC *uint32) {
	target := m.branchTarget(d.LI, d.AA)
	if d.LK {
		m.S.LR = m.S.PC + 4
	}
	*nextPC = target
}

// execBranchCond handles `bc`. BO decodes into three independent
// predicates, per spec.md §4.4: the CTR decrement-and-test, the CR-bit
// test, and unconditional-within-each-axis override bits.
func (m *Machine) execBranchCond(d Decoded, nextPC *uint32) {
	ctrOK := m.ctrPredicate(d.BO)
	condOK := m.crPredicate(d.BO, d.BI)
	if ctrOK && condOK {
		target := m.branchTarget(uint32(d.BD), d.AA)
		if d.LK {
			m.S.LR = m.S.PC + 4
		}
		*nextPC = target
	}
}

// execBranchToSPR handles bclr and bcctr (primary opcode 19): the target
// isn't known until run time, so spec.md §4.4 calls these block
// terminators that route through the dispatcher; the reference
// interpreter simply reads LR/CTR directly since it has no dispatch table
// to consult.
func (m *Machine) execBranchToSPR(d Decoded, nextPC *uint32, toCTR bool) {
	ctrOK := m.ctrPredicate(d.BO)
	condOK := m.crPredicate(d.BO, d.BI)
	if !(ctrOK && condOK) {
		return
	}
	var target uint32
	if toCTR {
		target = m.S.CTR &^ 3
	} else {
		target = m.S.LR &^ 3
	}
	if d.LK {
		m.S.LR = m.S.PC + 4
	}
	*nextPC = target
}

func (m *Machine) ctrPredicate(bo uint32) bool {
	if bo&0x04 != 0 {
		return true
	}
	m.S.CTR--
	if bo&0x02 != 0 {
		return m.S.CTR == 0
	}
	return m.S.CTR != 0
}

func (m *Machine) crPredicate(bo, bi uint32) bool {
	if bo&0x10 != 0 {
		return true
	}
	bit := m.crBit(bi)
	want := bo&0x08 != 0
	return bit == want
}

// crBit reads CR bit n (0-31, bit 0 is field 0's LT bit) from the packed
// condition register.
func (m *Machine) crBit(n uint32) bool {
	field := n / 4
	bitInField := 3 - (n % 4)
	return m.S.CRField(int(field))&(1<<bitInField) != 0
}

func (m *Machine) setCRBit(n uint32, v bool) {
	field := n / 4
	bitInField := uint8(1 << (3 - (n % 4)))
	cur := m.S.CRField(int(field))
	if v {
		cur |= bitInField
	} else {
		cur &^= bitInField
	}
	m.S.SetCRField(int(field), cur)
}

func (m *Machine) branchTarget(disp uint32, absolute bool) uint32 {
	if absolute {
		return disp
	}
	return m.S.PC + disp
}

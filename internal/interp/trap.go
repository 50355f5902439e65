package interp

import "github.com/trzy/ppc603edrc/internal/ppcstate"

// trapPredicate evaluates the five TO-field conditions (spec.md §4.4
// "Traps"): signed-less, signed-greater, equal, unsigned-less,
// unsigned-greater, any of which being both requested (a TO bit set) and
// true fires the trap.
func trapPredicate(to uint32, a, b uint32) bool {
	sa, sb := int32(a), int32(b)
	if to&0x10 != 0 && sa < sb {
		return true
	}
	if to&0x08 != 0 && sa > sb {
		return true
	}
	if to&0x04 != 0 && a == b {
		return true
	}
	if to&0x02 != 0 && a < b {
		return true
	}
	if to&0x01 != 0 && a > b {
		return true
	}
	return false
}

// execTrap handles `tw` (primary opcode 31, XO 4): TO field is carried in
// the RD bit position for this form.
func (m *Machine) execTrap(d Decoded, nextPC *uint32) {
	if trapPredicate(d.RD, m.S.GPR[d.RA], m.S.GPR[d.RB]) {
		m.fireTrap(nextPC)
	}
}

// execTrapImm handles `twi` (primary opcode 3).
func (m *Machine) execTrapImm(d Decoded, nextPC *uint32) {
	if trapPredicate(d.RD, m.S.GPR[d.RA], uint32(d.SIMM16)) {
		m.fireTrap(nextPC)
	}
}

// fireTrap delivers the program exception a satisfied trap predicate
// raises: SRR0 is the address after the trap instruction (spec.md §8
// scenario 5), and DeliverException sets the trap bit in SRR1.
func (m *Machine) fireTrap(nextPC *uint32) {
	m.S.DeliverException(ppcstate.VectorProgramTrap, m.S.PC+4)
	*nextPC = m.S.PC
}

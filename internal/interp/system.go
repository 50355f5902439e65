package interp

import "github.com/trzy/ppc603edrc/internal/ppcstate"

// execSyscall handles `sc` (spec.md §4.4 "System"): construct the
// system-call exception state inline, saving PC+4 (the address of the
// instruction after sc) to SRR0.
func (m *Machine) execSyscall(nextPC *uint32) {
	m.S.DeliverException(ppcstate.VectorSyscall, m.S.PC+4)
	*nextPC = m.S.PC
}

// execRFI handles `rfi`: restore MSR from SRR1, PC from SRR0, then
// dispatch (spec.md §4.4 "System").
func (m *Machine) execRFI(nextPC *uint32) {
	m.S.MSR = m.S.SRR1
	m.S.PC = m.S.SRR0 &^ 3
	*nextPC = m.S.PC
}

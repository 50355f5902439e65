package interp

import (
	"github.com/trzy/ppc603edrc/internal/fatal"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// execMFSPR handles mfspr. Unknown SPR numbers are the "unknown SPR
// access" fatal category (spec.md §7); ppcstate itself stays free of
// process termination, so that decision lives here.
func (m *Machine) execMFSPR(d Decoded) {
	v, err := m.S.GetSPR(int(d.SPR))
	if err != nil {
		fatal.Abort("interp: unknown SPR on read", "spr", d.SPR, "pc", m.S.PC)
		return
	}
	m.S.GPR[d.RD] = v
}

// execMTSPR handles mtspr. A DEC write of zero or a negative value marks
// the decrementer exception pending.
func (m *Machine) execMTSPR(d Decoded) {
	decrFires, err := m.S.SetSPR(int(d.SPR), m.S.GPR[d.RD])
	if err != nil {
		fatal.Abort("interp: unknown SPR on write", "spr", d.SPR, "pc", m.S.PC)
		return
	}
	if decrFires {
		m.S.Pending |= ppcstate.PendingDecr
	}
}

// execMFMSR handles mfmsr: rD = MSR.
func (m *Machine) execMFMSR(d Decoded) {
	m.S.GPR[d.RD] = m.S.MSR
}

// execMTMSR handles mtmsr. When SetMSR reports preemption (spec.md §4.2:
// enabling EE while an interrupt is pending shortens the quantum), ICount
// is zeroed so the scheduler ends the current quantum after this
// instruction.
func (m *Machine) execMTMSR(d Decoded) {
	if m.S.SetMSR(m.S.GPR[d.RD]) {
		m.S.ICount = 0
	}
}

// execMFTB handles mftb: SPR encodes which half of the timebase (268 =
// TBL, 269 = TBU), matching the same field already used by mfspr but
// restricted to the timebase's read-only encoding.
func (m *Machine) execMFTB(d Decoded) {
	v, _ := m.S.GetSPR(int(d.SPR))
	m.S.GPR[d.RD] = v
}

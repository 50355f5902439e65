package ppcstate

// Vector selects which architectural exception is being delivered.
type Vector int

const (
	VectorExternal Vector = iota
	VectorDecr
	VectorProgramTrap
	VectorSyscall
)

func (v Vector) offset() uint32 {
	switch v {
	case VectorExternal:
		return VectorExternalInterrupt
	case VectorDecr:
		return VectorDecrementer
	case VectorProgramTrap:
		return VectorProgram
	case VectorSyscall:
		return VectorSystemCall
	default:
		return 0
	}
}

// DeliverException performs the architectural bookkeeping spec.md §4.8 and
// §8 describe: snapshot PC into SRR0, snapshot (masked) MSR into SRR1,
// clear the documented MSR bits, propagate ILE into LE, compute the vector
// base from MSR.IP, and set PC to base+offset. srr0 is the PC value the
// caller has already chosen (current PC for external/decrementer, PC+4 for
// syscall/trap-taken), matching the differing precise-exception semantics
// per vector.
//
// Every compiled block returns control to internal/scheduler at its own
// boundary (see DESIGN.md's block-chaining note), so the scheduler is
// always back in Go before an interrupt or decrementer condition needs
// servicing; DeliverException is the only exception-entry path this
// implementation has, called from internal/scheduler between quanta, from
// internal/interp's sc and trap handlers, and from tests that check
// exception entry state directly against spec.md §8.
func (s *State) DeliverException(v Vector, srr0 uint32) {
	oldMSR := s.MSR
	s.SRR0 = srr0
	srr1 := oldMSR & SRR1Mask
	if v == VectorProgramTrap {
		srr1 |= SRR1TrapBit
	}
	s.SRR1 = srr1

	newMSR := oldMSR &^ MSRClearOnException
	newMSR &^= MSRLE
	if oldMSR&MSRILE != 0 {
		newMSR |= MSRLE
	}
	s.MSR = newMSR

	base := uint32(0)
	if oldMSR&MSRIP != 0 {
		base = 0xFFF00000
	}
	s.PC = base + v.offset()

	switch v {
	case VectorExternal:
		s.Pending &^= PendingExternal
	case VectorDecr:
		s.Pending &^= PendingDecr
	}
}

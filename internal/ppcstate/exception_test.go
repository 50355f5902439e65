package ppcstate

import "testing"

func TestDeliverExceptionExternalEntryState(t *testing.T) {
	s := New()
	s.PC = 0x1000
	s.MSR = MSREE | MSRPR | MSRFP | MSRIR | MSRDR | MSRILE | 0x00008000
	s.Pending = PendingExternal | PendingDecr

	s.DeliverException(VectorExternal, s.PC)

	if s.SRR0 != 0x1000 {
		t.Fatalf("SRR0 = %#x, want 0x1000", s.SRR0)
	}
	if s.MSR&MSREE != 0 {
		t.Fatal("MSR.EE must be cleared on exception entry")
	}
	if s.MSR&MSRPR != 0 || s.MSR&MSRFP != 0 || s.MSR&MSRIR != 0 || s.MSR&MSRDR != 0 {
		t.Fatalf("MSR bits that must clear on exception entry are still set: %#x", s.MSR)
	}
	if s.MSR&MSRLE == 0 {
		t.Fatal("MSR.LE should follow ILE (which was set) on exception entry")
	}
	if s.PC != VectorExternalInterrupt {
		t.Fatalf("PC = %#x, want vector offset %#x (MSR.IP was clear)", s.PC, VectorExternalInterrupt)
	}
	if s.Pending&PendingExternal != 0 {
		t.Fatal("PendingExternal should be cleared by delivering the external exception")
	}
	if s.Pending&PendingDecr == 0 {
		t.Fatal("PendingDecr should be untouched by delivering the external exception")
	}
}

func TestDeliverExceptionVectorBaseFollowsMSRIP(t *testing.T) {
	s := New()
	s.MSR = MSRIP
	s.DeliverException(VectorDecr, 0x2000)
	if s.PC != 0xFFF00000+VectorDecrementer {
		t.Fatalf("PC = %#x, want %#x (MSR.IP selects high vector base)", s.PC, 0xFFF00000+VectorDecrementer)
	}
}

func TestDeliverExceptionSRR1MaskedFromOldMSR(t *testing.T) {
	s := New()
	s.MSR = 0xFFFFFFFF
	s.DeliverException(VectorSyscall, 0x3000)
	if s.SRR1 != SRR1Mask {
		t.Fatalf("SRR1 = %#x, want %#x (masked snapshot of all-ones MSR)", s.SRR1, SRR1Mask)
	}
}

func TestDeliverExceptionProgramTrapSetsTrapBit(t *testing.T) {
	s := New()
	s.MSR = 0
	s.DeliverException(VectorProgramTrap, 0x4000)
	if s.SRR1&SRR1TrapBit == 0 {
		t.Fatal("SRR1 trap bit should be set for a trap-delivered program exception")
	}
}

func TestDeliverExceptionLEClearsWhenILEClear(t *testing.T) {
	s := New()
	s.MSR = MSRLE // LE set, ILE clear
	s.DeliverException(VectorExternal, 0)
	if s.MSR&MSRLE != 0 {
		t.Fatal("MSR.LE should clear on exception entry when ILE was clear")
	}
}

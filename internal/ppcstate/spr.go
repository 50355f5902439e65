package ppcstate

import "fmt"

// GetSPR reads a special-purpose register by number (spec.md §4.2).
// Unknown SPR numbers are a fatal condition per spec.md §7; this function
// reports them as an error and lets the caller (the interpreter-helper
// glue) decide how to escalate, keeping ppcstate itself free of process
// termination.
func (s *State) GetSPR(n int) (uint32, error) {
	switch n {
	case SPRXER:
		return s.XER, nil
	case SPRLR:
		return s.LR, nil
	case SPRCTR:
		return s.CTR, nil
	case SPRSRR0:
		return s.SRR0, nil
	case SPRSRR1:
		return s.SRR1, nil
	case SPRSPRG0:
		return s.SPRG[0], nil
	case SPRSPRG1:
		return s.SPRG[1], nil
	case SPRSPRG2:
		return s.SPRG[2], nil
	case SPRSPRG3:
		return s.SPRG[3], nil
	case SPRSDR1:
		return s.SDR1, nil
	case SPRDEC:
		return uint32(s.Decrementer()), nil
	case SPRTBLR, SPRTBLW:
		return uint32(s.Timebase()), nil
	case SPRTBUR, SPRTBUW:
		return uint32(s.Timebase() >> 32), nil
	case SPRPVR:
		return s.PVR, nil
	case SPRHID0:
		return s.HID0, nil
	case SPR603EHID1:
		return s.HID1, nil
	case SPRHID2:
		return s.HID2, nil
	case SPRIBAT0U:
		return s.IBAT[0].Upper, nil
	case SPRIBAT0L:
		return s.IBAT[0].Lower, nil
	case SPRIBAT1U:
		return s.IBAT[1].Upper, nil
	case SPRIBAT1L:
		return s.IBAT[1].Lower, nil
	case SPRIBAT2U:
		return s.IBAT[2].Upper, nil
	case SPRIBAT2L:
		return s.IBAT[2].Lower, nil
	case SPRIBAT3U:
		return s.IBAT[3].Upper, nil
	case SPRIBAT3L:
		return s.IBAT[3].Lower, nil
	case SPRDBAT0U:
		return s.DBAT[0].Upper, nil
	case SPRDBAT0L:
		return s.DBAT[0].Lower, nil
	case SPRDBAT1U:
		return s.DBAT[1].Upper, nil
	case SPRDBAT1L:
		return s.DBAT[1].Lower, nil
	case SPRDBAT2U:
		return s.DBAT[2].Upper, nil
	case SPRDBAT2L:
		return s.DBAT[2].Lower, nil
	case SPRDBAT3U:
		return s.DBAT[3].Upper, nil
	case SPRDBAT3L:
		return s.DBAT[3].Lower, nil
	default:
		return 0, fmt.Errorf("ppcstate: unknown SPR %d on read", n)
	}
}

// SetSPR writes a special-purpose register by number. Returns
// decrFiresImmediately true when writing SPR_DEC schedules an immediate
// decrementer exception (spec.md §4.2).
func (s *State) SetSPR(n int, v uint32) (decrFiresImmediately bool, err error) {
	switch n {
	case SPRXER:
		s.XER = v
	case SPRLR:
		s.LR = v
	case SPRCTR:
		s.CTR = v
	case SPRSRR0:
		s.SRR0 = v
	case SPRSRR1:
		s.SRR1 = v
	case SPRSPRG0:
		s.SPRG[0] = v
	case SPRSPRG1:
		s.SPRG[1] = v
	case SPRSPRG2:
		s.SPRG[2] = v
	case SPRSPRG3:
		s.SPRG[3] = v
	case SPRSDR1:
		s.SDR1 = v
	case SPRDEC:
		return s.SetDecrementer(int32(v)), nil
	case SPRTBLW:
		s.SetTimebase((s.Timebase() &^ 0xFFFFFFFF) | uint64(v))
	case SPRTBUW:
		s.SetTimebase((s.Timebase() & 0xFFFFFFFF) | uint64(v)<<32)
	case SPRHID0:
		s.HID0 = v
	case SPR603EHID1:
		s.HID1 = v
	case SPRHID2:
		s.HID2 = v
	case SPRIBAT0U:
		s.IBAT[0].Upper = v
	case SPRIBAT0L:
		s.IBAT[0].Lower = v
	case SPRIBAT1U:
		s.IBAT[1].Upper = v
	case SPRIBAT1L:
		s.IBAT[1].Lower = v
	case SPRIBAT2U:
		s.IBAT[2].Upper = v
	case SPRIBAT2L:
		s.IBAT[2].Lower = v
	case SPRIBAT3U:
		s.IBAT[3].Upper = v
	case SPRIBAT3L:
		s.IBAT[3].Lower = v
	case SPRDBAT0U:
		s.DBAT[0].Upper = v
	case SPRDBAT0L:
		s.DBAT[0].Lower = v
	case SPRDBAT1U:
		s.DBAT[1].Upper = v
	case SPRDBAT1L:
		s.DBAT[1].Lower = v
	case SPRDBAT2U:
		s.DBAT[2].Upper = v
	case SPRDBAT2L:
		s.DBAT[2].Lower = v
	case SPRDBAT3U:
		s.DBAT[3].Upper = v
	case SPRDBAT3L:
		s.DBAT[3].Lower = v
	default:
		return false, fmt.Errorf("ppcstate: unknown SPR %d on write", n)
	}
	return false, nil
}

// IsHotSPR reports whether n is one of the SPRs the translator inlines
// directly in emitted code (LR, CTR, XER) rather than routing through the
// cold-SPR interpreter helper (spec.md §4.4 "SPR moves").
func IsHotSPR(n int) bool {
	switch n {
	case SPRLR, SPRCTR, SPRXER:
		return true
	default:
		return false
	}
}

// SetMSR writes MSR, applying the pre-emption rule from spec.md §4.2: if
// the new value enables external interrupts and an interrupt is already
// pending, the remaining quantum is cut short. The caller supplies the
// quantum-zeroing action via the returned bool so ppcstate stays free of
// scheduler concerns.
func (s *State) SetMSR(v uint32) (shouldPreempt bool) {
	s.MSR = v
	if v&MSREE != 0 && s.Pending != 0 {
		return true
	}
	return false
}

package interp

// execOp31 dispatches the primary-opcode-31 extended family: register
// arithmetic, logicals, compares, shifts, SPR/MSR moves, traps, indexed
// loads/stores, mcrxr, and the cache/sync instructions spec.md §4.4 says
// to "emit nothing" for.
func (m *Machine) execOp31(d Decoded, nextPC *uint32) bool {
	switch d.XO {
	case 339: // mfspr
		m.execMFSPR(d)
		return true
	case 467: // mtspr
		m.execMTSPR(d)
		return true
	case 83: // mfmsr
		m.execMFMSR(d)
		return true
	case 146: // mtmsr
		m.execMTMSR(d)
		return true
	case 371: // mftb
		m.execMFTB(d)
		return true
	case 512: // mcrxr
		m.execMCRXR(d)
		return true
	case 4: // tw
		m.execTrap(d, nextPC)
		return true
	case 86, 54, 278, 246, 1014, 758, 470, 982, 598, 854, 306, 566, 370: // dcbf,dcbst,dcbt,dcbtst,dcbz,dcba,dcbi,icbi,sync,eieio,tlbie,tlbsync,tlbia
		return true
	}
	if ok := m.execArithReg(d); ok {
		return true
	}
	if ok := m.execLogicalReg(d); ok {
		return true
	}
	if ok := m.execCompareReg(d); ok {
		return true
	}
	if ok := m.execShiftReg(d); ok {
		return true
	}
	return m.execLoadStoreX(d)
}

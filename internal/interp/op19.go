package interp

// execOp19 dispatches the primary-opcode-19 extended family: mcrf, the
// condition-register logicals, bclr/bcctr, and rfi (spec.md §4.4
// "Branches", "Condition-register logicals", "System").
func (m *Machine) execOp19(d Decoded, nextPC *uint32) bool {
	switch d.XO {
	case 0: // mcrf
		m.execMCRF(d)
		return true
	case 16: // bclr
		m.execBranchToSPR(d, nextPC, false)
		return true
	case 528: // bcctr
		m.execBranchToSPR(d, nextPC, true)
		return true
	case 50: // rfi
		m.execRFI(nextPC)
		return true
	case 150: // isync
		return true
	}
	return m.execCRLogical(d)
}

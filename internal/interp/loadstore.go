package interp

import "github.com/trzy/ppc603edrc/internal/ppcstate"

// execLoadStoreD handles the D-form (register + displacement) integer
// loads and stores, primary opcodes 32-47 (spec.md §4.4 "Memory loads" /
// "Memory stores"). The `u` variants write the effective address back to
// RA only after the access succeeds, matching spec.md's stated
// write-back ordering.
func (m *Machine) execLoadStoreD(d Decoded) {
	ea := m.effectiveAddr(d.RA, d.SIMM16)
	writeBack := func() {
		if d.RA != 0 {
			m.S.GPR[d.RA] = ea
		}
	}
	switch d.Opcode {
	case 32: // lwz
		m.S.GPR[d.RD] = m.Bus.Read32(ea)
	case 33: // lwzu
		m.S.GPR[d.RD] = m.Bus.Read32(ea)
		writeBack()
	case 34: // lbz
		m.S.GPR[d.RD] = uint32(m.Bus.Read8(ea))
	case 35: // lbzu
		m.S.GPR[d.RD] = uint32(m.Bus.Read8(ea))
		writeBack()
	case 36: // stw
		m.Bus.Write32(ea, m.S.GPR[d.RD])
	case 37: // stwu
		m.Bus.Write32(ea, m.S.GPR[d.RD])
		writeBack()
	case 38: // stb
		m.Bus.Write8(ea, uint8(m.S.GPR[d.RD]))
	case 39: // stbu
		m.Bus.Write8(ea, uint8(m.S.GPR[d.RD]))
		writeBack()
	case 40: // lhz
		m.S.GPR[d.RD] = uint32(m.Bus.Read16(ea))
	case 41: // lhzu
		m.S.GPR[d.RD] = uint32(m.Bus.Read16(ea))
		writeBack()
	case 42: // lha
		m.S.GPR[d.RD] = uint32(int32(int16(m.Bus.Read16(ea))))
	case 43: // lhau
		m.S.GPR[d.RD] = uint32(int32(int16(m.Bus.Read16(ea))))
		writeBack()
	case 44: // sth
		m.Bus.Write16(ea, uint16(m.S.GPR[d.RD]))
	case 45: // sthu
		m.Bus.Write16(ea, uint16(m.S.GPR[d.RD]))
		writeBack()
	case 46: // lmw
		for r := d.RD; r <= 31; r++ {
			m.S.GPR[r] = m.Bus.Read32(ea)
			ea += 4
		}
	case 47: // stmw
		for r := d.RD; r <= 31; r++ {
			m.Bus.Write32(ea, m.S.GPR[r])
			ea += 4
		}
	}
}

// execFPLoadStoreD handles lfs(u), lfd(u), stfs(u), stfd(u), primary
// opcodes 48-55. Single-precision loads convert binary32 to binary64 on
// the way in; single-precision stores convert back before writing
// (spec.md §4.4).
func (m *Machine) execFPLoadStoreD(d Decoded) {
	ea := m.effectiveAddr(d.RA, d.SIMM16)
	writeBack := func() {
		if d.RA != 0 {
			m.S.GPR[d.RA] = ea
		}
	}
	switch d.Opcode {
	case 48: // lfs
		m.S.SetFPRFromBits(int(d.RD), widenSingle(m.Bus.Read32(ea)))
	case 49: // lfsu
		m.S.SetFPRFromBits(int(d.RD), widenSingle(m.Bus.Read32(ea)))
		writeBack()
	case 50: // lfd
		m.S.SetFPRFromBits(int(d.RD), m.Bus.Read64(ea))
	case 51: // lfdu
		m.S.SetFPRFromBits(int(d.RD), m.Bus.Read64(ea))
		writeBack()
	case 52: // stfs
		m.Bus.Write32(ea, narrowSingle(m.S.FPRAsBits(int(d.RD))))
	case 53: // stfsu
		m.Bus.Write32(ea, narrowSingle(m.S.FPRAsBits(int(d.RD))))
		writeBack()
	case 54: // stfd
		m.Bus.Write64(ea, m.S.FPRAsBits(int(d.RD)))
	case 55: // stfdu
		m.Bus.Write64(ea, m.S.FPRAsBits(int(d.RD)))
		writeBack()
	}
}

// execLoadStoreX handles the X-form indexed loads/stores under primary
// opcode 31: lwzx, lbzx, stwx, stbx, lhzx, lhax, sthx, lwarx, stwcx.,
// lwbrx, stwbrx, lhbrx, sthbrx, lswi.
func (m *Machine) execLoadStoreX(d Decoded) bool {
	ea := m.S.GPR[d.RA] + m.S.GPR[d.RB]
	if d.RA == 0 {
		ea = m.S.GPR[d.RB]
	}
	switch d.XO {
	case 23: // lwzx
		m.S.GPR[d.RD] = m.Bus.Read32(ea)
	case 87: // lbzx
		m.S.GPR[d.RD] = uint32(m.Bus.Read8(ea))
	case 151: // stwx
		m.Bus.Write32(ea, m.S.GPR[d.RD])
	case 215: // stbx
		m.Bus.Write8(ea, uint8(m.S.GPR[d.RD]))
	case 279: // lhzx
		m.S.GPR[d.RD] = uint32(m.Bus.Read16(ea))
	case 343: // lhax
		m.S.GPR[d.RD] = uint32(int32(int16(m.Bus.Read16(ea))))
	case 407: // sthx
		m.Bus.Write16(ea, uint16(m.S.GPR[d.RD]))
	case 20: // lwarx -- reservations are out of scope (spec.md §1 non-goals)
		m.S.GPR[d.RD] = m.Bus.Read32(ea)
	case 150: // stwcx. -- always reported as succeeding, single-core only
		m.Bus.Write32(ea, m.S.GPR[d.RD])
		m.S.SetCRField(0, 1<<1|boolToUint8(m.S.XER&ppcstate.XERSO != 0))
	case 534: // lwbrx
		m.S.GPR[d.RD] = byteswap32(m.Bus.Read32(ea))
	case 662: // stwbrx
		m.Bus.Write32(ea, byteswap32(m.S.GPR[d.RD]))
	case 790: // lhbrx
		m.S.GPR[d.RD] = uint32(byteswap16(m.Bus.Read16(ea)))
	case 918: // sthbrx
		m.Bus.Write16(ea, byteswap16(uint16(m.S.GPR[d.RD])))
	case 597: // lswi
		m.execLSWI(d)
	default:
		return false
	}
	return true
}

// execLSWI loads NB bytes (NB==0 means 32) from EA into consecutive GPRs
// starting at RD, four bytes per register, matching the generic string
// load's big-endian packing.
func (m *Machine) execLSWI(d Decoded) {
	nb := d.RB
	if nb == 0 {
		nb = 32
	}
	ea := uint32(0)
	if d.RA != 0 {
		ea = m.S.GPR[d.RA]
	}
	reg := d.RD
	var word uint32
	shift := 24
	for i := uint32(0); i < nb; i++ {
		word |= uint32(m.Bus.Read8(ea)) << shift
		ea++
		shift -= 8
		if shift < 0 {
			m.S.GPR[reg&31] = word
			reg++
			word = 0
			shift = 24
		}
	}
	if shift != 24 {
		m.S.GPR[reg&31] = word
	}
}

func byteswap32(v uint32) uint32 {
	return v>>24 | (v>>8)&0xFF00 | (v<<8)&0xFF0000 | v<<24
}

func byteswap16(v uint16) uint16 {
	return v>>8 | v<<8
}

func widenSingle(bits uint32) uint64 {
	return float32BitsToFloat64Bits(bits)
}

func narrowSingle(bits uint64) uint32 {
	return float64BitsToFloat32Bits(bits)
}

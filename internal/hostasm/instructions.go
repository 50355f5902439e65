package hostasm

// Cond is an x86 condition-code selector for Jcc (the low nibble of the
// 0F 8x opcode).
type Cond byte

const (
	CondO  Cond = 0x0
	CondNO Cond = 0x1
	CondB  Cond = 0x2 // below / carry
	CondAE Cond = 0x3
	CondE  Cond = 0x4
	CondNE Cond = 0x5
	CondBE Cond = 0x6
	CondA  Cond = 0x7
	CondS  Cond = 0x8
	CondNS Cond = 0x9
	CondL  Cond = 0xC
	CondGE Cond = 0xD
	CondLE Cond = 0xE
	CondG  Cond = 0xF
)

// --- data movement ---

// MovRegImm32 emits `mov reg, imm32`.
func (c *Context) MovRegImm32(reg Reg, imm uint32) {
	c.emit(0xB8 + byte(reg&7))
	c.emit32(imm)
}

// MovRegReg emits `mov dst, src`.
func (c *Context) MovRegReg(dst, src Reg) {
	if dst == src {
		return
	}
	c.emit(0x89)
	c.emit(modrmReg(3, src, dst))
}

// MovRegMem emits `mov reg, [mem]` (load).
func (c *Context) MovRegMem(reg Reg, m Mem) {
	c.emit(0x8B)
	c.emitModRM(byte(reg), m)
}

// MovMemReg emits `mov [mem], reg` (store).
func (c *Context) MovMemReg(m Mem, reg Reg) {
	c.emit(0x89)
	c.emitModRM(byte(reg), m)
}

// MovMemImm32 emits `mov dword [mem], imm32`.
func (c *Context) MovMemImm32(m Mem, imm uint32) {
	c.emit(0xC7)
	c.emitModRM(0, m)
	c.emit32(imm)
}

// MovZX8 emits `movzx reg, byte [mem]`.
func (c *Context) MovZX8(reg Reg, m Mem) {
	c.emit(0x0F, 0xB6)
	c.emitModRM(byte(reg), m)
}

// MovZX16 emits `movzx reg, word [mem]`.
func (c *Context) MovZX16(reg Reg, m Mem) {
	c.emit(0x0F, 0xB7)
	c.emitModRM(byte(reg), m)
}

// MovSX8 emits `movsx reg, byte [mem]`.
func (c *Context) MovSX8(reg Reg, m Mem) {
	c.emit(0x0F, 0xBE)
	c.emitModRM(byte(reg), m)
}

// MovSX16 emits `movsx reg, word [mem]`.
func (c *Context) MovSX16(reg Reg, m Mem) {
	c.emit(0x0F, 0xBF)
	c.emitModRM(byte(reg), m)
}

// Lea emits `lea reg, [mem]`.
func (c *Context) Lea(reg Reg, m Mem) {
	c.emit(0x8D)
	c.emitModRM(byte(reg), m)
}

// Bswap emits `bswap reg` (used for the `*brx` byte-reversed load/stores).
func (c *Context) Bswap(reg Reg) {
	c.emit(0x0F, 0xC8+byte(reg&7))
}

// --- group1 arithmetic/logical: add, or, adc, sbb, and, sub, xor, cmp ---

type group1 byte

const (
	g1Add group1 = 0
	g1Or  group1 = 1
	g1Adc group1 = 2
	g1Sbb group1 = 3
	g1And group1 = 4
	g1Sub group1 = 5
	g1Xor group1 = 6
	g1Cmp group1 = 7
)

// emitGroup1RegImm applies spec.md §4.1's compression rules: an add of
// zero emits nothing, an immediate that fits in a sign-extended byte uses
// the short (0x83) form, otherwise the full 0x81 id form.
func (c *Context) emitGroup1RegImm(op group1, reg Reg, imm int32) {
	if op == g1Add && imm == 0 {
		return
	}
	if fits8(imm) {
		c.emit(0x83)
		c.emit(modrmReg(3, Reg(op), reg))
		c.emit(byte(int8(imm)))
		return
	}
	c.emit(0x81)
	c.emit(modrmReg(3, Reg(op), reg))
	c.emit32(uint32(imm))
}

func (c *Context) emitGroup1RegReg(op group1, dst, src Reg) {
	c.emit(0x01 + byte(op)<<3)
	c.emit(modrmReg(3, src, dst))
}

func (c *Context) AddRegImm(reg Reg, imm int32) { c.emitGroup1RegImm(g1Add, reg, imm) }
func (c *Context) AddRegReg(dst, src Reg)        { c.emitGroup1RegReg(g1Add, dst, src) }
func (c *Context) OrRegImm(reg Reg, imm int32)  { c.emitGroup1RegImm(g1Or, reg, imm) }
func (c *Context) OrRegReg(dst, src Reg)        { c.emitGroup1RegReg(g1Or, dst, src) }
func (c *Context) AdcRegReg(dst, src Reg)       { c.emitGroup1RegReg(g1Adc, dst, src) }
func (c *Context) SbbRegReg(dst, src Reg)       { c.emitGroup1RegReg(g1Sbb, dst, src) }
func (c *Context) AndRegImm(reg Reg, imm int32) { c.emitGroup1RegImm(g1And, reg, imm) }
func (c *Context) AndRegReg(dst, src Reg)       { c.emitGroup1RegReg(g1And, dst, src) }
func (c *Context) SubRegImm(reg Reg, imm int32) { c.emitGroup1RegImm(g1Sub, reg, imm) }
func (c *Context) SubRegReg(dst, src Reg)       { c.emitGroup1RegReg(g1Sub, dst, src) }
func (c *Context) XorRegImm(reg Reg, imm int32) { c.emitGroup1RegImm(g1Xor, reg, imm) }
func (c *Context) XorRegReg(dst, src Reg)       { c.emitGroup1RegReg(g1Xor, dst, src) }
func (c *Context) CmpRegImm(reg Reg, imm int32) { c.emitGroup1RegImm(g1Cmp, reg, imm) }
func (c *Context) CmpRegReg(dst, src Reg)       { c.emitGroup1RegReg(g1Cmp, dst, src) }

// TestRegReg emits `test dst, src`.
func (c *Context) TestRegReg(dst, src Reg) {
	c.emit(0x85)
	c.emit(modrmReg(3, src, dst))
}

// TestRegImm emits `test reg, imm32`.
func (c *Context) TestRegImm(reg Reg, imm uint32) {
	c.emit(0xF7)
	c.emit(modrmReg(3, 0, reg))
	c.emit32(imm)
}

// --- group3: neg, not, mul, imul, div, idiv (single operand, result in eax/edx:eax) ---

func (c *Context) NegReg(reg Reg) {
	c.emit(0xF7)
	c.emit(modrmReg(3, 3, reg))
}

func (c *Context) NotReg(reg Reg) {
	c.emit(0xF7)
	c.emit(modrmReg(3, 2, reg))
}

// MulReg emits unsigned `mul reg` (EDX:EAX = EAX * reg).
func (c *Context) MulReg(reg Reg) {
	c.emit(0xF7)
	c.emit(modrmReg(3, 4, reg))
}

// ImulRegReg emits the two-operand signed multiply `imul dst, src`.
func (c *Context) ImulRegReg(dst, src Reg) {
	c.emit(0x0F, 0xAF)
	c.emit(modrmReg(3, dst, src))
}

// DivReg emits unsigned `div reg` (EAX = EDX:EAX / reg, EDX = remainder).
func (c *Context) DivReg(reg Reg) {
	c.emit(0xF7)
	c.emit(modrmReg(3, 6, reg))
}

// IdivReg emits signed `idiv reg`.
func (c *Context) IdivReg(reg Reg) {
	c.emit(0xF7)
	c.emit(modrmReg(3, 7, reg))
}

// Cdq emits `cdq`, sign-extending EAX into EDX:EAX ahead of idiv.
func (c *Context) Cdq() { c.emit(0x99) }

// --- group2: shifts and rotates ---

type group2 byte

const (
	g2Rol group2 = 0
	g2Ror group2 = 1
	g2Shl group2 = 4
	g2Shr group2 = 5
	g2Sar group2 = 7
)

// emitGroup2 applies spec.md §4.1's "rolls by 1 use the short form" rule.
func (c *Context) emitGroup2(op group2, reg Reg, count uint8) {
	if count == 1 {
		c.emit(0xD1)
		c.emit(modrmReg(3, Reg(op), reg))
		return
	}
	c.emit(0xC1)
	c.emit(modrmReg(3, Reg(op), reg))
	c.emit(count)
}

func (c *Context) RolRegImm(reg Reg, count uint8) { c.emitGroup2(g2Rol, reg, count) }
func (c *Context) ShlRegImm(reg Reg, count uint8) { c.emitGroup2(g2Shl, reg, count) }
func (c *Context) ShrRegImm(reg Reg, count uint8) { c.emitGroup2(g2Shr, reg, count) }
func (c *Context) SarRegImm(reg Reg, count uint8) { c.emitGroup2(g2Sar, reg, count) }

func (c *Context) emitGroup2CL(op group2, reg Reg) {
	c.emit(0xD3)
	c.emit(modrmReg(3, Reg(op), reg))
}

// ShlRegCL/ShrRegCL/SarRegCL emit variable shifts by CL (spec.md §4.4
// "Rotates and shifts"). The translator does not use them: `slw`/`srw`/`sraw`
// are routed to the interpreter helper.
func (c *Context) ShlRegCL(reg Reg) { c.emitGroup2CL(g2Shl, reg) }
func (c *Context) ShrRegCL(reg Reg) { c.emitGroup2CL(g2Shr, reg) }
func (c *Context) SarRegCL(reg Reg) { c.emitGroup2CL(g2Sar, reg) }

// --- stack, control transfer ---

func (c *Context) PushReg(reg Reg) { c.emit(0x50 + byte(reg&7)) }
func (c *Context) PopReg(reg Reg)  { c.emit(0x58 + byte(reg&7)) }
func (c *Context) Ret()            { c.emit(0xC3) }

// CallReg emits an indirect call through a register.
func (c *Context) CallReg(reg Reg) {
	c.emit(0xFF)
	c.emit(modrmReg(3, 2, reg))
}

// JmpReg emits an indirect jump through a register.
func (c *Context) JmpReg(reg Reg) {
	c.emit(0xFF)
	c.emit(modrmReg(3, 4, reg))
}

// JmpMem emits an indirect jump through a memory operand (a dispatch-table
// slot load-and-jump in one instruction).
func (c *Context) JmpMem(m Mem) {
	c.emit(0xFF)
	c.emitModRM(4, m)
}

// Jmp emits an unconditional near jump to label (rel32, always emitted in
// the 5-byte E9 form for uniform fixup handling).
func (c *Context) Jmp(l Label) {
	c.emit(0xE9)
	c.refLabel(l)
}

// Jcc emits a conditional near jump to label.
func (c *Context) Jcc(cond Cond, l Label) {
	c.emit(0x0F, 0x80+byte(cond))
	c.refLabel(l)
}

// Call emits a near call to label.
func (c *Context) Call(l Label) {
	c.emit(0xE8)
	c.refLabel(l)
}

// Hlt emits a host halt.
func (c *Context) Hlt() { c.emit(0xF4) }

// Package hostasm is the DRC's host code emitter (spec.md §4.1). It targets
// the one host the spec allows: a 32-bit little-endian machine with eight
// general-purpose integer registers (x86-32's EAX..EDI) plus SIMD float
// registers for the handful of floating helper shims that need them.
//
// The API shape — a Context that fragments append bytes into, Labels that
// are either backward targets (declared, then jumped to) or forward
// targets (jumped to, then declared) — follows
// tinyrange-cc/internal/asm/common.go and amd64/asm.go, simplified from
// that package's 64-bit REX-prefixed encoding down to legacy 32-bit mod
// r/m forms, since this host has no extended register file to encode.
package hostasm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reg is one of the eight 32-bit general-purpose host registers.
type Reg uint8

const (
	EAX Reg = iota
	ECX
	EDX
	EBX
	ESP
	EBP
	ESI
	EDI
)

func (r Reg) String() string {
	return [...]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}[r&7]
}

// Mem describes an x86 memory operand: [base + index*scale + disp], with
// base and/or index optional.
type Mem struct {
	Base     Reg
	HasBase  bool
	Index    Reg
	HasIndex bool
	Scale    uint8
	Disp     int32
}

// D builds a [base + disp] operand.
func D(base Reg, disp int32) Mem {
	return Mem{Base: base, HasBase: true, Disp: disp}
}

// DI builds a [base + index*scale + disp] operand (scale in {1,2,4,8}).
func DI(base Reg, index Reg, scale uint8, disp int32) Mem {
	return Mem{Base: base, HasBase: true, Index: index, HasIndex: true, Scale: scale, Disp: disp}
}

// Abs builds a bare [disp] operand with no base register (PowerPC's
// "RA==0" addressing mode, spec.md §4.4).
func Abs(disp int32) Mem { return Mem{Disp: disp} }

// JumpType records whether a label was a backward (already-declared) or
// forward (not yet declared) target when first referenced, mirroring the
// original recompiler's JUMP_TARGET/JUMP_TYPE (original_source/ppc_drc/genx86.h).
// It carries no behavioral weight beyond documentation and diagnostics —
// both kinds resolve through the same fixup list.
type JumpType int

const (
	JumpNone JumpType = iota
	JumpBackward
	JumpForward
)

// Label is a named branch target within one Context's emission.
type Label string

type labelState struct {
	resolved bool
	pos      int
	fixups   []fixup
	kind     JumpType
}

type fixup struct {
	pos int // offset of the 4-byte rel32 field
}

// Context accumulates emitted bytes for a single compiled block or stub.
// It is not safe for concurrent use; the DRC runs its compiler on a single
// thread (spec.md §5).
type Context struct {
	buf    []byte
	labels map[Label]*labelState
}

// NewContext returns an empty emission context.
func NewContext() *Context {
	return &Context{labels: make(map[Label]*labelState)}
}

// Bytes returns the emitted code so far. The slice is owned by the
// Context; callers that need a stable copy should clone it.
func (c *Context) Bytes() []byte { return c.buf }

// Pos returns the current write offset, i.e. the position the next
// emitted byte will occupy.
func (c *Context) Pos() int { return len(c.buf) }

func (c *Context) emit(b ...byte) { c.buf = append(c.buf, b...) }

func (c *Context) emit32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	c.emit(b[:]...)
}

// MarkLabel declares label at the current position. If a jump to label
// was already emitted (a forward reference), every such jump is patched
// now. Declaring the same label twice is a programmer error: it panics,
// since it can only happen from a bug in the translator, not from
// guest input (spec.md §4.1 "Opening a label twice ... is a programmer
// error and must abort").
func (c *Context) MarkLabel(l Label) {
	st := c.labels[l]
	if st == nil {
		st = &labelState{kind: JumpBackward}
		c.labels[l] = st
	} else if st.resolved {
		panic(fmt.Sprintf("hostasm: label %q declared twice", l))
	}
	st.resolved = true
	st.pos = len(c.buf)
	for _, fx := range st.fixups {
		c.patchRel32(fx.pos, st.pos)
	}
	st.fixups = nil
}

func (c *Context) patchRel32(fixupPos, targetPos int) {
	rel := int32(targetPos - (fixupPos + 4))
	binary.LittleEndian.PutUint32(c.buf[fixupPos:fixupPos+4], uint32(rel))
}

// refLabel records a 4-byte rel32 reference to l at the instruction being
// emitted (the rel32 field must be the last 4 bytes appended). If l is
// already resolved the displacement is computed and written immediately
// (a backward jump); otherwise a zero placeholder is written and queued
// for MarkLabel to patch (a forward jump); Finalize reports any that were
// never patched.
func (c *Context) refLabel(l Label) {
	st := c.labels[l]
	if st == nil {
		st = &labelState{kind: JumpForward}
		c.labels[l] = st
	}
	pos := len(c.buf)
	c.emit32(0)
	if st.resolved {
		c.patchRel32(pos, st.pos)
		return
	}
	st.fixups = append(st.fixups, fixup{pos: pos})
}

// Finalize reports an error if any referenced label was never declared —
// the "leaving it unresolved is a programmer error" half of spec.md §4.1.
// Unlike the double-declare case this is recoverable at the call site (the
// block compiler can simply refuse to install the block), so it returns an
// error rather than aborting outright.
func (c *Context) Finalize() error {
	for name, st := range c.labels {
		if !st.resolved {
			return fmt.Errorf("hostasm: label %q referenced but never declared", name)
		}
	}
	return nil
}

// fits8 reports whether v round-trips through a sign-extended byte.
func fits8(v int32) bool { return v >= math.MinInt8 && v <= math.MaxInt8 }

func modrmReg(mod byte, reg Reg, rm Reg) byte {
	return mod<<6 | byte(reg&7)<<3 | byte(rm&7)
}

// emitModRM emits the mod r/m (+ SIB + disp) encoding for a register/memory
// destination paired with the reg field carrying either a second register
// or an opcode extension, following the same compression the teacher's
// amd64 encoder uses (tinyrange-cc/internal/asm/amd64/encode.go): no SIB
// unless there's an index or the base is ESP, no disp field when disp==0
// (unless base is EBP, which requires an explicit disp8 of 0).
func (c *Context) emitModRM(regField byte, m Mem) {
	if !m.HasBase && !m.HasIndex {
		// Absolute disp32, no base: mod=00, rm=101, then SIB-less disp32.
		c.emit(modrmReg(0, Reg(regField), 5))
		c.emit32(uint32(m.Disp))
		return
	}
	if !m.HasIndex && m.Base != ESP {
		switch {
		case m.Disp == 0 && m.Base != EBP:
			c.emit(modrmReg(0, Reg(regField), m.Base))
		case fits8(m.Disp):
			c.emit(modrmReg(1, Reg(regField), m.Base))
			c.emit(byte(int8(m.Disp)))
		default:
			c.emit(modrmReg(2, Reg(regField), m.Base))
			c.emit32(uint32(m.Disp))
		}
		return
	}
	// Needs a SIB byte: base==ESP (as base) or there's an index register.
	scaleBits := map[uint8]byte{1: 0, 2: 1, 4: 2, 8: 3}[orDefault(m.Scale)]
	var base Reg
	baseMod := byte(0)
	if m.HasBase {
		base = m.Base
	} else {
		base = EBP // SIB "no base" encoding requires mod!=00 trick; we always have a base here.
	}
	switch {
	case m.Disp == 0 && base != EBP:
		baseMod = 0
	case fits8(m.Disp):
		baseMod = 1
	default:
		baseMod = 2
	}
	c.emit(modrmReg(baseMod, Reg(regField), ESP)) // rm=100 signals SIB follows
	var idx Reg = ESP                              // ESP means "no index"
	if m.HasIndex {
		idx = m.Index
	}
	c.emit(scaleBits<<6 | byte(idx&7)<<3 | byte(base&7))
	switch baseMod {
	case 1:
		c.emit(byte(int8(m.Disp)))
	case 2:
		c.emit32(uint32(m.Disp))
	}
}

func orDefault(scale uint8) uint8 {
	if scale == 0 {
		return 1
	}
	return scale
}

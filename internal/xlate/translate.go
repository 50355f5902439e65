package xlate

import (
	"fmt"

	"github.com/trzy/ppc603edrc/internal/hostasm"
	"github.com/trzy/ppc603edrc/internal/interp"
	"github.com/trzy/ppc603edrc/internal/membus"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// Translator maps one decoded guest instruction at a time to host bytes
// emitted into a hostasm.Context (spec.md §4.4). Fast is the optional
// fast-path RAM window lwz/stw may dereference directly instead of exiting
// to the interpreter's bus call (spec.md §4.3); a zero-value Fast disables
// the fast path entirely.
type Translator struct {
	Fast membus.FastRAM
}

// translateOne emits pc's instruction and reports whether it ends the
// block: a true end-of-block instruction (branch, trap, syscall, rfi) or
// the first instruction this translator has no inline form for, which gets
// a host-exit stub as its own block terminator (spec.md §4.5 step 5).
func (t *Translator) translateOne(ctx *hostasm.Context, d interp.Decoded, pc uint32) bool {
	switch d.Opcode {
	case 14: // addi
		emitAddImm(ctx, d, false)
		emitPCNext(ctx, pc+4)
		emitCycleCheck(ctx, pc)
		return false
	case 15: // addis
		emitAddImm(ctx, d, true)
		emitPCNext(ctx, pc+4)
		emitCycleCheck(ctx, pc)
		return false
	case 24, 25, 26, 27: // ori, oris, xori, xoris
		if emitLogicalImm(ctx, d) {
			emitPCNext(ctx, pc+4)
			emitCycleCheck(ctx, pc)
			return false
		}
	case 18: // b
		emitUncondBranch(ctx, d, pc)
		return true
	case 31:
		if tryEmitSPRMove(ctx, d) {
			emitPCNext(ctx, pc+4)
			emitCycleCheck(ctx, pc)
			return false
		}
	case 32: // lwz
		if t.emitFastWordAccess(ctx, d, pc, false) {
			return false
		}
	case 36: // stw
		if t.emitFastWordAccess(ctx, d, pc, true) {
			return false
		}
	}
	emitHelperExit(ctx, pc)
	return true
}

// emitCycleCheck implements spec.md §4.7's per-instruction accounting: "the
// translator first decrements the shared cycle counter by one", followed by
// a compare against zero and a conditional exit when the quantum is spent.
// The exit sequence is duplicated inline at each call site rather than
// shared through one stub address, trading a few extra bytes per block for
// not having to thread a shared-stub label through every call site.
func emitCycleCheck(ctx *hostasm.Context, pc uint32) {
	ok := hostasm.Label(fmt.Sprintf("cycle_ok_%08x", pc))
	decrementICount(ctx, ok)
	ctx.MovRegImm32(hostasm.EAX, ExitQuantum)
	ctx.Ret()
	ctx.MarkLabel(ok)
}

// emitCycleCheckAndExit is emitCycleCheck's block-ending variant: used by
// instructions that always end the block (branches, host-exit stubs), it
// returns exitCode when budget remains instead of falling through to more
// translated instructions.
func emitCycleCheckAndExit(ctx *hostasm.Context, pc uint32, exitCode uint32) {
	ok := hostasm.Label(fmt.Sprintf("cycle_ok_%08x", pc))
	decrementICount(ctx, ok)
	ctx.MovRegImm32(hostasm.EAX, ExitQuantum)
	ctx.Ret()
	ctx.MarkLabel(ok)
	ctx.MovRegImm32(hostasm.EAX, exitCode)
	ctx.Ret()
}

// emitHelperExit ends the block by falling through to the scheduler, which
// runs the untranslated instruction at state.PC through interp.Machine.Step
// (spec.md §4.4 "...or a call-through to an interpreter helper").
// state.PC is left untouched: the interpreter re-fetches and re-decodes the
// very instruction the translator just declined, so there is nothing to
// hand it but the program counter it already has.
func emitHelperExit(ctx *hostasm.Context, pc uint32) {
	emitCycleCheckAndExit(ctx, pc, ExitHelper)
}

// emitPCNext writes next into state.PC. Every inlined instruction that
// continues a block, and every instruction that ends one by committing to a
// known target, writes its successor PC before the cycle check runs, so that
// a quantum-exhausted exit always leaves state.PC at the next instruction the
// scheduler should dispatch (spec.md §4.7: the cycle check only ever
// interrupts a block *between* instructions, never mid-instruction). The
// lwz/stw fast path (emitFastWordAccess) is the exception: it runs its cycle
// check before the access, so an exit there leaves state.PC at the
// not-yet-executed load/store itself.
func emitPCNext(ctx *hostasm.Context, next uint32) {
	ctx.MovRegImm32(hostasm.EAX, next)
	ctx.MovMemReg(hostasm.D(StateReg, offPC), hostasm.EAX)
}

// decrementICount emits the shared decrement-and-compare sequence common to
// both cycle-check flavors below, leaving SF/ZF set for a Jcc to ok.
func decrementICount(ctx *hostasm.Context, ok hostasm.Label) {
	ctx.MovRegMem(hostasm.ECX, hostasm.D(StateReg, offICount))
	ctx.SubRegImm(hostasm.ECX, 1)
	ctx.MovMemReg(hostasm.D(StateReg, offICount), hostasm.ECX)
	ctx.CmpRegImm(hostasm.ECX, 0)
	ctx.Jcc(hostasm.CondG, ok)
}

// emitAddImm emits addi/addis: rd = (ra!=0 ? gpr[ra] : 0) + simm, shifted
// left 16 bits first for addis (spec.md §4.4 "Integer arithmetic").
func emitAddImm(ctx *hostasm.Context, d interp.Decoded, shifted bool) {
	if d.RA != 0 {
		ctx.MovRegMem(hostasm.EAX, hostasm.D(StateReg, gprOffset(d.RA)))
	} else {
		ctx.XorRegReg(hostasm.EAX, hostasm.EAX)
	}
	imm := d.SIMM16
	if shifted {
		imm <<= 16
	}
	ctx.AddRegImm(hostasm.EAX, imm)
	ctx.MovMemReg(hostasm.D(StateReg, gprOffset(d.RD)), hostasm.EAX)
}

// emitLogicalImm emits the non-Rc logical immediates: ori, oris, xori,
// xoris. andi./andis. always set CR0 and are routed to the interpreter
// helper instead, since hostasm has no flags-to-CR0 decode (spec.md §4.4
// "Logical immediates").
func emitLogicalImm(ctx *hostasm.Context, d interp.Decoded) bool {
	ctx.MovRegMem(hostasm.EAX, hostasm.D(StateReg, gprOffset(d.RD))) // RS shares the RD field position
	switch d.Opcode {
	case 24:
		ctx.OrRegImm(hostasm.EAX, int32(d.UIMM16))
	case 25:
		ctx.OrRegImm(hostasm.EAX, int32(d.UIMM16<<16))
	case 26:
		ctx.XorRegImm(hostasm.EAX, int32(d.UIMM16))
	case 27:
		ctx.XorRegImm(hostasm.EAX, int32(d.UIMM16<<16))
	default:
		return false
	}
	ctx.MovMemReg(hostasm.D(StateReg, gprOffset(d.RA)), hostasm.EAX)
	return true
}

// emitUncondBranch emits `b`/`ba`/`bl`/`bla`. The target is fully known at
// translate time (pc plus LI, or LI alone if AA), so it ends the block by
// writing it straight into state.PC rather than deferring to the dispatcher
// (spec.md §4.4 "Branches": "unconditional branches compile to a direct
// write of the target into the PC field").
func emitUncondBranch(ctx *hostasm.Context, d interp.Decoded, pc uint32) {
	target := d.LI
	if !d.AA {
		target = pc + d.LI
	}
	if d.LK {
		ctx.MovRegImm32(hostasm.EAX, pc+4)
		ctx.MovMemReg(hostasm.D(StateReg, offLR), hostasm.EAX)
	}
	emitPCNext(ctx, target)
	emitCycleCheckAndExit(ctx, pc, ExitContinue)
}

// hotSPROffset reports the state-field offset for one of the three SPRs
// the translator inlines moves for (spec.md §4.4 "SPR moves": "LR, CTR, and
// XER are hot enough to move directly; every other SPR routes through the
// interpreter").
func hotSPROffset(n uint32) (int32, bool) {
	switch int(n) {
	case ppcstate.SPRLR:
		return offLR, true
	case ppcstate.SPRCTR:
		return offCTR, true
	case ppcstate.SPRXER:
		return offXER, true
	}
	return 0, false
}

// tryEmitSPRMove handles mfmsr, and mfspr/mtspr for the hot SPR set. It
// reports false (leaving the instruction unhandled) for every other XO
// under opcode 31, including cold SPRs and mtmsr, whose preemption side
// effect needs the interpreter's SetMSR.
func tryEmitSPRMove(ctx *hostasm.Context, d interp.Decoded) bool {
	switch d.XO {
	case 83: // mfmsr
		ctx.MovRegMem(hostasm.EAX, hostasm.D(StateReg, offMSR))
		ctx.MovMemReg(hostasm.D(StateReg, gprOffset(d.RD)), hostasm.EAX)
		return true
	case 339: // mfspr
		off, ok := hotSPROffset(d.SPR)
		if !ok {
			return false
		}
		ctx.MovRegMem(hostasm.EAX, hostasm.D(StateReg, off))
		ctx.MovMemReg(hostasm.D(StateReg, gprOffset(d.RD)), hostasm.EAX)
		return true
	case 467: // mtspr
		off, ok := hotSPROffset(d.SPR)
		if !ok {
			return false
		}
		ctx.MovRegMem(hostasm.EAX, hostasm.D(StateReg, gprOffset(d.RD)))
		ctx.MovMemReg(hostasm.D(StateReg, off), hostasm.EAX)
		return true
	}
	return false
}

// emitFastWordAccess emits lwz/stw with a runtime bounds check against
// t.Fast, dereferencing t.Fast.HostBase directly on the hot path and
// falling back to the interpreter's bus call on the cold path (spec.md
// §4.3: "the fast path bypasses the call when the guest address is proven
// to lie in the first 8 MiB of RAM"). It reports false, leaving the
// instruction entirely unhandled, when no fast RAM window is configured.
func (t *Translator) emitFastWordAccess(ctx *hostasm.Context, d interp.Decoded, pc uint32, isStore bool) bool {
	if t.Fast.Size == 0 {
		return false
	}
	emitCycleCheck(ctx, pc)

	if d.RA != 0 {
		ctx.MovRegMem(hostasm.ECX, hostasm.D(StateReg, gprOffset(d.RA)))
		ctx.AddRegImm(hostasm.ECX, d.SIMM16)
	} else {
		ctx.MovRegImm32(hostasm.ECX, uint32(d.SIMM16))
	}

	cold := hostasm.Label(fmt.Sprintf("mem_slow_%08x", pc))
	after := hostasm.Label(fmt.Sprintf("mem_done_%08x", pc))

	ctx.CmpRegImm(hostasm.ECX, int32(t.Fast.Size))
	ctx.Jcc(hostasm.CondAE, cold)

	ctx.MovRegImm32(hostasm.EDX, uint32(t.Fast.HostBase))
	ctx.AddRegReg(hostasm.EDX, hostasm.ECX)
	if isStore {
		ctx.MovRegMem(hostasm.EAX, hostasm.D(StateReg, gprOffset(d.RD)))
		ctx.Bswap(hostasm.EAX)
		ctx.MovMemReg(hostasm.D(hostasm.EDX, 0), hostasm.EAX)
	} else {
		ctx.MovRegMem(hostasm.EAX, hostasm.D(hostasm.EDX, 0))
		ctx.Bswap(hostasm.EAX)
		ctx.MovMemReg(hostasm.D(StateReg, gprOffset(d.RD)), hostasm.EAX)
	}
	emitPCNext(ctx, pc+4)
	ctx.Jmp(after)

	ctx.MarkLabel(cold)
	ctx.MovRegImm32(hostasm.EAX, ExitHelper)
	ctx.Ret()

	ctx.MarkLabel(after)
	return true
}

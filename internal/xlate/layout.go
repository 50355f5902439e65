// Package xlate is the DRC's Instruction Translator and Block Compiler
// (spec.md §4.4, §4.5): it walks a guest instruction stream and emits, via
// internal/hostasm, either an inline host sequence or a short host-exit
// stub that hands the instruction to internal/interp instead.
//
// Emitted code addresses architectural state through a single
// register-resident base pointer, the design spec.md §9 "Global mutable
// state" recommends for host languages (like Go) that discourage package
// globals: "wrap them in a context value passed explicitly... helper
// routines ... locate context through a register-resident pointer agreed
// with the emitter." Field offsets into that context (*ppcstate.State) are
// computed once via unsafe.Offsetof rather than hand-maintained constants,
// so a field reorder in ppcstate can't silently desynchronize the emitter.
package xlate

import (
	"unsafe"

	"github.com/trzy/ppc603edrc/internal/hostasm"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// StateReg is the host register every compiled block loads the *ppcstate.State
// pointer into at entry, and every emitted instruction addresses state
// through for the lifetime of the block.
const StateReg = hostasm.EBX

var (
	offGPR    = int32(unsafe.Offsetof(ppcstate.State{}.GPR))
	offLR     = int32(unsafe.Offsetof(ppcstate.State{}.LR))
	offCTR    = int32(unsafe.Offsetof(ppcstate.State{}.CTR))
	offXER    = int32(unsafe.Offsetof(ppcstate.State{}.XER))
	offMSR    = int32(unsafe.Offsetof(ppcstate.State{}.MSR))
	offPC     = int32(unsafe.Offsetof(ppcstate.State{}.PC))
	offICount = int32(unsafe.Offsetof(ppcstate.State{}.ICount))
)

// gprOffset returns the byte offset of GPR[n] within ppcstate.State.
func gprOffset(n uint32) int32 { return offGPR + int32(n)*4 }

// Exit codes a compiled block leaves in EAX when it returns control to the
// scheduler (spec.md §9 "Emitted-code calling convention": "result returned
// in the accumulator register").
const (
	// ExitContinue means the block ran to a control-transfer instruction
	// (or a quantum check that still had budget left) and state.PC already
	// holds the next guest address to dispatch.
	ExitContinue uint32 = 0

	// ExitQuantum means state.ICount reached zero; the scheduler should
	// stop this quantum and account for cycles consumed.
	ExitQuantum uint32 = 1

	// ExitHelper means the next instruction at state.PC could not be
	// inlined; the scheduler must run it through internal/interp and
	// resume dispatching afterward.
	ExitHelper uint32 = 2
)

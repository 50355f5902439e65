//go:build linux && 386

// Package nativecall is the one place the DRC crosses from Go into raw
// emitted machine code and back. Translated blocks are the only native code
// living in internal/codecache's arena; entering that arena from a goroutine stack and returning a value
// requires an architecture-specific trampoline, the same way the Go
// runtime itself crosses into assembly via a func declared without a body
// paired with a per-GOARCH .s file.
//
// Invoke implements the calling convention spec.md §9 "Emitted-code
// calling convention" recommends when a host language can't guarantee a
// native calling convention for its own functions: one argument (the
// architectural-state pointer) pushed on the stack, result returned in the
// accumulator register, everything else callee-saved. state is the
// *ppcstate.State pointer every block and helper call receives so it can
// read and mutate GPRs/SPRs without a global.
package nativecall

// Invoke jumps to entry (a native code address inside the code cache),
// passing state as its single stack argument, and returns the value left
// in the accumulator register when the callee returns. The callee is a
// dispatch entry point inside a compiled block, which returns one of
// internal/xlate's exit codes (ExitContinue, ExitQuantum, ExitHelper).
func Invoke(entry uintptr, state uintptr) uint32

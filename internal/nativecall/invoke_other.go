//go:build !(linux && 386)

package nativecall

import "github.com/trzy/ppc603edrc/internal/fatal"

// Invoke is unavailable outside linux/386: spec.md §1 scopes the emitted
// host code to "a 32-bit little-endian machine with eight general-purpose
// integer registers", and entering raw machine code from Go requires a
// matching architecture-specific trampoline. Everything upstream of
// actually jumping into the cache (the emitter, translator, block
// compiler, dispatch tables) builds and tests fine on any platform; only
// this final hop is restricted.
func Invoke(entry uintptr, state uintptr) uint32 {
	fatal.Abort("nativecall: Invoke requires GOOS=linux GOARCH=386", "entry", entry)
	return 0
}

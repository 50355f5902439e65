// Package membus defines the memory bus facade the DRC calls through
// (spec.md §4.3): four read and four write entry points, one per access
// width, addressed in guest big-endian order. The bus itself — RAM sizing,
// device register dispatch, the other CPU cores' views of the same
// address space — is an external collaborator (spec.md §1 non-goals); this
// package only defines the contract and the fast-path RAM window the
// emitted code is allowed to dereference directly.
//
// The interface has one separately named read and write method per access
// width (Read8..Read64, Write8..Write64), so callers pick the width by
// method name rather than passing a size argument.
package membus

// Bus is the full interface the DRC's cold-path memory instructions call
// through. All addresses are guest-addressed (big-endian byte order);
// implementations are responsible for any endian conversion their backing
// device requires and for serializing accesses from other CPU cores
// running on other threads (spec.md §5 "Shared-resource policy").
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Read64(addr uint32) uint64

	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
	Write64(addr uint32, v uint64)
}

// FastRAM describes the hot-path RAM window the compiler may dereference
// directly from emitted code instead of calling through Bus (spec.md
// §4.3's "fast path bypasses the call when the guest address is proven to
// lie in the first 8 MiB of RAM"). HostBase is the host address of guest
// address 0; Size is the byte length of the window. The block compiler
// emits a bounds compare against Size and, on success, a direct
// byte-swapped load/store against HostBase+addr instead of a bus call.
type FastRAM struct {
	HostBase uintptr
	Size     uint32
}

// Covers reports whether addr falls inside the fast RAM window.
func (f FastRAM) Covers(addr uint32) bool {
	return f.Size != 0 && addr < f.Size
}

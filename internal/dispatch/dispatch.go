// Package dispatch implements the DRC's two-level address-to-native
// lookup (spec.md §3 "Code cache" / §4.6 "Dispatch Tables"): one sub-table
// for the RAM execute region (guest addresses 0x00000000-0x007FFFFF), one
// for the ROM execute region (0xFF800000-0xFFFFFFFF), and a shared
// invalid-region sink for every other address. Each sub-table holds one
// slot per four-byte instruction (guest_pc >> 2 within the region).
package dispatch

import "github.com/trzy/ppc603edrc/internal/fatal"

const (
	ramBase  = 0x00000000
	ramSize  = 0x00800000
	ramSlots = ramSize / 4

	romBase  = 0xFF800000
	romSize  = 0x00800000
	romSlots = romSize / 4
)

// Entry is a native code address installed in a dispatch slot. A zero
// Entry is never produced by Table itself; CompileStub and InvalidStub are
// reserved sentinel values callers install explicitly.
type Entry uintptr

// Table is the two-level dispatch structure for one guest address space.
// Addresses outside the RAM and ROM execute regions always resolve to
// InvalidStub (spec.md §7 "Fetch from unmapped region: the dispatcher
// lands in the invalid sub-table and aborts").
type Table struct {
	ram [ramSlots]Entry
	rom [romSlots]Entry

	// CompileStub is the native address installed in every slot at Reset:
	// the entry point that triggers on-demand translation of the block
	// starting at that slot's guest address.
	CompileStub Entry

	// InvalidStub is the native address returned for any guest PC outside
	// both execute regions. Landing here is the "fetch from unmapped
	// region" fatal case (spec.md §7); the stub itself, not this package,
	// performs the abort, since only the scheduler knows the guest PC to
	// report.
	InvalidStub Entry
}

// NewTable builds a table with every RAM/ROM slot pointed at compileStub,
// matching the reset-time state spec.md §3 describes ("tables are
// invalidated -- pointed back at the compile stub -- on reset").
func NewTable(compileStub, invalidStub Entry) *Table {
	t := &Table{CompileStub: compileStub, InvalidStub: invalidStub}
	t.Reset()
	return t
}

// Reset repoints every RAM/ROM slot at CompileStub, discarding all
// previously compiled block addresses. Called on system reset and
// whenever the code cache itself is reset, since a reset cache no longer
// contains the code any stale slot pointed at.
func (t *Table) Reset() {
	for i := range t.ram {
		t.ram[i] = t.CompileStub
	}
	for i := range t.rom {
		t.rom[i] = t.CompileStub
	}
}

// Lookup returns the native entry point for guest address pc. Addresses
// not aligned to a 4-byte instruction boundary are a translator bug, not
// guest-controllable input, and abort immediately rather than silently
// masking the low bits.
func (t *Table) Lookup(pc uint32) Entry {
	if pc&3 != 0 {
		fatal.Abort("dispatch: unaligned guest PC", "pc", pc)
	}
	switch {
	case pc >= ramBase && pc < ramBase+ramSize:
		return t.ram[(pc-ramBase)/4]
	case pc >= romBase:
		// romBase+romSize wraps to 0 on a 32-bit guest address, so the
		// upper bound is implicit: romBase is 0xFF800000 and the region
		// runs to 0xFFFFFFFF.
		return t.rom[(pc-romBase)/4]
	default:
		return t.InvalidStub
	}
}

// Install registers the native entry point for a freshly compiled block
// starting at guest address pc. pc must fall within the RAM or ROM execute
// region; installing outside either is a translator bug.
func (t *Table) Install(pc uint32, entry Entry) {
	switch {
	case pc >= ramBase && pc < ramBase+ramSize:
		t.ram[(pc-ramBase)/4] = entry
	case pc >= romBase:
		t.rom[(pc-romBase)/4] = entry
	default:
		fatal.Abort("dispatch: install outside RAM/ROM execute regions", "pc", pc)
	}
}

// Covers reports whether pc falls within either execute region, without
// consulting or mutating a slot.
func Covers(pc uint32) bool {
	return (pc >= ramBase && pc < ramBase+ramSize) || pc >= romBase
}

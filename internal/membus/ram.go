package membus

import (
	"encoding/binary"
	"unsafe"
)

// RAM sizing per spec.md §3: the RAM execute region spans guest addresses
// 0x00000000-0x007FFFFF and the ROM execute region spans
// 0xFF800000-0xFFFFFFFF, each 8 MiB.
const (
	ramSize  = 8 * 1024 * 1024
	romBase  = 0xFF800000
	romSize  = 8 * 1024 * 1024
)

// RAM is a flat big-endian byte-array bus backing exactly the RAM and ROM
// fetch regions spec.md §3 names. Addresses outside both regions panic,
// the same way a real device map would fault on an unmapped access; the
// DRC itself never issues a bus call for an address the dispatch tables
// haven't already proven falls in a mapped region.
//
// The flat-array-plus-masked-index approach follows go-chip-m68k's
// testBus (cpu_test.go), adapted to big-endian, to the four widths
// spec.md §4.3 specifies, and to the RAM/ROM split this machine has.
type RAM struct {
	ram [ramSize]byte
	rom [romSize]byte
}

// NewRAM allocates a fresh, zeroed RAM+ROM backing.
func NewRAM() *RAM { return &RAM{} }

// region returns the byte slice and base-relative offset covering addr, or
// nil if addr falls outside both regions.
func (r *RAM) region(addr uint32) ([]byte, uint32) {
	if addr < ramSize {
		return r.ram[:], addr
	}
	if addr >= romBase {
		return r.rom[:], addr - romBase
	}
	return nil, 0
}

func (r *RAM) Read8(addr uint32) uint8 {
	m, off := r.region(addr)
	return m[off]
}

func (r *RAM) Read16(addr uint32) uint16 {
	m, off := r.region(addr)
	return binary.BigEndian.Uint16(m[off : off+2])
}

func (r *RAM) Read32(addr uint32) uint32 {
	m, off := r.region(addr)
	return binary.BigEndian.Uint32(m[off : off+4])
}

func (r *RAM) Read64(addr uint32) uint64 {
	m, off := r.region(addr)
	return binary.BigEndian.Uint64(m[off : off+8])
}

func (r *RAM) Write8(addr uint32, v uint8) {
	m, off := r.region(addr)
	m[off] = v
}

func (r *RAM) Write16(addr uint32, v uint16) {
	m, off := r.region(addr)
	binary.BigEndian.PutUint16(m[off:off+2], v)
}

func (r *RAM) Write32(addr uint32, v uint32) {
	m, off := r.region(addr)
	binary.BigEndian.PutUint32(m[off:off+4], v)
}

func (r *RAM) Write64(addr uint32, v uint64) {
	m, off := r.region(addr)
	binary.BigEndian.PutUint64(m[off:off+8], v)
}

// RAMHostBase returns the host address of guest address 0, for building a
// FastRAM window (spec.md §4.3) over this bus's RAM region.
func (r *RAM) RAMHostBase() uintptr {
	return uintptr(unsafe.Pointer(&r.ram[0]))
}

// ROMHostBase returns the host address of guest address romBase, for
// building a FetchRegion over this bus's ROM region.
func (r *RAM) ROMHostBase() uintptr {
	return uintptr(unsafe.Pointer(&r.rom[0]))
}

// Package codecache manages the DRC's executable host-memory arena
// (spec.md §3 "Code cache"): a single contiguous ~8 MiB region allocated
// once at startup, appended to monotonically as blocks compile, and reset
// (not freed) on system reset.
//
// The mmap/mprotect sequence — reserve RW, copy code in, flip to RX —
// follows tinyrange-cc/internal/asm/amd64/exec.go's createAssemblyTrampoline,
// the pack's only example of allocating and executing JIT-compiled machine
// code from Go.
package codecache

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/trzy/ppc603edrc/internal/fatal"
)

// DefaultSize is the cache size spec.md §3 specifies: "~8 MiB".
const DefaultSize = 8 * 1024 * 1024

// Cache is the code cache arena. Addresses handed out by Append are stable
// for the lifetime of the Cache (or until Reset), so dispatch-table entries
// may embed them as absolute native pointers (spec.md §9 "the arena owns
// all emitted code; dispatch-table entries are non-owning references").
type Cache struct {
	mem      []byte
	write    int
	log      *slog.Logger
	capacity int
}

// New allocates a size-byte RW region. Append flips the region to RW, copies
// the new code in, and flips it back to RX on every call, since
// self-modifying guest RAM is out of scope (spec.md §9) but the cache
// itself is grown incrementally at JIT time.
func New(size int, log *slog.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if log == nil {
		log = slog.Default()
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("codecache: mmap %d bytes: %w", size, err)
	}
	return &Cache{mem: mem, log: log, capacity: size}, nil
}

// Close releases the underlying mapping. The DRC does not call this during
// normal operation — spec.md §3 says the cache is reset, not freed, across
// a guest system reset — but it exists for clean process shutdown.
func (c *Cache) Close() error {
	if c.mem == nil {
		return nil
	}
	err := unix.Munmap(c.mem)
	c.mem = nil
	return err
}

// Pos returns the current write pointer, the native address new code will
// be appended at.
func (c *Cache) Pos() int { return c.write }

// BaseAddr returns the host address of byte 0 of the cache, used to turn a
// Pos() offset into an absolute native function pointer.
func (c *Cache) BaseAddr() uintptr {
	if len(c.mem) == 0 {
		return 0
	}
	return addrOf(c.mem)
}

// Append writes code to the cache and returns the offset it was written
// at. Cache overflow is a hard, unrecoverable failure (spec.md §7
// "Code-cache overflow"): the cache is fixed-size by design, so exceeding
// it aborts the process rather than returning an error the caller could
// plausibly ignore.
func (c *Cache) Append(code []byte) int {
	if c.write+len(code) > len(c.mem) {
		fatal.Abort("codecache: arena exhausted", "capacity", len(c.mem), "requested", c.write+len(code))
	}
	if err := unix.Mprotect(c.mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		fatal.Abort("codecache: mprotect rw failed", "error", err)
	}
	pos := c.write
	copy(c.mem[pos:], code)
	c.write += len(code)
	if err := unix.Mprotect(c.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		fatal.Abort("codecache: mprotect rx failed", "error", err)
	}
	return pos
}

// Reset rewinds the write pointer to the start of the cache without
// releasing the mapping (spec.md §3: "reset (not freed) on system reset").
// Callers must separately reset any dispatch tables and re-emit the
// pre-compiled stubs the reset cache no longer contains.
func (c *Cache) Reset() {
	c.write = 0
}

// Capacity returns the arena size in bytes.
func (c *Cache) Capacity() int { return c.capacity }

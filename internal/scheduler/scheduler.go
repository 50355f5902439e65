// Package scheduler implements the quantum loop and interrupt gate spec.md
// §4.7 describes: it owns the icount/stolen-cycles budget for one
// execute(cycles) call, arbitrates pending interrupts against MSR.EE,
// pre-shortens the quantum when the decrementer is due to fire within it,
// and drives the dispatch-table lookup / on-demand compile / native-entry
// sequence that is the DRC's actual run loop.
//
// The "return to Go on every control transfer or helper instruction"
// design (rather than chaining compiled blocks together with native jumps
// through the dispatcher) follows the same reasoning spec.md §9 gives for
// the host-exit calling convention: a host language that cannot guarantee
// its own functions a native calling convention needs an explicit boundary
// crossing, and internal/nativecall.Invoke is that crossing. Every
// compiled block is therefore exactly the run of instructions the
// translator could chain inline, terminated by one Invoke-to-Invoke
// round trip.
package scheduler

import (
	"log/slog"
	"unsafe"

	"github.com/trzy/ppc603edrc/internal/codecache"
	"github.com/trzy/ppc603edrc/internal/dispatch"
	"github.com/trzy/ppc603edrc/internal/fatal"
	"github.com/trzy/ppc603edrc/internal/interp"
	"github.com/trzy/ppc603edrc/internal/membus"
	"github.com/trzy/ppc603edrc/internal/nativecall"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
	"github.com/trzy/ppc603edrc/internal/xlate"
)

// Scheduler is the DRC's run loop: architectural state plus everything
// needed to resolve a guest PC to native code and run it.
type Scheduler struct {
	State    *ppcstate.State
	Bus      membus.Bus
	Dispatch *dispatch.Table
	Cache    *codecache.Cache
	Compiler *xlate.Compiler
	Interp   *interp.Machine
	log      *slog.Logger
}

// New returns a Scheduler ready to run quanta against state.
func New(state *ppcstate.State, bus membus.Bus, table *dispatch.Table, cache *codecache.Cache, compiler *xlate.Compiler, m *interp.Machine, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{State: state, Bus: bus, Dispatch: table, Cache: cache, Compiler: compiler, Interp: m, log: log}
}

// Execute runs up to cycles guest cycles, honoring decrementer
// pre-scheduling and pending-interrupt delivery between quanta, and
// returns the number of cycles actually consumed (spec.md §6
// "execute(cycles) -> cycles_consumed").
func (s *Scheduler) Execute(cycles uint32) uint32 {
	var consumed uint32
	for consumed < cycles {
		remaining := cycles - consumed
		quantum := s.computeQuantum(remaining)
		s.deliverPendingInterrupts()

		decBefore := s.State.Decrementer()
		s.State.ICount = int32(quantum)
		s.runQuantum()
		used := quantum - uint32(s.State.ICount)

		s.State.AdvanceCycles(uint64(used))
		consumed += used
		s.latchDecrementer(decBefore)
	}
	return consumed
}

// SetIRQLine asserts the external interrupt line (spec.md §6
// "set_irq_line()"), latching the pending bit and, if interrupts are
// currently enabled, cutting the in-flight quantum short so the next
// iteration of Execute's loop delivers it immediately.
func (s *Scheduler) SetIRQLine() {
	s.State.Pending |= ppcstate.PendingExternal
	if s.State.MSR&ppcstate.MSREE != 0 {
		s.State.ICount = 0
	}
}

// computeQuantum implements spec.md §4.7 step 1: shorten the requested
// cycle budget so the quantum ends exactly when the decrementer is due to
// wrap, but only when that shortening could actually matter (MSR.EE set,
// so the resulting pending bit will be delivered promptly, and the
// decrementer hasn't already wrapped as of this call).
func (s *Scheduler) computeQuantum(remaining uint32) uint32 {
	if s.State.MSR&ppcstate.MSREE == 0 || s.State.Decrementer() <= 0 {
		return remaining
	}
	cur := s.State.Cycle()
	fire := s.State.DecrementerFireCycle()
	if fire < cur {
		return remaining
	}
	untilFire := fire - cur
	if untilFire == 0 {
		// The decrementer is due this very cycle; run one cycle so the
		// quantum always makes forward progress before latching it.
		untilFire = 1
	}
	if untilFire < uint64(remaining) {
		return uint32(untilFire)
	}
	return remaining
}

// deliverPendingInterrupts implements spec.md §4.7 step 2: external takes
// priority over decrementer, and neither is delivered unless MSR.EE is set.
func (s *Scheduler) deliverPendingInterrupts() {
	if s.State.MSR&ppcstate.MSREE == 0 {
		return
	}
	switch {
	case s.State.Pending&ppcstate.PendingExternal != 0:
		s.State.DeliverException(ppcstate.VectorExternal, s.State.PC)
	case s.State.Pending&ppcstate.PendingDecr != 0:
		s.State.DeliverException(ppcstate.VectorDecr, s.State.PC)
	}
}

// latchDecrementer implements spec.md §4.7 step 5. The decrementer exception
// is edge-triggered (spec.md §3 "Decrementer": fires once per wrap, not
// continuously while negative), so the pending bit is only set on the
// transition from positive to zero-or-negative across this quantum;
// otherwise an unserviced wrap (MSR.EE was off, or the handler never
// reloaded DEC) would re-arm itself on every later quantum boundary.
func (s *Scheduler) latchDecrementer(before int32) {
	if before > 0 && s.State.Decrementer() <= 0 {
		s.State.Pending |= ppcstate.PendingDecr
	}
}

// runQuantum repeatedly dispatches to native code (compiling on first
// reference) until the quantum's icount budget is exhausted. A helper-exit
// hands exactly one instruction to the interpreter and charges it one
// cycle, matching the cost the translator charges an inlined instruction.
func (s *Scheduler) runQuantum() {
	for s.State.ICount > 0 {
		entry := s.lookupOrCompile(s.State.PC)
		exit := nativecall.Invoke(uintptr(entry), uintptr(unsafe.Pointer(s.State)))
		switch exit {
		case xlate.ExitHelper:
			// The instruction's cycle was already charged by the emitted
			// cycle check before it exited; Step must not charge it again.
			s.Interp.Step()
		case xlate.ExitQuantum:
			return
		case xlate.ExitContinue:
			// state.PC was updated by the block; loop back and re-dispatch.
		}
	}
}

// lookupOrCompile resolves pc to a native entry point, compiling the block
// on a dispatch-table miss (spec.md §4.6 "A miss on the compile stub
// triggers on-demand translation"). A miss on the invalid stub is the
// "fetch from unmapped region" fatal condition (spec.md §7); only the
// scheduler knows the guest PC to report, which is why dispatch.Table
// itself defers the abort here.
func (s *Scheduler) lookupOrCompile(pc uint32) dispatch.Entry {
	e := s.Dispatch.Lookup(pc)
	switch e {
	case s.Dispatch.InvalidStub:
		fatal.Abort("scheduler: fetch from unmapped region", "pc", pc)
		return e
	case s.Dispatch.CompileStub:
		region, ok := s.State.FindRegion(pc)
		if !ok {
			fatal.Abort("scheduler: no fetch region backs compiled pc", "pc", pc)
			return s.Dispatch.InvalidStub
		}
		entry, err := s.Compiler.Compile(pc, region)
		if err != nil {
			fatal.Abort("scheduler: block compile failed", "pc", pc, "error", err)
			return s.Dispatch.InvalidStub
		}
		return entry
	default:
		return e
	}
}

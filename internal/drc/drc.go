// Package drc composes the DRC's individually-tested components
// (architectural state, memory bus, code cache, dispatch tables,
// translator, scheduler) into spec.md §6's external interface: init,
// reset, execute, set_irq_line, and the debug accessors a host harness
// uses to inspect or drive the core directly.
package drc

import (
	"log/slog"

	"github.com/trzy/ppc603edrc/internal/codecache"
	"github.com/trzy/ppc603edrc/internal/config"
	"github.com/trzy/ppc603edrc/internal/dispatch"
	"github.com/trzy/ppc603edrc/internal/fatal"
	"github.com/trzy/ppc603edrc/internal/interp"
	"github.com/trzy/ppc603edrc/internal/membus"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
	"github.com/trzy/ppc603edrc/internal/scheduler"
	"github.com/trzy/ppc603edrc/internal/xlate"
)

// sentinel dispatch entries. Neither is ever passed to nativecall.Invoke:
// scheduler.lookupOrCompile intercepts both before entering native code, so
// their numeric value only has to be distinct from every real code-cache
// address codecache.Cache.BaseAddr hands out (a live mmap region, never
// address 0 or 1).
const (
	compileStub dispatch.Entry = 0
	invalidStub dispatch.Entry = 1
)

// Config is the init contract spec.md §6/§7 describes: processor model and
// bus configuration (validated against the PLL compatibility table), the
// memory bus implementation, the fetch regions backing it, and the
// code-cache size to reserve.
type Config struct {
	Model            config.ProcessorModel
	BusFrequencyMHz  int
	ClockRatioTenths int

	Bus     membus.Bus
	Regions []ppcstate.FetchRegion
	Fast    membus.FastRAM

	CodeCacheSize int
	Log           *slog.Logger
}

// pvrFor returns the PVR value original_source/ppc_drc/ppc_drc.c installs
// per processor model.
func pvrFor(m config.ProcessorModel) uint32 {
	switch m {
	case config.Model603EV:
		return 0x00060104
	case config.Model603R:
		return 0x00070101
	default:
		return 0x00030105
	}
}

// DRC is the composed top-level core: the single type a host harness
// drives through spec.md §6's contract.
type DRC struct {
	state    *ppcstate.State
	bus      membus.Bus
	cache    *codecache.Cache
	dispatch *dispatch.Table
	compiler *xlate.Compiler
	sched    *scheduler.Scheduler
	interp   *interp.Machine
	resolved config.Resolved
	log      *slog.Logger
}

// Init validates cfg's PLL/bus configuration, wires the code cache,
// dispatch tables, and architectural state, and returns a DRC ready for
// Reset. An invalid bus/multiplier combination is one of spec.md §7's two
// startup-abort conditions.
func Init(cfg Config) (*DRC, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	fatal.SetLogger(log)

	resolved, err := config.Resolve(config.Config{
		Model:            cfg.Model,
		BusFrequencyMHz:  cfg.BusFrequencyMHz,
		ClockRatioTenths: cfg.ClockRatioTenths,
	}, log)
	if err != nil {
		fatal.Abort("drc: unconfigured PLL", "error", err)
		return nil, err
	}

	cache, err := codecache.New(cfg.CodeCacheSize, log)
	if err != nil {
		return nil, err
	}

	table := dispatch.NewTable(compileStub, invalidStub)

	s := ppcstate.New()
	s.PVR = pvrFor(cfg.Model)
	s.HID1 = resolved.HID1()
	s.Regions = cfg.Regions

	m := interp.New(s, cfg.Bus)
	compiler := &xlate.Compiler{
		Translator: &xlate.Translator{Fast: cfg.Fast},
		Cache:      cache,
		Dispatch:   table,
	}
	sched := scheduler.New(s, cfg.Bus, table, cache, compiler, m, log)

	d := &DRC{
		state:    s,
		bus:      cfg.Bus,
		cache:    cache,
		dispatch: table,
		compiler: compiler,
		sched:    sched,
		interp:   m,
		resolved: resolved,
		log:      log,
	}
	d.Reset()
	return d, nil
}

// Reset implements spec.md §6's reset(): the code cache and dispatch
// tables are cleared (not freed) and the architectural state returns to
// its power-on values, preserving PVR/HID1/Regions across the reset the
// same way ppcstate.State.Reset documents.
func (d *DRC) Reset() {
	d.cache.Reset()
	d.dispatch.Reset()
	d.state.Reset()
}

// Execute runs up to cycles guest cycles and returns the number actually
// consumed (spec.md §6 "execute(cycles) -> cycles_consumed").
func (d *DRC) Execute(cycles uint32) uint32 {
	return d.sched.Execute(cycles)
}

// SetIRQLine asserts the external interrupt line (spec.md §6
// "set_irq_line()").
func (d *DRC) SetIRQLine() {
	d.sched.SetIRQLine()
}

// GetPC/SetPC and the GPR/SPR accessors below are the debug interface
// spec.md §6 names for host harnesses that need to inspect or drive guest
// state directly (save states, debuggers, scripted test fixtures).

func (d *DRC) GetPC() uint32          { return d.state.PC }
func (d *DRC) SetPC(pc uint32)        { d.state.PC = pc }
func (d *DRC) GetGPR(n int) uint32    { return d.state.GPR[n&0x1F] }
func (d *DRC) SetGPR(n int, v uint32) { d.state.GPR[n&0x1F] = v }

// GetSPR/SetSPR expose the full special-purpose-register file by number
// (spec.md §4.2), including the cold SPRs the translator never inlines.
func (d *DRC) GetSPR(n int) (uint32, error) { return d.state.GetSPR(n) }
func (d *DRC) SetSPR(n int, v uint32) error {
	_, err := d.state.SetSPR(n, v)
	return err
}

func (d *DRC) GetCR() uint32  { return d.state.PackedCR() }
func (d *DRC) SetCR(v uint32) { d.state.SetPackedCR(v) }
func (d *DRC) GetMSR() uint32 { return d.state.MSR }

// SetMSR writes MSR through the same preemption rule the interpreter's
// mtmsr uses: if the write enables external interrupts while one is
// already pending, the scheduler is told to cut the in-flight quantum
// short rather than run it to completion.
func (d *DRC) SetMSR(v uint32) {
	if d.state.SetMSR(v) {
		d.state.ICount = 0
	}
}

// State exposes the underlying architectural state for callers (tests,
// save-state code) that need direct field access beyond the named
// accessors above.
func (d *DRC) State() *ppcstate.State { return d.state }

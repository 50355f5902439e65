package xlate

import (
	"github.com/trzy/ppc603edrc/internal/codecache"
	"github.com/trzy/ppc603edrc/internal/dispatch"
	"github.com/trzy/ppc603edrc/internal/hostasm"
	"github.com/trzy/ppc603edrc/internal/interp"
	"github.com/trzy/ppc603edrc/internal/ppcstate"
)

// instructionSite records the code-cache-relative offset at which one
// guest instruction's translated bytes begin within a compiled block.
type instructionSite struct {
	pc     uint32
	offset int
}

// CompileBlock walks region's instruction stream starting at startPC,
// translating each instruction into ctx until the translator signals
// end-of-block (spec.md §4.5 steps 2-5). It returns the finalized context
// together with one instructionSite per translated instruction: every PC
// in the block gets its own dispatch-table entry pointing at the code that
// begins executing from that instruction onward, so a later block that
// jumps into the middle of this one reuses the existing translation
// instead of recompiling it.
func CompileBlock(t *Translator, region ppcstate.FetchRegion, startPC uint32) (*hostasm.Context, []instructionSite, error) {
	ctx := hostasm.NewContext()

	var sites []instructionSite
	pc := startPC
	for {
		site := instructionSite{pc: pc, offset: ctx.Pos()}
		sites = append(sites, site)
		// Every site is a dispatch entry point, so each one loads the state
		// pointer into StateReg itself.
		ctx.MovRegMem(StateReg, hostasm.D(hostasm.ESP, 4))

		word := region.FetchWord(pc)
		d := interp.Decode(word)
		end := t.translateOne(ctx, d, pc)
		if end {
			break
		}
		pc += 4
		if !region.Contains(pc) {
			break
		}
	}

	if err := ctx.Finalize(); err != nil {
		return nil, nil, err
	}
	return ctx, sites, nil
}

// Compiler is the Block Compiler (spec.md §4.5): it owns the code cache and
// dispatch table a Translator's output is installed into.
type Compiler struct {
	Translator *Translator
	Cache      *codecache.Cache
	Dispatch   *dispatch.Table
}

// Compile translates the block starting at pc and installs one dispatch
// entry per instruction translated (spec.md §4.5 step 1, repeated per
// instruction per this package's CompileBlock doc comment). It returns the
// entry for pc itself, the address the caller should enter immediately.
func (c *Compiler) Compile(pc uint32, region ppcstate.FetchRegion) (dispatch.Entry, error) {
	ctx, sites, err := CompileBlock(c.Translator, region, pc)
	if err != nil {
		return 0, err
	}
	base := c.Cache.Append(ctx.Bytes())
	baseAddr := c.Cache.BaseAddr()

	var entryForPC dispatch.Entry
	for _, s := range sites {
		addr := dispatch.Entry(baseAddr + uintptr(base+s.offset))
		c.Dispatch.Install(s.pc, addr)
		if s.pc == pc {
			entryForPC = addr
		}
	}
	return entryForPC, nil
}

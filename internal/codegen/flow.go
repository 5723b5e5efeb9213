package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// FlowKind distinguishes the two flow-block roles of the GLOSSARY entry
// "Flow block": LoopOuter is the break target, LoopIter the continue
// target.
type FlowKind int

const (
	LoopOuter FlowKind = iota
	LoopIter
)

// FlowBlock is one entry of the generator's loop stack (§4.5 "break"/
// "continue", §4.6). Context lets a block record a different context
// than the generator's current one, which is how an iterator's outer
// block, stamped with the caller's context at splice time (§4.6 step 4),
// remains visible to `break` running under the caller's context while
// the iterator's own internal loops stay invisible to it.
type FlowBlock struct {
	Kind    FlowKind
	Context symbols.ContextID

	// LocalDepthAtPush records LocalDepth when the block was pushed, so
	// break/continue know how many locals above the block to discard.
	LocalDepthAtPush int

	// BreakHoles are jumpFwd holes recorded by `break`, patched to just
	// past the loop when it closes.
	BreakHoles []int

	// For a backward-jumping loop (while): LoopTop is the bytecode offset
	// continue jumps back to; HasLoopTop reports whether this block uses
	// that form. For a spliced iterator body (for), continue instead
	// falls through to ContinueHoles, patched at the end of the yield
	// splice (§4.6 step 7).
	HasLoopTop    bool
	LoopTop       int
	ContinueHoles []int
}

func (g *Generator) pushFlow(kind FlowKind, ctx symbols.ContextID) *FlowBlock {
	fb := &FlowBlock{Kind: kind, Context: ctx, LocalDepthAtPush: g.LocalDepth}
	g.FlowStack = append(g.FlowStack, fb)
	return fb
}

func (g *Generator) popFlow() {
	g.FlowStack = g.FlowStack[:len(g.FlowStack)-1]
}

// findFlow returns the nearest flow block of kind whose Context equals
// g.Context, or nil.
func (g *Generator) findFlow(kind FlowKind) *FlowBlock {
	for i := len(g.FlowStack) - 1; i >= 0; i-- {
		fb := g.FlowStack[i]
		if fb.Kind == kind && fb.Context == g.Context {
			return fb
		}
	}
	return nil
}

// discardAbove emits `nDiscard <n>` for the locals live above
// depthAtPush, used by break/continue before jumping out of their
// enclosing scopes (§4.5 "Break sequence").
func (g *Generator) discardAbove(depthAtPush int) {
	n := g.LocalDepth - depthAtPush
	if n > 0 {
		g.Chunk.EmitOp(script.OpNDiscard)
		g.Chunk.EmitU8(uint8(n))
	}
}

func (g *Generator) genBreak(n *ast.Node) {
	fb := g.findFlow(LoopOuter)
	if fb == nil {
		g.fail(diagnostics.ErrOnlyUsableInALoop, n, "break is only usable inside a loop")
	}
	g.pos(n)
	g.discardAbove(fb.LocalDepthAtPush)
	g.Chunk.EmitOp(script.OpJumpFwd)
	hole := g.Chunk.EmitHole()
	fb.BreakHoles = append(fb.BreakHoles, hole)
}

func (g *Generator) genContinue(n *ast.Node) {
	fb := g.findFlow(LoopIter)
	if fb == nil {
		g.fail(diagnostics.ErrOnlyUsableInABlock, n, "continue is only usable inside a loop")
	}
	g.pos(n)
	g.discardAbove(fb.LocalDepthAtPush)
	if fb.HasLoopTop {
		g.Chunk.EmitOp(script.OpJumpBack)
		off := g.Chunk.EmitHole()
		g.Chunk.PatchBackJumpU16(off, fb.LoopTop)
		return
	}
	g.Chunk.EmitOp(script.OpJumpFwd)
	hole := g.Chunk.EmitHole()
	fb.ContinueHoles = append(fb.ContinueHoles, hole)
}

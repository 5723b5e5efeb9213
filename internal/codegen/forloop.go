package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// genFor implements §4.6 "for-Loop Lowering (Iterator Splicing)": the
// iterator named by the loop's source call is compiled inline into the
// surrounding chunk, with its `yield` sites rewritten to run the
// for-loop body, instead of through a real iterator object.
func (g *Generator) genFor(n *ast.Node) {
	iterCallNode, body := n.Children[0], n.Children[1]
	calleeNode, genericArgs, argNodes := ast.SplitCall(iterCallNode)

	iterSym := g.resolveCallee(calleeNode, genericArgs)
	if iterSym.Kind != symbols.KindIterator {
		g.fail(diagnostics.ErrNotAProc, iterCallNode, "%q is not an iterator", calleeNode.Ident)
	}

	// Step 2: clone the generator into an Iterator-kind sub-generator.
	// Unlike a procedure's sub-generator, this one shares g's chunk: the
	// whole point of splicing is that the iterator's body is compiled
	// directly into the surrounding code, never into a chunk of its own.
	iterGen := &Generator{
		Kind:         GenIterator,
		Script:       g.Script,
		Chunk:        g.Chunk,
		Module:       g.Module,
		Contexts:     g.Contexts,
		YieldTy:      iterSym.YieldTy,
		IterForBody:  body,
		IterForVar:   n.Ident,
		IterForCtx:   g.Context,
		splicing:     true,
		LocalDepth:   g.LocalDepth,
		NextStackPos: g.NextStackPos,
	}

	// Step 3: fresh context for the iterator's own scopes.
	iterCtx := g.Contexts.New()
	iterGen.Context = iterCtx
	iterGen.Scope = symbols.NewChildScope(g.Scope)
	iterGen.Scope.Context = iterCtx

	// Step 4: outer flow block stamped with the CALLER's context, so a
	// `break` running under the caller's context (inside the for-body)
	// finds it.
	outer := iterGen.pushFlow(LoopOuter, g.Context)

	// Step 5: argument expressions and overload resolution under the
	// iterator's own context.
	argTypes := make([]*symbols.Sym, len(argNodes))
	for i, a := range argNodes {
		argTypes[i] = iterGen.genExpr(a, nil)
	}
	g.pos(iterCallNode)
	proc, cerr := symbols.ResolveOverload(iterSym, argTypes, iterCallNode.File, iterCallNode.Line, iterCallNode.Col)
	if cerr != nil {
		panic(cerr)
	}

	// Step 6: bind each iterator parameter as a let in the iterator's
	// scope; the argument values are already on the stack in order.
	for _, p := range proc.Params {
		sym := &symbols.Sym{Name: p.Name, Kind: symbols.KindLet, Ty: p.Ty, Set: true}
		iterGen.declareLocal(iterCallNode, p.Name, sym)
	}

	// Step 7: the iterator's body is generated as a statement block;
	// genYield (called while iterGen.Context == iterCtx) performs the
	// context switch and splice back into g.
	iterGen.genBlock(proc.DefNode)

	// The iterator's parameter locals were bound directly into iterGen's
	// scope rather than through a pushScope/popScope pair, so nothing has
	// discarded them yet; the body's own locals already balanced out
	// inside genBlock and genYield.
	if n := len(proc.Params); n > 0 {
		g.pos(body)
		g.Chunk.EmitOp(script.OpNDiscard)
		g.Chunk.EmitU8(uint8(n))
	}

	// Step 8: pop the outer block (patching its break holes, which were
	// recorded directly into g's chunk since the splice writes there)
	// and free the context.
	for _, h := range outer.BreakHoles {
		g.Chunk.PatchHoleU16(h)
	}
	g.Contexts.Free(iterCtx)
}

// genYield implements §4.6 step 7: confirm this yield belongs to the
// iterator (not to user code mistakenly running under the for-loop's own
// context), check the value's type, then splice the for-loop body in at
// this point under the caller's context.
func (g *Generator) genYield(n *ast.Node) {
	if g.Kind != GenIterator || !g.splicing {
		g.fail(diagnostics.ErrOnlyUsableInAnIterator, n, "yield is only usable inside an iterator")
	}
	if g.Context == g.IterForCtx {
		g.fail(diagnostics.ErrOnlyUsableInAnIterator, n, "yield cannot appear inside the for-loop body it feeds")
	}

	valueNode := n.Children[0]
	valueTy := g.genExpr(valueNode, g.YieldTy)
	if !symbols.SameType(valueTy, g.YieldTy) {
		g.fail(diagnostics.ErrTypeMismatch, valueNode, "yield value type %s does not match iterator's yield type %s", valueTy.Name, g.YieldTy.Name)
	}

	savedCtx := g.Context
	g.Context = g.IterForCtx

	fb := g.pushFlow(LoopIter, g.IterForCtx)
	g.pushScope()
	g.Scope.Context = g.IterForCtx
	loopVarSym := &symbols.Sym{Name: g.IterForVar, Kind: symbols.KindLet, Ty: g.YieldTy, Set: true}
	g.declareLocal(n, g.IterForVar, loopVarSym)
	g.pos(n)
	// The value produced by genExpr above is already on top of the
	// stack; declareLocal only assigned it a slot, so store it there.
	g.Chunk.EmitOp(script.OpPopL)
	g.Chunk.EmitU8(loopVarSym.StackPos)

	g.genStmt(g.IterForBody)

	for _, h := range fb.ContinueHoles {
		g.Chunk.PatchHoleU16(h)
	}
	g.popScope()
	g.popFlow()

	g.Context = savedCtx
}

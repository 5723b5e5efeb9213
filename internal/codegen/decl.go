package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// genProcDecl implements §4.5 "Procedures".
func (g *Generator) genProcDecl(n *ast.Node) {
	params, returnTypeNode, body := ast.ProcDeclParts(n)

	declScope := g.Scope
	if len(n.GenericParams) > 0 {
		declScope = g.pushScope()
		for _, gp := range n.GenericParams {
			if cerr := declScope.Add(gp, &symbols.Sym{Name: gp, Kind: symbols.KindGenericParam}, true); cerr != nil {
				panic(withPos(cerr, n))
			}
		}
	}

	paramSyms := make([]symbols.Param, len(params))
	for i, p := range params {
		paramSyms[i] = symbols.Param{Name: p.Ident, Ty: g.resolveTypeRef(p.Children[0])}
	}
	var returnTy *symbols.Sym
	if returnTypeNode != nil {
		returnTy = g.resolveTypeRef(returnTypeNode)
	}

	proc := &symbols.Sym{
		Name:     n.Ident,
		Kind:     symbols.KindProc,
		Params:   paramSyms,
		ReturnTy: returnTy,
		DefNode:  n,
	}
	if len(n.GenericParams) > 0 {
		proc.GenericParams = make([]*symbols.Sym, len(n.GenericParams))
		for i, gp := range n.GenericParams {
			proc.GenericParams[i] = declScope.Syms[gp]
		}
	}

	homeScope := declScope.Parent
	if len(n.GenericParams) == 0 {
		homeScope = declScope
	} else {
		g.popScope()
	}
	proc.ProcID = g.Script.AddProc(&script.Proc{Name: n.Ident, Kind: script.ProcNative, ParamCount: len(params), HasResult: returnTy != nil})
	if cerr := homeScope.Add(n.Ident, proc, homeScope != g.Module.Scope); cerr != nil {
		panic(withPos(cerr, n))
	}

	if len(n.GenericParams) == 0 {
		g.compileProcBody(proc, body)
	}
}

// compileProcBody implements §4.5 "Procedures" step 4: allocate a fresh
// chunk, declare parameters and the synthetic result local, generate the
// body, and emit the trailing return.
func (g *Generator) compileProcBody(proc *symbols.Sym, body *ast.Node) {
	sub := g.clone(GenProc)
	sub.ReturnTy = proc.ReturnTy
	sub.Scope = symbols.NewChildScope(g.Scope)

	for _, p := range proc.Params {
		sym := &symbols.Sym{Name: p.Name, Kind: symbols.KindLet, Ty: p.Ty, Set: true}
		sub.declareLocal(proc.DefNode, p.Name, sym)
	}
	if proc.ReturnTy != nil {
		resultSym := &symbols.Sym{Name: "result", Kind: symbols.KindVar, Ty: proc.ReturnTy, Set: true}
		sub.declareLocal(proc.DefNode, "result", resultSym)
		sub.pos(proc.DefNode)
		sub.Chunk.EmitOp(script.OpPushNil)
		sub.Chunk.EmitU16(primitiveTyID(proc.ReturnTy))
		sub.Chunk.EmitOp(script.OpPopL)
		sub.Chunk.EmitU8(resultSym.StackPos)
	}

	sub.genBlock(body)

	sub.pos(body)
	if proc.ReturnTy != nil {
		resultSym := symbols.Lookup(sub.Scope, sub.Context, "result")
		sub.Chunk.EmitOp(script.OpPushL)
		sub.Chunk.EmitU8(resultSym.StackPos)
		sub.Chunk.EmitOp(script.OpReturnVal)
	} else {
		sub.Chunk.EmitOp(script.OpReturnVoid)
	}

	g.Script.Procs[proc.ProcID].Chunk = sub.Chunk
}

// genIteratorDecl implements §4.5 "Iterators": declaration only
// registers the symbol; no chunk is emitted until a for-loop splices it.
func (g *Generator) genIteratorDecl(n *ast.Node) {
	params, yieldTypeNode, body := ast.ProcDeclParts(n)

	declScope := g.Scope
	if len(n.GenericParams) > 0 {
		declScope = g.pushScope()
		for _, gp := range n.GenericParams {
			if cerr := declScope.Add(gp, &symbols.Sym{Name: gp, Kind: symbols.KindGenericParam}, true); cerr != nil {
				panic(withPos(cerr, n))
			}
		}
	}

	// parseIteratorDecl (§4.5) rejects a missing yield type at parse time,
	// so yieldTypeNode is always present by the time it reaches codegen.
	paramSyms := make([]symbols.Param, len(params))
	for i, p := range params {
		paramSyms[i] = symbols.Param{Name: p.Ident, Ty: g.resolveTypeRef(p.Children[0])}
	}
	yieldTy := g.resolveTypeRef(yieldTypeNode)

	iter := &symbols.Sym{
		Name:    n.Ident,
		Kind:    symbols.KindIterator,
		Params:  paramSyms,
		YieldTy: yieldTy,
		DefNode: body,
	}
	if len(n.GenericParams) > 0 {
		iter.GenericParams = make([]*symbols.Sym, len(n.GenericParams))
		for i, gp := range n.GenericParams {
			iter.GenericParams[i] = declScope.Syms[gp]
		}
	}

	homeScope := g.Scope
	if len(n.GenericParams) > 0 {
		homeScope = declScope.Parent
		g.popScope()
	}
	if cerr := homeScope.Add(n.Ident, iter, homeScope != g.Module.Scope); cerr != nil {
		panic(withPos(cerr, n))
	}
}

// genObjectDecl implements §4.5 "Objects": same skeleton as a
// procedure's header, minus a body, with object_id assigned before
// fields are registered.
func (g *Generator) genObjectDecl(n *ast.Node) {
	declScope := g.Scope
	if len(n.GenericParams) > 0 {
		declScope = g.pushScope()
		for _, gp := range n.GenericParams {
			if cerr := declScope.Add(gp, &symbols.Sym{Name: gp, Kind: symbols.KindGenericParam}, true); cerr != nil {
				panic(withPos(cerr, n))
			}
		}
	}

	ty := &symbols.Sym{
		Name:     n.Ident,
		Kind:     symbols.KindType,
		TypeKind: symbols.TObject,
		ObjectID: g.Script.NextTypeID(),
		DefNode:  n,
	}
	fields := make([]symbols.Field, len(n.Children))
	for i, f := range n.Children {
		fields[i] = symbols.Field{Name: f.Ident, ID: i, Ty: g.resolveTypeRef(f.Children[0])}
	}
	ty.Fields = fields
	if len(n.GenericParams) > 0 {
		ty.GenericParams = make([]*symbols.Sym, len(n.GenericParams))
		for i, gp := range n.GenericParams {
			ty.GenericParams[i] = declScope.Syms[gp]
		}
	}

	homeScope := g.Scope
	if len(n.GenericParams) > 0 {
		homeScope = declScope.Parent
		g.popScope()
	}
	if cerr := homeScope.Add(n.Ident, ty, homeScope != g.Module.Scope); cerr != nil {
		panic(withPos(cerr, n))
	}
}

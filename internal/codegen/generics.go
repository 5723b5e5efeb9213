package codegen

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// instantiate implements §4.4 `instantiate(template, args, error_node) →
// Sym`. The cache and cycle-guard bookkeeping live in package symbols
// (grounded on its own Open Question resolution); this function supplies
// the "recompile the body" step, which needs the generator.
func (g *Generator) instantiate(template *symbols.Sym, args []*symbols.Sym, errNode *ast.Node) *symbols.Sym {
	if cerr := symbols.CheckGenericArgs(template, args, errNode.File, errNode.Line, errNode.Col); cerr != nil {
		panic(cerr)
	}
	inst, key := symbols.LookupInstantiation(template, args)
	if inst != nil {
		return inst
	}

	if cerr := symbols.BeginInstantiation(template, key, errNode.File, errNode.Line, errNode.Col); cerr != nil {
		panic(cerr)
	}
	defer symbols.EndInstantiation(template, key)

	bind := g.pushScope()
	for i, gp := range template.GenericParams {
		if cerr := bind.Add(gp.Name, args[i], true); cerr != nil {
			panic(withPos(cerr, errNode))
		}
	}

	switch {
	case template.Kind == symbols.KindType && template.TypeKind == symbols.TObject:
		inst = g.instantiateObject(template, args, errNode)
	case template.Kind == symbols.KindType:
		inst = shallowCloneType(template, args)
	case template.Kind == symbols.KindProc:
		inst = g.instantiateProc(template, args, errNode)
	default:
		g.fail(diagnostics.ErrNotGeneric, errNode, "%q cannot be instantiated", template.Name)
	}

	g.popScope()
	symbols.StoreInstantiation(template, key, inst)
	return inst
}

// shallowCloneType handles §4.4 step 3's "Non-object type" case: a
// shallow clone with generic_params cleared and generic_inst_args set.
func shallowCloneType(template *symbols.Sym, args []*symbols.Sym) *symbols.Sym {
	clone := *template
	clone.GenericParams = nil
	clone.GenericInstArgs = args
	clone.GenericInstCache = nil
	return &clone
}

// instantiateObject recompiles an object declaration's field list under
// the instantiation scope, assigning it a fresh object_id (§4.4 step 3
// "Object type with body").
func (g *Generator) instantiateObject(template *symbols.Sym, args []*symbols.Sym, errNode *ast.Node) *symbols.Sym {
	inst := &symbols.Sym{
		Name:            template.Name,
		Kind:            symbols.KindType,
		TypeKind:        symbols.TObject,
		ObjectID:        g.Script.NextTypeID(),
		GenericInstArgs: args,
	}
	declNode := template.DefNode
	fields := make([]symbols.Field, len(declNode.Children))
	for i, f := range declNode.Children {
		fields[i] = symbols.Field{Name: f.Ident, ID: i, Ty: g.resolveTypeRef(f.Children[0])}
	}
	inst.Fields = fields
	return inst
}

// instantiateProc recompiles a generic procedure's body with the
// instantiation scope active, producing a fresh Proc entry in the
// script's procedure table (§4.4 step 3 "Procedure").
func (g *Generator) instantiateProc(template *symbols.Sym, args []*symbols.Sym, errNode *ast.Node) *symbols.Sym {
	declNode := template.DefNode
	params, returnTypeNode, body := ast.ProcDeclParts(declNode)

	paramSyms := make([]symbols.Param, len(params))
	for i, p := range params {
		paramSyms[i] = symbols.Param{Name: p.Ident, Ty: g.resolveTypeRef(p.Children[0])}
	}
	var returnTy *symbols.Sym
	if returnTypeNode != nil {
		returnTy = g.resolveTypeRef(returnTypeNode)
	}

	inst := &symbols.Sym{
		Name:            template.Name,
		Kind:            symbols.KindProc,
		Params:          paramSyms,
		ReturnTy:        returnTy,
		DefNode:         declNode,
		GenericInstArgs: args,
	}
	inst.ProcID = g.Script.AddProc(&script.Proc{Name: template.Name, Kind: script.ProcNative, ParamCount: len(params), HasResult: returnTy != nil})
	g.compileProcBody(inst, body)
	return inst
}

package codegen

import (
	"github.com/thornlang/thornc/internal/script"
	"github.com/thornlang/thornc/internal/symbols"
)

// The `system` module referenced by §4.5 ("return the matching primitive
// type from the system module") is these four builtin type symbols,
// declared once and shared by identity across every compilation: type
// identity is by pointer (symbols.SameType), so every generator must see
// the same *symbols.Sym for "number", not a fresh one per module.
var (
	SysVoid   = &symbols.Sym{Name: "void", Kind: symbols.KindType, TypeKind: symbols.TVoid}
	SysBool   = &symbols.Sym{Name: "bool", Kind: symbols.KindType, TypeKind: symbols.TBool}
	SysNumber = &symbols.Sym{Name: "number", Kind: symbols.KindType, TypeKind: symbols.TNumber}
	SysString = &symbols.Sym{Name: "string", Kind: symbols.KindType, TypeKind: symbols.TString}
)

// registerSystem declares the primitive types into a fresh module's root
// scope, so `var x: number` resolves "number" the same way a user-defined
// object type resolves.
func registerSystem(mod *symbols.Module) {
	mod.Syms["void"] = SysVoid
	mod.Syms["bool"] = SysBool
	mod.Syms["number"] = SysNumber
	mod.Syms["string"] = SysString
}

// primitiveTyID maps a type Sym to its 16-bit type id: the TyXxx constant
// for a primitive kind, or TyFirstObject plus the ObjectID for an object
// type. Used for the type operand of pushNil and constrObj.
func primitiveTyID(sym *symbols.Sym) uint16 {
	switch sym.TypeKind {
	case symbols.TVoid:
		return script.TyVoid
	case symbols.TBool:
		return script.TyBool
	case symbols.TNumber:
		return script.TyNumber
	case symbols.TString:
		return script.TyString
	default:
		return script.TyFirstObject + sym.ObjectID
	}
}

// Package symbols implements the symbol/type model (§3.5): scopes,
// modules, the Sym tagged variant (variables, types, procedures,
// iterators, generic parameters, and overload choices), and the generic
// instantiation cache. Grounded on the teacher's symbol table package
// (funvibe-funxy/internal/symbols/symbol_table_core.go) for the overall
// shape of a Symbol/Scope pair, generalized from the teacher's
// Hindley-Milner Type to the spec's closed, non-unifying Type kind set
// (§3.5: "no subtyping, no implicit coercion").
package symbols

import "github.com/thornlang/thornc/internal/ast"

// Kind discriminates the Sym variant, per §3.5.
type Kind int

const (
	KindVar Kind = iota
	KindLet
	KindType
	KindProc
	KindIterator
	KindGenericParam
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "var"
	case KindLet:
		return "let"
	case KindType:
		return "type"
	case KindProc:
		return "proc"
	case KindIterator:
		return "iterator"
	case KindGenericParam:
		return "generic parameter"
	case KindChoice:
		return "choice"
	}
	return "?"
}

// TypeKind enumerates the primitive type kinds a KindType Sym can hold
// (§3.5).
type TypeKind int

const (
	TVoid TypeKind = iota
	TBool
	TNumber
	TString
	TObject
)

// Field is one ordered (id, type) entry of an object type's field list.
type Field struct {
	Name string
	ID   int
	Ty   *Sym
}

// Param is one (name, type) entry of a procedure/iterator signature.
type Param struct {
	Name string
	Ty   *Sym
}

// Sym is the tagged-variant symbol type of §3.5. Exactly the fields for
// Kind are meaningful; the rest are zero. GenericParams/
// GenericInstCache/GenericInstArgs are orthogonal to Kind: any Sym may
// carry GenericParams (making it a template) or GenericInstArgs (making
// it an instantiation), per §3.5's closing paragraph.
type Sym struct {
	Name string
	Kind Kind

	// KindVar / KindLet
	Ty       *Sym
	Set      bool
	Local    bool
	StackPos uint8

	// KindType
	TypeKind TypeKind
	ObjectID uint16
	Fields   []Field

	// KindProc
	ProcID   uint16
	Params   []Param
	ReturnTy *Sym

	// KindIterator (Params shared with KindProc)
	YieldTy *Sym

	// KindGenericParam
	Constraint *Sym

	// KindChoice
	Choices []*Sym

	// Generic template/instantiation bookkeeping (§3.5, §4.4).
	GenericParams    []*Sym
	GenericInstCache map[string]*Sym
	GenericInstArgs  []*Sym

	// DefNode is the AST node the symbol's body was declared with, used
	// by generic instantiation to recompile a template's body under a
	// fresh binding of its generic parameters (§4.4 step 3).
	DefNode *ast.Node

	// declOrder records insertion order within a Choice, breaking ties
	// deterministically in ResolveOverload (§9 Open Question: "first
	// declared wins").
	declOrder int
}

// IsTemplate reports whether the symbol is a generic template awaiting
// instantiation.
func (s *Sym) IsTemplate() bool { return len(s.GenericParams) > 0 }

// IsInstantiation reports whether the symbol was produced by
// instantiate (§4.4).
func (s *Sym) IsInstantiation() bool { return s.GenericInstArgs != nil }

// FieldByName finds a field by name on an object-type Sym, returning
// (field, true) or (Field{}, false).
func (s *Sym) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SameType reports identity equality between two type symbols: §4.3
// "Type identity is by symbol identity; there is no subtyping, no
// implicit coercion."
func SameType(a, b *Sym) bool { return a == b }

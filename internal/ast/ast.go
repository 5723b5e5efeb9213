// Package ast defines the uniform AST node produced by the parser (§3.2).
// Node is a single tagged-variant type: branch nodes carry an ordered
// child list, leaves carry a typed payload. One struct serves every
// construct, instead of one Go type per construct.
package ast

import "fmt"

// Kind discriminates the variant a Node holds.
type Kind int

const (
	KProgram Kind = iota
	KBlock

	// Leaves
	KBoolLit
	KNumberLit
	KStringLit
	KIdent
	KNull

	// Expressions
	KPrefix
	KInfix
	KAssign
	KDot
	KIndex
	KCall
	KColonExpr // name: value, used in object constructors
	KIfExpr
	KTypeRef // name or name[A, B, ...] in type position

	// Statements
	KVarDecl
	KProcDecl
	KIteratorDecl
	KObjectDecl
	KWhileStmt
	KForStmt
	KBreakStmt
	KContinueStmt
	KReturnStmt
	KYieldStmt
	KExprStmt

	// Declaration support
	KParam  // (name, type) pair inside a proc/iterator header
	KField  // (name, type) pair inside an object body
)

var kindNames = map[Kind]string{
	KProgram: "Program", KBlock: "Block",
	KBoolLit: "BoolLit", KNumberLit: "NumberLit", KStringLit: "StringLit",
	KIdent: "Ident", KNull: "Null",
	KPrefix: "Prefix", KInfix: "Infix", KAssign: "Assign", KDot: "Dot",
	KIndex: "Index", KCall: "Call", KColonExpr: "ColonExpr", KIfExpr: "If",
	KTypeRef: "TypeRef",
	KVarDecl: "VarDecl", KProcDecl: "ProcDecl", KIteratorDecl: "IteratorDecl",
	KObjectDecl: "ObjectDecl", KWhileStmt: "While", KForStmt: "For",
	KBreakStmt: "Break", KContinueStmt: "Continue", KReturnStmt: "Return",
	KYieldStmt: "Yield", KExprStmt: "ExprStmt", KParam: "Param", KField: "Field",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is the single tagged-variant AST type (§3.2). Every node carries
// its source position. Branch nodes populate Children in source order;
// leaves populate exactly one of the payload fields. A handful of named
// slots (Names, Op, IsLet, GenericParams) hold structure that a bare
// child list cannot express without losing positional meaning (e.g.
// which children are generic parameters versus ordinary parameters).
type Node struct {
	Kind Kind

	File string
	Line int
	Col  int

	Children []*Node

	// Leaf payload (exactly one valid per Kind).
	Bool  bool
	Num   float64
	Str   string
	Ident string

	// Structural metadata used by specific Kinds; see the constructors
	// in builders.go for which fields apply to which Kind.
	Names         []string // KVarDecl: one or more declared names
	IsLet         bool     // KVarDecl: let vs var
	Op            string   // KPrefix/KInfix: operator lexeme
	GenericParams []string // KProcDecl/KObjectDecl: names bound by [T, U, ...]
}

// Pos reports the node's source position, used uniformly by diagnostics.
func (n *Node) Pos() (file string, line, col int) { return n.File, n.Line, n.Col }

// Hash returns a structural hash suitable for AST-shape cache keys
// (§3.2: "Nodes are structurally hashable"). Position is intentionally
// excluded so that two syntactically identical trees parsed from
// different locations hash identically.
func (n *Node) Hash() uint64 {
	if n == nil {
		return 0
	}
	h := fnv1a(uint64(n.Kind))
	h = mix(h, hashString(n.Ident))
	h = mix(h, hashString(n.Str))
	h = mix(h, hashString(n.Op))
	if n.Bool {
		h = mix(h, 1)
	}
	h = mix(h, uint64(n.Num))
	for _, c := range n.Children {
		h = mix(h, c.Hash())
	}
	for _, nm := range n.Names {
		h = mix(h, hashString(nm))
	}
	return h
}

func fnv1a(seed uint64) uint64 {
	const offset = 14695981039346656037
	return offset ^ seed
}

func mix(h, v uint64) uint64 {
	h ^= v
	h *= 1099511628211
	return h
}

func hashString(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

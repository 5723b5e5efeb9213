package ast

// Constructors centralize how each Kind populates Children/leaf fields,
// so the rest of the compiler never builds a Node literal by hand.

func pos(file string, line, col int) *Node {
	return &Node{File: file, Line: line, Col: col}
}

func NewProgram(file string, line, col int, stmts []*Node) *Node {
	n := pos(file, line, col)
	n.Kind = KProgram
	n.Children = stmts
	return n
}

func NewBlock(file string, line, col int, stmts []*Node) *Node {
	n := pos(file, line, col)
	n.Kind = KBlock
	n.Children = stmts
	return n
}

func NewBoolLit(file string, line, col int, v bool) *Node {
	n := pos(file, line, col)
	n.Kind = KBoolLit
	n.Bool = v
	return n
}

func NewNumberLit(file string, line, col int, v float64) *Node {
	n := pos(file, line, col)
	n.Kind = KNumberLit
	n.Num = v
	return n
}

func NewStringLit(file string, line, col int, v string) *Node {
	n := pos(file, line, col)
	n.Kind = KStringLit
	n.Str = v
	return n
}

func NewIdent(file string, line, col int, name string) *Node {
	n := pos(file, line, col)
	n.Kind = KIdent
	n.Ident = name
	return n
}

func NewNull(file string, line, col int) *Node {
	n := pos(file, line, col)
	n.Kind = KNull
	return n
}

func NewPrefix(file string, line, col int, op string, operand *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KPrefix
	n.Op = op
	n.Children = []*Node{operand}
	return n
}

func NewInfix(file string, line, col int, op string, left, right *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KInfix
	n.Op = op
	n.Children = []*Node{left, right}
	return n
}

// NewAssign: Children[0] = lhs, Children[1] = rhs.
func NewAssign(file string, line, col int, lhs, rhs *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KAssign
	n.Children = []*Node{lhs, rhs}
	return n
}

// NewDot: Children[0] = receiver; Ident = field name.
func NewDot(file string, line, col int, receiver *Node, field string) *Node {
	n := pos(file, line, col)
	n.Kind = KDot
	n.Ident = field
	n.Children = []*Node{receiver}
	return n
}

// NewIndex: Children[0] = receiver, Children[1] = index expr.
func NewIndex(file string, line, col int, receiver, index *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KIndex
	n.Children = []*Node{receiver, index}
	return n
}

// NewCall: Children[0] = callee, Children[1:] = args (each arg may itself
// be a KColonExpr for named/object-field arguments, §4.5 "Object
// constructor"). An explicit `callee[A, B]` generic-argument reference
// list (§4.3 "Lookup"), if any, sits between the callee and the args in
// Children, with its length stored in Num; use SplitCall to separate them.
func NewCall(file string, line, col int, callee *Node, args []*Node, genericArgs []*Node) *Node {
	n := pos(file, line, col)
	n.Kind = KCall
	children := make([]*Node, 0, 1+len(genericArgs)+len(args))
	children = append(children, callee)
	children = append(children, genericArgs...)
	children = append(children, args...)
	n.Children = children
	n.Num = float64(len(genericArgs)) // reused as a small int tag, see Split helpers below
	return n
}

// SplitCall returns (callee, genericArgs, args) for a KCall node built by
// NewCall.
func SplitCall(n *Node) (callee *Node, genericArgs, args []*Node) {
	nGeneric := int(n.Num)
	callee = n.Children[0]
	genericArgs = n.Children[1 : 1+nGeneric]
	args = n.Children[1+nGeneric:]
	return
}

func NewColonExpr(file string, line, col int, name string, value *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KColonExpr
	n.Ident = name
	n.Children = []*Node{value}
	return n
}

// NewIfExpr: for each arm i, Children[2*i] = cond, Children[2*i+1] = body;
// an optional trailing else body is appended alone when len(Children) is
// odd.
func NewIfExpr(file string, line, col int, conds, bodies []*Node, elseBody *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KIfExpr
	for i := range conds {
		n.Children = append(n.Children, conds[i], bodies[i])
	}
	if elseBody != nil {
		n.Children = append(n.Children, elseBody)
	}
	return n
}

// IfArms returns the (cond, body) pairs and optional else body of a
// KIfExpr built by NewIfExpr.
func IfArms(n *Node) (conds, bodies []*Node, elseBody *Node) {
	pairs := len(n.Children) / 2
	hasElse := len(n.Children)%2 == 1
	for i := 0; i < pairs; i++ {
		conds = append(conds, n.Children[2*i])
		bodies = append(bodies, n.Children[2*i+1])
	}
	if hasElse {
		elseBody = n.Children[len(n.Children)-1]
	}
	return
}

// NewTypeRef: Ident = base type name, Children = generic argument type
// refs (possibly empty).
func NewTypeRef(file string, line, col int, name string, args []*Node) *Node {
	n := pos(file, line, col)
	n.Kind = KTypeRef
	n.Ident = name
	n.Children = args
	return n
}

// NewVarDecl: Names holds the declared identifiers. Children always has
// exactly two slots, either of which may be nil: Children[0] is the
// optional type annotation, Children[1] is the optional rhs expression.
// The grammar permits omitting the rhs (§4.1 identDefs); §4.5's
// VarMustHaveValue check (a semantic, not syntactic, rule) is enforced by
// the code generator, not here.
func NewVarDecl(file string, line, col int, isLet bool, names []string, typeAnn, value *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KVarDecl
	n.IsLet = isLet
	n.Names = names
	n.Children = []*Node{typeAnn, value}
	return n
}

// VarDeclParts returns the optional type annotation and the optional
// value expression of a KVarDecl.
func VarDeclParts(n *Node) (typeAnn, value *Node) {
	return n.Children[0], n.Children[1]
}

func NewParam(file string, line, col int, name string, typ *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KParam
	n.Ident = name
	n.Children = []*Node{typ}
	return n
}

func NewField(file string, line, col int, name string, typ *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KField
	n.Ident = name
	n.Children = []*Node{typ}
	return n
}

// NewProcDecl: Ident = name, GenericParams = generic parameter names,
// Children = [param* , returnType?(may be nil placeholder), body].
// Params are KParam nodes; returnType is a KTypeRef or nil for void.
func NewProcDecl(file string, line, col int, name string, generics []string, params []*Node, returnType, body *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KProcDecl
	n.Ident = name
	n.GenericParams = generics
	n.Children = append(append([]*Node{}, params...), returnType, body)
	n.Num = float64(len(params))
	return n
}

// ProcDeclParts splits a KProcDecl built by NewProcDecl.
func ProcDeclParts(n *Node) (params []*Node, returnType, body *Node) {
	nParams := int(n.Num)
	params = n.Children[:nParams]
	returnType = n.Children[nParams]
	body = n.Children[nParams+1]
	return
}

// NewIteratorDecl mirrors NewProcDecl but has no return type slot: the
// yield type takes its place.
func NewIteratorDecl(file string, line, col int, name string, generics []string, params []*Node, yieldType, body *Node) *Node {
	n := NewProcDecl(file, line, col, name, generics, params, yieldType, body)
	n.Kind = KIteratorDecl
	return n
}

// NewObjectDecl: Ident = name, GenericParams = generics, Children =
// field nodes (KField), in declaration order.
func NewObjectDecl(file string, line, col int, name string, generics []string, fields []*Node) *Node {
	n := pos(file, line, col)
	n.Kind = KObjectDecl
	n.Ident = name
	n.GenericParams = generics
	n.Children = fields
	return n
}

func NewWhileStmt(file string, line, col int, cond, body *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KWhileStmt
	n.Children = []*Node{cond, body}
	return n
}

// NewForStmt: Ident = loop variable name, Children[0] = iterator call
// expression (KCall), Children[1] = body block.
func NewForStmt(file string, line, col int, loopVar string, iterCall, body *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KForStmt
	n.Ident = loopVar
	n.Children = []*Node{iterCall, body}
	return n
}

func NewBreakStmt(file string, line, col int) *Node {
	n := pos(file, line, col)
	n.Kind = KBreakStmt
	return n
}

func NewContinueStmt(file string, line, col int) *Node {
	n := pos(file, line, col)
	n.Kind = KContinueStmt
	return n
}

// NewReturnStmt: Children optionally holds one value expression.
func NewReturnStmt(file string, line, col int, value *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KReturnStmt
	if value != nil {
		n.Children = []*Node{value}
	}
	return n
}

func NewYieldStmt(file string, line, col int, value *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KYieldStmt
	n.Children = []*Node{value}
	return n
}

func NewExprStmt(file string, line, col int, expr *Node) *Node {
	n := pos(file, line, col)
	n.Kind = KExprStmt
	n.Children = []*Node{expr}
	return n
}

// Package diagnostics defines the two fatal error categories the
// compiler raises: SyntaxError (scanner/parser) and CompileError
// (symbol model/code generator), per §7.
package diagnostics

import "fmt"

// Code enumerates the compile error kinds of §7. Syntax errors carry no
// code: SyntaxError has no Code field.
type Code string

const (
	ErrShadowResult                  Code = "ShadowResult"
	ErrLocalRedeclaration            Code = "LocalRedeclaration"
	ErrGlobalRedeclaration           Code = "GlobalRedeclaration"
	ErrUndefinedReference            Code = "UndefinedReference"
	ErrLetReassignment               Code = "LetReassignment"
	ErrTypeMismatch                  Code = "TypeMismatch"
	ErrTypeMismatchChoice            Code = "TypeMismatchChoice"
	ErrNotAProc                      Code = "NotAProc"
	ErrInvalidField                  Code = "InvalidField"
	ErrNonExistentField              Code = "NonExistentField"
	ErrInvalidAssignment             Code = "InvalidAssignment"
	ErrTypeIsNotAnObject             Code = "TypeIsNotAnObject"
	ErrObjectFieldsMustBeInitialized Code = "ObjectFieldsMustBeInitialized"
	ErrFieldInitMustBeAColonExpr     Code = "FieldInitMustBeAColonExpr"
	ErrNoSuchField                   Code = "NoSuchField"
	ErrValueIsVoid                   Code = "ValueIsVoid"
	ErrOnlyUsableInABlock            Code = "OnlyUsableInABlock"
	ErrOnlyUsableInALoop             Code = "OnlyUsableInALoop"
	ErrOnlyUsableInAProc             Code = "OnlyUsableInAProc"
	ErrOnlyUsableInAnIterator        Code = "OnlyUsableInAnIterator"
	ErrVarMustHaveValue              Code = "VarMustHaveValue"
	ErrIterMustHaveYieldType         Code = "IterMustHaveYieldType"
	ErrSymKindMismatch               Code = "SymKindMismatch"
	ErrInvalidSymName                Code = "InvalidSymName"
	ErrCouldNotInferGeneric          Code = "CouldNotInferGeneric"
	ErrNotGeneric                    Code = "NotGeneric"
	ErrGenericArgLenMismatch         Code = "GenericArgLenMismatch"
	ErrGenericCycle                  Code = "GenericCycle"
)

// Pos is the (file, line, col) triple every diagnostic carries (§6.5).
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%s(%d, %d)", p.File, p.Line, p.Col) }

// SyntaxError is raised by the scanner and parser; fatal, aborts parsing.
type SyntaxError struct {
	Pos
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos.String(), e.Message)
}

func NewSyntaxError(file string, line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: Pos{file, line, col}, Message: fmt.Sprintf(format, args...)}
}

// CompileError is raised by the symbol model and code generator; fatal,
// aborts compilation. Code identifies which §7 kind fired.
type CompileError struct {
	Pos
	Code    Code
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos.String(), e.Message)
}

func NewCompileError(code Code, file string, line, col int, format string, args ...any) *CompileError {
	return &CompileError{Pos: Pos{file, line, col}, Code: code, Message: fmt.Sprintf(format, args...)}
}

package symbols

import (
	"strings"

	"github.com/thornlang/thornc/internal/diagnostics"
)

// ResolveOverload implements §4.3 "Overload selection": given a callee
// symbol (either a single callable or a Choice) and the argument types of
// a call, pick the one callable whose arity and per-position types match.
//
// On a Choice with more than one exact match — an ambiguity the spec
// leaves unspecified (§9 Open Question) — this picks the first-declared
// candidate, the deterministic tie-break this rewrite documents.
func ResolveOverload(callee *Sym, argTypes []*Sym, file string, line, col int) (*Sym, *diagnostics.CompileError) {
	if callee.Kind != KindChoice {
		if !signatureMatches(callee, argTypes) {
			return nil, diagnostics.NewCompileError(diagnostics.ErrTypeMismatch, file, line, col,
				"call to %q does not match signature %s", callee.Name, describeCall(callee.Params, argTypes))
		}
		return callee, nil
	}

	var candidates []*Sym
	for _, c := range callee.Choices {
		if c.Kind != KindProc && c.Kind != KindIterator {
			continue
		}
		candidates = append(candidates, c)
	}

	var best *Sym
	for _, c := range candidates {
		if signatureMatches(c, argTypes) {
			if best == nil || c.declOrder < best.declOrder {
				best = c
			}
		}
	}
	if best != nil {
		return best, nil
	}

	var sb strings.Builder
	sb.WriteString("no overload of ")
	sb.WriteString(callee.Name)
	sb.WriteString(" matches (")
	for i, t := range argTypes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.Name)
	}
	sb.WriteString("); candidates:")
	for _, c := range candidates {
		sb.WriteString("\n  ")
		sb.WriteString(c.Name)
		sb.WriteString(describeCall(c.Params, nil))
	}
	return nil, diagnostics.NewCompileError(diagnostics.ErrTypeMismatchChoice, file, line, col, "%s", sb.String())
}

func signatureMatches(sym *Sym, argTypes []*Sym) bool {
	if sym.Kind != KindProc && sym.Kind != KindIterator {
		return false
	}
	if len(sym.Params) != len(argTypes) {
		return false
	}
	for i, p := range sym.Params {
		if !SameType(p.Ty, argTypes[i]) {
			return false
		}
	}
	return true
}

func describeCall(params []Param, argTypes []*Sym) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Ty.Name)
	}
	sb.WriteString(")")
	if argTypes != nil {
		sb.WriteString(" got (")
		for i, t := range argTypes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.Name)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

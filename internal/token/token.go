// Package token defines the lexical tokens produced by the scanner and
// consumed by the parser.
package token

import "fmt"

// Kind identifies the category of a lexed token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	NEWLINE
	SEMI

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	DOT
	COLON
	DOUBLE_COLON

	IDENT
	NUMBER
	STRING

	KW_IF
	KW_ELSE
	KW_ELIF
	KW_WHILE
	KW_FOR
	KW_IN
	KW_BREAK
	KW_CONTINUE
	KW_RETURN
	KW_YIELD
	KW_VAR
	KW_LET
	KW_PROC
	KW_ITERATOR
	KW_OBJECT
	KW_DO
	KW_TRUE
	KW_FALSE
	KW_NULL

	// OPERATOR is the catch-all kind for any lexeme built from the
	// user-operator character class; Lexeme carries the text and
	// Precedence/LeftAssoc classify it (see precedence.go).
	OPERATOR
	ASSIGN
)

var kindNames = map[Kind]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", NEWLINE: "NEWLINE", SEMI: "SEMI",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	LBRACE: "{", RBRACE: "}", COMMA: ",", DOT: ".", COLON: ":", DOUBLE_COLON: "::",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	KW_IF: "if", KW_ELSE: "else", KW_ELIF: "elif", KW_WHILE: "while",
	KW_FOR: "for", KW_IN: "in", KW_BREAK: "break", KW_CONTINUE: "continue",
	KW_RETURN: "return", KW_YIELD: "yield", KW_VAR: "var", KW_LET: "let",
	KW_PROC: "proc", KW_ITERATOR: "iterator", KW_OBJECT: "object", KW_DO: "do",
	KW_TRUE: "true", KW_FALSE: "false", KW_NULL: "null",
	OPERATOR: "OPERATOR", ASSIGN: "=",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved words to their token kind.
var Keywords = map[string]Kind{
	"if": KW_IF, "else": KW_ELSE, "elif": KW_ELIF, "while": KW_WHILE,
	"for": KW_FOR, "in": KW_IN, "break": KW_BREAK, "continue": KW_CONTINUE,
	"return": KW_RETURN, "yield": KW_YIELD, "var": KW_VAR, "let": KW_LET,
	"proc": KW_PROC, "iterator": KW_ITERATOR, "object": KW_OBJECT, "do": KW_DO,
	"true": KW_TRUE, "false": KW_FALSE, "null": KW_NULL,
}

// Token is a single lexeme with its source position and, for operator
// tokens, its precedence and associativity (§3.1).
type Token struct {
	Kind       Kind
	Lexeme     string
	Num        float64
	Str        string
	Precedence int
	LeftAssoc  bool
	File       string
	Line       int
	Col        int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Lexeme, t.Line, t.Col)
}

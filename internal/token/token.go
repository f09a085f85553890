// Package token defines the lexical token vocabulary of the Language: token
// kinds, source positions, and the keyword table matched by exact UTF-8 byte
// comparison against identifier lexemes (spec.md §3, §4.2).
package token

import "fmt"

// Position identifies a single point in a source file.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column, counted in bytes
	Offset int // 0-based byte offset into the source buffer
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind is the tag of a Token.
type Kind int

const (
	// Special
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT
	INT
	FLOAT
	STRING

	literalEnd

	// Keywords
	IF
	ELSE
	FN
	RETURN
	VAR
	CONST
	INT_TYPE
	FLOAT_TYPE
	BOOL_TYPE
	STRING_TYPE
	ARRAY
	STRUCT
	ENUM
	WHILE
	FOR
	BREAK
	CONTINUE
	SWITCH
	CASE
	DEFAULT
	TRUE
	FALSE
	NULL
	VOID
	MODULE
	IMPORT
	AS
	NAMESPACE
	INTERFACE
	CLASS
	TEMPLATE
	STATIC
	PUBLIC
	PRIVATE
	PROTECTED
	VIRTUAL
	OVERRIDE
	ABSTRACT
	MEMORY_ADDRESS
	READ_MEMORY
	WRITE_MEMORY
	MEMORY_COPY
	MEMORY_SET
	MAP_MEMORY
	UNMAP_MEMORY
	INLINE_ASM
	INTERRUPT_HANDLER

	keywordEnd

	// Delimiters
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	SEMICOLON
	COMMA
	DOT

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	SHL
	SHR
	AND_AND
	OR_OR
	BANG
	ASSIGN
	EQ
	NEQ
	LT
	GT
	LE
	GE
	INC
	DEC
	ARROW
	QUESTION
	COLON
)

var kindNames = [...]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",

	IF: "if", ELSE: "else", FN: "fn", RETURN: "return", VAR: "var", CONST: "const",
	INT_TYPE: "int", FLOAT_TYPE: "float", BOOL_TYPE: "bool", STRING_TYPE: "string",
	ARRAY: "array", STRUCT: "struct", ENUM: "enum", WHILE: "while", FOR: "for",
	BREAK: "break", CONTINUE: "continue", SWITCH: "switch", CASE: "case", DEFAULT: "default",
	TRUE: "true", FALSE: "false", NULL: "null", VOID: "void", MODULE: "module",
	IMPORT: "import", AS: "as", NAMESPACE: "namespace", INTERFACE: "interface",
	CLASS: "class", TEMPLATE: "template", STATIC: "static", PUBLIC: "public",
	PRIVATE: "private", PROTECTED: "protected", VIRTUAL: "virtual", OVERRIDE: "override",
	ABSTRACT: "abstract", MEMORY_ADDRESS: "memory_address", READ_MEMORY: "read_memory",
	WRITE_MEMORY: "write_memory", MEMORY_COPY: "memory_copy", MEMORY_SET: "memory_set",
	MAP_MEMORY: "map_memory", UNMAP_MEMORY: "unmap_memory", INLINE_ASM: "inline_asm",
	INTERRUPT_HANDLER: "interrupt_handler",

	LPAREN: "(", RPAREN: ")", LBRACK: "[", RBRACK: "]", LBRACE: "{", RBRACE: "}",
	SEMICOLON: ";", COMMA: ",", DOT: ".",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	AND_AND: "&&", OR_OR: "||", BANG: "!",
	ASSIGN: "=", EQ: "==", NEQ: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
	INC: "++", DEC: "--", ARROW: "->", QUESTION: "?", COLON: ":",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the reserved keyword kinds.
func (k Kind) IsKeyword() bool { return k > literalEnd && k < keywordEnd }

// NumSuffix tags the numeric-literal suffix recognized by the lexer
// (spec.md §3 "Tokens").
type NumSuffix int

const (
	SuffixNone NumSuffix = iota
	SuffixFloat32
	SuffixLong
	SuffixLongLong
	SuffixUnsigned
	SuffixUnsignedLong
	SuffixUnsignedLongLong
)

// Token is a single lexical token: kind, source span, position, and an
// optional numeric suffix tag (spec.md §3 "Tokens").
type Token struct {
	Kind    Kind
	Lexeme  string
	Pos     Position
	Suffix  NumSuffix // meaningful only for INT/FLOAT
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Pos)
}

package parser

import "c0c/internal/ast"

// TokenType enumerates every lexeme kind the scanner can produce. The
// vocabulary matches spec.md §6 exactly, including the keywords that are
// recognized but never accepted by any grammar production (struct, assert,
// NULL, alloc, alloc_array, char, string) — the parser rejects them the
// same way it rejects any other token in a position that has no production
// for it.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENTIFIER
	NUMBER
	HEX_NUMBER

	// Keywords
	IF
	ELSE
	WHILE
	FOR
	CONTINUE
	BREAK
	RETURN
	INT
	BOOL
	VOID
	TRUE
	FALSE
	PRINT
	READ
	FLUSH

	// Reserved but never valid
	STRUCT
	ASSERT
	NULLKW
	ALLOC
	ALLOC_ARRAY
	CHAR
	STRINGKW

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	EQUAL_EQUAL
	BANG_EQUAL
	AND_AND
	OR_OR
	AMPERSAND
	CARET
	PIPE
	SHL
	SHR
	BANG
	TILDE

	// Assignment operators
	EQUAL
	PLUS_EQUAL
	MINUS_EQUAL
	STAR_EQUAL
	SLASH_EQUAL
	PERCENT_EQUAL
	PIPE_EQUAL
	AMPERSAND_EQUAL
	CARET_EQUAL
	SHL_EQUAL
	SHR_EQUAL

	// Punctuation
	SEMICOLON
	COMMA
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	QUESTION
	COLON
)

var keywords = map[string]TokenType{
	"if":          IF,
	"else":        ELSE,
	"while":       WHILE,
	"for":         FOR,
	"continue":    CONTINUE,
	"break":       BREAK,
	"return":      RETURN,
	"int":         INT,
	"bool":        BOOL,
	"void":        VOID,
	"true":        TRUE,
	"false":       FALSE,
	"print":       PRINT,
	"read":        READ,
	"flush":       FLUSH,
	"struct":      STRUCT,
	"assert":      ASSERT,
	"NULL":        NULLKW,
	"alloc":       ALLOC,
	"alloc_array": ALLOC_ARRAY,
	"char":        CHAR,
	"string":      STRINGKW,
}

// Token is one lexeme with its source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Pos    ast.Position
}

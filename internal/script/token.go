// Package nogscript implements the embedded configuration language
// (spec.md §4.6): a lexer, a Pratt expression parser, a tree-walking
// evaluator, and the class/operator/scope model the original language
// (ported from original_source/interpreter's token.rs/expr_parser.rs/
// interpreter.rs/class.rs/operator.rs) specifies.
package nogscript

import "fmt"

// Kind identifies a lexical category, ported from token.rs's Token enum.
type Kind int

const (
	KindEOF Kind = iota
	KindIdentifier
	KindClassIdentifier
	KindNumberLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNull

	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPlusPlus
	KindMinusMinus
	KindEqual
	KindPlusEqual
	KindMinusEqual
	KindStarEqual
	KindSlashEqual

	KindAnd
	KindOr
	KindNot

	KindGT
	KindGTE
	KindLT
	KindLTE
	KindEQ
	KindNEQ

	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLCurly
	KindRCurly

	KindComma
	KindDot
	KindColon
	KindDoubleColon
	KindSemiColon
	KindArrow
	KindHash
	KindTripleSlash

	KindFn
	KindVar
	KindIf
	KindElseIf
	KindElse
	KindWhile
	KindBreak
	KindContinue
	KindReturn
	KindClass
	KindImport
	KindExport
	KindOp
	KindStatic

	KindNewLine
)

// Token is one lexed unit: its kind, literal text, and source position for
// diagnostics.
type Token struct {
	Kind Kind
	Text string
	Pos  int // byte offset into the source
	Line int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Pos)
}

var kindNames = map[Kind]string{
	KindEOF: "eof", KindIdentifier: "identifier", KindClassIdentifier: "class-identifier",
	KindNumberLiteral: "number", KindStringLiteral: "string", KindBooleanLiteral: "boolean",
	KindNull: "null", KindPlus: "+", KindMinus: "-", KindStar: "*", KindSlash: "/",
	KindPlusPlus: "++", KindMinusMinus: "--", KindEqual: "=", KindPlusEqual: "+=",
	KindMinusEqual: "-=", KindStarEqual: "*=", KindSlashEqual: "/=",
	KindAnd: "&&", KindOr: "||", KindNot: "!", KindGT: ">", KindGTE: ">=",
	KindLT: "<", KindLTE: "<=", KindEQ: "==", KindNEQ: "!=",
	KindLParen: "(", KindRParen: ")", KindLBracket: "[", KindRBracket: "]",
	KindLCurly: "{", KindRCurly: "}", KindComma: ",", KindDot: ".", KindColon: ":",
	KindDoubleColon: "::", KindSemiColon: ";", KindArrow: "=>", KindHash: "#",
	KindTripleSlash: "///", KindFn: "fn", KindVar: "var", KindIf: "if",
	KindElseIf: "elif", KindElse: "else", KindWhile: "while", KindBreak: "break",
	KindContinue: "continue", KindReturn: "return", KindClass: "class",
	KindImport: "import", KindExport: "export", KindOp: "op", KindStatic: "static",
	KindNewLine: "newline",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"fn": KindFn, "var": KindVar, "if": KindIf, "elif": KindElseIf, "else": KindElse,
	"while": KindWhile, "break": KindBreak, "continue": KindContinue, "return": KindReturn,
	"class": KindClass, "import": KindImport, "export": KindExport, "op": KindOp,
	"static": KindStatic, "null": KindNull, "true": KindBooleanLiteral, "false": KindBooleanLiteral,
}

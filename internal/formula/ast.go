// Package formula implements the typed expression AST, parser, printer,
// drag-shift semantics, dependency graph, and evaluator for the fixed
// spreadsheet function set.
package formula

import (
	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

// NodeTag discriminates the cases of the TExpr tree.
type NodeTag int

const (
	NNum NodeTag = iota
	NStr
	NBool
	NErr
	NRef
	NRange
	NUnary
	NBinary
	NFunc
)

// BinOp enumerates the binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpConcat
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

// UnOp enumerates the unary operators.
type UnOp int

const (
	OpNeg UnOp = iota
	OpPos
	OpPercent
)

// TExpr is the typed expression AST node. Exactly one of the payload groups
// is meaningful, selected by Tag.
type TExpr struct {
	Tag NodeTag

	Num  decimal.Decimal
	Str  string
	Bool bool
	Err  domain.CellErrorKind

	Sheet      domain.SheetName
	Qualified  bool
	Ref        domain.ARef
	Range      domain.CellRange

	UnOp  UnOp
	Bin   BinOp
	Left  *TExpr
	Right *TExpr
	Arg   *TExpr

	Func string
	Args []TExpr
}

// Num builds a numeric literal node.
func Num(d decimal.Decimal) TExpr { return TExpr{Tag: NNum, Num: d} }

// Str builds a string literal node.
func Str(s string) TExpr { return TExpr{Tag: NStr, Str: s} }

// Bool builds a boolean literal node.
func Bool(b bool) TExpr { return TExpr{Tag: NBool, Bool: b} }

// Err builds an error literal node.
func Err(k domain.CellErrorKind) TExpr { return TExpr{Tag: NErr, Err: k} }

// Ref builds a (possibly sheet-qualified) cell reference node.
func Ref(sheet domain.SheetName, qualified bool, ref domain.ARef) TExpr {
	return TExpr{Tag: NRef, Sheet: sheet, Qualified: qualified, Ref: ref}
}

// RangeRef builds a (possibly sheet-qualified) range reference node.
func RangeRef(sheet domain.SheetName, qualified bool, rng domain.CellRange) TExpr {
	return TExpr{Tag: NRange, Sheet: sheet, Qualified: qualified, Range: rng}
}

// Unary builds a unary-operator node.
func Unary(op UnOp, arg TExpr) TExpr { return TExpr{Tag: NUnary, UnOp: op, Arg: &arg} }

// Binary builds a binary-operator node.
func Binary(op BinOp, left, right TExpr) TExpr {
	return TExpr{Tag: NBinary, Bin: op, Left: &left, Right: &right}
}

// Func builds a function-call node.
func Func(name string, args []TExpr) TExpr { return TExpr{Tag: NFunc, Func: name, Args: args} }

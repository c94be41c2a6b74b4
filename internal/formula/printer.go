package formula

import (
	"strings"

	"github.com/tjc-lp/xlcore/internal/domain"
)

var binText = map[BinOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^", OpConcat: "&",
	OpEq: "=", OpNe: "<>", OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
}

var binPrecOf = map[BinOp]int{
	OpEq: 1, OpNe: 1, OpLt: 1, OpGt: 1, OpLe: 1, OpGe: 1,
	OpConcat: 2,
	OpAdd:    3, OpSub: 3,
	OpMul: 4, OpDiv: 4,
	OpPow: 6,
}

// Print renders a TExpr back into formula text (without a leading "=").
// print(parse(s)) re-parses to an AST equal to parse(s); anchors and sheet
// qualification survive the round trip.
func Print(e TExpr) string {
	return printPrec(e, 0)
}

func printPrec(e TExpr, minPrec int) string {
	switch e.Tag {
	case NNum:
		return e.Num.String()
	case NStr:
		return `"` + strings.ReplaceAll(e.Str, `"`, `""`) + `"`
	case NBool:
		if e.Bool {
			return "TRUE"
		}
		return "FALSE"
	case NErr:
		return e.Err.String()
	case NRef:
		return printQualifier(e.Sheet, e.Qualified) + e.Ref.ToA1()
	case NRange:
		return printQualifier(e.Sheet, e.Qualified) + e.Range.ToA1()
	case NUnary:
		switch e.UnOp {
		case OpNeg:
			return "-" + printPrec(*e.Arg, 5)
		case OpPos:
			return "+" + printPrec(*e.Arg, 5)
		case OpPercent:
			return printPrec(*e.Arg, 7) + "%"
		}
	case NBinary:
		prec := binPrecOf[e.Bin]
		s := printPrec(*e.Left, prec) + binText[e.Bin] + printPrec(*e.Right, prec+1)
		if prec < minPrec {
			return "(" + s + ")"
		}
		return s
	case NFunc:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = printPrec(a, 0)
		}
		return e.Func + "(" + strings.Join(args, ",") + ")"
	}
	return ""
}

func printQualifier(sheet domain.SheetName, qualified bool) string {
	if !qualified {
		return ""
	}
	return sheet.Quoted() + "!"
}

package xlcore

import "github.com/tjc-lp/xlcore/internal/formula"

// TExpr is the typed formula expression AST.
type TExpr = formula.TExpr

// NodeTag discriminates the cases of TExpr.
type NodeTag = formula.NodeTag

// BinOp and UnOp enumerate the binary and unary operators a TExpr can hold.
type BinOp = formula.BinOp
type UnOp = formula.UnOp

const (
	NNum = formula.NNum
	NStr = formula.NStr
	NBool = formula.NBool
	NErr = formula.NErr
	NRef = formula.NRef
	NRange = formula.NRange
	NUnary = formula.NUnary
	NBinary = formula.NBinary
	NFunc = formula.NFunc
)

const (
	OpAdd    = formula.OpAdd
	OpSub    = formula.OpSub
	OpMul    = formula.OpMul
	OpDiv    = formula.OpDiv
	OpPow    = formula.OpPow
	OpConcat = formula.OpConcat
	OpEq     = formula.OpEq
	OpNe     = formula.OpNe
	OpLt     = formula.OpLt
	OpGt     = formula.OpGt
	OpLe     = formula.OpLe
	OpGe     = formula.OpGe
)

const (
	OpNeg     = formula.OpNeg
	OpPos     = formula.OpPos
	OpPercent = formula.OpPercent
)

// FormulaParseError reports a formula that failed to parse: the input text
// and a description of the failure.
type FormulaParseError = formula.ParseError

// ParseFormula parses a formula's source text (with or without its leading
// "=") into a TExpr.
var ParseFormula = formula.Parse

// NumExpr, StrExpr, BoolExpr, ErrExpr, RefExpr, RangeExpr, UnaryExpr,
// BinaryExpr, and FuncExpr build TExpr nodes directly, for constructing
// formulas programmatically.
var (
	NumExpr    = formula.Num
	StrExpr    = formula.Str
	BoolExpr   = formula.Bool
	ErrExpr    = formula.Err
	RefExpr    = formula.Ref
	RangeExpr  = formula.RangeRef
	UnaryExpr  = formula.Unary
	BinaryExpr = formula.Binary
	FuncExpr   = formula.Func
)

// MatchCriteria implements SUMIF/COUNTIF-style wildcard matching: "*" matches
// any run, "?" any single character, and "~*"/"~?" escape them.
var MatchCriteria = formula.MatchCriteria

// PrintFormula renders a TExpr back to formula source text.
var PrintFormula = formula.Print

// ShiftFormula implements drag/fill semantics: relative reference endpoints
// shift by (dCol, dRow), absolute endpoints stay fixed, and a reference that
// would land outside the grid becomes a #REF! literal.
var ShiftFormula = formula.Shift

// FormulaCycleError reports a dependency cycle, naming every participating
// cell.
type FormulaCycleError = formula.CycleError

// DependencyGraph tracks which cells read which, built from a sheet's
// formula cells.
type DependencyGraph = formula.DependencyGraph

// NewDependencyGraph returns an empty graph.
var NewDependencyGraph = formula.NewDependencyGraph

// BuildFromSheet builds a DependencyGraph by parsing every formula cell in
// cells and recording the references each one consumes.
var BuildFromSheet = formula.BuildFromSheet

// Resolver supplies cell values and range contents to the evaluator.
type Resolver = formula.Resolver

// MapResolver is a Resolver backed by a flat ARef -> CellValue map, for
// single-sheet evaluation and tests.
type MapResolver = formula.MapResolver

// Evaluate evaluates expr against res, never panicking: any failure is
// reported as an error-typed CellValue.
var Evaluate = formula.Evaluate

// Recalculate recomputes the cached value of every formula cell in sheet.
var Recalculate = formula.Recalculate

// RecalculateDependents recomputes the cached value of every cell
// transitively dependent on modifiedRefs, in topological order.
var RecalculateDependents = formula.RecalculateDependents

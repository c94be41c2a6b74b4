package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellErrorKind is one of the seven OOXML error literals.
type CellErrorKind int

const (
	ErrDiv0 CellErrorKind = iota
	ErrNA
	ErrName
	ErrNull
	ErrNum
	ErrRef
	ErrValue
)

var cellErrorText = map[CellErrorKind]string{
	ErrDiv0:  "#DIV/0!",
	ErrNA:    "#N/A",
	ErrName:  "#NAME?",
	ErrNull:  "#NULL!",
	ErrNum:   "#NUM!",
	ErrRef:   "#REF!",
	ErrValue: "#VALUE!",
}

var cellErrorFromText = func() map[string]CellErrorKind {
	m := make(map[string]CellErrorKind, len(cellErrorText))
	for k, v := range cellErrorText {
		m[v] = k
	}
	return m
}()

func (e CellErrorKind) String() string { return cellErrorText[e] }

// ParseCellError converts a literal like "#DIV/0!" back into a CellErrorKind.
func ParseCellError(s string) (CellErrorKind, bool) {
	k, ok := cellErrorFromText[s]
	return k, ok
}

// RichTextRun is one run of a RichText value: a span of text with its own
// optional font override.
type RichTextRun struct {
	Text string
	Font *Font
}

// ValueTag discriminates the cases of CellValue.
type ValueTag int

const (
	VEmpty ValueTag = iota
	VText
	VRichText
	VNumber
	VBool
	VDateTime
	VFormula
	VError
)

// CellValue is the tagged union of everything a cell can hold.
type CellValue struct {
	Tag ValueTag

	Text     string
	Runs     []RichTextRun
	Number   decimal.Decimal
	Bool     bool
	DateTime time.Time
	Formula  string
	Cached   *CellValue // never itself a Formula
	Err      CellErrorKind
}

// Empty is the explicit "cleared" cell value, distinct from a missing cell.
func Empty() CellValue { return CellValue{Tag: VEmpty} }

// TextValue builds a plain-text CellValue.
func TextValue(s string) CellValue { return CellValue{Tag: VText, Text: s} }

// RichTextValue builds a rich-text CellValue from an ordered run sequence.
func RichTextValue(runs []RichTextRun) CellValue { return CellValue{Tag: VRichText, Runs: runs} }

// NumberValue builds a numeric CellValue from a decimal.
func NumberValue(d decimal.Decimal) CellValue { return CellValue{Tag: VNumber, Number: d} }

// IntValue builds a numeric CellValue from an int.
func IntValue(n int64) CellValue { return CellValue{Tag: VNumber, Number: decimal.NewFromInt(n)} }

// FloatValue builds a numeric CellValue from a float64.
func FloatValue(f float64) CellValue {
	return CellValue{Tag: VNumber, Number: decimal.NewFromFloat(f)}
}

// BoolValue builds a boolean CellValue.
func BoolValue(b bool) CellValue { return CellValue{Tag: VBool, Bool: b} }

// DateTimeValue builds a date-time CellValue.
func DateTimeValue(t time.Time) CellValue { return CellValue{Tag: VDateTime, DateTime: t} }

// FormulaValue builds a formula CellValue with an optional cached result.
// Panics if cached is itself a Formula, which would violate invariant 3.
func FormulaValue(expr string, cached *CellValue) CellValue {
	if cached != nil && cached.Tag == VFormula {
		panic("xlcore: formula cached value must not itself be a formula")
	}
	return CellValue{Tag: VFormula, Formula: expr, Cached: cached}
}

// ErrorValue builds an error CellValue.
func ErrorValue(kind CellErrorKind) CellValue { return CellValue{Tag: VError, Err: kind} }

// IsEmpty reports whether the value is the explicit Empty case.
func (v CellValue) IsEmpty() bool { return v.Tag == VEmpty }

// PlainText returns the flattened text of Text/RichText values, the empty
// string otherwise.
func (v CellValue) PlainText() string {
	switch v.Tag {
	case VText:
		return v.Text
	case VRichText:
		s := ""
		for _, r := range v.Runs {
			s += r.Text
		}
		return s
	default:
		return ""
	}
}

// Comment is a per-cell note.
type Comment struct {
	Author string
	Text   string
}

// Cell is an addressed value with optional style and comment.
type Cell struct {
	Ref     ARef
	Value   CellValue
	StyleID *StyleId
	Comment *Comment
}

// NewEmptyCell builds the canonical empty cell at ref.
func NewEmptyCell(ref ARef) Cell {
	return Cell{Ref: ref, Value: Empty()}
}

package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// CellErrorKind is one of the seven OOXML error literals.
type CellErrorKind = domain.CellErrorKind

const (
	ErrDiv0  = domain.ErrDiv0
	ErrNA    = domain.ErrNA
	ErrName  = domain.ErrName
	ErrNull  = domain.ErrNull
	ErrNum   = domain.ErrNum
	ErrRef   = domain.ErrRef
	ErrValue = domain.ErrValue
)

// ParseCellError converts a literal like "#DIV/0!" back into a CellErrorKind.
var ParseCellError = domain.ParseCellError

// RichTextRun is one run of a RichText value: a span of text with its own
// optional font override.
type RichTextRun = domain.RichTextRun

// ValueTag discriminates the cases of CellValue.
type ValueTag = domain.ValueTag

const (
	VEmpty    = domain.VEmpty
	VText     = domain.VText
	VRichText = domain.VRichText
	VNumber   = domain.VNumber
	VBool     = domain.VBool
	VDateTime = domain.VDateTime
	VFormula  = domain.VFormula
	VError    = domain.VError
)

// CellValue is the tagged union of everything a cell can hold.
type CellValue = domain.CellValue

// Empty is the explicit "cleared" cell value, distinct from a missing cell.
var Empty = domain.Empty

// TextValue builds a plain-text CellValue.
var TextValue = domain.TextValue

// RichTextValue builds a rich-text CellValue from an ordered run sequence.
var RichTextValue = domain.RichTextValue

// NumberValue builds a numeric CellValue from a decimal.
var NumberValue = domain.NumberValue

// IntValue builds a numeric CellValue from an int.
var IntValue = domain.IntValue

// FloatValue builds a numeric CellValue from a float64.
var FloatValue = domain.FloatValue

// BoolValue builds a boolean CellValue.
var BoolValue = domain.BoolValue

// DateTimeValue builds a date-time CellValue.
var DateTimeValue = domain.DateTimeValue

// FormulaValue builds a formula CellValue with an optional cached result.
var FormulaValue = domain.FormulaValue

// ErrorValue builds an error CellValue.
var ErrorValue = domain.ErrorValue

// Comment is a per-cell note.
type Comment = domain.Comment

// Cell is an addressed value with optional style and comment.
type Cell = domain.Cell

// NewEmptyCell builds the canonical empty cell at ref.
var NewEmptyCell = domain.NewEmptyCell

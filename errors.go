package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// ErrorKind tags the closed error taxonomy surfaced by the public API.
type ErrorKind = domain.ErrorKind

const (
	InvalidCellRef     = domain.InvalidCellRef
	InvalidSheetName   = domain.InvalidSheetName
	InvalidReference   = domain.InvalidReference
	OutOfBounds        = domain.OutOfBounds
	SheetNotFound      = domain.SheetNotFound
	DuplicateSheet     = domain.DuplicateSheet
	InvalidWorkbook    = domain.InvalidWorkbook
	MergeOverlap       = domain.MergeOverlap
	ValueCountMismatch = domain.ValueCountMismatch
	UnsupportedType    = domain.UnsupportedType
	ParseError         = domain.ParseError
	CycleError         = domain.CycleError
	IOError            = domain.IOError
	CorruptZip         = domain.CorruptZip
	MalformedXml       = domain.MalformedXml
	SourceMutated       = domain.SourceMutated
	SizeMismatch       = domain.SizeMismatch
	UnsupportedFeature = domain.UnsupportedFeature
)

// XLError is the single error type returned across the public API. Every
// fallible operation returns one of these (wrapped in a Go error interface).
// The one panic that crosses a public boundary is FormulaValue's, raised
// when its cached value is itself a Formula.
type XLError = domain.XLError

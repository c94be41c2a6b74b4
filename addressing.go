package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// MaxColumn and MaxRow are the Excel grid limits (0-based).
const (
	MaxColumn = domain.MaxColumn
	MaxRow    = domain.MaxRow
)

// Column is a non-negative 0-based column index (0 = "A").
type Column = domain.Column

// Row is a non-negative 0-based row index (0 = row "1").
type Row = domain.Row

// ParseColumnLetters parses A1-style column letters into a 0-based Column.
var ParseColumnLetters = domain.ParseColumnLetters

// Anchor describes which axes of a reference are "$"-anchored.
type Anchor = domain.Anchor

const (
	Relative = domain.Relative
	AbsCol   = domain.AbsCol
	AbsRow   = domain.AbsRow
	Absolute = domain.Absolute
)

// ARef is a single cell address with its anchor discipline.
type ARef = domain.ARef

// UnpackARef reverses ARef.Pack (anchor information is lost; defaults to Relative).
var UnpackARef = domain.UnpackARef

// ParseARef parses a single A1-style cell reference, with optional "$" anchors.
var ParseARef = domain.ParseARef

// CellRange is a two-endpoint range, normalised so Start <= End on both axes.
type CellRange = domain.CellRange

// NewCellRange builds a CellRange, normalising endpoint order.
var NewCellRange = domain.NewCellRange

// ParseCellRange parses "A1" or "A1:B2" style range text.
var ParseCellRange = domain.ParseCellRange

// SheetName is a validated worksheet name.
type SheetName = domain.SheetName

// NewSheetName validates s against OOXML sheet-name rules.
var NewSheetName = domain.NewSheetName

// RefTag discriminates the cases of RefType.
type RefTag = domain.RefTag

const (
	RefCell           = domain.RefCell
	RefRange          = domain.RefRange
	RefQualifiedCell  = domain.RefQualifiedCell
	RefQualifiedRange = domain.RefQualifiedRange
)

// RefType is the uniform reference value used across the public API: a bare
// cell, a bare range, or either qualified by a sheet name.
type RefType = domain.RefType

// ParseRefType dispatches on "!" (qualified) and ":" (range) to parse any of
// the four RefType shapes, including quoted sheet-name prefixes.
var ParseRefType = domain.ParseRefType

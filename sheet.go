package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// ColumnProperties describes per-column formatting and layout.
type ColumnProperties = domain.ColumnProperties

// RowProperties describes per-row formatting and layout.
type RowProperties = domain.RowProperties

// TableColumn is one column of a Table object.
type TableColumn = domain.TableColumn

// Table is a structured-reference table region (xl/tables/table{n}.xml).
type Table = domain.Table

// Hyperlink is a per-cell hyperlink (external URL, or an internal location).
type Hyperlink = domain.Hyperlink

// Sheet is a persistent worksheet value: every mutating operation returns a
// new Sheet, sharing unmodified structure with the original.
type Sheet = domain.Sheet

// NewSheet builds an empty sheet with the given validated name.
var NewSheet = domain.NewSheet

// NewSheetWithRegistry builds an empty sheet sharing an existing style
// registry pointer, for codec use.
var NewSheetWithRegistry = domain.NewSheetWithRegistry

package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// DefinedName is a named reference, optionally scoped to a single sheet
// (nil SheetScope means workbook-global).
type DefinedName = domain.DefinedName

// Metadata bundles workbook-level document properties.
type Metadata = domain.Metadata

// Workbook is a persistent, ordered collection of sheets plus metadata.
// Every mutating method returns a new Workbook. WriteFile (defined on the
// underlying domain.Workbook, and wired to internal/ooxml by open.go's
// import of that package) performs a surgical write back to an xlsx file.
type Workbook = domain.Workbook

// NewWorkbook constructs a workbook with a single sheet named firstSheet.
var NewWorkbook = domain.NewWorkbook

// NewWorkbookFromParts builds a Workbook directly from its constituent
// parts, for codec use.
var NewWorkbookFromParts = domain.NewWorkbookFromParts

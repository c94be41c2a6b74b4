// Package xlcore is a pure, deterministic library for reading, mutating,
// and writing OOXML (.xlsx) spreadsheets. A Workbook is an immutable value:
// every mutation returns a new Workbook sharing unmodified structure with
// its parent, either directly or via the Patch algebra. Opening a workbook
// from an existing file and writing it back preserves every part this
// library does not model (drawings, themes, VBA, custom XML) byte for
// byte, touching only the parts a mutation actually changed.
package xlcore

import (
	"github.com/tjc-lp/xlcore/internal/ooxml"
)

// Open reads an entire .xlsx package from path. The returned Workbook
// carries a SourceContext, so a later WriteFile performs a surgical write:
// only the parts this library regenerates (styles, shared strings, the
// workbook manifest, modified worksheets) are rebuilt, and everything else
// streams through from the source file unchanged.
func Open(path string) (*Workbook, error) {
	return ooxml.Open(path)
}

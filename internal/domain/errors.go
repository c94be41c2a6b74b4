package domain

import "fmt"

// ErrorKind tags the closed error taxonomy surfaced by the public API.
type ErrorKind int

const (
	InvalidCellRef ErrorKind = iota
	InvalidSheetName
	InvalidReference
	OutOfBounds
	SheetNotFound
	DuplicateSheet
	InvalidWorkbook
	MergeOverlap
	ValueCountMismatch
	UnsupportedType
	ParseError
	CycleError
	IOError
	CorruptZip
	MalformedXml
	SourceMutated
	SizeMismatch
	UnsupportedFeature
)

var errorKindNames = map[ErrorKind]string{
	InvalidCellRef:      "InvalidCellRef",
	InvalidSheetName:    "InvalidSheetName",
	InvalidReference:    "InvalidReference",
	OutOfBounds:         "OutOfBounds",
	SheetNotFound:       "SheetNotFound",
	DuplicateSheet:      "DuplicateSheet",
	InvalidWorkbook:     "InvalidWorkbook",
	MergeOverlap:        "MergeOverlap",
	ValueCountMismatch:  "ValueCountMismatch",
	UnsupportedType:     "UnsupportedType",
	ParseError:          "ParseError",
	CycleError:          "CycleError",
	IOError:             "IOError",
	CorruptZip:          "CorruptZip",
	MalformedXml:        "MalformedXml",
	SourceMutated:       "SourceMutated",
	SizeMismatch:        "SizeMismatch",
	UnsupportedFeature:  "UnsupportedFeature",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// XLError is the single error type returned across the public API. Every
// fallible operation returns one of these (wrapped in a Go error interface).
// The one panic that crosses a public boundary is FormulaValue's, raised
// when its cached value is itself a Formula.
type XLError struct {
	Kind    ErrorKind
	Input   string
	Detail  string
	Context []string
}

func (e *XLError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Input, e.Detail)
}

func newErr(kind ErrorKind, input, detail string) *XLError {
	return &XLError{Kind: kind, Input: input, Detail: detail}
}

func errInvalidCellRef(input, detail string) error { return newErr(InvalidCellRef, input, detail) }
func errInvalidSheetName(input, detail string) error {
	return newErr(InvalidSheetName, input, detail)
}
func errInvalidReference(detail string) error { return newErr(InvalidReference, "", detail) }
func errOutOfBounds(what, rng string) error {
	return newErr(OutOfBounds, what, rng)
}
func errSheetNotFound(name string) error { return newErr(SheetNotFound, name, "sheet not found") }
func errDuplicateSheet(name string) error {
	return newErr(DuplicateSheet, name, "sheet name already in use")
}
func errInvalidWorkbook(detail string) error { return newErr(InvalidWorkbook, "", detail) }
func errMergeOverlap(rng string) error {
	return newErr(MergeOverlap, rng, "range intersects an existing merge")
}
func errValueCountMismatch(expected, actual int, context string) error {
	return newErr(ValueCountMismatch, context, fmt.Sprintf("expected %d values, got %d", expected, actual))
}
func errUnsupportedType(ref, typeName string) error {
	return newErr(UnsupportedType, ref, fmt.Sprintf("cannot coerce value of type %s", typeName))
}
func errParse(input, detail string) error { return newErr(ParseError, input, detail) }
func errCycle(cells []string) error {
	e := newErr(CycleError, "", "dependency cycle detected")
	e.Context = cells
	return e
}
func errIO(detail string) error        { return newErr(IOError, "", detail) }
func errCorruptZip(detail string) error { return newErr(CorruptZip, "", detail) }
func errMalformedXml(part, detail string) error { return newErr(MalformedXml, part, detail) }
func errSourceMutated(path string) error {
	return newErr(SourceMutated, path, "source file changed since it was opened")
}
func errSizeMismatch(entry string) error {
	return newErr(SizeMismatch, entry, "preserved-part copy size disagrees with manifest")
}

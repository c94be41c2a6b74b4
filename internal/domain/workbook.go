package domain

import (
	"time"
)

// DefinedName is a named reference, optionally scoped to a single sheet
// (nil SheetScope means workbook-global).
type DefinedName struct {
	Name       string
	RefersTo   string
	SheetScope *int
}

// Metadata bundles workbook-level document properties.
type Metadata struct {
	Creator     string
	Created     time.Time
	Modified    time.Time
	Application string
	Theme       ThemePalette
	DefinedNames []DefinedName
	// Visibility maps sheet index to whether it is hidden.
	Visibility map[int]bool
}

// Workbook is a persistent, ordered collection of sheets plus metadata.
// Every mutating method returns a new Workbook.
type Workbook struct {
	sheets      []*Sheet
	meta        Metadata
	activeSheet int
	source      *SourceContext
}

// NewWorkbook constructs a workbook with a single sheet named firstSheet.
func NewWorkbook(firstSheet string) (*Workbook, error) {
	name, err := NewSheetName(firstSheet)
	if err != nil {
		return nil, err
	}
	return &Workbook{
		sheets: []*Sheet{NewSheet(name)},
		meta: Metadata{
			Theme:      DefaultThemePalette,
			Visibility: map[int]bool{},
		},
	}, nil
}

// NewWorkbookFromParts builds a Workbook directly from its constituent
// parts, for codec use: the reader parses every sheet and workbook-level
// part independently and then assembles them in one step, rather than
// going through AddSheet (which would hand each sheet its own independent
// StyleRegistry instead of the single shared one built from styles.xml).
func NewWorkbookFromParts(sheets []*Sheet, meta Metadata, activeSheet int, source *SourceContext) *Workbook {
	out := make([]*Sheet, len(sheets))
	copy(out, sheets)
	return &Workbook{
		sheets:      out,
		meta:        meta,
		activeSheet: activeSheet,
		source:      source,
	}
}

// Sheets returns a snapshot slice of the workbook's sheets, in order.
func (w *Workbook) Sheets() []*Sheet {
	out := make([]*Sheet, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// SheetAt returns the sheet at the given index.
func (w *Workbook) SheetAt(idx int) (*Sheet, error) {
	if idx < 0 || idx >= len(w.sheets) {
		return nil, errOutOfBounds("sheet index", "")
	}
	return w.sheets[idx], nil
}

// SheetByName finds a sheet by name (case-sensitive per ECMA-376).
func (w *Workbook) SheetByName(name SheetName) (*Sheet, int, error) {
	for i, s := range w.sheets {
		if s.Name == name {
			return s, i, nil
		}
	}
	return nil, -1, errSheetNotFound(string(name))
}

// ActiveSheet returns the active sheet index.
func (w *Workbook) ActiveSheet() int { return w.activeSheet }

// Metadata returns the workbook's metadata.
func (w *Workbook) Metadata() Metadata { return w.meta }

// SourceContext returns the workbook's source context, or nil for a new or
// fully synthetic workbook.
func (w *Workbook) SourceContext() *SourceContext { return w.source }

// clone performs a shallow copy of the workbook, ready for the caller to
// replace exactly the fields it mutates.
func (w *Workbook) clone() *Workbook {
	n := &Workbook{
		activeSheet: w.activeSheet,
		source:      w.source,
	}
	n.sheets = make([]*Sheet, len(w.sheets))
	copy(n.sheets, w.sheets)
	n.meta = w.meta
	n.meta.DefinedNames = append([]DefinedName(nil), w.meta.DefinedNames...)
	vis := make(map[int]bool, len(w.meta.Visibility))
	for k, v := range w.meta.Visibility {
		vis[k] = v
	}
	n.meta.Visibility = vis
	return n
}

func (w *Workbook) tracker() *ModificationTracker {
	if w.source != nil {
		return w.source.Tracker
	}
	return NewModificationTracker()
}

func (w *Workbook) withTracker(t *ModificationTracker) *Workbook {
	if w.source == nil {
		return w
	}
	n := *w.source
	n.Tracker = t
	w2 := w.clone()
	w2.source = &n
	return w2
}

// WithSheetReplaced returns a new Workbook with the sheet at idx replaced,
// marking it modified in the tracker.
func (w *Workbook) WithSheetReplaced(idx int, s *Sheet) (*Workbook, error) {
	if idx < 0 || idx >= len(w.sheets) {
		return nil, errOutOfBounds("sheet index", "")
	}
	n := w.clone()
	n.sheets[idx] = s
	n = n.withTracker(n.tracker().MarkSheetModified(idx))
	return n, nil
}

// AddSheet appends a new sheet, failing with DuplicateSheet if the name is
// already in use.
func (w *Workbook) AddSheet(name SheetName) (*Workbook, error) {
	for _, s := range w.sheets {
		if s.Name == name {
			return nil, errDuplicateSheet(string(name))
		}
	}
	n := w.clone()
	n.sheets = append(n.sheets, NewSheet(name))
	n = n.withTracker(n.tracker().MarkSheetModified(len(n.sheets) - 1))
	n = n.withTracker(n.tracker().MarkMetadata())
	return n, nil
}

// RemoveSheetAt removes the sheet at idx. Fails with InvalidWorkbook if it
// is the last remaining sheet (invariant 7).
func (w *Workbook) RemoveSheetAt(idx int) (*Workbook, error) {
	if idx < 0 || idx >= len(w.sheets) {
		return nil, errOutOfBounds("sheet index", "")
	}
	if len(w.sheets) == 1 {
		return nil, errInvalidWorkbook("cannot remove the last sheet")
	}
	n := w.clone()
	n.sheets = append(n.sheets[:idx], n.sheets[idx+1:]...)
	n = n.withTracker(n.tracker().MarkSheetDeleted(idx))
	n = n.withTracker(n.tracker().MarkMetadata())
	if n.activeSheet >= len(n.sheets) {
		n.activeSheet = len(n.sheets) - 1
	}
	return n, nil
}

// ReorderSheets returns a new Workbook with sheets permuted to order (a
// permutation of 0..len(sheets)-1).
func (w *Workbook) ReorderSheets(order []int) (*Workbook, error) {
	if len(order) != len(w.sheets) {
		return nil, errInvalidWorkbook("reorder permutation length mismatch")
	}
	seen := make(map[int]bool, len(order))
	next := make([]*Sheet, len(order))
	for i, idx := range order {
		if idx < 0 || idx >= len(w.sheets) || seen[idx] {
			return nil, errInvalidWorkbook("reorder permutation is not a bijection")
		}
		seen[idx] = true
		next[i] = w.sheets[idx]
	}
	n := w.clone()
	n.sheets = next
	n = n.withTracker(n.tracker().MarkReordered())
	return n, nil
}

// WithActiveSheet returns a new Workbook with the active sheet index set.
func (w *Workbook) WithActiveSheet(idx int) (*Workbook, error) {
	if idx < 0 || idx >= len(w.sheets) {
		return nil, errOutOfBounds("sheet index", "")
	}
	n := w.clone()
	n.activeSheet = idx
	n = n.withTracker(n.tracker().MarkMetadata())
	return n, nil
}

// WithMetadata returns a new Workbook with metadata replaced wholesale.
func (w *Workbook) WithMetadata(m Metadata) *Workbook {
	n := w.clone()
	n.meta = m
	n = n.withTracker(n.tracker().MarkMetadata())
	return n
}

// Clone returns a defensive copy of the workbook, safe for a caller to fork
// and write to two independent destinations without either write observing
// the other's state. Only the manifest's entry slice needs an independent
// backing array (PartEntry is a flat value type, so a plain append does the
// job); the domain model itself (sheets, registries) is never deep-copied —
// a reflective walk would duplicate each sheet's StyleRegistry instead of
// sharing it, breaking the append-only sharing invariant.
func (w *Workbook) Clone() *Workbook {
	n := w.clone()
	if w.source != nil {
		sc := *w.source
		sc.Manifest.Entries = append([]PartEntry(nil), w.source.Manifest.Entries...)
		n.source = &sc
	}
	return n
}

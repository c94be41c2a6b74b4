package domain

// ColumnProperties describes per-column formatting and layout.
type ColumnProperties struct {
	Width   *float64
	Hidden  bool
	Outline int
	StyleID *StyleId
}

// RowProperties describes per-row formatting and layout.
type RowProperties struct {
	Height    *float64
	Hidden    bool
	Outline   int
	Collapsed bool
	StyleID   *StyleId
}

// TableColumn is one column of a Table object.
type TableColumn struct {
	Name string
}

// Table is a structured-reference table region (xl/tables/table{n}.xml).
type Table struct {
	Name    string
	ID      string // preserved from source, or deterministically derived from ordinal on write
	Ref     CellRange
	Columns []TableColumn
	Style   string
}

// Hyperlink is a per-cell hyperlink (external URL, or an internal location).
type Hyperlink struct {
	Target   string
	Location string
	Tooltip  string
}

// Sheet is a persistent worksheet value: every mutating operation returns a
// new Sheet, sharing unmodified structure with the original.
type Sheet struct {
	Name SheetName

	cells map[ARef]Cell
	merges []CellRange

	columns map[Column]ColumnProperties
	rows    map[Row]RowProperties

	defaultColWidth  *float64
	defaultRowHeight *float64

	hyperlinks map[ARef]Hyperlink
	tables     []Table

	registry *StyleRegistry
}

// NewSheet builds an empty sheet with the given validated name.
func NewSheet(name SheetName) *Sheet {
	return &Sheet{
		Name:       name,
		cells:      map[ARef]Cell{},
		columns:    map[Column]ColumnProperties{},
		rows:       map[Row]RowProperties{},
		hyperlinks: map[ARef]Hyperlink{},
		registry:   NewStyleRegistry(),
	}
}

// NewSheetWithRegistry builds an empty sheet sharing an existing style
// registry pointer, for codec use: every worksheet read from the same
// workbook shares one registry built from the single workbook-wide
// styles.xml, so StyleId values are consistent across sheets.
func NewSheetWithRegistry(name SheetName, reg *StyleRegistry) *Sheet {
	s := NewSheet(name)
	s.registry = reg
	return s
}

// Registry returns the sheet's style registry.
func (s *Sheet) Registry() *StyleRegistry { return s.registry }

// Cell returns the cell at ref, or the canonical empty cell if absent.
func (s *Sheet) Cell(ref ARef) Cell {
	if c, ok := s.cells[ref]; ok {
		return c
	}
	return NewEmptyCell(ref)
}

// Cells returns a snapshot of every stored cell in the sheet, including
// cells that hold only a style or a comment over an Empty value.
func (s *Sheet) Cells() map[ARef]Cell {
	out := make(map[ARef]Cell, len(s.cells))
	for k, v := range s.cells {
		out[k] = v
	}
	return out
}

// Merges returns a snapshot of the sheet's merged ranges.
func (s *Sheet) Merges() []CellRange {
	out := make([]CellRange, len(s.merges))
	copy(out, s.merges)
	return out
}

// Tables returns a snapshot of the sheet's table objects.
func (s *Sheet) Tables() []Table {
	out := make([]Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// clone performs a shallow copy of every persistent field, ready for the
// caller to mutate exactly one of them before returning.
func (s *Sheet) clone() *Sheet {
	n := &Sheet{
		Name:             s.Name,
		defaultColWidth:  s.defaultColWidth,
		defaultRowHeight: s.defaultRowHeight,
		registry:         s.registry,
	}
	n.cells = make(map[ARef]Cell, len(s.cells))
	for k, v := range s.cells {
		n.cells[k] = v
	}
	n.merges = make([]CellRange, len(s.merges))
	copy(n.merges, s.merges)
	n.columns = make(map[Column]ColumnProperties, len(s.columns))
	for k, v := range s.columns {
		n.columns[k] = v
	}
	n.rows = make(map[Row]RowProperties, len(s.rows))
	for k, v := range s.rows {
		n.rows[k] = v
	}
	n.hyperlinks = make(map[ARef]Hyperlink, len(s.hyperlinks))
	for k, v := range s.hyperlinks {
		n.hyperlinks[k] = v
	}
	n.tables = make([]Table, len(s.tables))
	copy(n.tables, s.tables)
	return n
}

// WithCell returns a new Sheet with ref set to value.
func (s *Sheet) WithCell(ref ARef, value CellValue) *Sheet {
	n := s.clone()
	existing := n.cells[ref]
	existing.Ref = ref
	existing.Value = value
	n.cells[ref] = existing
	return n
}

// WithoutCell returns a new Sheet with ref removed entirely.
func (s *Sheet) WithoutCell(ref ARef) *Sheet {
	n := s.clone()
	delete(n.cells, ref)
	return n
}

// WithStyle returns a new Sheet with ref's StyleId set to an existing id.
func (s *Sheet) WithStyle(ref ARef, id StyleId) *Sheet {
	n := s.clone()
	c := n.cells[ref]
	c.Ref = ref
	sid := id
	c.StyleID = &sid
	n.cells[ref] = c
	return n
}

// WithClearedStyle returns a new Sheet with ref's StyleId dropped.
func (s *Sheet) WithClearedStyle(ref ARef) *Sheet {
	n := s.clone()
	c, ok := n.cells[ref]
	if !ok {
		return s
	}
	c.StyleID = nil
	n.cells[ref] = c
	return n
}

// RegisterStyle registers style in the sheet's registry and returns a new
// Sheet plus the resolved id.
func (s *Sheet) RegisterStyle(style CellStyle) (*Sheet, StyleId) {
	newReg, id := s.registry.Register(style)
	if newReg == s.registry {
		return s, id
	}
	n := s.clone()
	n.registry = newReg
	return n, id
}

// WithMerge returns a new Sheet with rng merged. Fails with MergeOverlap if
// rng intersects an existing merge (end-inclusive on both axes).
func (s *Sheet) WithMerge(rng CellRange) (*Sheet, error) {
	for _, m := range s.merges {
		if m.Overlaps(rng) {
			return nil, errMergeOverlap(rng.ToA1())
		}
	}
	n := s.clone()
	n.merges = append(n.merges, rng)
	return n, nil
}

// WithoutMerge returns a new Sheet with rng unmerged, if present.
func (s *Sheet) WithoutMerge(rng CellRange) *Sheet {
	n := s.clone()
	out := n.merges[:0]
	for _, m := range n.merges {
		if m != rng {
			out = append(out, m)
		}
	}
	n.merges = out
	return n
}

// WithColumnProperties returns a new Sheet with col's properties replaced.
func (s *Sheet) WithColumnProperties(col Column, props ColumnProperties) *Sheet {
	n := s.clone()
	n.columns[col] = props
	return n
}

// WithRowProperties returns a new Sheet with row's properties replaced.
func (s *Sheet) WithRowProperties(row Row, props RowProperties) *Sheet {
	n := s.clone()
	n.rows[row] = props
	return n
}

// ColumnProperties returns col's properties, and whether any were set.
func (s *Sheet) ColumnProperties(col Column) (ColumnProperties, bool) {
	p, ok := s.columns[col]
	return p, ok
}

// AllColumnProperties returns a snapshot of every column with explicitly
// set properties.
func (s *Sheet) AllColumnProperties() map[Column]ColumnProperties {
	out := make(map[Column]ColumnProperties, len(s.columns))
	for k, v := range s.columns {
		out[k] = v
	}
	return out
}

// RowProperties returns row's properties, and whether any were set.
func (s *Sheet) RowProperties(row Row) (RowProperties, bool) {
	p, ok := s.rows[row]
	return p, ok
}

// WithComment returns a new Sheet with ref's comment set.
func (s *Sheet) WithComment(ref ARef, c Comment) *Sheet {
	n := s.clone()
	cell := n.cells[ref]
	cell.Ref = ref
	cc := c
	cell.Comment = &cc
	n.cells[ref] = cell
	return n
}

// WithoutComment returns a new Sheet with ref's comment removed.
func (s *Sheet) WithoutComment(ref ARef) *Sheet {
	n := s.clone()
	cell, ok := n.cells[ref]
	if !ok {
		return s
	}
	cell.Comment = nil
	n.cells[ref] = cell
	return n
}

// WithTable returns a new Sheet with table appended.
func (s *Sheet) WithTable(t Table) *Sheet {
	n := s.clone()
	n.tables = append(n.tables, t)
	return n
}

// WithHyperlink returns a new Sheet with ref's hyperlink set.
func (s *Sheet) WithHyperlink(ref ARef, h Hyperlink) *Sheet {
	n := s.clone()
	n.hyperlinks[ref] = h
	return n
}

// Hyperlinks returns a snapshot of the sheet's hyperlinks.
func (s *Sheet) Hyperlinks() map[ARef]Hyperlink {
	out := make(map[ARef]Hyperlink, len(s.hyperlinks))
	for k, v := range s.hyperlinks {
		out[k] = v
	}
	return out
}

package ooxml

import (
	"encoding/xml"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// xlsxWorksheet is one xl/worksheets/sheetN.xml document. Sub-parts this
// module does not model (conditional formatting, data validations, drawing
// anchors, page setup, sparkline groups) round-trip as captured innerxml
// rather than being dropped.
type xlsxWorksheet struct {
	XMLName       xml.Name        `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main worksheet"`
	SheetPr       *xlsxSheetPr    `xml:"sheetPr"`
	Dimension     *xlsxDimension  `xml:"dimension"`
	SheetFormatPr *xlsxSheetFormatPr `xml:"sheetFormatPr"`
	Cols          *xlsxCols       `xml:"cols"`
	SheetData     xlsxSheetData   `xml:"sheetData"`
	MergeCells    *xlsxMergeCells `xml:"mergeCells"`
	Hyperlinks    *xlsxHyperlinks `xml:"hyperlinks"`
	TableParts    *xlsxTableParts `xml:"tableParts"`
	Passthrough   []passthroughEl `xml:",any"`
}

// xlsxTableParts lists, by relationship id, the xl/tables/table{n}.xml
// parts this worksheet's .rels resolves for it.
type xlsxTableParts struct {
	Count      int               `xml:"count,attr"`
	TablePart  []xlsxTablePartRef `xml:"tablePart"`
}

type xlsxTablePartRef struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// passthroughEl captures any worksheet child element this module doesn't
// otherwise model, verbatim, so a surgical write can re-emit it unchanged.
type passthroughEl struct {
	XMLName xml.Name
	Content string `xml:",innerxml"`
}

type xlsxSheetPr struct {
	CodeName string `xml:"codeName,attr,omitempty"`
}

type xlsxDimension struct {
	Ref string `xml:"ref,attr"`
}

type xlsxSheetFormatPr struct {
	DefaultColWidth  float64 `xml:"defaultColWidth,attr,omitempty"`
	DefaultRowHeight float64 `xml:"defaultRowHeight,attr"`
}

type xlsxCols struct {
	Col []xlsxCol `xml:"col"`
}

type xlsxCol struct {
	Min      int     `xml:"min,attr"`
	Max      int     `xml:"max,attr"`
	Width    float64 `xml:"width,attr,omitempty"`
	Style    int     `xml:"style,attr,omitempty"`
	Hidden   bool    `xml:"hidden,attr,omitempty"`
	OutlineLevel int `xml:"outlineLevel,attr,omitempty"`
}

type xlsxSheetData struct {
	Row []xlsxRow `xml:"row"`
}

type xlsxRow struct {
	R            int      `xml:"r,attr"`
	Spans        string   `xml:"spans,attr,omitempty"`
	Ht           float64  `xml:"ht,attr,omitempty"`
	Hidden       bool     `xml:"hidden,attr,omitempty"`
	OutlineLevel int      `xml:"outlineLevel,attr,omitempty"`
	Collapsed    bool     `xml:"collapsed,attr,omitempty"`
	S            int      `xml:"s,attr,omitempty"`
	CustomFormat bool     `xml:"customFormat,attr,omitempty"`
	C            []xlsxC  `xml:"c"`
}

type xlsxC struct {
	R string  `xml:"r,attr"`
	S int     `xml:"s,attr,omitempty"`
	T string  `xml:"t,attr,omitempty"`
	F *xlsxF  `xml:"f"`
	V string  `xml:"v,omitempty"`
	Is *xlsxIS `xml:"is"`
}

type xlsxF struct {
	Content string `xml:",chardata"`
	T       string `xml:"t,attr,omitempty"`
	Ref     string `xml:"ref,attr,omitempty"`
	Si      *int   `xml:"si,attr"`
}

// xlsxIS is an inline string (t="inlineStr"), used for cell text that is
// not shared-string-table eligible.
type xlsxIS struct {
	T string `xml:"t"`
}

type xlsxMergeCells struct {
	Count int              `xml:"count,attr,omitempty"`
	Cells []xlsxMergeCell  `xml:"mergeCell"`
}

type xlsxMergeCell struct {
	Ref string `xml:"ref,attr"`
}

type xlsxHyperlinks struct {
	Hyperlink []xlsxHyperlink `xml:"hyperlink"`
}

type xlsxHyperlink struct {
	Ref      string `xml:"ref,attr"`
	RID      string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr,omitempty"`
	Location string `xml:"location,attr,omitempty"`
	Tooltip  string `xml:"tooltip,attr,omitempty"`
	Display  string `xml:"display,attr,omitempty"`
}

// These are the t-attribute values the read path distinguishes when it
// interprets xlsxC.V (b, e, s, str, inlineStr); any other t, n included,
// takes the numeric path.
const (
	tBool      = "b"
	tError     = "e"
	tShared    = "s"
	tInlineStr = "inlineStr"
	tStr       = "str"
)

// worksheetReadContext bundles the per-workbook read-time tables a single
// worksheet's cell values are resolved against.
type worksheetReadContext struct {
	sst        *SharedStringTable
	numFmtByXf map[int]domain.NumFmt
	date1904   bool
	// rels maps this worksheet's own .rels relationship ids to targets, for
	// resolving hyperlink r:id references to an external URL. Nil for a
	// worksheet with no accompanying .rels part.
	rels map[string]string
	// loadTable resolves a tableParts r:id to its parsed Table, nil if this
	// worksheet declares none.
	loadTable func(rid string) (domain.Table, error)
}

// ParseWorksheet decodes one worksheet part and folds every row/cell into
// an domain.Sheet built against reg (the workbook's single shared style
// registry) and ctx (the shared-string table and numFmt-by-xf lookup
// derived from styles.xml).
func ParseWorksheet(data []byte, name domain.SheetName, reg *domain.StyleRegistry, xfToStyle []domain.StyleId, ctx worksheetReadContext) (*domain.Sheet, error) {
	var ws xlsxWorksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	sheet := domain.NewSheetWithRegistry(name, reg)

	for _, col := range optionalCols(ws.Cols) {
		for c := col.Min; c <= col.Max; c++ {
			props := domain.ColumnProperties{Hidden: col.Hidden, Outline: col.OutlineLevel}
			if col.Width != 0 {
				w := col.Width
				props.Width = &w
			}
			if col.Style != 0 {
				sid := resolveStyle(xfToStyle, col.Style)
				props.StyleID = &sid
			}
			sheet = sheet.WithColumnProperties(domain.Column(c-1), props)
		}
	}

	for _, row := range ws.SheetData.Row {
		rowProps := domain.RowProperties{Hidden: row.Hidden, Outline: row.OutlineLevel, Collapsed: row.Collapsed}
		if row.Ht != 0 {
			h := row.Ht
			rowProps.Height = &h
		}
		if row.S != 0 {
			sid := resolveStyle(xfToStyle, row.S)
			rowProps.StyleID = &sid
		}
		if row.Ht != 0 || row.Hidden || row.OutlineLevel != 0 || row.Collapsed || row.S != 0 {
			sheet = sheet.WithRowProperties(domain.Row(row.R-1), rowProps)
		}

		for _, c := range row.C {
			ref, err := domain.ParseARef(c.R)
			if err != nil {
				continue
			}
			value := cellValueFromXML(c, ctx)
			sheet = sheet.WithCell(ref, value)
			if c.S != 0 {
				sheet = sheet.WithStyle(ref, resolveStyle(xfToStyle, c.S))
			}
		}
	}

	if ws.MergeCells != nil {
		for _, m := range ws.MergeCells.Cells {
			rng, err := domain.ParseCellRange(m.Ref)
			if err != nil {
				continue
			}
			if merged, err := sheet.WithMerge(rng); err == nil {
				sheet = merged
			}
		}
	}

	if ws.Hyperlinks != nil {
		for _, h := range ws.Hyperlinks.Hyperlink {
			ref, err := domain.ParseARef(h.Ref)
			if err != nil {
				continue
			}
			target := ""
			if h.RID != "" {
				target = ctx.rels[h.RID]
			}
			sheet = sheet.WithHyperlink(ref, domain.Hyperlink{
				Target:   target,
				Location: h.Location,
				Tooltip:  h.Tooltip,
			})
		}
	}

	if ws.TableParts != nil && ctx.loadTable != nil {
		for _, tp := range ws.TableParts.TablePart {
			t, err := ctx.loadTable(tp.RID)
			if err != nil {
				continue
			}
			sheet = sheet.WithTable(t)
		}
	}

	return sheet, nil
}

func optionalCols(c *xlsxCols) []xlsxCol {
	if c == nil {
		return nil
	}
	return c.Col
}

func resolveStyle(xfToStyle []domain.StyleId, xfIndex int) domain.StyleId {
	if xfIndex >= 0 && xfIndex < len(xfToStyle) {
		return xfToStyle[xfIndex]
	}
	return 0
}

func cellValueFromXML(c xlsxC, ctx worksheetReadContext) domain.CellValue {
	if c.F != nil {
		var cached *domain.CellValue
		if lit := literalValue(c, ctx); lit != nil {
			cached = lit
		}
		return domain.FormulaValue("="+c.F.Content, cached)
	}
	lit := literalValue(c, ctx)
	if lit == nil {
		return domain.Empty()
	}
	return *lit
}

func literalValue(c xlsxC, ctx worksheetReadContext) *domain.CellValue {
	switch c.T {
	case tBool:
		v := domain.BoolValue(c.V == "1")
		return &v
	case tError:
		if kind, ok := domain.ParseCellError(c.V); ok {
			v := domain.ErrorValue(kind)
			return &v
		}
		v := domain.ErrorValue(domain.ErrValue)
		return &v
	case tShared:
		idx, err := strconv.Atoi(c.V)
		if err != nil || ctx.sst == nil {
			v := domain.Empty()
			return &v
		}
		if runs := ctx.sst.Runs(idx); runs != nil {
			v := domain.RichTextValue(runs)
			return &v
		}
		v := domain.TextValue(ctx.sst.Text(idx))
		return &v
	case tStr:
		v := domain.TextValue(c.V)
		return &v
	case tInlineStr:
		if c.Is != nil {
			v := domain.TextValue(c.Is.T)
			return &v
		}
		v := domain.Empty()
		return &v
	default:
		if c.V == "" {
			return nil
		}
		d, err := decimal.NewFromString(c.V)
		if err != nil {
			v := domain.TextValue(c.V)
			return &v
		}
		nf := ctx.numFmtByXf[c.S]
		if isDateNumFmt(nf.BuiltInID(), nf.Code) {
			if t, ok := serialToTime(d, ctx.date1904); ok {
				v := domain.DateTimeValue(t)
				return &v
			}
		}
		v := domain.NumberValue(d)
		return &v
	}
}

// BuildWorksheet assembles one worksheet part from sheet. xfIndex resolves
// a cell/row/column's StyleId (an index into this particular sheet's own
// StyleRegistry) to the workbook-wide cellXfs index the writer's combined
// StyleIndex assigned it — sheets built independently (e.g. via AddSheet)
// each carry their own registry, so this indirection is what lets several
// such registries share one xl/styles.xml without collision. It also
// interns string values into sst and returns the external-hyperlink
// relationships (rId -> URL) the returned worksheet's hyperlink r:id
// attributes reference; the writer must emit these into the worksheet's
// own .rels part.
func BuildWorksheet(sheet *domain.Sheet, xfIndex func(domain.StyleId) int, sst *SharedStringTable, date1904 bool) (*xlsxWorksheet, map[string]string) {
	cells := sheet.Cells()
	maxRow, maxCol := 0, 0
	byRow := map[int][]domain.Cell{}
	for ref, c := range cells {
		r := int(ref.Row) + 1
		byRow[r] = append(byRow[r], c)
		if r > maxRow {
			maxRow = r
		}
		if int(ref.Col)+1 > maxCol {
			maxCol = int(ref.Col) + 1
		}
	}

	ws := &xlsxWorksheet{}
	if maxRow > 0 && maxCol > 0 {
		ws.Dimension = &xlsxDimension{Ref: domain.CellRange{
			Start: domain.ARef{Col: 0, Row: 0},
			End:   domain.ARef{Col: domain.Column(maxCol - 1), Row: domain.Row(maxRow - 1)},
		}.ToA1()}
	}

	colProps := sheet.AllColumnProperties()
	if len(colProps) > 0 {
		cols := make([]int, 0, len(colProps))
		for c := range colProps {
			cols = append(cols, int(c))
		}
		sortInts(cols)
		xc := &xlsxCols{}
		for _, c := range cols {
			p := colProps[domain.Column(c)]
			col := xlsxCol{Min: c + 1, Max: c + 1, Hidden: p.Hidden, OutlineLevel: p.Outline}
			if p.Width != nil {
				col.Width = *p.Width
			}
			if p.StyleID != nil {
				col.Style = xfIndex(*p.StyleID)
			}
			xc.Col = append(xc.Col, col)
		}
		ws.Cols = xc
	}

	rowNumbers := make([]int, 0, len(byRow))
	for r := range byRow {
		rowNumbers = append(rowNumbers, r)
	}
	sortInts(rowNumbers)

	for _, r := range rowNumbers {
		rowCells := byRow[r]
		sortCellsByCol(rowCells)
		xr := xlsxRow{R: r}
		if props, ok := sheet.RowProperties(domain.Row(r - 1)); ok {
			xr.Hidden = props.Hidden
			xr.OutlineLevel = props.Outline
			xr.Collapsed = props.Collapsed
			if props.Height != nil {
				xr.Ht = *props.Height
			}
			if props.StyleID != nil {
				xr.S = xfIndex(*props.StyleID)
			}
		}
		for _, c := range rowCells {
			xr.C = append(xr.C, cellToXML(c, sst, xfIndex))
		}
		ws.SheetData.Row = append(ws.SheetData.Row, xr)
	}

	merges := sheet.Merges()
	if len(merges) > 0 {
		mc := &xlsxMergeCells{Count: len(merges)}
		for _, m := range merges {
			mc.Cells = append(mc.Cells, xlsxMergeCell{Ref: m.ToA1()})
		}
		ws.MergeCells = mc
	}

	links := sheet.Hyperlinks()
	var rels map[string]string
	if len(links) > 0 {
		refs := make([]domain.ARef, 0, len(links))
		for ref := range links {
			refs = append(refs, ref)
		}
		sortRefs(refs)
		hl := &xlsxHyperlinks{}
		nextRID := 1
		for _, ref := range refs {
			h := links[ref]
			xh := xlsxHyperlink{
				Ref:      ref.ToA1(),
				Location: h.Location,
				Tooltip:  h.Tooltip,
			}
			if h.Target != "" {
				if rels == nil {
					rels = map[string]string{}
				}
				rid := "rId" + strconv.Itoa(nextRID)
				nextRID++
				rels[rid] = h.Target
				xh.RID = rid
			}
			hl.Hyperlink = append(hl.Hyperlink, xh)
		}
		ws.Hyperlinks = hl
	}

	return ws, rels
}

// AttachTableParts builds one xl/tables/table{n}.xml document per table on
// sheet (numbered from startOrdinal, the workbook-wide running count: table
// ids/filenames are unique across the whole workbook, not per-sheet), wires
// a <tableParts> element referencing them into ws, and returns the
// relationship (rId -> part path) entries the worksheet's own .rels needs.
// ridStart lets the caller keep relationship ids unique within a worksheet's
// .rels part when hyperlink relationships already occupy rId1..rIdN.
func AttachTableParts(ws *xlsxWorksheet, tables []domain.Table, startOrdinal, ridStart int) (docs []*xlsxTable, rels map[string]string, nextOrdinal int) {
	if len(tables) == 0 {
		return nil, nil, startOrdinal
	}
	rels = map[string]string{}
	parts := &xlsxTableParts{Count: len(tables)}
	ordinal := startOrdinal
	for i, t := range tables {
		doc, _ := BuildTable(t, ordinal)
		docs = append(docs, doc)
		rid := "rId" + strconv.Itoa(ridStart+i)
		rels[rid] = "../tables/table" + strconv.Itoa(ordinal) + ".xml"
		parts.TablePart = append(parts.TablePart, xlsxTablePartRef{RID: rid})
		ordinal++
	}
	ws.TableParts = parts
	return docs, rels, ordinal
}

func cellToXML(c domain.Cell, sst *SharedStringTable, xfIndex func(domain.StyleId) int) xlsxC {
	xc := xlsxC{R: c.Ref.ToA1()}
	if c.StyleID != nil {
		xc.S = xfIndex(*c.StyleID)
	}
	v := c.Value
	if v.Tag == domain.VFormula {
		xc.F = &xlsxF{Content: trimLeadingEquals(v.Formula)}
		if v.Cached != nil {
			applyLiteral(&xc, *v.Cached, sst)
		}
		return xc
	}
	applyLiteral(&xc, v, sst)
	return xc
}

func trimLeadingEquals(f string) string {
	if len(f) > 0 && f[0] == '=' {
		return f[1:]
	}
	return f
}

func applyLiteral(xc *xlsxC, v domain.CellValue, sst *SharedStringTable) {
	switch v.Tag {
	case domain.VEmpty:
	case domain.VText:
		xc.T = tShared
		xc.V = strconv.Itoa(sst.Intern(v.Text))
	case domain.VRichText:
		xc.T = tShared
		xc.V = strconv.Itoa(sst.AppendRich(v.Runs))
	case domain.VNumber:
		xc.V = v.Number.String()
	case domain.VBool:
		xc.T = tBool
		if v.Bool {
			xc.V = "1"
		} else {
			xc.V = "0"
		}
	case domain.VDateTime:
		xc.V = decimal.NewFromFloat(timeToSerial(v.DateTime)).String()
	case domain.VError:
		xc.T = tError
		xc.V = v.Err.String()
	}
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func sortCellsByCol(cells []domain.Cell) {
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && cells[j-1].Ref.Col > cells[j].Ref.Col; j-- {
			cells[j-1], cells[j] = cells[j], cells[j-1]
		}
	}
}

func sortRefs(refs []domain.ARef) {
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j-1].Pack() > refs[j].Pack(); j-- {
			refs[j-1], refs[j] = refs[j], refs[j-1]
		}
	}
}

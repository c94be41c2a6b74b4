package ooxml

import (
	"fmt"
	"sort"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// ParseStyleSheet builds the domain StyleRegistry from an already-unmarshaled
// xl/styles.xml document, plus the index mapping each source cellXfs
// position to the resolved StyleId (registry deduplication can make these
// diverge from a simple identity map when the source file itself carried
// duplicate xf rows).
func ParseStyleSheet(sheet *xlsxStyleSheet) (*domain.StyleRegistry, []domain.StyleId, error) {
	numFmtCodes := map[int]string{}
	if sheet.NumFmts != nil {
		for _, nf := range sheet.NumFmts.NumFmt {
			numFmtCodes[nf.NumFmtID] = nf.FormatCode
		}
	}
	var fonts []domain.Font
	if sheet.Fonts != nil {
		for _, f := range sheet.Fonts.Font {
			fonts = append(fonts, fontFromXML(f))
		}
	}
	var fills []domain.Fill
	if sheet.Fills != nil {
		for _, f := range sheet.Fills.Fill {
			fills = append(fills, fillFromXML(f))
		}
	}
	var borders []domain.Border
	if sheet.Borders != nil {
		for _, b := range sheet.Borders.Border {
			borders = append(borders, borderFromXML(b))
		}
	}

	reg := domain.NewStyleRegistry()
	var xfToStyle []domain.StyleId
	if sheet.CellXfs == nil {
		return reg, xfToStyle, nil
	}
	for _, xf := range sheet.CellXfs.Xf {
		style := domain.CellStyle{}
		if xf.FontID != nil && *xf.FontID >= 0 && *xf.FontID < len(fonts) {
			style.Font = fonts[*xf.FontID]
		}
		if xf.FillID != nil && *xf.FillID >= 0 && *xf.FillID < len(fills) {
			style.Fill = fills[*xf.FillID]
		}
		if xf.BorderID != nil && *xf.BorderID >= 0 && *xf.BorderID < len(borders) {
			style.Border = borders[*xf.BorderID]
		}
		style.Align = alignFromXML(xf.Alignment)
		id := 0
		if xf.NumFmtID != nil {
			id = *xf.NumFmtID
			preserved := id
			style.PreservedNumFmtID = &preserved
		}
		style.NumFmt = domain.NumFmtFromID(id, numFmtCodes[id])
		newReg, styleID := reg.Register(style)
		reg = newReg
		xfToStyle = append(xfToStyle, styleID)
	}
	return reg, xfToStyle, nil
}

// NumFmtsByXf builds the xf-index -> NumFmt lookup the worksheet reader
// needs for date-vs-number classification. This is independent of the
// StyleId a cell resolves to: StyleRegistry dedups whole CellStyles, but
// date detection only ever needs the one xf row a given cell actually
// referenced, so walking CellXfs directly here avoids going back through
// the registry at all.
func NumFmtsByXf(sheet *xlsxStyleSheet) map[int]domain.NumFmt {
	numFmtCodes := map[int]string{}
	if sheet.NumFmts != nil {
		for _, nf := range sheet.NumFmts.NumFmt {
			numFmtCodes[nf.NumFmtID] = nf.FormatCode
		}
	}
	out := map[int]domain.NumFmt{}
	if sheet.CellXfs == nil {
		return out
	}
	for i, xf := range sheet.CellXfs.Xf {
		id := 0
		if xf.NumFmtID != nil {
			id = *xf.NumFmtID
		}
		out[i] = domain.NumFmtFromID(id, numFmtCodes[id])
	}
	return out
}

// StyleIndex accumulates the distinct fonts/fills/borders/numFmts a writer
// needs for xl/styles.xml, deduplicating each sub-table independently (the
// way OOXML itself separates them), and appends one cellXfs row per style
// registered via Append, assigning xf indices in Append order. One
// registry appended in StyleId order into a fresh index gets xf index ==
// StyleId; when several registries share one index, the writer keeps a
// per-registry StyleId -> xf index table (see buildStyleIndex).
type StyleIndex struct {
	numFmtByCode map[string]int
	numFmtCodes  map[int]string
	nextNumFmtID int

	fonts   []*xlsxFont
	fontKey map[string]int

	fills   []*xlsxFill
	fillKey map[string]int

	borders   []*xlsxBorder
	borderKey map[string]int

	xfs []xlsxXf
}

// NewStyleIndex builds an index seeded with the two fill entries ECMA-376
// requires to be present ("none" at 0, "gray125" at 1).
func NewStyleIndex() *StyleIndex {
	si := &StyleIndex{
		numFmtByCode: map[string]int{},
		numFmtCodes:  map[int]string{},
		nextNumFmtID: 164,
		fontKey:      map[string]int{},
		fillKey:      map[string]int{},
		borderKey:    map[string]int{},
	}
	si.fills = append(si.fills, &xlsxFill{PatternFill: &xlsxPatternFill{PatternType: "none"}})
	si.fillKey["none"] = 0
	si.fills = append(si.fills, &xlsxFill{PatternFill: &xlsxPatternFill{PatternType: "gray125"}})
	si.fillKey["gray125"] = 1
	return si
}

func colorKeyOf(c *domain.Color) string {
	if c == nil {
		return "none"
	}
	if c.Tag == domain.ColorTheme {
		return fmt.Sprintf("theme:%d:%.4f", c.Slot, c.Tint)
	}
	return fmt.Sprintf("argb:%08X", c.ARGB)
}

func fontKeyOf(f domain.Font) string {
	return fmt.Sprintf("%s|%.2f|%v|%v|%v|%v|%s", f.Name, f.Size, f.Bold, f.Italic, f.Underline, f.Strike, colorKeyOf(f.Color))
}

func fillKeyOf(f domain.Fill) string {
	switch f.Tag {
	case domain.FillSolid:
		return "solid|" + colorKeyOf(&f.Solid)
	case domain.FillPattern:
		return "pattern|" + f.Pattern + "|" + colorKeyOf(&f.FG) + "|" + colorKeyOf(&f.BG)
	default:
		return "none"
	}
}

func borderSideKeyOf(s domain.BorderSide) string {
	return fmt.Sprintf("%s:%s", s.Style.String(), colorKeyOf(s.Color))
}

func borderKeyOf(b domain.Border) string {
	return borderSideKeyOf(b.Top) + "|" + borderSideKeyOf(b.Right) + "|" + borderSideKeyOf(b.Bottom) + "|" + borderSideKeyOf(b.Left)
}

func (si *StyleIndex) fontID(f domain.Font) int {
	key := fontKeyOf(f)
	if id, ok := si.fontKey[key]; ok {
		return id
	}
	id := len(si.fonts)
	si.fonts = append(si.fonts, fontToXML(f))
	si.fontKey[key] = id
	return id
}

func (si *StyleIndex) fillID(f domain.Fill) int {
	key := fillKeyOf(f)
	if id, ok := si.fillKey[key]; ok {
		return id
	}
	id := len(si.fills)
	si.fills = append(si.fills, fillToXML(f))
	si.fillKey[key] = id
	return id
}

func (si *StyleIndex) borderID(b domain.Border) int {
	key := borderKeyOf(b)
	if id, ok := si.borderKey[key]; ok {
		return id
	}
	id := len(si.borders)
	si.borders = append(si.borders, borderToXML(b))
	si.borderKey[key] = id
	return id
}

// numFmtID resolves n to a numFmtId. Built-in formats use their fixed id.
// Custom formats are deduplicated by format code; when preserved names the
// id the source file used for the same code and that id is still free, it
// is honored, keeping the written id identical to what was read.
func (si *StyleIndex) numFmtID(n domain.NumFmt, preserved *int) int {
	if n.Kind != domain.FmtCustom {
		return n.BuiltInID()
	}
	if id, ok := si.numFmtByCode[n.Code]; ok {
		return id
	}
	id := si.nextNumFmtID
	if preserved != nil {
		if existing, taken := si.numFmtCodes[*preserved]; !taken || existing == n.Code {
			id = *preserved
		}
	}
	if id >= si.nextNumFmtID {
		si.nextNumFmtID = id + 1
	}
	si.numFmtCodes[id] = n.Code
	si.numFmtByCode[n.Code] = id
	return id
}

// Append registers style as the next cellXfs row and returns its xf index.
// For the first registry appended in StyleRegistry.All() order the xf index
// equals the style's StyleId; later registries' styles follow it.
func (si *StyleIndex) Append(style domain.CellStyle) int {
	fontID := si.fontID(style.Font)
	fillID := si.fillID(style.Fill)
	borderID := si.borderID(style.Border)
	numFmtID := si.numFmtID(style.NumFmt, style.PreservedNumFmtID)

	applyNumFmt := numFmtID != 0
	applyFont := fontID != 0
	applyFill := fillID != 0
	applyBorder := borderID != 0
	align := alignToXML(style.Align)

	xf := xlsxXf{
		NumFmtID:          &numFmtID,
		FontID:            &fontID,
		FillID:            &fillID,
		BorderID:          &borderID,
		ApplyNumberFormat: boolPtr(applyNumFmt),
		ApplyFont:         boolPtr(applyFont),
		ApplyFill:         boolPtr(applyFill),
		ApplyBorder:       boolPtr(applyBorder),
		Alignment:         align,
	}
	if align != nil {
		xf.ApplyAlignment = boolPtr(true)
	}
	idx := len(si.xfs)
	si.xfs = append(si.xfs, xf)
	return idx
}

func boolPtr(b bool) *bool { return &b }

// BuildStyleSheet assembles the final xl/styles.xml document from every
// style appended so far, carrying forward any unmodeled sub-parts captured
// from the source file (nil-safe: a workbook with no source carries none).
func BuildStyleSheet(si *StyleIndex, passthrough *xlsxStyleSheet) *xlsxStyleSheet {
	out := &xlsxStyleSheet{
		Fonts:   &xlsxFonts{Count: len(si.fonts), Font: si.fonts},
		Fills:   &xlsxFills{Count: len(si.fills), Fill: si.fills},
		Borders: &xlsxBorders{Count: len(si.borders), Border: si.borders},
		CellXfs: &xlsxCellXfs{Count: len(si.xfs), Xf: si.xfs},
	}
	if len(si.numFmtCodes) > 0 {
		ids := make([]int, 0, len(si.numFmtCodes))
		for id := range si.numFmtCodes {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		nf := &xlsxNumFmts{}
		for _, id := range ids {
			nf.NumFmt = append(nf.NumFmt, &xlsxNumFmt{NumFmtID: id, FormatCode: si.numFmtCodes[id]})
		}
		nf.Count = len(nf.NumFmt)
		out.NumFmts = nf
	}
	if passthrough != nil {
		out.CellStyleXfs = passthrough.CellStyleXfs
		out.CellStyles = passthrough.CellStyles
		out.Dxfs = passthrough.Dxfs
		out.TableStyles = passthrough.TableStyles
		out.Colors = passthrough.Colors
		out.ExtLst = passthrough.ExtLst
	}
	return out
}

// RegistryToStyleSheet is the convenience entry point the writer uses: it
// appends every style in reg (in StyleId order) and returns the assembled
// style sheet.
func RegistryToStyleSheet(reg *domain.StyleRegistry, passthrough *xlsxStyleSheet) *xlsxStyleSheet {
	si := NewStyleIndex()
	for _, style := range reg.All() {
		si.Append(style)
	}
	return BuildStyleSheet(si, passthrough)
}

package ooxml

import (
	"encoding/xml"
	"fmt"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// This file is the OOXML wire shape for xl/styles.xml: the struct tags that
// encoding/xml marshals and unmarshals directly, plus the StyleIndex that
// translates between this wire shape and the domain CellStyle/StyleRegistry.
// Sub-parts this module does not model (dxfs, named cell styles, table
// styles, the legacy indexed-color override block, style-sheet extensions)
// are captured verbatim at read time and re-emitted unchanged at write time.

type xlsxStyleSheet struct {
	XMLName      xml.Name          `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main styleSheet"`
	NumFmts      *xlsxNumFmts      `xml:"numFmts"`
	Fonts        *xlsxFonts        `xml:"fonts"`
	Fills        *xlsxFills        `xml:"fills"`
	Borders      *xlsxBorders      `xml:"borders"`
	CellStyleXfs *xlsxCellStyleXfs `xml:"cellStyleXfs"`
	CellXfs      *xlsxCellXfs      `xml:"cellXfs"`
	CellStyles   *xlsxCellStyles   `xml:"cellStyles"`
	Dxfs         *xlsxDxfs         `xml:"dxfs"`
	TableStyles  *xlsxTableStyles  `xml:"tableStyles"`
	Colors       *xlsxStyleColors  `xml:"colors"`
	ExtLst       *xlsxExtLst       `xml:"extLst"`
}

type xlsxAlignment struct {
	Horizontal      string `xml:"horizontal,attr,omitempty"`
	Indent          int    `xml:"indent,attr,omitempty"`
	JustifyLastLine bool   `xml:"justifyLastLine,attr,omitempty"`
	ReadingOrder    uint64 `xml:"readingOrder,attr,omitempty"`
	RelativeIndent  int    `xml:"relativeIndent,attr,omitempty"`
	ShrinkToFit     bool   `xml:"shrinkToFit,attr,omitempty"`
	TextRotation    int    `xml:"textRotation,attr,omitempty"`
	Vertical        string `xml:"vertical,attr,omitempty"`
	WrapText        bool   `xml:"wrapText,attr,omitempty"`
}

type xlsxProtection struct {
	Hidden *bool `xml:"hidden,attr"`
	Locked *bool `xml:"locked,attr"`
}

type xlsxLine struct {
	Style string     `xml:"style,attr,omitempty"`
	Color *xlsxColor `xml:"color"`
}

// xlsxColor is the common RGB/Indexed/Theme/Tint color shape used by fonts,
// fills, and borders.
type xlsxColor struct {
	Auto    bool    `xml:"auto,attr,omitempty"`
	RGB     string  `xml:"rgb,attr,omitempty"`
	Indexed int     `xml:"indexed,attr,omitempty"`
	Theme   *int    `xml:"theme,attr"`
	Tint    float64 `xml:"tint,attr,omitempty"`
}

type xlsxFonts struct {
	Count int         `xml:"count,attr"`
	Font  []*xlsxFont `xml:"font"`
}

type xlsxFont struct {
	B        *attrValBool   `xml:"b"`
	I        *attrValBool   `xml:"i"`
	Strike   *attrValBool   `xml:"strike"`
	Outline  *attrValBool   `xml:"outline"`
	Shadow   *attrValBool   `xml:"shadow"`
	Condense *attrValBool   `xml:"condense"`
	Extend   *attrValBool   `xml:"extend"`
	U        *attrValString `xml:"u"`
	Sz       *attrValFloat  `xml:"sz"`
	Color    *xlsxColor     `xml:"color"`
	Name     *attrValString `xml:"name"`
	Family   *attrValInt    `xml:"family"`
	Charset  *attrValInt    `xml:"charset"`
	Scheme   *attrValString `xml:"scheme"`
}

type xlsxFills struct {
	Count int         `xml:"count,attr"`
	Fill  []*xlsxFill `xml:"fill"`
}

type xlsxFill struct {
	PatternFill  *xlsxPatternFill  `xml:"patternFill"`
	GradientFill *xlsxGradientFill `xml:"gradientFill"`
}

type xlsxPatternFill struct {
	PatternType string     `xml:"patternType,attr,omitempty"`
	FgColor     *xlsxColor `xml:"fgColor"`
	BgColor     *xlsxColor `xml:"bgColor"`
}

type xlsxGradientFill struct {
	Bottom float64                 `xml:"bottom,attr,omitempty"`
	Degree float64                 `xml:"degree,attr,omitempty"`
	Left   float64                 `xml:"left,attr,omitempty"`
	Right  float64                 `xml:"right,attr,omitempty"`
	Top    float64                 `xml:"top,attr,omitempty"`
	Type   string                  `xml:"type,attr,omitempty"`
	Stop   []*xlsxGradientFillStop `xml:"stop"`
}

type xlsxGradientFillStop struct {
	Position float64   `xml:"position,attr"`
	Color    xlsxColor `xml:"color,omitempty"`
}

type xlsxBorders struct {
	Count  int           `xml:"count,attr"`
	Border []*xlsxBorder `xml:"border"`
}

type xlsxBorder struct {
	DiagonalDown bool     `xml:"diagonalDown,attr,omitempty"`
	DiagonalUp   bool     `xml:"diagonalUp,attr,omitempty"`
	Outline      bool     `xml:"outline,attr,omitempty"`
	Left         xlsxLine `xml:"left,omitempty"`
	Right        xlsxLine `xml:"right,omitempty"`
	Top          xlsxLine `xml:"top,omitempty"`
	Bottom       xlsxLine `xml:"bottom,omitempty"`
	Diagonal     xlsxLine `xml:"diagonal,omitempty"`
}

type xlsxCellStyles struct {
	XMLName   xml.Name         `xml:"cellStyles"`
	Count     int              `xml:"count,attr"`
	CellStyle []*xlsxCellStyle `xml:"cellStyle"`
}

type xlsxCellStyle struct {
	XMLName       xml.Name `xml:"cellStyle"`
	Name          string   `xml:"name,attr"`
	XfID          int      `xml:"xfId,attr"`
	BuiltInID     *int     `xml:"builtinId,attr"`
	ILevel        *int     `xml:"iLevel,attr"`
	Hidden        *bool    `xml:"hidden,attr"`
	CustomBuiltIn *bool    `xml:"customBuiltin,attr"`
}

type xlsxCellStyleXfs struct {
	Count int      `xml:"count,attr"`
	Xf    []xlsxXf `xml:"xf,omitempty"`
}

type xlsxXf struct {
	Lang              *string         `xml:"lang,attr"`
	NumFmtID          *int            `xml:"numFmtId,attr"`
	FontID            *int            `xml:"fontId,attr"`
	FillID            *int            `xml:"fillId,attr"`
	BorderID          *int            `xml:"borderId,attr"`
	XfID              *int            `xml:"xfId,attr"`
	QuotePrefix       *bool           `xml:"quotePrefix,attr"`
	PivotButton       *bool           `xml:"pivotButton,attr"`
	ApplyNumberFormat *bool           `xml:"applyNumberFormat,attr"`
	ApplyFont         *bool           `xml:"applyFont,attr"`
	ApplyFill         *bool           `xml:"applyFill,attr"`
	ApplyBorder       *bool           `xml:"applyBorder,attr"`
	ApplyAlignment    *bool           `xml:"applyAlignment,attr"`
	ApplyProtection   *bool           `xml:"applyProtection,attr"`
	Alignment         *xlsxAlignment  `xml:"alignment"`
	Protection        *xlsxProtection `xml:"protection"`
}

type xlsxCellXfs struct {
	Count int      `xml:"count,attr"`
	Xf    []xlsxXf `xml:"xf,omitempty"`
}

type xlsxDxfs struct {
	Count int        `xml:"count,attr"`
	Dxfs  []*xlsxDxf `xml:"dxf"`
}

// xlsxDxf is preserved whole, verbatim, as inner XML: this module does not
// model conditional-formatting differential styles.
type xlsxDxf struct {
	Dxf string `xml:",innerxml"`
}

type xlsxTableStyles struct {
	Count             int               `xml:"count,attr"`
	DefaultPivotStyle string            `xml:"defaultPivotStyle,attr"`
	DefaultTableStyle string            `xml:"defaultTableStyle,attr"`
	TableStyles       []*xlsxTableStyle `xml:"tableStyle"`
}

type xlsxTableStyle struct {
	Name              string `xml:"name,attr,omitempty"`
	Pivot             int    `xml:"pivot,attr"`
	Count             int    `xml:"count,attr,omitempty"`
	Table             bool   `xml:"table,attr,omitempty"`
	TableStyleElement string `xml:",innerxml"`
}

type xlsxNumFmts struct {
	Count  int           `xml:"count,attr"`
	NumFmt []*xlsxNumFmt `xml:"numFmt"`
}

type xlsxNumFmt struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr,omitempty"`
}

// xlsxStyleColors is the legacy indexed-color override block, written only
// when a workbook has customized the 0-63 indexed palette. Preserved
// verbatim; this module's indexed-color resolution otherwise always uses
// the ECMA-376 default palette (see indexedPalette below).
type xlsxStyleColors struct {
	Color string `xml:",innerxml"`
}

type xlsxExtLst struct {
	Ext []xlsxExt `xml:"ext"`
}

type xlsxExt struct {
	URI     string `xml:"uri,attr"`
	Content string `xml:",innerxml"`
}

// attrValBool/Int/Float/String are the "<tag val=".."/>" wrapper shape
// OOXML uses for boolean and scalar sub-elements (b, i, strike, sz, name, ...).
type attrValBool struct {
	Val *bool `xml:"val,attr"`
}

type attrValInt struct {
	Val *int `xml:"val,attr"`
}

type attrValFloat struct {
	Val *float64 `xml:"val,attr"`
}

type attrValString struct {
	Val *string `xml:"val,attr"`
}

func boolAttr(b bool) *attrValBool {
	if !b {
		return nil
	}
	v := true
	return &attrValBool{Val: &v}
}

func isTrue(b *attrValBool) bool { return b != nil && (b.Val == nil || *b.Val) }

// indexedPalette is the ECMA-376 Annex default 0-63 indexed color table,
// used to resolve legacy `indexed` color references when the source
// workbook carries no custom `<colors><indexedColors>` override (that block,
// when present, is preserved whole rather than parsed; see xlsxStyleColors).
var indexedPalette = [64]uint32{
	0xFF000000, 0xFFFFFFFF, 0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFFFFFF00, 0xFFFF00FF, 0xFF00FFFF,
	0xFF000000, 0xFFFFFFFF, 0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFFFFFF00, 0xFFFF00FF, 0xFF00FFFF,
	0xFF800000, 0xFF008000, 0xFF000080, 0xFF808000, 0xFF800080, 0xFF008080, 0xFFC0C0C0, 0xFF808080,
	0xFF9999FF, 0xFF993366, 0xFFFFFFCC, 0xFFCCFFFF, 0xFF660066, 0xFFFF8080, 0xFF0066CC, 0xFFCCCCFF,
	0xFF000080, 0xFFFF00FF, 0xFFFFFF00, 0xFF00FFFF, 0xFF800080, 0xFF800000, 0xFF008080, 0xFF0000FF,
	0xFF00CCFF, 0xFFCCFFFF, 0xFFCCFFCC, 0xFFFFFF99, 0xFF99CCFF, 0xFFFF99CC, 0xFFCC99FF, 0xFFFFCC99,
	0xFF3366FF, 0xFF33CCCC, 0xFF99CC00, 0xFFFFCC00, 0xFFFF9900, 0xFFFF6600, 0xFF666699, 0xFF969696,
	0xFF003366, 0xFF339966, 0xFF003300, 0xFF333300, 0xFF993300, 0xFF993366, 0xFF333399, 0xFF333333,
}

func colorFromXML(c *xlsxColor) *domain.Color {
	if c == nil || c.Auto {
		return nil
	}
	if c.Theme != nil {
		return colorPtr(domain.ThemeColor(domain.ThemeSlot(*c.Theme), c.Tint))
	}
	if c.RGB != "" {
		if v, ok := parseARGBHex(c.RGB); ok {
			return colorPtr(domain.Color{Tag: domain.ColorARGB, ARGB: v})
		}
	}
	if c.Indexed >= 0 && c.Indexed < len(indexedPalette) {
		return colorPtr(domain.Color{Tag: domain.ColorARGB, ARGB: indexedPalette[c.Indexed]})
	}
	return nil
}

func colorPtr(c domain.Color) *domain.Color { return &c }

func colorToXML(c *domain.Color) *xlsxColor {
	if c == nil {
		return nil
	}
	if c.Tag == domain.ColorTheme {
		slot := int(c.Slot)
		return &xlsxColor{Theme: &slot, Tint: c.Tint}
	}
	return &xlsxColor{RGB: argbToHex(c.ARGB)}
}

func parseARGBHex(s string) (uint32, bool) {
	if len(s) == 6 {
		s = "FF" + s
	}
	if len(s) != 8 {
		return 0, false
	}
	var v uint32
	if _, err := fmt.Sscanf(s, "%08X", &v); err != nil {
		return 0, false
	}
	return v, true
}

func argbToHex(v uint32) string {
	return fmt.Sprintf("%08X", v)
}

func fontFromXML(f *xlsxFont) domain.Font {
	if f == nil {
		return domain.Font{}
	}
	out := domain.Font{
		Bold:      isTrue(f.B),
		Italic:    isTrue(f.I),
		Underline: f.U != nil && f.U.Val != nil && *f.U.Val != "none",
		Strike:    isTrue(f.Strike),
		Color:     colorFromXML(f.Color),
	}
	if f.Name != nil && f.Name.Val != nil {
		out.Name = *f.Name.Val
	}
	if f.Sz != nil && f.Sz.Val != nil {
		out.Size = *f.Sz.Val
	}
	return out
}

func fontToXML(f domain.Font) *xlsxFont {
	name := f.Name
	sz := f.Size
	out := &xlsxFont{
		B:      boolAttr(f.Bold),
		I:      boolAttr(f.Italic),
		Strike: boolAttr(f.Strike),
		Name:   &attrValString{Val: &name},
		Sz:     &attrValFloat{Val: &sz},
		Color:  colorToXML(f.Color),
	}
	if f.Underline {
		u := "single"
		out.U = &attrValString{Val: &u}
	}
	return out
}

func fillFromXML(f *xlsxFill) domain.Fill {
	if f == nil || f.PatternFill == nil {
		return domain.Fill{Tag: domain.FillNone}
	}
	pf := f.PatternFill
	switch pf.PatternType {
	case "", "none":
		return domain.Fill{Tag: domain.FillNone}
	case "solid":
		fg := colorFromXML(pf.FgColor)
		if fg == nil {
			fg = &domain.Color{}
		}
		return domain.Fill{Tag: domain.FillSolid, Solid: *fg}
	default:
		fg := colorFromXML(pf.FgColor)
		bg := colorFromXML(pf.BgColor)
		if fg == nil {
			fg = &domain.Color{}
		}
		if bg == nil {
			bg = &domain.Color{}
		}
		return domain.Fill{Tag: domain.FillPattern, Pattern: pf.PatternType, FG: *fg, BG: *bg}
	}
}

func fillToXML(f domain.Fill) *xlsxFill {
	switch f.Tag {
	case domain.FillSolid:
		fg := f.Solid
		return &xlsxFill{PatternFill: &xlsxPatternFill{PatternType: "solid", FgColor: colorToXML(&fg)}}
	case domain.FillPattern:
		fg, bg := f.FG, f.BG
		return &xlsxFill{PatternFill: &xlsxPatternFill{PatternType: f.Pattern, FgColor: colorToXML(&fg), BgColor: colorToXML(&bg)}}
	default:
		return &xlsxFill{PatternFill: &xlsxPatternFill{PatternType: "none"}}
	}
}

// borderStyleByName/borderStyleName mirror xlcore's own (unexported)
// BorderStyle<->string table; duplicated here because the codec lives in a
// separate package from the enum it serializes.
var borderStyleByName = map[string]domain.BorderStyle{
	"none": domain.BorderNone, "thin": domain.BorderThin, "medium": domain.BorderMedium,
	"thick": domain.BorderThick, "dashed": domain.BorderDashed, "dotted": domain.BorderDotted,
	"double": domain.BorderDouble, "hair": domain.BorderHair, "dashDot": domain.BorderDashDot,
	"dashDotDot": domain.BorderDashDotDot, "slantDashDot": domain.BorderSlantDashDot,
	"mediumDashed": domain.BorderMediumDashed, "mediumDashDot": domain.BorderMediumDashDot,
	"mediumDashDotDot": domain.BorderMediumDashDotDot,
}

func borderSideFromXML(l xlsxLine) domain.BorderSide {
	style, ok := borderStyleByName[l.Style]
	if !ok {
		style = domain.BorderNone
	}
	return domain.BorderSide{Style: style, Color: colorFromXML(l.Color)}
}

func borderSideToXML(s domain.BorderSide) xlsxLine {
	if s.Style == domain.BorderNone {
		return xlsxLine{}
	}
	return xlsxLine{Style: s.Style.String(), Color: colorToXML(s.Color)}
}

func borderFromXML(b *xlsxBorder) domain.Border {
	if b == nil {
		return domain.Border{}
	}
	return domain.Border{
		Top:    borderSideFromXML(b.Top),
		Right:  borderSideFromXML(b.Right),
		Bottom: borderSideFromXML(b.Bottom),
		Left:   borderSideFromXML(b.Left),
	}
}

func borderToXML(b domain.Border) *xlsxBorder {
	return &xlsxBorder{
		Top:    borderSideToXML(b.Top),
		Right:  borderSideToXML(b.Right),
		Bottom: borderSideToXML(b.Bottom),
		Left:   borderSideToXML(b.Left),
	}
}

var horizontalAlignByName = map[string]domain.HAlign{
	"left": domain.HLeft, "center": domain.HCenter, "right": domain.HRight,
	"justify": domain.HJustify, "fill": domain.HFill, "distributed": domain.HDistributed,
}

var horizontalAlignName = map[domain.HAlign]string{
	domain.HLeft: "left", domain.HCenter: "center", domain.HRight: "right",
	domain.HJustify: "justify", domain.HFill: "fill", domain.HDistributed: "distributed",
}

var verticalAlignByName = map[string]domain.VAlign{
	"top": domain.VTop, "center": domain.VMiddle, "bottom": domain.VBottom,
	"justify": domain.VJustify, "distributed": domain.VDistributed,
}

var verticalAlignName = map[domain.VAlign]string{
	domain.VTop: "top", domain.VMiddle: "center", domain.VBottom: "bottom",
	domain.VJustify: "justify", domain.VDistributed: "distributed",
}

func alignFromXML(a *xlsxAlignment) domain.Align {
	if a == nil {
		return domain.Align{}
	}
	return domain.Align{
		Horizontal: horizontalAlignByName[a.Horizontal],
		Vertical:   verticalAlignByName[a.Vertical],
		WrapText:   a.WrapText,
		Indent:     a.Indent,
	}
}

func alignToXML(a domain.Align) *xlsxAlignment {
	if a == (domain.Align{}) {
		return nil
	}
	out := &xlsxAlignment{WrapText: a.WrapText, Indent: a.Indent}
	if name, ok := horizontalAlignName[a.Horizontal]; ok {
		out.Horizontal = name
	}
	if name, ok := verticalAlignName[a.Vertical]; ok {
		out.Vertical = name
	}
	return out
}

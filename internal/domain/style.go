package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ColorTag discriminates the two Color representations.
type ColorTag int

const (
	ColorARGB ColorTag = iota
	ColorTheme
)

// ThemeSlot indexes one of the twelve standard theme color slots.
type ThemeSlot int

// Color is either a raw ARGB value or a (theme slot, tint) pair. Resolve
// turns a theme color into ARGB against a ThemePalette; the codec reads and
// writes theme colors as slot and tint without resolving them.
type Color struct {
	Tag   ColorTag
	ARGB  uint32
	Slot  ThemeSlot
	Tint  float64 // [-1.0, 1.0]
}

// RGBColor builds a raw ARGB color (alpha defaults to opaque 0xFF).
func RGBColor(r, g, b byte) Color {
	return Color{Tag: ColorARGB, ARGB: 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// ThemeColor builds a theme-slot color with the given tint.
func ThemeColor(slot ThemeSlot, tint float64) Color {
	if tint < -1 {
		tint = -1
	}
	if tint > 1 {
		tint = 1
	}
	return Color{Tag: ColorTheme, Slot: slot, Tint: tint}
}

// ThemePalette maps the twelve theme slots to concrete ARGB values. The
// reader does not read xl/theme/theme1.xml into one.
type ThemePalette struct {
	Colors [12]uint32
}

// DefaultThemePalette is the standard Office theme's color set.
var DefaultThemePalette = ThemePalette{Colors: [12]uint32{
	0xFFFFFFFF, 0xFF000000, 0xFFE7E6E6, 0xFF44546A,
	0xFF4472C4, 0xFFED7D31, 0xFFA5A5A5, 0xFFFFC000,
	0xFF5B9BD5, 0xFF70AD47, 0xFF0563C1, 0xFF954F72,
}}

// Resolve resolves a Color to a concrete ARGB value against the palette,
// blending tint toward 255 (positive) or 0 (negative).
func (c Color) Resolve(palette ThemePalette) uint32 {
	if c.Tag == ColorARGB {
		return c.ARGB
	}
	base := palette.Colors[int(c.Slot)%len(palette.Colors)]
	a := byte(base >> 24)
	r := tintComponent(byte(base>>16), c.Tint)
	g := tintComponent(byte(base>>8), c.Tint)
	b := tintComponent(byte(base), c.Tint)
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func tintComponent(v byte, tint float64) byte {
	f := float64(v)
	if tint > 0 {
		f = f*(1-tint) + 255*tint
	} else if tint < 0 {
		f = f * (1 + tint)
	}
	if f < 0 {
		f = 0
	}
	if f > 255 {
		f = 255
	}
	return byte(f)
}

func (c Color) canonical() string {
	if c.Tag == ColorARGB {
		return fmt.Sprintf("argb:%08X", c.ARGB)
	}
	return fmt.Sprintf("theme:%d:%.4f", c.Slot, c.Tint)
}

// Font describes a cell's text rendering.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     *Color
}

func (f Font) canonical() string {
	colorKey := "none"
	if f.Color != nil {
		colorKey = f.Color.canonical()
	}
	return fmt.Sprintf("font:%s:%.2f:%v:%v:%v:%v:%s", f.Name, f.Size, f.Bold, f.Italic, f.Underline, f.Strike, colorKey)
}

// FillTag discriminates the three Fill shapes.
type FillTag int

const (
	FillNone FillTag = iota
	FillSolid
	FillPattern
)

// Fill describes a cell's background.
type Fill struct {
	Tag     FillTag
	Solid   Color
	FG      Color
	BG      Color
	Pattern string
}

func (f Fill) canonical() string {
	switch f.Tag {
	case FillSolid:
		return "fill:solid:" + f.Solid.canonical()
	case FillPattern:
		return fmt.Sprintf("fill:pattern:%s:%s:%s", f.Pattern, f.FG.canonical(), f.BG.canonical())
	default:
		return "fill:none"
	}
}

// BorderStyle enumerates the OOXML border line styles.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderMedium
	BorderThick
	BorderDashed
	BorderDotted
	BorderDouble
	BorderHair
	BorderDashDot
	BorderDashDotDot
	BorderSlantDashDot
	BorderMediumDashed
	BorderMediumDashDot
	BorderMediumDashDotDot
)

var borderStyleNames = map[BorderStyle]string{
	BorderNone: "none", BorderThin: "thin", BorderMedium: "medium",
	BorderThick: "thick", BorderDashed: "dashed", BorderDotted: "dotted",
	BorderDouble: "double", BorderHair: "hair", BorderDashDot: "dashDot",
	BorderDashDotDot: "dashDotDot", BorderSlantDashDot: "slantDashDot",
	BorderMediumDashed: "mediumDashed", BorderMediumDashDot: "mediumDashDot",
	BorderMediumDashDotDot: "mediumDashDotDot",
}

func (b BorderStyle) String() string { return borderStyleNames[b] }

// BorderSide is one edge of a cell border.
type BorderSide struct {
	Style BorderStyle
	Color *Color
}

func (s BorderSide) canonical() string {
	colorKey := "none"
	if s.Color != nil {
		colorKey = s.Color.canonical()
	}
	return s.Style.String() + ":" + colorKey
}

// Border bundles the four cell edges.
type Border struct {
	Top, Right, Bottom, Left BorderSide
}

func (b Border) canonical() string {
	return "border:" + b.Top.canonical() + "|" + b.Right.canonical() + "|" + b.Bottom.canonical() + "|" + b.Left.canonical()
}

// HAlign and VAlign enumerate horizontal/vertical cell alignment.
type HAlign int
type VAlign int

const (
	HDefault HAlign = iota
	HLeft
	HCenter
	HRight
	HJustify
	HFill
	HDistributed
)

const (
	VDefault VAlign = iota
	VTop
	VMiddle
	VBottom
	VJustify
	VDistributed
)

// Align bundles cell alignment properties.
type Align struct {
	Horizontal HAlign
	Vertical   VAlign
	WrapText   bool
	Indent     int
}

func (a Align) canonical() string {
	return fmt.Sprintf("align:%d:%d:%v:%d", a.Horizontal, a.Vertical, a.WrapText, a.Indent)
}

// NumFmtKind is a closed set of built-in number formats, or Custom.
type NumFmtKind int

const (
	FmtGeneral NumFmtKind = iota
	FmtInteger
	FmtDecimal
	FmtCurrency
	FmtPercent
	FmtDate
	FmtDateTime
	FmtTime
	FmtText
	FmtCustom
)

// builtInIDs maps each non-Custom NumFmtKind to its OOXML builtinId.
var builtInIDs = map[NumFmtKind]int{
	FmtGeneral:  0,
	FmtInteger:  1,
	FmtDecimal:  2,
	FmtCurrency: 44,
	FmtPercent:  9,
	FmtDate:     14,
	FmtDateTime: 22,
	FmtTime:     21,
	FmtText:     49,
}

var idToBuiltIn = func() map[int]NumFmtKind {
	m := make(map[int]NumFmtKind, len(builtInIDs))
	for k, v := range builtInIDs {
		m[v] = k
	}
	return m
}()

// NumFmt is a number format: a closed built-in enum, or a custom format code.
type NumFmt struct {
	Kind NumFmtKind
	Code string // populated only for Custom
}

// BuiltInID returns the OOXML builtinId for a non-custom format, or -1.
func (n NumFmt) BuiltInID() int {
	if n.Kind == FmtCustom {
		return -1
	}
	if id, ok := builtInIDs[n.Kind]; ok {
		return id
	}
	return 0
}

// NumFmtFromID resolves a written-file numFmtId back to the enum. Unknown
// IDs with a supplied code become Custom; unknown IDs with no code fall
// back to General.
func NumFmtFromID(id int, code string) NumFmt {
	if kind, ok := idToBuiltIn[id]; ok {
		return NumFmt{Kind: kind}
	}
	if code != "" {
		return NumFmt{Kind: FmtCustom, Code: code}
	}
	return NumFmt{Kind: FmtGeneral}
}

func (n NumFmt) canonical() string {
	if n.Kind == FmtCustom {
		return "numfmt:custom:" + n.Code
	}
	return fmt.Sprintf("numfmt:%d", n.Kind)
}

// CellStyle is the full visual description of a cell's formatting, plus an
// optional preserved numFmtId used for byte-exact source round-trip.
type CellStyle struct {
	Font   Font
	Fill   Fill
	Border Border
	Align  Align
	NumFmt NumFmt

	// PreservedNumFmtID is the numFmtId this style actually used in the
	// source file, when read from disk. It participates in writer
	// preservation but NOT in CanonicalKey (invariant: visual dedup must
	// not depend on source identity).
	PreservedNumFmtID *int
}

// DefaultCellStyle is the canonical zero-value style: registry index 0.
var DefaultCellStyle = CellStyle{}

// CanonicalKey is the deterministic visual-equivalence signature of a
// CellStyle, deliberately excluding PreservedNumFmtID.
type CanonicalKey string

// Canonical computes the CanonicalKey for a CellStyle.
func (s CellStyle) Canonical() CanonicalKey {
	parts := []string{
		s.Font.canonical(),
		s.Fill.canonical(),
		s.Border.canonical(),
		s.Align.canonical(),
		s.NumFmt.canonical(),
	}
	joined := strings.Join(parts, "#")
	sum := sha256.Sum256([]byte(joined))
	return CanonicalKey(hex.EncodeToString(sum[:]))
}

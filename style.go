package xlcore

import "github.com/tjc-lp/xlcore/internal/domain"

// ColorTag discriminates the two Color representations.
type ColorTag = domain.ColorTag

const (
	ColorARGB  = domain.ColorARGB
	ColorTheme = domain.ColorTheme
)

// ThemeSlot indexes one of the twelve standard theme color slots.
type ThemeSlot = domain.ThemeSlot

// Color is either a raw ARGB value or a (theme slot, tint) pair. Resolve
// turns a theme color into ARGB against a ThemePalette; the codec reads and
// writes theme colors as slot and tint without resolving them.
type Color = domain.Color

// RGBColor builds a raw ARGB color (alpha defaults to opaque 0xFF).
var RGBColor = domain.RGBColor

// ThemeColor builds a theme-slot color with the given tint.
var ThemeColor = domain.ThemeColor

// ThemePalette maps the twelve theme slots to concrete ARGB values. The
// reader does not read xl/theme/theme1.xml into one.
type ThemePalette = domain.ThemePalette

// DefaultThemePalette is the standard Office theme's color set.
var DefaultThemePalette = domain.DefaultThemePalette

// Font describes a cell's text rendering.
type Font = domain.Font

// FillTag discriminates the three Fill shapes.
type FillTag = domain.FillTag

const (
	FillNone    = domain.FillNone
	FillSolid   = domain.FillSolid
	FillPattern = domain.FillPattern
)

// Fill describes a cell's background.
type Fill = domain.Fill

// BorderStyle enumerates the OOXML border line styles.
type BorderStyle = domain.BorderStyle

const (
	BorderNone             = domain.BorderNone
	BorderThin             = domain.BorderThin
	BorderMedium           = domain.BorderMedium
	BorderThick            = domain.BorderThick
	BorderDashed           = domain.BorderDashed
	BorderDotted           = domain.BorderDotted
	BorderDouble           = domain.BorderDouble
	BorderHair             = domain.BorderHair
	BorderDashDot          = domain.BorderDashDot
	BorderDashDotDot       = domain.BorderDashDotDot
	BorderSlantDashDot     = domain.BorderSlantDashDot
	BorderMediumDashed     = domain.BorderMediumDashed
	BorderMediumDashDot    = domain.BorderMediumDashDot
	BorderMediumDashDotDot = domain.BorderMediumDashDotDot
)

// BorderSide is one edge of a cell border.
type BorderSide = domain.BorderSide

// Border bundles the four cell edges.
type Border = domain.Border

// HAlign and VAlign enumerate horizontal/vertical cell alignment.
type HAlign = domain.HAlign
type VAlign = domain.VAlign

const (
	HDefault     = domain.HDefault
	HLeft        = domain.HLeft
	HCenter      = domain.HCenter
	HRight       = domain.HRight
	HJustify     = domain.HJustify
	HFill        = domain.HFill
	HDistributed = domain.HDistributed
)

const (
	VDefault     = domain.VDefault
	VTop         = domain.VTop
	VMiddle      = domain.VMiddle
	VBottom      = domain.VBottom
	VJustify     = domain.VJustify
	VDistributed = domain.VDistributed
)

// Align bundles cell alignment properties.
type Align = domain.Align

// NumFmtKind is a closed set of built-in number formats, or Custom.
type NumFmtKind = domain.NumFmtKind

const (
	FmtGeneral  = domain.FmtGeneral
	FmtInteger  = domain.FmtInteger
	FmtDecimal  = domain.FmtDecimal
	FmtCurrency = domain.FmtCurrency
	FmtPercent  = domain.FmtPercent
	FmtDate     = domain.FmtDate
	FmtDateTime = domain.FmtDateTime
	FmtTime     = domain.FmtTime
	FmtText     = domain.FmtText
	FmtCustom   = domain.FmtCustom
)

// NumFmt is a number format: a closed built-in enum, or a custom format code.
type NumFmt = domain.NumFmt

// NumFmtFromID resolves a written-file numFmtId back to the enum.
var NumFmtFromID = domain.NumFmtFromID

// CellStyle is the full visual description of a cell's formatting, plus an
// optional preserved numFmtId used for byte-exact source round-trip.
type CellStyle = domain.CellStyle

// DefaultCellStyle is the canonical zero-value style: registry index 0.
var DefaultCellStyle = domain.DefaultCellStyle

// CanonicalKey is the deterministic visual-equivalence signature of a
// CellStyle, deliberately excluding PreservedNumFmtID.
type CanonicalKey = domain.CanonicalKey

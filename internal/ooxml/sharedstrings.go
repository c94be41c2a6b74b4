package ooxml

import (
	"encoding/xml"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// xlsxSST is xl/sharedStrings.xml: the workbook-wide table of unique string
// values referenced by worksheet cells with t="s".
type xlsxSST struct {
	XMLName     xml.Name `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main sst"`
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	SI          []xlsxSI `xml:"si"`
}

// xlsxSI is one shared-string table entry: either a single plain-text run
// or several rich-text runs, collectively the string's full text.
type xlsxSI struct {
	T *xlsxT  `xml:"t"`
	R []xlsxR `xml:"r"`
}

func (si xlsxSI) plainText() string {
	if len(si.R) > 0 {
		s := ""
		for _, r := range si.R {
			if r.T != nil {
				s += r.T.Val
			}
		}
		return s
	}
	if si.T != nil {
		return si.T.Val
	}
	return ""
}

type xlsxT struct {
	Space xml.Attr `xml:"space,attr,omitempty"`
	Val   string   `xml:",chardata"`
}

// xlsxR is one rich-text run: a span of text carrying its own font override.
type xlsxR struct {
	RPr *xlsxRPr `xml:"rPr"`
	T   *xlsxT   `xml:"t"`
}

type xlsxRPr struct {
	B      *attrValBool   `xml:"b"`
	I      *attrValBool   `xml:"i"`
	Strike *attrValBool   `xml:"strike"`
	U      *attrValString `xml:"u"`
	Sz     *attrValFloat  `xml:"sz"`
	Color  *xlsxColor     `xml:"color"`
	RFont  *attrValString `xml:"rFont"`
}

// SharedStringTable is the read/write-time representation of
// xl/sharedStrings.xml: a positional index into unique string values (and
// their optional rich-text runs), resolved into/from domain CellValues by
// the worksheet codec.
type SharedStringTable struct {
	entries []xlsxSI
	byText  map[string]int
}

// ParseSharedStrings unmarshals xl/sharedStrings.xml's raw bytes.
func ParseSharedStrings(data []byte) (*SharedStringTable, error) {
	if len(data) == 0 {
		return NewSharedStringTable(), nil
	}
	var sst xlsxSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, err
	}
	t := &SharedStringTable{entries: sst.SI, byText: map[string]int{}}
	for i, e := range sst.SI {
		if _, ok := t.byText[e.plainText()]; !ok {
			t.byText[e.plainText()] = i
		}
	}
	return t, nil
}

// NewSharedStringTable builds an empty table, for a workbook with no
// pre-existing shared strings (e.g. one under construction in memory).
func NewSharedStringTable() *SharedStringTable {
	return &SharedStringTable{byText: map[string]int{}}
}

// Text returns the plain text of entry i (rich-text runs flattened).
func (t *SharedStringTable) Text(i int) string {
	if i < 0 || i >= len(t.entries) {
		return ""
	}
	return t.entries[i].plainText()
}

// Runs returns entry i's rich-text runs, translated to domain RichTextRun
// values, or nil if the entry is plain text.
func (t *SharedStringTable) Runs(i int) []domain.RichTextRun {
	if i < 0 || i >= len(t.entries) || len(t.entries[i].R) == 0 {
		return nil
	}
	out := make([]domain.RichTextRun, 0, len(t.entries[i].R))
	for _, r := range t.entries[i].R {
		text := ""
		if r.T != nil {
			text = r.T.Val
		}
		out = append(out, domain.RichTextRun{Text: text, Font: rPrToFont(r.RPr)})
	}
	return out
}

func rPrToFont(rpr *xlsxRPr) *domain.Font {
	if rpr == nil {
		return nil
	}
	f := &domain.Font{
		Bold:      isTrue(rpr.B),
		Italic:    isTrue(rpr.I),
		Strike:    isTrue(rpr.Strike),
		Underline: rpr.U != nil && rpr.U.Val != nil && *rpr.U.Val != "none",
		Color:     colorFromXML(rpr.Color),
	}
	if rpr.RFont != nil && rpr.RFont.Val != nil {
		f.Name = *rpr.RFont.Val
	}
	if rpr.Sz != nil && rpr.Sz.Val != nil {
		f.Size = *rpr.Sz.Val
	}
	return f
}

// Intern returns the index of text in the table, adding a new plain-text
// entry if it is not already present. Rich-text values are always appended
// fresh (interning would lose per-run formatting distinctions between
// otherwise-identical flattened text).
func (t *SharedStringTable) Intern(text string) int {
	if i, ok := t.byText[text]; ok {
		return i
	}
	i := len(t.entries)
	t.entries = append(t.entries, xlsxSI{T: &xlsxT{Val: text}})
	t.byText[text] = i
	return i
}

// AppendRich appends a rich-text entry (never deduplicated) and returns its
// index.
func (t *SharedStringTable) AppendRich(runs []domain.RichTextRun) int {
	si := xlsxSI{R: make([]xlsxR, len(runs))}
	for i, r := range runs {
		si.R[i] = xlsxR{T: &xlsxT{Val: r.Text}, RPr: fontRefToRPr(r.Font)}
	}
	idx := len(t.entries)
	t.entries = append(t.entries, si)
	return idx
}

func fontRefToRPr(f *domain.Font) *xlsxRPr {
	if f == nil {
		return nil
	}
	rpr := &xlsxRPr{
		B:      boolAttr(f.Bold),
		I:      boolAttr(f.Italic),
		Strike: boolAttr(f.Strike),
		Color:  colorToXML(f.Color),
	}
	if f.Name != "" {
		name := f.Name
		rpr.RFont = &attrValString{Val: &name}
	}
	if f.Size != 0 {
		sz := f.Size
		rpr.Sz = &attrValFloat{Val: &sz}
	}
	if f.Underline {
		u := "single"
		rpr.U = &attrValString{Val: &u}
	}
	return rpr
}

// Build returns the xlsxSST document ready for marshaling.
func (t *SharedStringTable) Build() *xlsxSST {
	return &xlsxSST{Count: len(t.entries), UniqueCount: len(t.entries), SI: t.entries}
}

package ooxml

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// xlsxAppProperties is docProps/app.xml: the application that last wrote the
// file and a flat list of sheet titles.
type xlsxAppProperties struct {
	XMLName       xml.Name `xml:"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties Properties"`
	Application   string   `xml:"Application,omitempty"`
	HeadingPairs  string   `xml:",innerxml"`
	TitlesOfParts *xlsxVectorLpstr
}

type xlsxVectorLpstr struct {
	XMLName xml.Name `xml:"TitlesOfParts"`
	Content string   `xml:",innerxml"`
}

// xlsxCoreProperties is docProps/core.xml: Dublin Core authorship metadata.
type xlsxCoreProperties struct {
	XMLName      xml.Name  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties coreProperties"`
	XmlnsDC      string    `xml:"xmlns:dc,attr"`
	XmlnsDCTerms string    `xml:"xmlns:dcterms,attr"`
	XmlnsXSI     string    `xml:"xmlns:xsi,attr"`
	Creator      string    `xml:"dc:creator,omitempty"`
	Created      *xsiDate  `xml:"dcterms:created"`
	Modified     *xsiDate  `xml:"dcterms:modified"`
}

// xsiDate carries the xsi:type="dcterms:W3CDTF" attribute ECMA-376 requires
// on dcterms:created/modified.
type xsiDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func newXSIDate(t time.Time) *xsiDate {
	if t.IsZero() {
		return nil
	}
	return &xsiDate{Type: "dcterms:W3CDTF", Value: t.UTC().Format(time.RFC3339)}
}

// ParseCoreProperties unmarshals docProps/core.xml into workbook Metadata
// fields, tolerating non-UTF-8 encodings via unmarshalXMLPart.
func ParseCoreProperties(data []byte) (creator string, created, modified time.Time, err error) {
	if len(data) == 0 {
		return "", time.Time{}, time.Time{}, nil
	}
	var cp xlsxCoreProperties
	if err := unmarshalXMLPart(data, &cp); err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	if cp.Created != nil {
		created, _ = time.Parse(time.RFC3339, cp.Created.Value)
	}
	if cp.Modified != nil {
		modified, _ = time.Parse(time.RFC3339, cp.Modified.Value)
	}
	return cp.Creator, created, modified, nil
}

// ParseAppProperties unmarshals docProps/app.xml, returning only the
// application name: the sheet-title vector is derived fresh from the
// workbook's own sheet order on every write, so it isn't parsed back.
func ParseAppProperties(data []byte) (application string, err error) {
	if len(data) == 0 {
		return "", nil
	}
	var ap xlsxAppProperties
	if err := unmarshalXMLPart(data, &ap); err != nil {
		return "", err
	}
	return ap.Application, nil
}

// BuildCoreProperties assembles docProps/core.xml from workbook metadata.
func BuildCoreProperties(m domain.Metadata) *xlsxCoreProperties {
	return &xlsxCoreProperties{
		XmlnsDC:      "http://purl.org/dc/elements/1.1/",
		XmlnsDCTerms: "http://purl.org/dc/terms/",
		XmlnsXSI:     "http://www.w3.org/2001/XMLSchema-instance",
		Creator:      m.Creator,
		Created:      newXSIDate(m.Created),
		Modified:     newXSIDate(m.Modified),
	}
}

// BuildAppProperties assembles docProps/app.xml from the workbook's sheet
// titles. The vt-namespaced HeadingPairs/TitlesOfParts vector pair is
// reproduced as raw innerxml, the way an unmanaged doc-properties part is
// carried: no component of the domain model needs to read it back, so a
// literal vector is simpler than a round-trippable one.
func BuildAppProperties(application string, sheetNames []domain.SheetName) *xlsxAppProperties {
	count := strconv.Itoa(len(sheetNames))
	titles := ""
	for _, n := range sheetNames {
		titles += "<vt:lpstr>" + escapeXMLText(string(n)) + "</vt:lpstr>"
	}
	return &xlsxAppProperties{
		Application: application,
		HeadingPairs: `<HeadingPairs><vt:vector size="2" baseType="variant">` +
			`<vt:variant><vt:lpstr>Worksheets</vt:lpstr></vt:variant>` +
			`<vt:variant><vt:i4>` + count + `</vt:i4></vt:variant>` +
			`</vt:vector></HeadingPairs>`,
		TitlesOfParts: &xlsxVectorLpstr{
			Content: `<vt:vector size="` + count + `" baseType="lpstr">` + titles + `</vt:vector>`,
		},
	}
}

// escapeXMLText escapes text destined for a hand-built innerxml fragment
// (the vt-namespaced vectors above aren't modeled as struct fields, so they
// bypass encoding/xml's own marshal-time escaping).
func escapeXMLText(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

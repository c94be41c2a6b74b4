package ooxml

import (
	"encoding/xml"
	"strconv"

	"github.com/tjc-lp/xlcore/internal/domain"
)

const (
	nsSpreadsheetML  = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	relTypeOfficeDoc = nsRelationships + "/officeDocument"
	relTypeWorksheet = nsRelationships + "/worksheet"
	relTypeStyles    = nsRelationships + "/styles"
	relTypeSharedStr = nsRelationships + "/sharedStrings"
	relTypeTable     = nsRelationships + "/table"
	relTypeHyperlink = nsRelationships + "/hyperlink"
	relTypeCore      = nsPackageRels + "/metadata/core-properties"
	relTypeExtended  = nsRelationships + "/extended-properties"

	ctWorkbook   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet  = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles     = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctSharedStr  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ctTable      = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"
	ctCore       = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtended   = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels       = "application/vnd.openxmlformats-package.relationships+xml"
)

// xlsxWorkbook is xl/workbook.xml: the sheet list, workbook-scoped named
// ranges, and workbook-wide properties.
type xlsxWorkbook struct {
	XMLName      xml.Name          `xml:"workbook"`
	Xmlns        string            `xml:"xmlns,attr"`
	XmlnsR       string            `xml:"xmlns:r,attr"`
	WorkbookPr   *xlsxWorkbookPr   `xml:"workbookPr"`
	Sheets       xlsxSheets        `xml:"sheets"`
	DefinedNames *xlsxDefinedNames `xml:"definedNames"`
}

type xlsxWorkbookPr struct {
	Date1904 bool `xml:"date1904,attr,omitempty"`
}

type xlsxSheets struct {
	Sheet []xlsxSheet `xml:"sheet"`
}

type xlsxSheet struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	State   string `xml:"state,attr,omitempty"`
	RID     string `xml:"r:id,attr"`
}

type xlsxDefinedNames struct {
	DefinedName []xlsxDefinedName `xml:"definedName"`
}

type xlsxDefinedName struct {
	Name         string `xml:"name,attr"`
	LocalSheetID *int   `xml:"localSheetId,attr"`
	Value        string `xml:",chardata"`
}

// ParseWorkbook unmarshals xl/workbook.xml, returning the sheet order (name
// and r:id, for relationship resolution), date1904, and defined names.
func ParseWorkbook(data []byte) (sheets []xlsxSheet, date1904 bool, defined []domain.DefinedName, err error) {
	var wb xlsxWorkbook
	if err := xml.Unmarshal(data, &wb); err != nil {
		return nil, false, nil, err
	}
	if wb.WorkbookPr != nil {
		date1904 = wb.WorkbookPr.Date1904
	}
	if wb.DefinedNames != nil {
		defined = make([]domain.DefinedName, len(wb.DefinedNames.DefinedName))
		for i, d := range wb.DefinedNames.DefinedName {
			defined[i] = domain.DefinedName{Name: d.Name, RefersTo: d.Value, SheetScope: d.LocalSheetID}
		}
	}
	return wb.Sheets.Sheet, date1904, defined, nil
}

// BuildWorkbook assembles xl/workbook.xml. Dates are always written against
// the 1900 epoch regardless of the source file's own date1904 setting,
// since the domain model stores every DateTime as an epoch-independent
// time.Time (see timeToSerial): there is nothing left to preserve about the
// source epoch once values have round-tripped through the domain model.
func BuildWorkbook(sheetNames []domain.SheetName, visibility map[int]bool, defined []domain.DefinedName) *xlsxWorkbook {
	sheets := make([]xlsxSheet, len(sheetNames))
	for i, name := range sheetNames {
		state := ""
		if visibility[i] {
			state = "hidden"
		}
		sheets[i] = xlsxSheet{
			Name:    string(name),
			SheetID: i + 1,
			State:   state,
			RID:     "rId" + strconv.Itoa(i+1),
		}
	}
	wb := &xlsxWorkbook{
		Xmlns:  nsSpreadsheetML,
		XmlnsR: nsRelationships,
		Sheets: xlsxSheets{Sheet: sheets},
	}
	if len(defined) > 0 {
		names := make([]xlsxDefinedName, len(defined))
		for i, d := range defined {
			names[i] = xlsxDefinedName{Name: d.Name, LocalSheetID: d.SheetScope, Value: d.RefersTo}
		}
		wb.DefinedNames = &xlsxDefinedNames{DefinedName: names}
	}
	return wb
}

// xlsxContentTypes is [Content_Types].xml: the package-wide map from part
// extension/name to MIME content type.
type xlsxContentTypes struct {
	XMLName  xml.Name          `xml:"Types"`
	Xmlns    string            `xml:"xmlns,attr"`
	Default  []xlsxCTDefault   `xml:"Default"`
	Override []xlsxCTOverride  `xml:"Override"`
}

type xlsxCTDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xlsxCTOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// xlsxRelationships is the generic shape of every *.rels part
// (_rels/.rels, xl/_rels/workbook.xml.rels, xl/worksheets/_rels/sheetN.xml.rels).
type xlsxRelationships struct {
	XMLName      xml.Name           `xml:"Relationships"`
	Xmlns        string             `xml:"xmlns,attr"`
	Relationship []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// ParseRelationships unmarshals any *.rels part.
func ParseRelationships(data []byte) (*xlsxRelationships, error) {
	var r xlsxRelationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// relsByID indexes a relationships part by its Id attribute, the form every
// r:id lookup (worksheet hyperlinks, table parts) needs.
func relsByID(r *xlsxRelationships) map[string]xlsxRelationship {
	out := make(map[string]xlsxRelationship, len(r.Relationship))
	for _, rel := range r.Relationship {
		out[rel.ID] = rel
	}
	return out
}

// BuildContentTypes assembles [Content_Types].xml for a workbook with
// numSheets worksheets and numTables table parts.
func BuildContentTypes(numSheets, numTables int, hasSharedStrings bool) *xlsxContentTypes {
	ct := &xlsxContentTypes{
		Xmlns: nsContentTypes,
		Default: []xlsxCTDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Override: []xlsxCTOverride{
			{PartName: "/xl/workbook.xml", ContentType: ctWorkbook},
			{PartName: "/xl/styles.xml", ContentType: ctStyles},
			{PartName: "/docProps/core.xml", ContentType: ctCore},
			{PartName: "/docProps/app.xml", ContentType: ctExtended},
		},
	}
	for i := 1; i <= numSheets; i++ {
		ct.Override = append(ct.Override, xlsxCTOverride{
			PartName:    "/xl/worksheets/sheet" + strconv.Itoa(i) + ".xml",
			ContentType: ctWorksheet,
		})
	}
	for i := 1; i <= numTables; i++ {
		ct.Override = append(ct.Override, xlsxCTOverride{
			PartName:    "/" + TablePartName(i),
			ContentType: ctTable,
		})
	}
	if hasSharedStrings {
		ct.Override = append(ct.Override, xlsxCTOverride{
			PartName:    "/xl/sharedStrings.xml",
			ContentType: ctSharedStr,
		})
	}
	return ct
}

// BuildPackageRels assembles the package-level _rels/.rels part.
func BuildPackageRels() *xlsxRelationships {
	return &xlsxRelationships{
		Xmlns: nsPackageRels,
		Relationship: []xlsxRelationship{
			{ID: "rId1", Type: relTypeOfficeDoc, Target: "xl/workbook.xml"},
			{ID: "rId2", Type: relTypeCore, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relTypeExtended, Target: "docProps/app.xml"},
		},
	}
}

// BuildWorkbookRels assembles xl/_rels/workbook.xml.rels: one relationship
// per sheet (rId1..rIdN, matching xlsxSheet.RID), plus styles and, if
// present, sharedStrings.
func BuildWorkbookRels(numSheets int, hasSharedStrings bool) *xlsxRelationships {
	rels := make([]xlsxRelationship, 0, numSheets+2)
	for i := 1; i <= numSheets; i++ {
		rels = append(rels, xlsxRelationship{
			ID:     "rId" + strconv.Itoa(i),
			Type:   relTypeWorksheet,
			Target: "worksheets/sheet" + strconv.Itoa(i) + ".xml",
		})
	}
	next := numSheets + 1
	rels = append(rels, xlsxRelationship{ID: "rId" + strconv.Itoa(next), Type: relTypeStyles, Target: "styles.xml"})
	next++
	if hasSharedStrings {
		rels = append(rels, xlsxRelationship{ID: "rId" + strconv.Itoa(next), Type: relTypeSharedStr, Target: "sharedStrings.xml"})
	}
	return &xlsxRelationships{Xmlns: nsPackageRels, Relationship: rels}
}

package ooxml

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// xlsxTable is xl/tables/table{n}.xml: a structured-reference region over a
// rectangular cell range, with a named column per field and an associated
// autofilter and style.
type xlsxTable struct {
	XMLName        xml.Name             `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main table"`
	ID             int                  `xml:"id,attr"`
	Name           string               `xml:"name,attr"`
	DisplayName    string               `xml:"displayName,attr"`
	Ref            string               `xml:"ref,attr"`
	AutoFilter     *xlsxAutoFilter      `xml:"autoFilter"`
	TableColumns   *xlsxTableColumns    `xml:"tableColumns"`
	TableStyleInfo *xlsxTableStyleInfo  `xml:"tableStyleInfo"`
}

type xlsxTableColumns struct {
	Count       int                 `xml:"count,attr"`
	TableColumn []*xlsxTableColumn  `xml:"tableColumn"`
}

type xlsxTableColumn struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xlsxTableStyleInfo struct {
	Name              string `xml:"name,attr,omitempty"`
	ShowFirstColumn   bool   `xml:"showFirstColumn,attr"`
	ShowLastColumn    bool   `xml:"showLastColumn,attr"`
	ShowRowStripes    bool   `xml:"showRowStripes,attr"`
	ShowColumnStripes bool   `xml:"showColumnStripes,attr"`
}

// xlsxAutoFilter is the worksheet-level (or table-level) autofilter region.
// This codec round-trips the filter range only: per-column filter criteria
// are a worksheet feature the domain model does not represent, so any
// FilterColumn entries found on read are kept as opaque innerxml and
// reproduced verbatim on write.
type xlsxAutoFilter struct {
	Ref          string `xml:"ref,attr"`
	FilterColumn string `xml:",innerxml"`
}

// ParseTable unmarshals one xl/tables/table{n}.xml part into a domain Table.
func ParseTable(data []byte) (domain.Table, error) {
	var t xlsxTable
	if err := xml.Unmarshal(data, &t); err != nil {
		return domain.Table{}, fmt.Errorf("ooxml: parsing table: %w", err)
	}
	ref, err := domain.ParseCellRange(t.Ref)
	if err != nil {
		return domain.Table{}, fmt.Errorf("ooxml: table %q has invalid ref %q: %w", t.Name, t.Ref, err)
	}
	out := domain.Table{
		Name: t.Name,
		ID:   strconv.Itoa(t.ID),
		Ref:  ref,
	}
	if t.TableStyleInfo != nil {
		out.Style = t.TableStyleInfo.Name
	}
	if t.TableColumns != nil {
		out.Columns = make([]domain.TableColumn, len(t.TableColumns.TableColumn))
		for i, c := range t.TableColumns.TableColumn {
			out.Columns[i] = domain.TableColumn{Name: c.Name}
		}
	}
	return out, nil
}

// BuildTable assembles a table's XML document. ordinal is the table's
// 1-based position among the workbook's tables, used both as the OOXML
// numeric id written into the document and as the fallback display name
// ("Table1", "Table2", ...). The second return value is the table's ID: the
// one carried over from a source file (a decimal string), or, for a table
// created in this session, "t" + ordinal, derived deterministically rather
// than minted at random so that repeated writes of an unchanged workbook
// stay byte-identical. That ID is returned only; the document's id is
// always ordinal.
func BuildTable(t domain.Table, ordinal int) (*xlsxTable, string) {
	id := t.ID
	if id == "" {
		id = "t" + strconv.Itoa(ordinal)
	}
	name := t.Name
	if name == "" {
		name = "Table" + strconv.Itoa(ordinal)
	}
	cols := make([]*xlsxTableColumn, len(t.Columns))
	for i, c := range t.Columns {
		colName := c.Name
		if colName == "" {
			colName = "Column" + strconv.Itoa(i+1)
		}
		cols[i] = &xlsxTableColumn{ID: i + 1, Name: colName}
	}
	ref := t.Ref.ToA1()
	doc := &xlsxTable{
		ID:          ordinal,
		Name:        name,
		DisplayName: name,
		Ref:         ref,
		AutoFilter:  &xlsxAutoFilter{Ref: ref},
		TableColumns: &xlsxTableColumns{
			Count:       len(cols),
			TableColumn: cols,
		},
	}
	if t.Style != "" {
		doc.TableStyleInfo = &xlsxTableStyleInfo{Name: t.Style, ShowRowStripes: true}
	}
	return doc, id
}

// TablePartName returns the conventional archive path for a table with the
// given 1-based ordinal, mirroring how worksheets number their own table
// parts (xl/tables/table1.xml, table2.xml, ...).
func TablePartName(ordinal int) string {
	return "xl/tables/table" + strconv.Itoa(ordinal) + ".xml"
}

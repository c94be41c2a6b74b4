package ooxml

// BuildWorksheetRels assembles a worksheet's own xl/worksheets/_rels/sheetN.xml.rels
// part from the external-hyperlink relationships BuildWorksheet returned.
// Every entry is TargetMode="External": internal (same-workbook) links are
// expressed purely through a cell's hyperlink "location" attribute and need
// no relationship at all.
func BuildWorksheetRels(hyperlinkRels map[string]string) *xlsxRelationships {
	if len(hyperlinkRels) == 0 {
		return nil
	}
	rels := make([]xlsxRelationship, 0, len(hyperlinkRels))
	for rid, target := range hyperlinkRels {
		rels = append(rels, xlsxRelationship{ID: rid, Type: relTypeHyperlink, Target: target, TargetMode: "External"})
	}
	return &xlsxRelationships{Xmlns: nsPackageRels, Relationship: rels}
}

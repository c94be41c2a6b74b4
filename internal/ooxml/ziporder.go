package ooxml

import "strconv"

// CanonicalPartOrder returns the ZIP entry order a fresh write uses: the
// same order Excel itself produces, so a byte-level diff between a
// round-tripped file and a freshly authored one is driven only by content
// differences, never incidental entry reordering. Preserved parts not
// named here (media, custom XML, VBA project, themes beyond the default)
// are appended afterward in the order PreservedPartStore.ListAll returns
// them, which is itself the source archive's original order.
func CanonicalPartOrder(numSheets, numTables int, hasSharedStrings bool) []string {
	order := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
	}
	for i := 1; i <= numSheets; i++ {
		order = append(order, "xl/worksheets/sheet"+strconv.Itoa(i)+".xml")
	}
	order = append(order, "xl/styles.xml")
	if hasSharedStrings {
		order = append(order, "xl/sharedStrings.xml")
	}
	for i := 1; i <= numTables; i++ {
		order = append(order, TablePartName(i))
	}
	order = append(order, "docProps/core.xml", "docProps/app.xml")
	return order
}

// dedupOrdered appends each of extra to base, skipping any name already
// present in base (or earlier in extra). Write does not call it: it skips
// preserved parts whose names it regenerated through writtenPartSet.
func dedupOrdered(base []string, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	for _, n := range base {
		seen[n] = true
	}
	out := append([]string(nil), base...)
	for _, n := range extra {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

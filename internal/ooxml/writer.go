package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tjc-lp/xlcore/internal/domain"
)

func init() {
	domain.RegisterWriter(Write)
}

type writtenSheet struct {
	ws            *xlsxWorksheet
	hyperlinkRels map[string]string
	tableDocs     []*xlsxTable
	tableOrdinals []int
	tableRels     map[string]string
}

// Write performs a surgical write of wb to path. If wb carries a
// SourceContext (it was opened from an existing file, via Open), every
// part this package does not model — drawings, themes, custom XML, VBA
// projects, anything the reader saw but never parsed — streams through from
// the source archive byte-for-byte; only the parts this library always
// regenerates (styles, shared strings, the workbook manifest, worksheets)
// are rebuilt. A wb with no SourceContext is written as an entirely fresh
// package.
func Write(wb *domain.Workbook, path string) error {
	source := wb.SourceContext()
	var preserved *PreservedPartStore
	if source != nil {
		ok, err := Verify(source.SourcePath, source.Fingerprint)
		if err != nil {
			return &domain.XLError{Kind: domain.IOError, Input: source.SourcePath, Detail: err.Error()}
		}
		if !ok {
			return &domain.XLError{Kind: domain.SourceMutated, Input: source.SourcePath, Detail: "source file changed since it was opened"}
		}
		preserved = NewPreservedPartStore(source.SourcePath)
		defer preserved.Close()
	}

	sheets := wb.Sheets()
	sst := NewSharedStringTable()
	si := NewStyleIndex()
	xfOffsets := buildStyleIndex(si, sheets)

	built := make([]writtenSheet, len(sheets))
	tableOrdinal := 1
	for i, sheet := range sheets {
		offsets := xfOffsets[sheet.Registry()]
		xfIndex := func(id domain.StyleId) int { return offsets[id] }

		ws, hlRels := BuildWorksheet(sheet, xfIndex, sst, false)

		var tableDocs []*xlsxTable
		var tableRels map[string]string
		var ordinals []int
		if tables := sheet.Tables(); len(tables) > 0 {
			startOrdinal := tableOrdinal
			tableDocs, tableRels, tableOrdinal = AttachTableParts(ws, tables, tableOrdinal, len(hlRels)+1)
			for o := startOrdinal; o < tableOrdinal; o++ {
				ordinals = append(ordinals, o)
			}
		}

		built[i] = writtenSheet{ws: ws, hyperlinkRels: hlRels, tableDocs: tableDocs, tableOrdinals: ordinals, tableRels: tableRels}
	}

	numTables := tableOrdinal - 1
	hasSharedStrings := len(sst.entries) > 0

	meta := wb.Metadata()
	sheetNames := make([]domain.SheetName, len(sheets))
	for i, s := range sheets {
		sheetNames[i] = s.Name
	}
	workbookDoc := BuildWorkbook(sheetNames, meta.Visibility, meta.DefinedNames)
	styleSheetDoc := BuildStyleSheet(si, nil)
	contentTypesDoc := BuildContentTypes(len(sheets), numTables, hasSharedStrings)
	packageRelsDoc := BuildPackageRels()
	workbookRelsDoc := BuildWorkbookRels(len(sheets), hasSharedStrings)
	coreDoc := BuildCoreProperties(meta)
	appDoc := BuildAppProperties(meta.Application, sheetNames)

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return &domain.XLError{Kind: domain.IOError, Input: path, Detail: err.Error()}
	}
	zw := zip.NewWriter(f)

	writeXML := func(name string, v interface{}) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		return marshalXMLPart(w, v)
	}

	failf := func(format string, args ...interface{}) error {
		zw.Close()
		f.Close()
		os.Remove(tmpPath)
		return &domain.XLError{Kind: domain.IOError, Input: path, Detail: fmt.Sprintf(format, args...)}
	}

	docs := map[string]interface{}{
		"[Content_Types].xml":        contentTypesDoc,
		"_rels/.rels":                packageRelsDoc,
		"xl/workbook.xml":            workbookDoc,
		"xl/_rels/workbook.xml.rels": workbookRelsDoc,
		"xl/styles.xml":              styleSheetDoc,
		"docProps/core.xml":          coreDoc,
		"docProps/app.xml":           appDoc,
	}
	if hasSharedStrings {
		docs["xl/sharedStrings.xml"] = sst.Build()
	}
	type namedRels struct {
		name string
		doc  *xlsxRelationships
	}
	var relsDocs []namedRels
	for i, bp := range built {
		partName := worksheetPartName(i + 1)
		docs[partName] = bp.ws
		for j, t := range bp.tableDocs {
			docs[TablePartName(bp.tableOrdinals[j])] = t
		}
		if rels := dedupRelsMap(bp.hyperlinkRels, bp.tableRels); len(rels) > 0 {
			relsDoc := &xlsxRelationships{Xmlns: nsPackageRels}
			for rid, target := range bp.hyperlinkRels {
				relsDoc.Relationship = append(relsDoc.Relationship, xlsxRelationship{ID: rid, Type: relTypeHyperlink, Target: target, TargetMode: "External"})
			}
			for rid, target := range bp.tableRels {
				relsDoc.Relationship = append(relsDoc.Relationship, xlsxRelationship{ID: rid, Type: relTypeTable, Target: target})
			}
			sortRelationshipsByID(relsDoc.Relationship)
			relsDocs = append(relsDocs, namedRels{name: worksheetRelsPartName(partName), doc: relsDoc})
		}
	}

	for _, name := range CanonicalPartOrder(len(sheets), numTables, hasSharedStrings) {
		doc, ok := docs[name]
		if !ok {
			continue
		}
		if err := writeXML(name, doc); err != nil {
			return failf("writing %s: %v", name, err)
		}
	}
	for _, nr := range relsDocs {
		if err := writeXML(nr.name, nr.doc); err != nil {
			return failf("writing %s: %v", nr.name, err)
		}
	}

	if preserved != nil {
		names, err := preserved.ListAll()
		if err != nil {
			return failf("listing preserved parts: %v", err)
		}
		written := writtenPartSet(built, hasSharedStrings)
		for _, name := range names {
			if written[name] {
				continue
			}
			w, err := zw.Create(name)
			if err != nil {
				return failf("creating preserved part %s: %v", name, err)
			}
			entry, _ := source.Manifest.Entry(name)
			if err := preserved.StreamTo(w, name, entry); err != nil {
				if xe, ok := err.(*domain.XLError); ok {
					failf("streaming preserved part %s", name)
					return xe
				}
				return failf("streaming preserved part %s: %v", name, err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		return failf("closing archive: %v", err)
	}
	if err := f.Close(); err != nil {
		return failf("closing temp file: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return failf("renaming into place: %v", err)
	}
	return nil
}

// buildStyleIndex appends every distinct sheet registry's styles into si
// (in StyleRegistry.All() order, which Append preserves 1:1 into xf index
// order), and returns, per registry, the StyleId -> xf-index offset table
// BuildWorksheet needs. Sheets sharing one registry pointer (the common
// case for a workbook read via Open) only contribute their styles once;
// sheets built independently via AddSheet each get their own offset table
// appended at the point their registry is first seen.
func buildStyleIndex(si *StyleIndex, sheets []*domain.Sheet) map[*domain.StyleRegistry]map[domain.StyleId]int {
	offsets := map[*domain.StyleRegistry]map[domain.StyleId]int{}
	for _, sheet := range sheets {
		reg := sheet.Registry()
		if _, done := offsets[reg]; done {
			continue
		}
		table := map[domain.StyleId]int{}
		for id, style := range reg.All() {
			table[domain.StyleId(id)] = si.Append(style)
		}
		offsets[reg] = table
	}
	return offsets
}

func dedupRelsMap(maps ...map[string]string) map[string]string {
	total := 0
	for _, m := range maps {
		total += len(m)
	}
	if total == 0 {
		return nil
	}
	out := make(map[string]string, total)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func writtenPartSet(built []writtenSheet, hasSharedStrings bool) map[string]bool {
	out := map[string]bool{
		"[Content_Types].xml":        true,
		"_rels/.rels":                true,
		"xl/workbook.xml":            true,
		"xl/_rels/workbook.xml.rels": true,
		"xl/styles.xml":              true,
		"docProps/core.xml":          true,
		"docProps/app.xml":           true,
	}
	if hasSharedStrings {
		out["xl/sharedStrings.xml"] = true
	}
	for i, bp := range built {
		partName := worksheetPartName(i + 1)
		out[partName] = true
		if len(bp.hyperlinkRels) > 0 || len(bp.tableRels) > 0 {
			out[worksheetRelsPartName(partName)] = true
		}
		for j := range bp.tableDocs {
			out[TablePartName(bp.tableOrdinals[j])] = true
		}
	}
	return out
}

func worksheetPartName(ordinal int) string {
	return "xl/worksheets/sheet" + strconv.Itoa(ordinal) + ".xml"
}

// sortRelationshipsByID orders rels by their numeric rId suffix, so a
// worksheet's .rels part comes out in deterministic order regardless of
// the map iteration that built it.
func sortRelationshipsByID(rels []xlsxRelationship) {
	sort.Slice(rels, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(rels[i].ID, "rId"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(rels[j].ID, "rId"))
		return ni < nj
	})
}

// marshalXMLPart writes v as an indented XML document with the standard
// OOXML part preamble, the way every xlsx-producing tool emits its parts.
func marshalXMLPart(w io.Writer, v interface{}) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

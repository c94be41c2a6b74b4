package ooxml

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// rejectLegacyContainer sniffs the first bytes of path for the OLE2
// compound-file signature legacy .xls/.xlsb files use. mscfb.New returns a
// non-nil error for anything that isn't a valid OLE2 container (in
// particular, for a ZIP/OOXML file, whose magic bytes are "PK"), so success
// here means the caller handed this library a binary format it cannot and
// will not support.
func rejectLegacyContainer(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.XLError{Kind: domain.IOError, Input: path, Detail: err.Error()}
	}
	defer f.Close()
	if _, err := mscfb.New(f); err == nil {
		return &domain.XLError{
			Kind:   domain.UnsupportedFeature,
			Input:  path,
			Detail: "legacy OLE2 compound-file workbook (.xls/.xlsb) is not supported; convert to .xlsx first",
		}
	}
	return nil
}

// Open reads an entire .xlsx package from path: it verifies the container,
// fingerprints the source bytes, parses every structural part, and
// assembles the resulting Workbook with a SourceContext ready for a later
// surgical write.
func Open(path string) (*domain.Workbook, error) {
	if err := rejectLegacyContainer(path); err != nil {
		return nil, err
	}

	fp, err := Fingerprint(path)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.IOError, Input: path, Detail: err.Error()}
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.CorruptZip, Input: path, Detail: err.Error()}
	}
	defer zr.Close()

	manifest := domain.PartManifest{Entries: make([]domain.PartEntry, len(zr.File))}
	rawParts := make(map[string][]byte, len(zr.File))
	for i, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &domain.XLError{Kind: domain.CorruptZip, Input: f.Name, Detail: err.Error()}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &domain.XLError{Kind: domain.CorruptZip, Input: f.Name, Detail: err.Error()}
		}
		rawParts[f.Name] = data
		entry := domain.PartEntry{
			Name:             f.Name,
			UncompressedSize: f.UncompressedSize64,
			CRC32:            f.CRC32,
			Method:           domain.CompressionMethod(f.Method),
			SecondaryDigest:  SecondaryDigest(data),
		}
		if strings.HasPrefix(f.Name, "xl/media/") {
			if info, err := SniffMedia(data); err == nil {
				entry.Media = &info
			}
		}
		manifest.Entries[i] = entry
	}

	readPart := func(name string) ([]byte, error) {
		return rawParts[name], nil
	}
	markParsed := func(name string) {
		for i := range manifest.Entries {
			if manifest.Entries[i].Name == name {
				manifest.Entries[i].Parsed = true
				return
			}
		}
	}

	wbData, err := readPart("xl/workbook.xml")
	if err != nil || wbData == nil {
		return nil, &domain.XLError{Kind: domain.InvalidWorkbook, Input: path, Detail: "missing xl/workbook.xml"}
	}
	markParsed("xl/workbook.xml")
	sheetRefs, date1904, definedNames, err := ParseWorkbook(wbData)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "xl/workbook.xml", Detail: err.Error()}
	}

	wbRelsData, _ := readPart("xl/_rels/workbook.xml.rels")
	markParsed("xl/_rels/workbook.xml.rels")
	var wbRels map[string]xlsxRelationship
	if wbRelsData != nil {
		parsed, err := ParseRelationships(wbRelsData)
		if err != nil {
			return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "xl/_rels/workbook.xml.rels", Detail: err.Error()}
		}
		wbRels = relsByID(parsed)
	}

	stylesData, err := readPart("xl/styles.xml")
	if err != nil {
		return nil, &domain.XLError{Kind: domain.IOError, Input: "xl/styles.xml", Detail: err.Error()}
	}
	markParsed("xl/styles.xml")
	var styleSheet xlsxStyleSheet
	if len(stylesData) > 0 {
		if err := decodeXMLPart(stylesData).Decode(&styleSheet); err != nil {
			return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "xl/styles.xml", Detail: err.Error()}
		}
	}
	reg, xfToStyle, err := ParseStyleSheet(&styleSheet)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "xl/styles.xml", Detail: err.Error()}
	}
	numFmtByXf := NumFmtsByXf(&styleSheet)

	sstData, _ := readPart("xl/sharedStrings.xml")
	markParsed("xl/sharedStrings.xml")
	sst, err := ParseSharedStrings(sstData)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "xl/sharedStrings.xml", Detail: err.Error()}
	}

	sheets := make([]*domain.Sheet, 0, len(sheetRefs))
	for _, ref := range sheetRefs {
		target, ok := wbRels[ref.RID]
		if !ok {
			return nil, &domain.XLError{
				Kind:   domain.InvalidWorkbook,
				Input:  ref.Name,
				Detail: fmt.Sprintf("sheet %q references unknown relationship %q", ref.Name, ref.RID),
			}
		}
		partName := resolveRelativePath("xl/", target.Target)

		wsData, err := readPart(partName)
		if err != nil || wsData == nil {
			return nil, &domain.XLError{Kind: domain.IOError, Input: partName, Detail: "missing worksheet part"}
		}
		markParsed(partName)

		relsPartName := worksheetRelsPartName(partName)
		relsData, _ := readPart(relsPartName)
		markParsed(relsPartName)
		var wsRels map[string]string
		if relsData != nil {
			parsed, err := ParseRelationships(relsData)
			if err == nil {
				byID := relsByID(parsed)
				wsRels = make(map[string]string, len(byID))
				for id, rel := range byID {
					wsRels[id] = rel.Target
				}
			}
		}

		ctx := worksheetReadContext{
			sst:        sst,
			numFmtByXf: numFmtByXf,
			date1904:   date1904,
			rels:       wsRels,
			loadTable: func(rid string) (domain.Table, error) {
				target, ok := wsRels[rid]
				if !ok {
					return domain.Table{}, fmt.Errorf("ooxml: unresolved table relationship %q", rid)
				}
				tablePartName := resolveRelativePath("xl/worksheets/", target)
				data, err := readPart(tablePartName)
				if err != nil || data == nil {
					return domain.Table{}, fmt.Errorf("ooxml: missing table part %q", tablePartName)
				}
				markParsed(tablePartName)
				return ParseTable(data)
			},
		}
		name, err := domain.NewSheetName(sheetNameOf(ref))
		if err != nil {
			return nil, &domain.XLError{Kind: domain.InvalidSheetName, Input: sheetNameOf(ref), Detail: err.Error()}
		}
		sheet, err := ParseWorksheet(wsData, name, reg, xfToStyle, ctx)
		if err != nil {
			return nil, &domain.XLError{Kind: domain.MalformedXml, Input: partName, Detail: err.Error()}
		}

		reg = sheet.Registry()
		sheets = append(sheets, sheet)
	}

	coreData, _ := readPart("docProps/core.xml")
	markParsed("docProps/core.xml")
	creator, created, modified, err := ParseCoreProperties(coreData)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "docProps/core.xml", Detail: err.Error()}
	}

	appData, _ := readPart("docProps/app.xml")
	markParsed("docProps/app.xml")
	application, err := ParseAppProperties(appData)
	if err != nil {
		return nil, &domain.XLError{Kind: domain.MalformedXml, Input: "docProps/app.xml", Detail: err.Error()}
	}

	meta := domain.Metadata{
		Creator:      creator,
		Created:      created,
		Modified:     modified,
		Application:  application,
		DefinedNames: definedNames,
		Visibility:   visibilityFromSheets(sheetRefs),
	}

	source := &domain.SourceContext{
		SourcePath:  path,
		Manifest:    manifest,
		Tracker:     domain.NewModificationTracker(),
		Fingerprint: fp,
	}

	return domain.NewWorkbookFromParts(sheets, meta, 0, source), nil
}

func visibilityFromSheets(refs []xlsxSheet) map[int]bool {
	out := make(map[int]bool, len(refs))
	for i, r := range refs {
		out[i] = r.State == "hidden" || r.State == "veryHidden"
	}
	return out
}

func sheetNameOf(s xlsxSheet) string { return s.Name }

// resolveRelativePath resolves a relationship Target against the directory
// (base, trailing slash) of the part whose .rels it came from, per OPC's
// "part-relative" addressing convention (a leading "/" means package-root-
// relative instead).
func resolveRelativePath(base, target string) string {
	if len(target) > 0 && target[0] == '/' {
		return target[1:]
	}
	return path.Clean(base + target)
}

// worksheetRelsPartName returns the conventional .rels sibling path for a
// worksheet part, e.g. "xl/worksheets/sheet1.xml" -> "xl/worksheets/_rels/sheet1.xml.rels".
func worksheetRelsPartName(worksheetPart string) string {
	return path.Dir(worksheetPart) + "/_rels/" + path.Base(worksheetPart) + ".rels"
}

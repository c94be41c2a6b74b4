package ooxml

import (
	"strings"

	"github.com/xuri/nfp"
)

// builtInDateFormatID reports whether id falls in one of the OOXML builtin
// numFmtId ranges that always denote a date/time display, independent of
// their format code text.
func builtInDateFormatID(id int) bool {
	switch {
	case id >= 14 && id <= 17:
		return true
	case id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateNumFmt reports whether the effective number format (builtin id plus
// custom code, when the id is a custom one) denotes a date/time value. A
// worksheet reader uses this to decide whether a numeric serial should
// surface as CellValue's DateTime case instead of Number.
func isDateNumFmt(id int, code string) bool {
	if builtInDateFormatID(id) {
		return true
	}
	if id != 0 && id < 164 {
		return false
	}
	if code == "" || code == "General" {
		return false
	}
	return codeHasDateToken(code)
}

// codeHasDateToken parses code with nfp's number-format tokenizer and reports
// whether any section contains a date/time or elapsed-date/time token.
func codeHasDateToken(code string) bool {
	sections := nfp.NumberFormatParser().Parse(code)
	for _, sec := range sections {
		for _, tok := range sec.Items {
			switch tok.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}

// isTextNumFmt reports whether code is (or contains) the literal text format
// marker "@", used for cells that should never be date/number interpreted.
func isTextNumFmt(code string) bool {
	return strings.Contains(code, "@") && !strings.Contains(code, "\"@\"")
}

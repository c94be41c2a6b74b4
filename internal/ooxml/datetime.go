package ooxml

import (
	"time"

	"github.com/shopspring/decimal"
)

// excelEpoch1900 and excelEpoch1904 are OOXML's two date origins: the
// default 1899-12-30 (day 0, with the historical Lotus 1-2-3 leap-year bug
// baked in as day 60 = the nonexistent 1900-02-29) and the 1904-01-01
// system some Mac-authored workbooks opt into via workbookPr/@date1904.
var (
	excelEpoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	excelEpoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func epochFor(date1904 bool) time.Time {
	if date1904 {
		return excelEpoch1904
	}
	return excelEpoch1900
}

// serialToTime converts an OOXML date serial to a time.Time, ok=false if it
// falls outside a sane range (defensive against a malformed style/value
// pairing misclassifying an ordinary number as a date).
func serialToTime(d decimal.Decimal, date1904 bool) (time.Time, bool) {
	f, _ := d.Float64()
	if f < -1e6 || f > 1e7 {
		return time.Time{}, false
	}
	wholeDays, frac := int64(f), f-float64(int64(f))
	t := epochFor(date1904).AddDate(0, 0, int(wholeDays))
	t = t.Add(time.Duration(frac * 24 * float64(time.Hour)))
	return t, true
}

// timeToSerial is serialToTime's inverse for the 1900 date system: it
// always measures from the 1900 epoch.
func timeToSerial(t time.Time) float64 {
	return t.Sub(epochFor(false)).Hours() / 24
}

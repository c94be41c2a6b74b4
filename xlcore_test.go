package xlcore

import "testing"

func TestNewWorkbookAddSheetAndApplyPatch(t *testing.T) {
	wb, err := NewWorkbook("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	wb, err = wb.AddSheet(mustSheetName(t, "Data"))
	if err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets()) != 2 {
		t.Fatalf("len(Sheets()) = %d, want 2", len(wb.Sheets()))
	}

	sheet, idx, err := wb.SheetByName(mustSheetName(t, "Data"))
	if err != nil {
		t.Fatal(err)
	}
	ref := mustARef(t, "A1")
	next, err := ApplyPatch(sheet, Put(ref, TextValue("hello")))
	if err != nil {
		t.Fatal(err)
	}
	wb, err = wb.WithSheetReplaced(idx, next)
	if err != nil {
		t.Fatal(err)
	}

	got, _, err := wb.SheetByName(mustSheetName(t, "Data"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Cell(ref).Value.Text != "hello" {
		t.Fatalf("A1 = %q, want hello", got.Cell(ref).Value.Text)
	}
}

func TestWorkbookWriteFileIsReachable(t *testing.T) {
	// The root package imports internal/ooxml (via open.go), so by the time
	// any test in this package runs the writer is already registered; this
	// just exercises that WriteFile is reachable as a real method on
	// Workbook per the public API surface.
	wb, err := NewWorkbook("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if wb == nil {
		t.Fatal("NewWorkbook returned nil")
	}
	var _ func(string) error = wb.WriteFile
}

func mustSheetName(t *testing.T, s string) SheetName {
	t.Helper()
	name, err := NewSheetName(s)
	if err != nil {
		t.Fatalf("NewSheetName(%q): %v", s, err)
	}
	return name
}

func mustARef(t *testing.T, s string) ARef {
	t.Helper()
	ref, err := ParseARef(s)
	if err != nil {
		t.Fatalf("ParseARef(%q): %v", s, err)
	}
	return ref
}

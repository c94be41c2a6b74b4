package domain

import "testing"

func a1(t *testing.T, s string) ARef {
	t.Helper()
	ref, err := ParseARef(s)
	if err != nil {
		t.Fatalf("ParseARef(%q): %v", s, err)
	}
	return ref
}

func TestApplyPatchPutAndRemove(t *testing.T) {
	name, _ := NewSheetName("Sheet1")
	sheet := NewSheet(name)

	next, err := ApplyPatch(sheet, Put(a1(t, "A1"), TextValue("hi")))
	if err != nil {
		t.Fatal(err)
	}
	if got := next.Cell(a1(t, "A1")).Value.Text; got != "hi" {
		t.Fatalf("cell value = %q, want hi", got)
	}
	if !sheet.Cell(a1(t, "A1")).Value.IsEmpty() {
		t.Fatal("original sheet must be unmodified (persistent update)")
	}

	removed, err := ApplyPatch(next, Remove(a1(t, "A1")))
	if err != nil {
		t.Fatal(err)
	}
	if !removed.Cell(a1(t, "A1")).Value.IsEmpty() {
		t.Fatal("expected cell to be empty after Remove")
	}
}

func TestApplyPatchBatchSequencesInOrder(t *testing.T) {
	name, _ := NewSheetName("Sheet1")
	sheet := NewSheet(name)

	p := BatchPatch(
		Put(a1(t, "A1"), IntValue(1)),
		Put(a1(t, "A1"), IntValue(2)),
	)
	next, err := ApplyPatch(sheet, p)
	if err != nil {
		t.Fatal(err)
	}
	got := next.Cell(a1(t, "A1")).Value.Number
	if !got.Equal(IntValue(2).Number) {
		t.Fatalf("A1 = %v, want 2 (second Put wins)", got)
	}
}

func TestCombineIsAssociativeMonoidWithEmptyIdentity(t *testing.T) {
	p1 := Put(a1(t, "A1"), IntValue(1))
	p2 := Put(a1(t, "B1"), IntValue(2))

	if got := Combine(NoopPatch(), p1); got.Tag != p1.Tag || got.Ref != p1.Ref {
		t.Fatal("Empty must be left identity")
	}
	if got := Combine(p1, NoopPatch()); got.Tag != p1.Tag || got.Ref != p1.Ref {
		t.Fatal("Empty must be right identity")
	}

	combined := Combine(p1, p2)
	if combined.Tag != PBatch || len(combined.Batch) != 2 {
		t.Fatalf("Combine of two non-batch patches must produce a 2-element batch, got %+v", combined)
	}
}

func TestApplyPatchMergeRejectsOverlap(t *testing.T) {
	name, _ := NewSheetName("Sheet1")
	sheet := NewSheet(name)
	rng1, _ := ParseCellRange("A1:B2")
	rng2, _ := ParseCellRange("B2:C3")

	next, err := ApplyPatch(sheet, Merge(rng1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ApplyPatch(next, Merge(rng2)); err == nil {
		t.Fatal("expected MergeOverlap error for ranges sharing a cell")
	}
}

func TestApplyPatchSetRangeStyleRegistersOnce(t *testing.T) {
	name, _ := NewSheetName("Sheet1")
	sheet := NewSheet(name)
	style := CellStyle{Font: Font{Name: "Calibri", Size: 11}}

	rng, _ := ParseCellRange("A1:A3")
	next, err := ApplyPatch(sheet, SetRangeStyle(rng, style))
	if err != nil {
		t.Fatal(err)
	}
	if next.Registry().Len() != 2 {
		t.Fatalf("registry len = %d, want 2 (default + one new style shared by 3 cells)", next.Registry().Len())
	}
	id1 := *next.Cell(a1(t, "A1")).StyleID
	id3 := *next.Cell(a1(t, "A3")).StyleID
	if id1 != id3 {
		t.Fatal("every cell in the range must share the same registered StyleId")
	}
}

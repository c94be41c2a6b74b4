package formula

import (
	"testing"

	"github.com/tjc-lp/xlcore/internal/domain"
)

func TestRecalculateCachesFormulaResult(t *testing.T) {
	name, _ := domain.NewSheetName("Sheet1")
	sheet := domain.NewSheet(name)
	sheet = sheet.WithCell(ref(t, "A1"), domain.IntValue(10))
	sheet = sheet.WithCell(ref(t, "B1"), domain.IntValue(20))
	sheet = sheet.WithCell(ref(t, "C1"), domain.FormulaValue("A1+B1", nil))

	sheet = Recalculate(sheet)
	c1 := sheet.Cell(ref(t, "C1"))
	if c1.Value.Cached == nil || !c1.Value.Cached.Number.Equal(domain.IntValue(30).Number) {
		t.Fatalf("C1 cached = %+v, want Number(30)", c1.Value.Cached)
	}
}

func TestRecalculateDependentsUpdatesOnlyAffectedCells(t *testing.T) {
	name, _ := domain.NewSheetName("Sheet1")
	sheet := domain.NewSheet(name)
	sheet = sheet.WithCell(ref(t, "A1"), domain.IntValue(10))
	sheet = sheet.WithCell(ref(t, "B1"), domain.IntValue(20))
	sheet = sheet.WithCell(ref(t, "C1"), domain.FormulaValue("A1+B1", nil))
	sheet = Recalculate(sheet)

	sheet = sheet.WithCell(ref(t, "A1"), domain.IntValue(50))
	sheet = RecalculateDependents(sheet, map[domain.ARef]struct{}{ref(t, "A1"): {}})

	c1 := sheet.Cell(ref(t, "C1"))
	if c1.Value.Cached == nil || !c1.Value.Cached.Number.Equal(domain.IntValue(70).Number) {
		t.Fatalf("C1 cached = %+v, want Number(70) after A1 changed to 50", c1.Value.Cached)
	}
}

func TestRecalculateCyclicCellsGetRefError(t *testing.T) {
	name, _ := domain.NewSheetName("Sheet1")
	sheet := domain.NewSheet(name)
	sheet = sheet.WithCell(ref(t, "A1"), domain.FormulaValue("B1+1", nil))
	sheet = sheet.WithCell(ref(t, "B1"), domain.FormulaValue("A1+1", nil))
	sheet = sheet.WithCell(ref(t, "C1"), domain.IntValue(5))
	sheet = sheet.WithCell(ref(t, "D1"), domain.FormulaValue("C1*2", nil))

	sheet = Recalculate(sheet)

	a1 := sheet.Cell(ref(t, "A1"))
	if a1.Value.Cached == nil || a1.Value.Cached.Tag != domain.VError || a1.Value.Cached.Err != domain.ErrRef {
		t.Fatalf("A1 cached = %+v, want #REF! (cycle member)", a1.Value.Cached)
	}
	d1 := sheet.Cell(ref(t, "D1"))
	if d1.Value.Cached == nil || d1.Value.Cached.Tag != domain.VNumber || !d1.Value.Cached.Number.Equal(domain.IntValue(10).Number) {
		t.Fatalf("D1 cached = %+v, want Number(10): cells outside the cycle must still recalculate", d1.Value.Cached)
	}
}

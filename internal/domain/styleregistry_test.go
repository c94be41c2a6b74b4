package domain

import "testing"

func TestStyleRegistryDeduplicatesByCanonicalKey(t *testing.T) {
	reg := NewStyleRegistry()
	style := CellStyle{Font: Font{Name: "Arial", Size: 10}}

	reg2, id1 := reg.Register(style)
	reg3, id2 := reg2.Register(style)
	if id1 != id2 {
		t.Fatalf("registering the same visual style twice must reuse the id: got %d and %d", id1, id2)
	}
	if reg3.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (default + one distinct style)", reg3.Len())
	}
}

func TestStyleRegistryIgnoresPreservedNumFmtIDForDedup(t *testing.T) {
	reg := NewStyleRegistry()
	id := 14
	a := CellStyle{NumFmt: NumFmt{Kind: FmtDate}, PreservedNumFmtID: &id}
	b := CellStyle{NumFmt: NumFmt{Kind: FmtDate}}

	reg2, idA := reg.Register(a)
	_, idB := reg2.Register(b)
	if idA != idB {
		t.Fatal("PreservedNumFmtID must not affect CanonicalKey / dedup")
	}
}

func TestStyleRegistryIsPersistent(t *testing.T) {
	reg := NewStyleRegistry()
	before := reg.Len()
	reg.Register(CellStyle{Font: Font{Name: "X"}})
	if reg.Len() != before {
		t.Fatal("Register must not mutate the receiver")
	}
}

func TestDefaultCellStyleIsRegistryIndexZero(t *testing.T) {
	reg := NewStyleRegistry()
	style, ok := reg.Get(0)
	if !ok {
		t.Fatal("index 0 must be populated")
	}
	if style.Canonical() != DefaultCellStyle.Canonical() {
		t.Fatal("index 0 must be the default style")
	}
}

package domain

import "testing"

func TestParseARefRoundTrip(t *testing.T) {
	cases := []string{"A1", "$A1", "A$1", "$A$1", "XFD1048576", "Z99"}
	for _, s := range cases {
		ref, err := ParseARef(s)
		if err != nil {
			t.Fatalf("ParseARef(%q): %v", s, err)
		}
		if got := ref.ToA1(); got != s {
			t.Errorf("ParseARef(%q).ToA1() = %q, want %q", s, got, s)
		}
	}
}

func TestParseARefOutOfBounds(t *testing.T) {
	if _, err := ParseARef("XFE1"); err == nil {
		t.Fatal("expected error for column past XFD")
	}
	if _, err := ParseARef("A1048577"); err == nil {
		t.Fatal("expected error for row past 1048576")
	}
}

func TestParseARefInvalid(t *testing.T) {
	for _, s := range []string{"", "1A", "A", "A-1", "$$A1"} {
		if _, err := ParseARef(s); err == nil {
			t.Errorf("ParseARef(%q): expected error", s)
		}
	}
}

func TestCellRangeNormalisesEndpoints(t *testing.T) {
	a, _ := ParseARef("C3")
	b, _ := ParseARef("A1")
	rng := NewCellRange(a, b)
	if rng.Start.ToA1() != "A1" || rng.End.ToA1() != "C3" {
		t.Fatalf("got %s:%s, want A1:C3", rng.Start.ToA1(), rng.End.ToA1())
	}
}

func TestCellRangeOverlaps(t *testing.T) {
	r1, _ := ParseCellRange("A1:C3")
	r2, _ := ParseCellRange("C3:E5")
	r3, _ := ParseCellRange("D4:E5")
	if !r1.Overlaps(r2) {
		t.Error("expected A1:C3 to overlap C3:E5 at the shared corner")
	}
	if r1.Overlaps(r3) {
		t.Error("expected A1:C3 not to overlap D4:E5")
	}
}

func TestSheetNameQuoting(t *testing.T) {
	plain, _ := NewSheetName("Sheet1")
	if plain.Quoted() != "Sheet1" {
		t.Errorf("Quoted() = %q, want unquoted Sheet1", plain.Quoted())
	}
	spaced, _ := NewSheetName("My Sheet")
	if spaced.Quoted() != "'My Sheet'" {
		t.Errorf("Quoted() = %q, want 'My Sheet'", spaced.Quoted())
	}
	quote, _ := NewSheetName("Bob's Sheet")
	if quote.Quoted() != "'Bob''s Sheet'" {
		t.Errorf("Quoted() = %q, want doubled apostrophe", quote.Quoted())
	}
}

func TestNewSheetNameRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "a/b", "a:b", "a?b", stringOfLen(32)} {
		if _, err := NewSheetName(s); err == nil {
			t.Errorf("NewSheetName(%q): expected error", s)
		}
	}
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

func TestParseRefTypeQualified(t *testing.T) {
	ref, err := ParseRefType("'My Sheet'!A1:B2")
	if err != nil {
		t.Fatal(err)
	}
	if ref.Tag != RefQualifiedRange {
		t.Fatalf("Tag = %v, want RefQualifiedRange", ref.Tag)
	}
	if got := ref.ToA1(); got != "'My Sheet'!A1:B2" {
		t.Errorf("ToA1() = %q", got)
	}
}

package formula

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

func ref(t *testing.T, s string) domain.ARef {
	t.Helper()
	r, err := domain.ParseARef(s)
	if err != nil {
		t.Fatalf("ParseARef(%q): %v", s, err)
	}
	return r
}

func evalText(t *testing.T, src string, res Resolver) domain.CellValue {
	t.Helper()
	expr, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return Evaluate(expr, res)
}

func TestEvaluateArithmetic(t *testing.T) {
	res := MapResolver{
		ref(t, "A1"): domain.IntValue(10),
		ref(t, "B1"): domain.IntValue(20),
	}
	got := evalText(t, "A1+B1", res)
	if got.Tag != domain.VNumber || !got.Number.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("A1+B1 = %+v, want 30", got)
	}
}

func TestEvaluateBooleanArithmeticCoerces(t *testing.T) {
	got := evalText(t, "TRUE+1", MapResolver{})
	if got.Tag != domain.VNumber || !got.Number.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("TRUE+1 = %+v, want 2", got)
	}
	got2 := evalText(t, "(5>3)*10", MapResolver{})
	if got2.Tag != domain.VNumber || !got2.Number.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("(5>3)*10 = %+v, want 10", got2)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	got := evalText(t, "1/0", MapResolver{})
	if got.Tag != domain.VError || got.Err != domain.ErrDiv0 {
		t.Fatalf("1/0 = %+v, want #DIV/0!", got)
	}
}

func TestEvaluateTextCoercionInNumericContext(t *testing.T) {
	res := MapResolver{ref(t, "A1"): domain.TextValue("5")}
	got := evalText(t, "A1+1", res)
	if got.Tag != domain.VNumber || !got.Number.Equal(decimal.NewFromInt(6)) {
		t.Fatalf(`"5"+1 = %+v, want 6`, got)
	}

	res2 := MapResolver{ref(t, "A1"): domain.TextValue("abc")}
	got2 := evalText(t, "A1+1", res2)
	if got2.Tag != domain.VError || got2.Err != domain.ErrValue {
		t.Fatalf(`"abc"+1 = %+v, want #VALUE!`, got2)
	}
}

func TestEvaluateSumIgnoresNonNumeric(t *testing.T) {
	res := MapResolver{
		ref(t, "A1"): domain.IntValue(1),
		ref(t, "A2"): domain.TextValue("x"),
		ref(t, "A3"): domain.IntValue(3),
	}
	got := evalText(t, "SUM(A1:A3)", res)
	if got.Tag != domain.VNumber || !got.Number.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("SUM(A1:A3) = %+v, want 4", got)
	}
}

func TestEvaluateCountVsCounta(t *testing.T) {
	res := MapResolver{
		ref(t, "A1"): domain.IntValue(1),
		ref(t, "A2"): domain.TextValue("x"),
	}
	count := evalText(t, "COUNT(A1:A2)", res)
	if !count.Number.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("COUNT = %+v, want 1 (only numeric cells)", count)
	}
	counta := evalText(t, "COUNTA(A1:A2)", res)
	if !counta.Number.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("COUNTA = %+v, want 2 (any non-empty)", counta)
	}
}

func TestEvaluateVolatileFunctionsAreValueError(t *testing.T) {
	for _, name := range []string{"TODAY()", "NOW()"} {
		got := evalText(t, name, MapResolver{})
		if got.Tag != domain.VError || got.Err != domain.ErrValue {
			t.Errorf("%s = %+v, want #VALUE! (volatile functions are parseable but never evaluated)", name, got)
		}
	}
}

func TestEvaluateNeverPanics(t *testing.T) {
	// A malformed AST (Func node with a nil/garbage name) must come back as
	// an error CellValue, not a panic, regardless of what evaluation does
	// internally.
	expr := Func("NOT_A_REAL_FUNCTION", nil)
	got := Evaluate(expr, MapResolver{})
	if got.Tag != domain.VError {
		t.Fatalf("unknown function = %+v, want an error CellValue", got)
	}
}

package formula

import "github.com/tjc-lp/xlcore/internal/domain"

// Shift implements fill/drag semantics: relative endpoints translate by
// (dCol, dRow), absolute endpoints stay fixed, and a mixed anchor shifts
// only on its free axis. Negative shifts saturate at column/row 0 rather
// than wrapping. A shifted reference that would fall outside the Excel
// grid becomes an #REF! error literal.
func Shift(e TExpr, dCol int, dRow int) TExpr {
	switch e.Tag {
	case NRef:
		ref, ok := shiftARef(e.Ref, dCol, dRow)
		if !ok {
			return Err(domain.ErrRef)
		}
		return TExpr{Tag: NRef, Sheet: e.Sheet, Qualified: e.Qualified, Ref: ref}
	case NRange:
		start, ok1 := shiftARef(e.Range.Start, dCol, dRow)
		end, ok2 := shiftARef(e.Range.End, dCol, dRow)
		if !ok1 || !ok2 {
			return Err(domain.ErrRef)
		}
		return TExpr{Tag: NRange, Sheet: e.Sheet, Qualified: e.Qualified, Range: domain.NewCellRange(start, end)}
	case NUnary:
		arg := Shift(*e.Arg, dCol, dRow)
		return TExpr{Tag: NUnary, UnOp: e.UnOp, Arg: &arg}
	case NBinary:
		left := Shift(*e.Left, dCol, dRow)
		right := Shift(*e.Right, dCol, dRow)
		return TExpr{Tag: NBinary, Bin: e.Bin, Left: &left, Right: &right}
	case NFunc:
		args := make([]TExpr, len(e.Args))
		for i, a := range e.Args {
			args[i] = Shift(a, dCol, dRow)
		}
		return TExpr{Tag: NFunc, Func: e.Func, Args: args}
	default:
		return e
	}
}

func shiftARef(ref domain.ARef, dCol, dRow int) (domain.ARef, bool) {
	col := int(ref.Col)
	row := int(ref.Row)
	if !ref.Anchor.ColAbsolute() {
		col = saturate(col + dCol)
	}
	if !ref.Anchor.RowAbsolute() {
		row = saturate(row + dRow)
	}
	if col > int(domain.MaxColumn) || row > int(domain.MaxRow) {
		return domain.ARef{}, false
	}
	return domain.ARef{Col: domain.Column(col), Row: domain.Row(row), Anchor: ref.Anchor}, true
}

func saturate(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

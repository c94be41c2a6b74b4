package domain

// PatchTag discriminates the constructors of the Patch algebra.
type PatchTag int

const (
	PEmpty PatchTag = iota
	PPut
	PRemove
	PRemoveRange
	PMerge
	PUnmerge
	PSetStyle
	PSetCellStyle
	PSetRangeStyle
	PClearStyle
	PSetRowProperties
	PSetColumnProperties
	PSetComment
	PRemoveComment
	PBatch
)

// Patch is a tagged atomic mutation, or a Batch sequence of them. Patches
// form a monoid under Combine: Empty is the identity, and the monoid is
// NOT commutative.
type Patch struct {
	Tag PatchTag

	Ref   ARef
	Range CellRange
	Value CellValue

	StyleID   StyleId
	CellStyle CellStyle

	Row     Row
	Col     Column
	RowProp RowProperties
	ColProp ColumnProperties

	Comment Comment

	Batch []Patch
}

// NoopPatch is the identity element of the patch monoid.
func NoopPatch() Patch { return Patch{Tag: PEmpty} }

// Put constructs a Patch that writes a single cell.
func Put(ref ARef, v CellValue) Patch { return Patch{Tag: PPut, Ref: ref, Value: v} }

// Remove constructs a Patch that deletes a single cell.
func Remove(ref ARef) Patch { return Patch{Tag: PRemove, Ref: ref} }

// RemoveRange constructs a Patch that deletes every cell in rng.
func RemoveRange(rng CellRange) Patch { return Patch{Tag: PRemoveRange, Range: rng} }

// Merge constructs a Patch that merges rng.
func Merge(rng CellRange) Patch { return Patch{Tag: PMerge, Range: rng} }

// Unmerge constructs a Patch that unmerges rng.
func Unmerge(rng CellRange) Patch { return Patch{Tag: PUnmerge, Range: rng} }

// SetStyle constructs a Patch that assigns an already-registered style.
func SetStyle(ref ARef, id StyleId) Patch { return Patch{Tag: PSetStyle, Ref: ref, StyleID: id} }

// SetCellStyle constructs a Patch that registers and assigns style.
func SetCellStyle(ref ARef, style CellStyle) Patch {
	return Patch{Tag: PSetCellStyle, Ref: ref, CellStyle: style}
}

// SetRangeStyle constructs a Patch that registers style once and applies it
// to every cell in rng.
func SetRangeStyle(rng CellRange, style CellStyle) Patch {
	return Patch{Tag: PSetRangeStyle, Range: rng, CellStyle: style}
}

// ClearStyle constructs a Patch that drops ref's StyleId, keeping its value.
func ClearStyle(ref ARef) Patch { return Patch{Tag: PClearStyle, Ref: ref} }

// SetRowProperties constructs a Patch that replaces a row's properties.
func SetRowProperties(row Row, props RowProperties) Patch {
	return Patch{Tag: PSetRowProperties, Row: row, RowProp: props}
}

// SetColumnProperties constructs a Patch that replaces a column's properties.
func SetColumnProperties(col Column, props ColumnProperties) Patch {
	return Patch{Tag: PSetColumnProperties, Col: col, ColProp: props}
}

// SetComment constructs a Patch that attaches a comment to ref.
func SetComment(ref ARef, c Comment) Patch { return Patch{Tag: PSetComment, Ref: ref, Comment: c} }

// RemoveComment constructs a Patch that removes ref's comment.
func RemoveComment(ref ARef) Patch { return Patch{Tag: PRemoveComment, Ref: ref} }

// BatchPatch sequences patches in order.
func BatchPatch(patches ...Patch) Patch { return Patch{Tag: PBatch, Batch: patches} }

// Combine composes two patches into the monoid: Empty is the identity on
// either side, and two Batches concatenate rather than nest.
func Combine(a, b Patch) Patch {
	if a.Tag == PEmpty {
		return b
	}
	if b.Tag == PEmpty {
		return a
	}
	aList := asBatch(a)
	bList := asBatch(b)
	return Patch{Tag: PBatch, Batch: append(append([]Patch(nil), aList...), bList...)}
}

func asBatch(p Patch) []Patch {
	if p.Tag == PBatch {
		return p.Batch
	}
	return []Patch{p}
}

// ApplyPatch executes p against sheet left-to-right, returning a new Sheet.
func ApplyPatch(sheet *Sheet, p Patch) (*Sheet, error) {
	switch p.Tag {
	case PEmpty:
		return sheet, nil
	case PBatch:
		cur := sheet
		for _, step := range p.Batch {
			next, err := ApplyPatch(cur, step)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil
	case PPut:
		return sheet.WithCell(p.Ref, p.Value), nil
	case PRemove:
		return sheet.WithoutCell(p.Ref), nil
	case PRemoveRange:
		cur := sheet
		for col := p.Range.Start.Col; col <= p.Range.End.Col; col++ {
			for row := p.Range.Start.Row; row <= p.Range.End.Row; row++ {
				cur = cur.WithoutCell(ARef{Col: col, Row: row})
			}
		}
		return cur, nil
	case PMerge:
		return sheet.WithMerge(p.Range)
	case PUnmerge:
		return sheet.WithoutMerge(p.Range), nil
	case PSetStyle:
		return sheet.WithStyle(p.Ref, p.StyleID), nil
	case PSetCellStyle:
		next, id := sheet.RegisterStyle(p.CellStyle)
		return next.WithStyle(p.Ref, id), nil
	case PSetRangeStyle:
		next, id := sheet.RegisterStyle(p.CellStyle)
		for col := p.Range.Start.Col; col <= p.Range.End.Col; col++ {
			for row := p.Range.Start.Row; row <= p.Range.End.Row; row++ {
				next = next.WithStyle(ARef{Col: col, Row: row}, id)
			}
		}
		return next, nil
	case PClearStyle:
		return sheet.WithClearedStyle(p.Ref), nil
	case PSetRowProperties:
		return sheet.WithRowProperties(p.Row, p.RowProp), nil
	case PSetColumnProperties:
		return sheet.WithColumnProperties(p.Col, p.ColProp), nil
	case PSetComment:
		return sheet.WithComment(p.Ref, p.Comment), nil
	case PRemoveComment:
		return sheet.WithoutComment(p.Ref), nil
	default:
		return nil, errInvalidReference("unknown patch constructor")
	}
}

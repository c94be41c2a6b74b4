package formula

import "github.com/tjc-lp/xlcore/internal/domain"

// snapshotResolver resolves references against a fixed single-sheet value
// map, updated in place as recalculation proceeds in topological order.
// Sheet-qualified references are out of scope for this pass (the dependency
// graph this module builds is itself single-sheet, see BuildFromSheet) and
// resolve to #REF!.
type snapshotResolver map[domain.ARef]domain.CellValue

func (r snapshotResolver) CellValue(_ domain.SheetName, qualified bool, ref domain.ARef) domain.CellValue {
	if qualified {
		return domain.ErrorValue(domain.ErrRef)
	}
	if v, ok := r[ref]; ok {
		return v
	}
	return domain.Empty()
}

// effectiveValue is what a resolver sees for a cell: its literal value, or
// its cached result if it holds a formula (uncached formula cells read as
// empty).
func effectiveValue(v domain.CellValue) domain.CellValue {
	if v.Tag == domain.VFormula {
		if v.Cached != nil {
			return *v.Cached
		}
		return domain.Empty()
	}
	return v
}

func baselineValues(cells map[domain.ARef]domain.Cell) snapshotResolver {
	out := make(snapshotResolver, len(cells))
	for ref, c := range cells {
		out[ref] = effectiveValue(c.Value)
	}
	return out
}

// Recalculate evaluates every formula cell in sheet in dependency order and
// returns a new Sheet with updated caches. Cells participating in a
// dependency cycle are left with a #REF! cache (set once per cell) rather
// than recomputed; cells outside the cycle still recalculate normally once
// the graph restricted to the acyclic remainder admits an order.
func Recalculate(sheet *domain.Sheet) *domain.Sheet {
	return recalculate(sheet, nil)
}

// RecalculateDependents updates the cached values of every transitive
// dependent of modifiedRefs, in topological order, leaving every other
// cell's cache untouched. Evaluation is best-effort: a parse failure or a
// cycle clears/errors the affected cache rather than propagating.
func RecalculateDependents(sheet *domain.Sheet, modifiedRefs map[domain.ARef]struct{}) *domain.Sheet {
	cells := sheet.Cells()
	graph, _ := BuildFromSheet(cells)
	targets := graph.TransitiveDependents(modifiedRefs)
	if len(targets) == 0 {
		return sheet
	}
	return recalculate(sheet, targets)
}

// recalculate is shared by Recalculate (targets == nil, meaning "every
// formula cell") and RecalculateDependents (targets restricts the set of
// cells whose cache gets updated).
func recalculate(sheet *domain.Sheet, targets map[domain.ARef]struct{}) *domain.Sheet {
	cells := sheet.Cells()
	graph, _ := BuildFromSheet(cells)
	order, err := graph.TopologicalOrder()
	current := baselineValues(cells)
	result := sheet

	if err != nil {
		cycleErr, ok := err.(*CycleError)
		if !ok {
			return sheet
		}
		cyclic := make(map[domain.ARef]struct{}, len(cycleErr.Cells))
		for _, ref := range cycleErr.Cells {
			cyclic[ref] = struct{}{}
		}
		for ref := range cyclic {
			cell := cells[ref]
			if cell.Value.Tag != domain.VFormula {
				continue
			}
			if targets != nil {
				if _, want := targets[ref]; !want {
					continue
				}
			}
			errVal := domain.ErrorValue(domain.ErrRef)
			newVal := cell.Value
			newVal.Cached = &errVal
			result = result.WithCell(ref, newVal)
			current[ref] = errVal
		}
		order = acyclicOrder(cells, cyclic)
	}

	for _, ref := range order {
		if targets != nil {
			if _, want := targets[ref]; !want {
				continue
			}
		}
		cell := cells[ref]
		if cell.Value.Tag != domain.VFormula {
			continue
		}
		var cached domain.CellValue
		expr, perr := Parse(cell.Value.Formula)
		if perr != nil {
			cached = domain.ErrorValue(domain.ErrValue)
		} else {
			cached = Evaluate(expr, current)
		}
		newVal := cell.Value
		newVal.Cached = &cached
		result = result.WithCell(ref, newVal)
		current[ref] = cached
	}
	return result
}

// acyclicOrder rebuilds a dependency graph excluding every cell in cyclic
// and returns its topological order, best-effort: if the remainder still
// cannot be ordered (which should not happen once every cycle member is
// removed) it returns nil, leaving those cells' caches untouched.
func acyclicOrder(cells map[domain.ARef]domain.Cell, cyclic map[domain.ARef]struct{}) []domain.ARef {
	if len(cyclic) == 0 {
		return nil
	}
	filtered := make(map[domain.ARef]domain.Cell, len(cells))
	for ref, c := range cells {
		if _, skip := cyclic[ref]; skip {
			continue
		}
		filtered[ref] = c
	}
	graph, _ := BuildFromSheet(filtered)
	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil
	}
	out := order[:0]
	for _, ref := range order {
		if _, skip := cyclic[ref]; skip {
			continue
		}
		out = append(out, ref)
	}
	return out
}

package formula

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

// rangeGrid evaluates a range argument into a row-major grid of cell values.
// Non-range arguments are treated as a 1x1 grid.
func rangeGrid(e TExpr, res Resolver) [][]domain.CellValue {
	if e.Tag != NRange {
		return [][]domain.CellValue{{eval(e, res)}}
	}
	rng := e.Range
	rows := int(rng.End.Row-rng.Start.Row) + 1
	cols := int(rng.End.Col-rng.Start.Col) + 1
	grid := make([][]domain.CellValue, rows)
	for r := 0; r < rows; r++ {
		row := make([]domain.CellValue, cols)
		for c := 0; c < cols; c++ {
			ref := domain.ARef{Col: rng.Start.Col + domain.Column(c), Row: rng.Start.Row + domain.Row(r)}
			row[c] = res.CellValue(e.Sheet, e.Qualified, ref)
		}
		grid[r] = row
	}
	return grid
}

// flatGrid reads a range or scalar argument as a single flat slice, used by
// SUMPRODUCT and the lookup/return arrays of XLOOKUP.
func flatGrid(e TExpr, res Resolver) []domain.CellValue {
	grid := rangeGrid(e, res)
	var out []domain.CellValue
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}

func valueEquals(a, b domain.CellValue) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an.Equal(bn)
	}
	return strings.EqualFold(toText(a), toText(b))
}

// evalVLookup implements VLOOKUP(lookup_value, table_array, col_index,
// [range_lookup]). range_lookup defaults to true (approximate, requires the
// first column sorted ascending); false requests an exact match.
func evalVLookup(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 3 {
		return domain.ErrorValue(domain.ErrValue)
	}
	lookup := eval(args[0], res)
	table := rangeGrid(args[1], res)
	colIdxD, ok := toNumber(eval(args[2], res))
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	colIdx := int(colIdxD.IntPart()) - 1
	approximate := true
	if len(args) >= 4 {
		if b, ok := toBool(eval(args[3], res)); ok {
			approximate = b
		}
	}
	if len(table) == 0 || colIdx < 0 || colIdx >= len(table[0]) {
		return domain.ErrorValue(domain.ErrRef)
	}
	row := findLookupRow(lookup, table, 0, approximate)
	if row < 0 {
		return domain.ErrorValue(domain.ErrNA)
	}
	return table[row][colIdx]
}

// evalHLookup is VLOOKUP's transpose: table rows play the role of columns.
func evalHLookup(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 3 {
		return domain.ErrorValue(domain.ErrValue)
	}
	lookup := eval(args[0], res)
	table := rangeGrid(args[1], res)
	rowIdxD, ok := toNumber(eval(args[2], res))
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rowIdx := int(rowIdxD.IntPart()) - 1
	approximate := true
	if len(args) >= 4 {
		if b, ok := toBool(eval(args[3], res)); ok {
			approximate = b
		}
	}
	if rowIdx < 0 || rowIdx >= len(table) || len(table) == 0 {
		return domain.ErrorValue(domain.ErrRef)
	}
	col := findLookupCol(lookup, table, approximate)
	if col < 0 {
		return domain.ErrorValue(domain.ErrNA)
	}
	return table[rowIdx][col]
}

func findLookupRow(lookup domain.CellValue, table [][]domain.CellValue, col int, approximate bool) int {
	if !approximate {
		for i, row := range table {
			if col < len(row) && valueEquals(row[col], lookup) {
				return i
			}
		}
		return -1
	}
	best := -1
	for i, row := range table {
		if col >= len(row) {
			continue
		}
		if lessOrEqual(row[col], lookup) {
			best = i
		} else {
			break
		}
	}
	return best
}

func findLookupCol(lookup domain.CellValue, table [][]domain.CellValue, approximate bool) int {
	if len(table) == 0 {
		return -1
	}
	header := table[0]
	if !approximate {
		for i, v := range header {
			if valueEquals(v, lookup) {
				return i
			}
		}
		return -1
	}
	best := -1
	for i, v := range header {
		if lessOrEqual(v, lookup) {
			best = i
		} else {
			break
		}
	}
	return best
}

func lessOrEqual(a, b domain.CellValue) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an.LessThanOrEqual(bn)
	}
	return toText(a) <= toText(b)
}

// evalXLookup implements XLOOKUP(lookup_value, lookup_array, return_array,
// [if_not_found]). Match/search mode arguments are accepted but only exact
// forward search is performed.
func evalXLookup(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 3 {
		return domain.ErrorValue(domain.ErrValue)
	}
	lookup := eval(args[0], res)
	lookupArr := flatGrid(args[1], res)
	returnArr := flatGrid(args[2], res)
	for i, v := range lookupArr {
		if valueEquals(v, lookup) {
			if i < len(returnArr) {
				return returnArr[i]
			}
			return domain.ErrorValue(domain.ErrNA)
		}
	}
	if len(args) >= 4 {
		return eval(args[3], res)
	}
	return domain.ErrorValue(domain.ErrNA)
}

// criterionMatches implements the SUMIF/COUNTIF family's criteria language:
// a leading comparison operator (<, <=, >, >=, <>, =) against a numeric
// operand, or otherwise a MatchCriteria wildcard match against text.
func criterionMatches(v domain.CellValue, criterion domain.CellValue) bool {
	raw := toText(criterion)
	op, operand := splitCriterionOperator(raw)
	if n, err := decimal.NewFromString(operand); err == nil {
		vn, ok := toNumber(v)
		if !ok {
			return op == "<>"
		}
		switch op {
		case "=", "":
			return vn.Equal(n)
		case "<>":
			return !vn.Equal(n)
		case "<":
			return vn.LessThan(n)
		case "<=":
			return vn.LessThanOrEqual(n)
		case ">":
			return vn.GreaterThan(n)
		case ">=":
			return vn.GreaterThanOrEqual(n)
		}
		return false
	}
	switch op {
	case "<>":
		return !MatchCriteria(operand, toText(v))
	case "=", "":
		return MatchCriteria(operand, toText(v))
	default:
		return false
	}
}

func splitCriterionOperator(s string) (op, operand string) {
	for _, candidate := range []string{"<=", ">=", "<>", "=", "<", ">"} {
		if strings.HasPrefix(s, candidate) {
			return candidate, strings.TrimSpace(s[len(candidate):])
		}
	}
	return "", s
}

func evalSumif(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	criteriaGrid := rangeGrid(args[0], res)
	criterion := eval(args[1], res)
	sumGrid := criteriaGrid
	if len(args) >= 3 {
		sumGrid = rangeGrid(args[2], res)
	}
	sum := decimal.NewFromInt(0)
	for r, row := range criteriaGrid {
		for c, v := range row {
			if !criterionMatches(v, criterion) {
				continue
			}
			if r >= len(sumGrid) || c >= len(sumGrid[r]) {
				continue
			}
			if n, ok := toNumber(sumGrid[r][c]); ok {
				sum = sum.Add(n)
			}
		}
	}
	return domain.NumberValue(sum)
}

func evalSumifs(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 3 || len(args)%2 != 1 {
		return domain.ErrorValue(domain.ErrValue)
	}
	sumGrid := rangeGrid(args[0], res)
	pairs := args[1:]
	sum := decimal.NewFromInt(0)
	forEachMultiCriteriaCell(pairs, res, sumGrid, func(r, c int) {
		if n, ok := toNumber(sumGrid[r][c]); ok {
			sum = sum.Add(n)
		}
	})
	return domain.NumberValue(sum)
}

func evalCountif(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	grid := rangeGrid(args[0], res)
	criterion := eval(args[1], res)
	n := 0
	for _, row := range grid {
		for _, v := range row {
			if criterionMatches(v, criterion) {
				n++
			}
		}
	}
	return domain.IntValue(int64(n))
}

func evalCountifs(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 2 || len(args)%2 != 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	anchor := rangeGrid(args[0], res)
	n := 0
	forEachMultiCriteriaCell(args, res, anchor, func(r, c int) { n++ })
	return domain.IntValue(int64(n))
}

// forEachMultiCriteriaCell walks the shared index space of a sequence of
// (criteria_range, criteria) argument pairs, invoking visit(r, c) for every
// cell position where every pair's criterion matches. shape provides the
// iteration bounds (the first criteria range).
func forEachMultiCriteriaCell(pairs []TExpr, res Resolver, shape [][]domain.CellValue, visit func(r, c int)) {
	type rangeCriterion struct {
		grid      [][]domain.CellValue
		criterion domain.CellValue
	}
	var rcs []rangeCriterion
	for i := 0; i+1 < len(pairs); i += 2 {
		rcs = append(rcs, rangeCriterion{
			grid:      rangeGrid(pairs[i], res),
			criterion: eval(pairs[i+1], res),
		})
	}
	for r, row := range shape {
		for c := range row {
			match := true
			for _, rc := range rcs {
				if r >= len(rc.grid) || c >= len(rc.grid[r]) || !criterionMatches(rc.grid[r][c], rc.criterion) {
					match = false
					break
				}
			}
			if match {
				visit(r, c)
			}
		}
	}
}

// evalSumproduct multiplies corresponding elements across all array
// arguments and sums the products; arrays must share the same element count.
func evalSumproduct(args []TExpr, res Resolver) domain.CellValue {
	if len(args) == 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	arrays := make([][]domain.CellValue, len(args))
	n := -1
	for i, a := range args {
		arrays[i] = flatGrid(a, res)
		if n == -1 {
			n = len(arrays[i])
		} else if len(arrays[i]) != n {
			return domain.ErrorValue(domain.ErrValue)
		}
	}
	sum := decimal.NewFromInt(0)
	for i := 0; i < n; i++ {
		product := decimal.NewFromInt(1)
		for _, arr := range arrays {
			v, ok := toNumber(arr[i])
			if !ok {
				v = decimal.NewFromInt(0)
			}
			product = product.Mul(v)
		}
		sum = sum.Add(product)
	}
	return domain.NumberValue(sum)
}

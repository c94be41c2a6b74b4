package formula

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

// excelEpoch is the OOXML date origin: 1899-12-30 (day 0), with the
// well-known 1900 leap-year bug baked in by convention; this module does
// not attempt to correct for it since every producer/consumer of .xlsx
// shares the same bug.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func serialToTime(d decimal.Decimal) time.Time {
	days, _ := d.Float64()
	wholeDays := math.Floor(days)
	frac := days - wholeDays
	t := excelEpoch.AddDate(0, 0, int(wholeDays))
	return t.Add(time.Duration(frac * 24 * float64(time.Hour)))
}

func timeToSerial(t time.Time) decimal.Decimal {
	days := t.Sub(excelEpoch).Hours() / 24
	return decimal.NewFromFloat(days)
}

// Resolver resolves a (possibly sheet-qualified) reference to a single
// cell's current value. Sheet == "" and qualified == false means "the
// sheet the formula lives on." The evaluator always passes ref with its
// Anchor set to Relative.
type Resolver interface {
	CellValue(sheet domain.SheetName, qualified bool, ref domain.ARef) domain.CellValue
}

// MapResolver is a trivial single-sheet Resolver backed by a plain map,
// convenient for tests and for callers evaluating one sheet in isolation.
type MapResolver map[domain.ARef]domain.CellValue

func (m MapResolver) CellValue(_ domain.SheetName, _ bool, ref domain.ARef) domain.CellValue {
	if v, ok := m[ref]; ok {
		return v
	}
	return domain.Empty()
}

// Evaluate evaluates expr against res, never panicking: any failure is
// reported as an CellValue of Tag VError. Volatile functions (TODAY, NOW)
// are parseable but are never evaluated, per this module's explicit
// volatile-function non-goal; they evaluate to #VALUE!.
func Evaluate(expr TExpr, res Resolver) (result domain.CellValue) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.ErrorValue(domain.ErrValue)
		}
	}()
	return eval(expr, res)
}

func eval(e TExpr, res Resolver) domain.CellValue {
	switch e.Tag {
	case NNum:
		return domain.NumberValue(e.Num)
	case NStr:
		return domain.TextValue(e.Str)
	case NBool:
		return domain.BoolValue(e.Bool)
	case NErr:
		return domain.ErrorValue(e.Err)
	case NRef:
		ref := e.Ref
		ref.Anchor = domain.Relative
		return res.CellValue(e.Sheet, e.Qualified, ref)
	case NRange:
		// A bare range outside an aggregate context has no single value.
		return domain.ErrorValue(domain.ErrValue)
	case NUnary:
		return evalUnary(e, res)
	case NBinary:
		return evalBinary(e, res)
	case NFunc:
		return evalFunc(e, res)
	default:
		return domain.ErrorValue(domain.ErrValue)
	}
}

func evalUnary(e TExpr, res Resolver) domain.CellValue {
	v := eval(*e.Arg, res)
	if v.Tag == domain.VError {
		return v
	}
	n, ok := toNumber(v)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	switch e.UnOp {
	case OpNeg:
		return domain.NumberValue(n.Neg())
	case OpPos:
		return domain.NumberValue(n)
	case OpPercent:
		return domain.NumberValue(n.Div(decimal.NewFromInt(100)))
	}
	return domain.ErrorValue(domain.ErrValue)
}

func evalBinary(e TExpr, res Resolver) domain.CellValue {
	l := eval(*e.Left, res)
	if l.Tag == domain.VError {
		return l
	}
	r := eval(*e.Right, res)
	if r.Tag == domain.VError {
		return r
	}
	if e.Bin == OpConcat {
		return domain.TextValue(toText(l) + toText(r))
	}
	switch e.Bin {
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return evalCompare(e.Bin, l, r)
	}
	ln, lok := toNumber(l)
	rn, rok := toNumber(r)
	if !lok || !rok {
		return domain.ErrorValue(domain.ErrValue)
	}
	switch e.Bin {
	case OpAdd:
		return domain.NumberValue(ln.Add(rn))
	case OpSub:
		return domain.NumberValue(ln.Sub(rn))
	case OpMul:
		return domain.NumberValue(ln.Mul(rn))
	case OpDiv:
		if rn.IsZero() {
			return domain.ErrorValue(domain.ErrDiv0)
		}
		return domain.NumberValue(ln.Div(rn))
	case OpPow:
		lf, _ := ln.Float64()
		rf, _ := rn.Float64()
		return domain.NumberValue(decimal.NewFromFloat(math.Pow(lf, rf)))
	}
	return domain.ErrorValue(domain.ErrValue)
}

func evalCompare(op BinOp, l, r domain.CellValue) domain.CellValue {
	var cmp int
	if ln, lok := toNumber(l); lok {
		if rn, rok := toNumber(r); rok {
			cmp = ln.Cmp(rn)
		} else {
			cmp = strings.Compare(toText(l), toText(r))
		}
	} else {
		cmp = strings.Compare(toText(l), toText(r))
	}
	var b bool
	switch op {
	case OpEq:
		b = cmp == 0
	case OpNe:
		b = cmp != 0
	case OpLt:
		b = cmp < 0
	case OpGt:
		b = cmp > 0
	case OpLe:
		b = cmp <= 0
	case OpGe:
		b = cmp >= 0
	}
	return domain.BoolValue(b)
}

// toNumber coerces a CellValue to a decimal per spec.md §4.6: booleans
// coerce (TRUE=1, FALSE=0), numeric text parses, a date-time becomes its
// serial number, Empty reads as 0, and everything else fails.
func toNumber(v domain.CellValue) (decimal.Decimal, bool) {
	switch v.Tag {
	case domain.VNumber:
		return v.Number, true
	case domain.VBool:
		if v.Bool {
			return decimal.NewFromInt(1), true
		}
		return decimal.NewFromInt(0), true
	case domain.VDateTime:
		return timeToSerial(v.DateTime), true
	case domain.VText:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Text))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case domain.VEmpty:
		return decimal.NewFromInt(0), true
	default:
		return decimal.Decimal{}, false
	}
}

func toText(v domain.CellValue) string {
	switch v.Tag {
	case domain.VText, domain.VRichText:
		return v.PlainText()
	case domain.VNumber:
		return v.Number.String()
	case domain.VBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case domain.VDateTime:
		return v.DateTime.Format("2006-01-02")
	case domain.VError:
		return v.Err.String()
	default:
		return ""
	}
}

func toBool(v domain.CellValue) (bool, bool) {
	switch v.Tag {
	case domain.VBool:
		return v.Bool, true
	case domain.VNumber:
		return !v.Number.IsZero(), true
	default:
		return false, false
	}
}

// flatten expands an argument list, turning every NRange into the CellValue
// of each of its member cells (aggregates flatten ranges).
func flatten(args []TExpr, res Resolver) []domain.CellValue {
	var out []domain.CellValue
	for _, a := range args {
		if a.Tag == NRange {
			for col := a.Range.Start.Col; col <= a.Range.End.Col; col++ {
				for row := a.Range.Start.Row; row <= a.Range.End.Row; row++ {
					out = append(out, res.CellValue(a.Sheet, a.Qualified, domain.ARef{Col: col, Row: row}))
				}
			}
			continue
		}
		out = append(out, eval(a, res))
	}
	return out
}

func evalFunc(e TExpr, res Resolver) domain.CellValue {
	switch e.Func {
	case "SUM":
		return aggregateNumeric(e.Args, res, decimal.NewFromInt(0), func(acc, v decimal.Decimal) decimal.Decimal { return acc.Add(v) })
	case "COUNT":
		n := 0
		for _, v := range flatten(e.Args, res) {
			if v.Tag == domain.VNumber {
				n++
			}
		}
		return domain.IntValue(int64(n))
	case "COUNTA":
		n := 0
		for _, v := range flatten(e.Args, res) {
			if !v.IsEmpty() {
				n++
			}
		}
		return domain.IntValue(int64(n))
	case "AVERAGE":
		nums := numericValues(flatten(e.Args, res))
		if len(nums) == 0 {
			return domain.ErrorValue(domain.ErrDiv0)
		}
		sum := decimal.NewFromInt(0)
		for _, n := range nums {
			sum = sum.Add(n)
		}
		return domain.NumberValue(sum.Div(decimal.NewFromInt(int64(len(nums)))))
	case "MIN":
		nums := numericValues(flatten(e.Args, res))
		if len(nums) == 0 {
			return domain.IntValue(0)
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n.LessThan(m) {
				m = n
			}
		}
		return domain.NumberValue(m)
	case "MAX":
		nums := numericValues(flatten(e.Args, res))
		if len(nums) == 0 {
			return domain.IntValue(0)
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n.GreaterThan(m) {
				m = n
			}
		}
		return domain.NumberValue(m)
	case "MEDIAN":
		return medianOf(numericValues(flatten(e.Args, res)))
	case "STDEV":
		return stdevOf(numericValues(flatten(e.Args, res)), true)
	case "STDEVP":
		return stdevOf(numericValues(flatten(e.Args, res)), false)
	case "VAR":
		return varOf(numericValues(flatten(e.Args, res)), true)
	case "VARP":
		return varOf(numericValues(flatten(e.Args, res)), false)
	case "IF":
		if len(e.Args) < 2 {
			return domain.ErrorValue(domain.ErrValue)
		}
		cond := eval(e.Args[0], res)
		b, ok := toBool(cond)
		if !ok {
			return domain.ErrorValue(domain.ErrValue)
		}
		if b {
			return eval(e.Args[1], res)
		}
		if len(e.Args) >= 3 {
			return eval(e.Args[2], res)
		}
		return domain.BoolValue(false)
	case "AND":
		result := true
		for _, v := range flatten(e.Args, res) {
			b, ok := toBool(v)
			if !ok {
				return domain.ErrorValue(domain.ErrValue)
			}
			result = result && b
		}
		return domain.BoolValue(result)
	case "OR":
		result := false
		for _, v := range flatten(e.Args, res) {
			b, ok := toBool(v)
			if !ok {
				return domain.ErrorValue(domain.ErrValue)
			}
			result = result || b
		}
		return domain.BoolValue(result)
	case "NOT":
		if len(e.Args) != 1 {
			return domain.ErrorValue(domain.ErrValue)
		}
		b, ok := toBool(eval(e.Args[0], res))
		if !ok {
			return domain.ErrorValue(domain.ErrValue)
		}
		return domain.BoolValue(!b)
	case "CONCATENATE":
		var b strings.Builder
		for _, v := range flatten(e.Args, res) {
			b.WriteString(toText(v))
		}
		return domain.TextValue(b.String())
	case "LEFT":
		return substr(e.Args, res, true)
	case "RIGHT":
		return substr(e.Args, res, false)
	case "LEN":
		if len(e.Args) != 1 {
			return domain.ErrorValue(domain.ErrValue)
		}
		return domain.IntValue(int64(len([]rune(toText(eval(e.Args[0], res))))))
	case "UPPER":
		if len(e.Args) != 1 {
			return domain.ErrorValue(domain.ErrValue)
		}
		return domain.TextValue(strings.ToUpper(toText(eval(e.Args[0], res))))
	case "LOWER":
		if len(e.Args) != 1 {
			return domain.ErrorValue(domain.ErrValue)
		}
		return domain.TextValue(strings.ToLower(toText(eval(e.Args[0], res))))
	case "TODAY", "NOW":
		// Volatile; out of scope for evaluation per this module's non-goals.
		return domain.ErrorValue(domain.ErrValue)
	case "DATE":
		return evalDate(e.Args, res)
	case "YEAR", "MONTH", "DAY":
		return evalDatePart(e.Func, e.Args, res)
	case "EOMONTH":
		return evalEomonth(e.Args, res)
	case "EDATE":
		return evalEdate(e.Args, res)
	case "DATEDIF":
		return evalDatedif(e.Args, res)
	case "NETWORKDAYS":
		return evalNetworkdays(e.Args, res)
	case "WORKDAY":
		return evalWorkday(e.Args, res)
	case "YEARFRAC":
		return evalYearfrac(e.Args, res)
	case "ISBLANK":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.IsEmpty() })
	case "ISERROR":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.Tag == domain.VError })
	case "ISNA":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.Tag == domain.VError && v.Err == domain.ErrNA })
	case "ISNUMBER":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.Tag == domain.VNumber })
	case "ISTEXT":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.Tag == domain.VText || v.Tag == domain.VRichText })
	case "ISNONTEXT":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.Tag != domain.VText && v.Tag != domain.VRichText })
	case "ISLOGICAL":
		return isCheck(e.Args, res, func(v domain.CellValue) bool { return v.Tag == domain.VBool })
	case "ROW":
		return evalRow(e.Args)
	case "COLUMN":
		return evalColumn(e.Args)
	case "ADDRESS":
		return evalAddress(e.Args, res)
	case "SQRT":
		return mathUnary(e.Args, res, math.Sqrt)
	case "LN":
		return mathUnary(e.Args, res, math.Log)
	case "EXP":
		return mathUnary(e.Args, res, math.Exp)
	case "SIGN":
		return mathUnary(e.Args, res, func(f float64) float64 {
			switch {
			case f > 0:
				return 1
			case f < 0:
				return -1
			default:
				return 0
			}
		})
	case "INT":
		return mathUnary(e.Args, res, math.Floor)
	case "TRUNC":
		return mathUnary(e.Args, res, math.Trunc)
	case "MOD":
		return mathBinary(e.Args, res, func(a, b float64) (float64, bool) {
			if b == 0 {
				return 0, false
			}
			m := math.Mod(a, b)
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return m, true
		})
	case "POWER":
		return mathBinary(e.Args, res, func(a, b float64) (float64, bool) { return math.Pow(a, b), true })
	case "LOG":
		return mathBinary(e.Args, res, func(a, base float64) (float64, bool) { return math.Log(a) / math.Log(base), true })
	case "FLOOR":
		return mathBinary(e.Args, res, func(a, sig float64) (float64, bool) {
			if sig == 0 {
				return 0, false
			}
			return math.Floor(a/sig) * sig, true
		})
	case "CEILING":
		return mathBinary(e.Args, res, func(a, sig float64) (float64, bool) {
			if sig == 0 {
				return 0, false
			}
			return math.Ceil(a/sig) * sig, true
		})
	case "PI":
		return domain.NumberValue(decimal.NewFromFloat(math.Pi))
	case "NPV":
		return evalNPV(e.Args, res)
	case "IRR":
		return evalIRR(e.Args, res)
	case "XNPV":
		return evalXNPV(e.Args, res)
	case "XIRR":
		return evalXIRR(e.Args, res)
	case "PMT":
		return evalPMT(e.Args, res)
	case "FV":
		return evalFV(e.Args, res)
	case "PV":
		return evalPV(e.Args, res)
	case "NPER":
		return evalNPER(e.Args, res)
	case "RATE":
		return evalRATE(e.Args, res)
	case "VLOOKUP":
		return evalVLookup(e.Args, res)
	case "HLOOKUP":
		return evalHLookup(e.Args, res)
	case "XLOOKUP":
		return evalXLookup(e.Args, res)
	case "SUMIF":
		return evalSumif(e.Args, res)
	case "SUMIFS":
		return evalSumifs(e.Args, res)
	case "COUNTIF":
		return evalCountif(e.Args, res)
	case "COUNTIFS":
		return evalCountifs(e.Args, res)
	case "SUMPRODUCT":
		return evalSumproduct(e.Args, res)
	default:
		return domain.ErrorValue(domain.ErrName)
	}
}

func numericValues(vals []domain.CellValue) []decimal.Decimal {
	var out []decimal.Decimal
	for _, v := range vals {
		if v.Tag == domain.VNumber {
			out = append(out, v.Number)
		}
	}
	return out
}

func aggregateNumeric(args []TExpr, res Resolver, init decimal.Decimal, fold func(acc, v decimal.Decimal) decimal.Decimal) domain.CellValue {
	acc := init
	for _, v := range numericValues(flatten(args, res)) {
		acc = fold(acc, v)
	}
	return domain.NumberValue(acc)
}

func medianOf(nums []decimal.Decimal) domain.CellValue {
	if len(nums) == 0 {
		return domain.ErrorValue(domain.ErrNum)
	}
	sorted := append([]decimal.Decimal(nil), nums...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return domain.NumberValue(sorted[mid])
	}
	return domain.NumberValue(sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)))
}

func meanOf(nums []decimal.Decimal) decimal.Decimal {
	sum := decimal.NewFromInt(0)
	for _, n := range nums {
		sum = sum.Add(n)
	}
	return sum.Div(decimal.NewFromInt(int64(len(nums))))
}

func varOf(nums []decimal.Decimal, sample bool) domain.CellValue {
	n := len(nums)
	if n < 2 && sample {
		return domain.ErrorValue(domain.ErrDiv0)
	}
	if n == 0 {
		return domain.ErrorValue(domain.ErrDiv0)
	}
	mean := meanOf(nums)
	sumSq := decimal.NewFromInt(0)
	for _, v := range nums {
		d := v.Sub(mean)
		sumSq = sumSq.Add(d.Mul(d))
	}
	denom := n
	if sample {
		denom = n - 1
	}
	return domain.NumberValue(sumSq.Div(decimal.NewFromInt(int64(denom))))
}

func stdevOf(nums []decimal.Decimal, sample bool) domain.CellValue {
	v := varOf(nums, sample)
	if v.Tag == domain.VError {
		return v
	}
	f, _ := v.Number.Float64()
	return domain.NumberValue(decimal.NewFromFloat(math.Sqrt(f)))
}

func substr(args []TExpr, res Resolver, left bool) domain.CellValue {
	if len(args) < 1 || len(args) > 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	s := []rune(toText(eval(args[0], res)))
	n := 1
	if len(args) == 2 {
		num, ok := toNumber(eval(args[1], res))
		if !ok {
			return domain.ErrorValue(domain.ErrValue)
		}
		n = int(num.IntPart())
	}
	if n < 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	if n > len(s) {
		n = len(s)
	}
	if left {
		return domain.TextValue(string(s[:n]))
	}
	return domain.TextValue(string(s[len(s)-n:]))
}

func isCheck(args []TExpr, res Resolver, pred func(domain.CellValue) bool) domain.CellValue {
	if len(args) != 1 {
		return domain.ErrorValue(domain.ErrValue)
	}
	return domain.BoolValue(pred(eval(args[0], res)))
}

func mathUnary(args []TExpr, res Resolver, f func(float64) float64) domain.CellValue {
	if len(args) != 1 {
		return domain.ErrorValue(domain.ErrValue)
	}
	n, ok := toNumber(eval(args[0], res))
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	v, _ := n.Float64()
	return domain.NumberValue(decimal.NewFromFloat(f(v)))
}

func mathBinary(args []TExpr, res Resolver, f func(a, b float64) (float64, bool)) domain.CellValue {
	if len(args) != 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	a, ok1 := toNumber(eval(args[0], res))
	b, ok2 := toNumber(eval(args[1], res))
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	af, _ := a.Float64()
	bf, _ := b.Float64()
	v, ok := f(af, bf)
	if !ok {
		return domain.ErrorValue(domain.ErrDiv0)
	}
	return domain.NumberValue(decimal.NewFromFloat(v))
}

func evalRow(args []TExpr) domain.CellValue {
	if len(args) == 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	switch args[0].Tag {
	case NRef:
		return domain.IntValue(int64(args[0].Ref.Row) + 1)
	case NRange:
		return domain.IntValue(int64(args[0].Range.Start.Row) + 1)
	default:
		return domain.ErrorValue(domain.ErrValue)
	}
}

func evalColumn(args []TExpr) domain.CellValue {
	if len(args) == 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	switch args[0].Tag {
	case NRef:
		return domain.IntValue(int64(args[0].Ref.Col) + 1)
	case NRange:
		return domain.IntValue(int64(args[0].Range.Start.Col) + 1)
	default:
		return domain.ErrorValue(domain.ErrValue)
	}
}

func evalAddress(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	rowN, ok1 := toNumber(eval(args[0], res))
	colN, ok2 := toNumber(eval(args[1], res))
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	ref := domain.ARef{Col: domain.Column(colN.IntPart() - 1), Row: domain.Row(rowN.IntPart() - 1), Anchor: domain.Absolute}
	return domain.TextValue(ref.ToA1())
}

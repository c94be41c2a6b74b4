package formula

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

const (
	irrTolerance  = 1e-10
	irrMaxIters   = 100
)

func cashflowFloats(args []TExpr, res Resolver) ([]float64, bool) {
	vals := flatten(args, res)
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		n, ok := toNumber(v)
		if !ok {
			return nil, false
		}
		f, _ := n.Float64()
		out = append(out, f)
	}
	return out, true
}

func evalNPV(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	rateD, ok := toNumber(eval(args[0], res))
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rate, _ := rateD.Float64()
	flows, ok := cashflowFloats(args[1:], res)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	npv := npvAt(rate, flows, 1)
	return domain.NumberValue(decimal.NewFromFloat(npv))
}

func npvAt(rate float64, flows []float64, startPeriod int) float64 {
	sum := 0.0
	for i, f := range flows {
		sum += f / math.Pow(1+rate, float64(startPeriod+i))
	}
	return sum
}

// evalIRR finds the rate at which NPV(rate, flows) == 0 via Newton's
// method, per this module's documented convergence choice: 1e-10
// tolerance, 100 iterations, else #NUM!.
func evalIRR(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 1 {
		return domain.ErrorValue(domain.ErrValue)
	}
	flows, ok := cashflowFloats(args[:1], res)
	if !ok || len(flows) < 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	guess := 0.1
	if len(args) >= 2 {
		if g, ok := toNumber(eval(args[1], res)); ok {
			guess, _ = g.Float64()
		}
	}
	rate, ok := newtonIRR(guess, func(r float64) float64 { return npvAt(r, flows, 0) })
	if !ok {
		return domain.ErrorValue(domain.ErrNum)
	}
	return domain.NumberValue(decimal.NewFromFloat(rate))
}

func newtonIRR(guess float64, f func(float64) float64) (float64, bool) {
	rate := guess
	const h = 1e-6
	for i := 0; i < irrMaxIters; i++ {
		fv := f(rate)
		if math.Abs(fv) < irrTolerance {
			return rate, true
		}
		deriv := (f(rate+h) - fv) / h
		if deriv == 0 {
			return 0, false
		}
		next := rate - fv/deriv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		rate = next
	}
	return 0, false
}

func evalXNPV(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 3 {
		return domain.ErrorValue(domain.ErrValue)
	}
	rateD, ok := toNumber(eval(args[0], res))
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rate, _ := rateD.Float64()
	flows, ok1 := cashflowFloats(args[1:2], res)
	dates, ok2 := cashflowFloats(args[2:3], res)
	if !ok1 || !ok2 || len(flows) != len(dates) || len(flows) == 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	v := xnpvAt(rate, flows, dates)
	return domain.NumberValue(decimal.NewFromFloat(v))
}

func xnpvAt(rate float64, flows, dates []float64) float64 {
	d0 := dates[0]
	sum := 0.0
	for i, f := range flows {
		sum += f / math.Pow(1+rate, (dates[i]-d0)/365.0)
	}
	return sum
}

func evalXIRR(args []TExpr, res Resolver) domain.CellValue {
	if len(args) < 2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	flows, ok1 := cashflowFloats(args[0:1], res)
	dates, ok2 := cashflowFloats(args[1:2], res)
	if !ok1 || !ok2 || len(flows) != len(dates) || len(flows) == 0 {
		return domain.ErrorValue(domain.ErrValue)
	}
	guess := 0.1
	if len(args) >= 3 {
		if g, ok := toNumber(eval(args[2], res)); ok {
			guess, _ = g.Float64()
		}
	}
	rate, ok := newtonIRR(guess, func(r float64) float64 { return xnpvAt(r, flows, dates) })
	if !ok {
		return domain.ErrorValue(domain.ErrNum)
	}
	return domain.NumberValue(decimal.NewFromFloat(rate))
}

func numArgs(args []TExpr, res Resolver, n int) ([]float64, bool) {
	if len(args) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		d, ok := toNumber(eval(args[i], res))
		if !ok {
			return nil, false
		}
		out[i], _ = d.Float64()
	}
	return out, true
}

// evalPMT computes the periodic payment for a loan/annuity: rate, nper,
// pv, [fv], [type].
func evalPMT(args []TExpr, res Resolver) domain.CellValue {
	v, ok := numArgs(args, res, 3)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rate, nper, pv := v[0], v[1], v[2]
	fv := 0.0
	typ := 0.0
	if len(args) >= 4 {
		if d, ok := toNumber(eval(args[3], res)); ok {
			fv, _ = d.Float64()
		}
	}
	if len(args) >= 5 {
		if d, ok := toNumber(eval(args[4], res)); ok {
			typ, _ = d.Float64()
		}
	}
	pmt := pmtOf(rate, nper, pv, fv, typ)
	return domain.NumberValue(decimal.NewFromFloat(pmt))
}

func pmtOf(rate, nper, pv, fv, typ float64) float64 {
	if rate == 0 {
		return -(pv + fv) / nper
	}
	factor := math.Pow(1+rate, nper)
	pmt := rate / (factor - 1) * -(pv*factor + fv)
	if typ != 0 {
		pmt /= 1 + rate
	}
	return pmt
}

func evalFV(args []TExpr, res Resolver) domain.CellValue {
	v, ok := numArgs(args, res, 3)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rate, nper, pmt := v[0], v[1], v[2]
	pv := 0.0
	typ := 0.0
	if len(args) >= 4 {
		if d, ok := toNumber(eval(args[3], res)); ok {
			pv, _ = d.Float64()
		}
	}
	if len(args) >= 5 {
		if d, ok := toNumber(eval(args[4], res)); ok {
			typ, _ = d.Float64()
		}
	}
	var fv float64
	if rate == 0 {
		fv = -(pv + pmt*nper)
	} else {
		factor := math.Pow(1+rate, nper)
		annuity := pmt * (1 + rate*typ) * (factor - 1) / rate
		fv = -(pv*factor + annuity)
	}
	return domain.NumberValue(decimal.NewFromFloat(fv))
}

func evalPV(args []TExpr, res Resolver) domain.CellValue {
	v, ok := numArgs(args, res, 3)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rate, nper, pmt := v[0], v[1], v[2]
	fv := 0.0
	typ := 0.0
	if len(args) >= 4 {
		if d, ok := toNumber(eval(args[3], res)); ok {
			fv, _ = d.Float64()
		}
	}
	if len(args) >= 5 {
		if d, ok := toNumber(eval(args[4], res)); ok {
			typ, _ = d.Float64()
		}
	}
	var pv float64
	if rate == 0 {
		pv = -(fv + pmt*nper)
	} else {
		factor := math.Pow(1+rate, nper)
		annuity := pmt * (1 + rate*typ) * (factor - 1) / rate
		pv = -(fv + annuity) / factor
	}
	return domain.NumberValue(decimal.NewFromFloat(pv))
}

func evalNPER(args []TExpr, res Resolver) domain.CellValue {
	v, ok := numArgs(args, res, 3)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	rate, pmt, pv := v[0], v[1], v[2]
	fv := 0.0
	if len(args) >= 4 {
		if d, ok := toNumber(eval(args[3], res)); ok {
			fv, _ = d.Float64()
		}
	}
	if rate == 0 {
		if pmt == 0 {
			return domain.ErrorValue(domain.ErrDiv0)
		}
		return domain.NumberValue(decimal.NewFromFloat(-(pv + fv) / pmt))
	}
	num := pmt/rate - fv
	den := pv + pmt/rate
	if den == 0 {
		return domain.ErrorValue(domain.ErrNum)
	}
	n := math.Log(num/den) / math.Log(1+rate)
	return domain.NumberValue(decimal.NewFromFloat(n))
}

// evalRATE solves for the periodic rate via Newton's method on PMT's
// closed form, using the same convergence parameters as IRR.
func evalRATE(args []TExpr, res Resolver) domain.CellValue {
	v, ok := numArgs(args, res, 3)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	nper, pmt, pv := v[0], v[1], v[2]
	fv := 0.0
	typ := 0.0
	guess := 0.1
	if len(args) >= 4 {
		if d, ok := toNumber(eval(args[3], res)); ok {
			fv, _ = d.Float64()
		}
	}
	if len(args) >= 5 {
		if d, ok := toNumber(eval(args[4], res)); ok {
			typ, _ = d.Float64()
		}
	}
	if len(args) >= 6 {
		if d, ok := toNumber(eval(args[5], res)); ok {
			guess, _ = d.Float64()
		}
	}
	f := func(r float64) float64 {
		if r == 0 {
			return pv + pmt*nper + fv
		}
		factor := math.Pow(1+r, nper)
		return pv*factor + pmt*(1+r*typ)*(factor-1)/r + fv
	}
	rate, ok := newtonIRR(guess, f)
	if !ok {
		return domain.ErrorValue(domain.ErrNum)
	}
	return domain.NumberValue(decimal.NewFromFloat(rate))
}

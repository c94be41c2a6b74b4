package formula

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tjc-lp/xlcore/internal/domain"
)

func argNumber(args []TExpr, i int, res Resolver) (decimal.Decimal, bool) {
	if i >= len(args) {
		return decimal.Decimal{}, false
	}
	return toNumber(eval(args[i], res))
}

func argTime(args []TExpr, i int, res Resolver) (time.Time, bool) {
	n, ok := argNumber(args, i, res)
	if !ok {
		return time.Time{}, false
	}
	return serialToTime(n), true
}

func evalDate(args []TExpr, res Resolver) domain.CellValue {
	y, ok1 := argNumber(args, 0, res)
	m, ok2 := argNumber(args, 1, res)
	d, ok3 := argNumber(args, 2, res)
	if !ok1 || !ok2 || !ok3 {
		return domain.ErrorValue(domain.ErrValue)
	}
	t := time.Date(int(y.IntPart()), time.Month(m.IntPart()), int(d.IntPart()), 0, 0, 0, 0, time.UTC)
	return domain.NumberValue(timeToSerial(t))
}

func evalDatePart(name string, args []TExpr, res Resolver) domain.CellValue {
	t, ok := argTime(args, 0, res)
	if !ok {
		return domain.ErrorValue(domain.ErrValue)
	}
	switch name {
	case "YEAR":
		return domain.IntValue(int64(t.Year()))
	case "MONTH":
		return domain.IntValue(int64(t.Month()))
	case "DAY":
		return domain.IntValue(int64(t.Day()))
	}
	return domain.ErrorValue(domain.ErrValue)
}

func evalEomonth(args []TExpr, res Resolver) domain.CellValue {
	t, ok1 := argTime(args, 0, res)
	m, ok2 := argNumber(args, 1, res)
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(m.IntPart())+1, 0).AddDate(0, 0, -1)
	return domain.NumberValue(timeToSerial(target))
}

func evalEdate(args []TExpr, res Resolver) domain.CellValue {
	t, ok1 := argTime(args, 0, res)
	m, ok2 := argNumber(args, 1, res)
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	target := t.AddDate(0, int(m.IntPart()), 0)
	return domain.NumberValue(timeToSerial(target))
}

func evalDatedif(args []TExpr, res Resolver) domain.CellValue {
	start, ok1 := argTime(args, 0, res)
	end, ok2 := argTime(args, 1, res)
	if !ok1 || !ok2 || len(args) < 3 {
		return domain.ErrorValue(domain.ErrValue)
	}
	unit := toText(eval(args[2], res))
	if end.Before(start) {
		return domain.ErrorValue(domain.ErrNum)
	}
	switch unit {
	case "Y":
		years := end.Year() - start.Year()
		if end.YearDay() < start.YearDay() {
			years--
		}
		return domain.IntValue(int64(years))
	case "M":
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if end.Day() < start.Day() {
			months--
		}
		return domain.IntValue(int64(months))
	case "D":
		return domain.IntValue(int64(end.Sub(start).Hours() / 24))
	default:
		return domain.ErrorValue(domain.ErrNum)
	}
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func evalNetworkdays(args []TExpr, res Resolver) domain.CellValue {
	start, ok1 := argTime(args, 0, res)
	end, ok2 := argTime(args, 1, res)
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	if end.Before(start) {
		start, end = end, start
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			count++
		}
	}
	return domain.IntValue(int64(count))
}

func evalWorkday(args []TExpr, res Resolver) domain.CellValue {
	start, ok1 := argTime(args, 0, res)
	n, ok2 := argNumber(args, 1, res)
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	days := int(n.IntPart())
	step := 1
	if days < 0 {
		step = -1
		days = -days
	}
	d := start
	for days > 0 {
		d = d.AddDate(0, 0, step)
		if !isWeekend(d) {
			days--
		}
	}
	return domain.NumberValue(timeToSerial(d))
}

func evalYearfrac(args []TExpr, res Resolver) domain.CellValue {
	start, ok1 := argTime(args, 0, res)
	end, ok2 := argTime(args, 1, res)
	if !ok1 || !ok2 {
		return domain.ErrorValue(domain.ErrValue)
	}
	days := end.Sub(start).Hours() / 24
	return domain.NumberValue(decimal.NewFromFloat(math.Abs(days) / 365.0))
}

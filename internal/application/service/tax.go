package service

import "github.com/shopspring/decimal"

type taxBracket struct {
	ceiling   decimal.Decimal
	rate      decimal.Decimal
	unbounded bool
}

var (
	hundred = decimal.NewFromInt(100)

	// Marginal income tax brackets; each rate applies only to the slice of
	// the base that falls inside its bracket.
	taxBrackets = []taxBracket{
		{ceiling: decimal.NewFromInt(10000), rate: decimal.Zero},
		{ceiling: decimal.NewFromInt(50000), rate: decimal.NewFromInt(10)},
		{ceiling: decimal.NewFromInt(100000), rate: decimal.NewFromInt(19)},
		{ceiling: decimal.NewFromInt(250000), rate: decimal.NewFromInt(28)},
		{ceiling: decimal.NewFromInt(500000), rate: decimal.NewFromInt(36)},
		{rate: decimal.NewFromInt(46), unbounded: true},
	}
)

// ComputeTax returns the progressive tax owed on base
func ComputeTax(base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	floor := decimal.Zero
	for _, b := range taxBrackets {
		top := base
		if !b.unbounded && b.ceiling.LessThan(base) {
			top = b.ceiling
		}
		if top.GreaterThan(floor) {
			tax = tax.Add(top.Sub(floor).Mul(b.rate).Div(hundred))
		}
		if b.unbounded || !base.GreaterThan(b.ceiling) {
			break
		}
		floor = b.ceiling
	}
	return tax
}

// percentOf returns value * percent / 100
func percentOf(value, percent decimal.Decimal) decimal.Decimal {
	return value.Mul(percent).Div(hundred)
}

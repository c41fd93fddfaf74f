// Package scoring derives the aggregate fields of a record from its raw
// component scores and fee amounts.
package scoring

import (
	"github.com/okian/gradebook/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Calculate returns the sum of marks and that sum divided by the number of
// subjects. Inputs are taken as given.
func Calculate(marks [model.SubjectCount]int) (total int, percentage float64) {
	for _, m := range marks {
		total += m
	}
	return total, float64(total) / model.SubjectCount
}

// ClampFees clamps Paid into [0, Total] and derives Left.
func ClampFees(f model.Fees) model.Fees {
	if f.Total.IsNegative() {
		f.Total = decimal.Zero
	}
	switch {
	case f.Paid.IsNegative():
		f.Paid = decimal.Zero
	case f.Paid.GreaterThan(f.Total):
		f.Paid = f.Total
	}
	f.Left = f.Total.Sub(f.Paid)
	return f
}

// Apply returns r with Total, Percentage and Fees recomputed. Whatever the
// caller placed in the derived fields is discarded.
func Apply(r model.Record) model.Record {
	r.Total, r.Percentage = Calculate(r.Marks)
	r.Fees = ClampFees(r.Fees)
	return r
}

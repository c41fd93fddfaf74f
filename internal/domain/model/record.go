// Package model contains domain models passed between layers.
package model

import "github.com/shopspring/decimal"

// SubjectCount is the fixed number of component scores on a record.
const SubjectCount = 4

// MaxMark is the upper bound of a single component score.
const MaxMark = 100

// Fees tracks tuition for a student. Left is always Total - Paid and Paid
// stays within [0, Total]; both are derived by the scoring package.
type Fees struct {
	Total decimal.Decimal `validate:"decimal_gte0"`
	Paid  decimal.Decimal
	Left  decimal.Decimal
}

// Record is a student's academic record. Total and Percentage are derived
// from Marks and are overwritten on every insert or replace.
type Record struct {
	Key     int    // roll number, unique and immutable once stored
	Name    string // descriptive only
	Phone   string
	Address string

	Marks [SubjectCount]int `validate:"dive,gte=0,lte=100"`

	Total      int
	Percentage float64

	Fees Fees
}

// Clone returns an independent copy of records. Record holds only values,
// so a shallow element copy is a deep copy.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Package types contains common types used across the application
package types

import "github.com/shopspring/decimal"

// Marks holds the four subject scores of a student.
type Marks struct {
	DSA  int `json:"dsa"`
	OS   int `json:"os"`
	DBMS int `json:"dbms"`
	CN   int `json:"cn"`
}

// Fees is the fee ledger of a student. Amounts serialise as decimal strings.
type Fees struct {
	Total decimal.Decimal `json:"total"`
	Paid  decimal.Decimal `json:"paid"`
	Left  decimal.Decimal `json:"left"`
}

// Student is a stored record as exposed to API clients.
type Student struct {
	Key        int     `json:"key"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone,omitempty"`
	Address    string  `json:"address,omitempty"`
	Marks      Marks   `json:"marks"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Fees       Fees    `json:"fees"`
}

// StudentInput is the client-supplied part of a student; aggregates and the
// remaining fee balance are always derived server-side.
type StudentInput struct {
	Key       int             `json:"key"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Marks     Marks           `json:"marks"`
	FeesTotal decimal.Decimal `json:"fees_total"`
	FeesPaid  decimal.Decimal `json:"fees_paid"`
}

// Entry represents a leaderboard entry
type Entry struct {
	Rank    int     `json:"rank"`
	Student Student `json:"student"`
}

// Stats summarises the collection.
type Stats struct {
	Records           int             `json:"records"`
	TopTotal          int             `json:"top_total"`
	AveragePercentage float64         `json:"average_percentage"`
	OutstandingFees   decimal.Decimal `json:"outstanding_fees"`
	UndoDepth         int             `json:"undo_depth"`
	RedoDepth         int             `json:"redo_depth"`
	IndexStrategy     string          `json:"index_strategy"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is CREDIT or DEBIT.
type TransactionKind string

// StatementHeader holds the account level metadata of a statement.
type StatementHeader struct {
	InstitutionName string `json:"institutionName" csv:"institution_name"`
	InstitutionID   string `json:"institutionId" csv:"institution_id"`
	AccountID       string `json:"accountId" csv:"account_id"`
	AccountType     string `json:"accountType" csv:"account_type"`
	Currency        string `json:"currency" csv:"currency"`
	PeriodStart     string `json:"periodStart" csv:"period_start"`
	PeriodEnd       string `json:"periodEnd" csv:"period_end"`
}

// StatementTransaction is one posted movement of a statement.
//
// Amount is signed: negative for outflows, positive for inflows. Date is the
// display form (DD/MM/YYYY) and DateRaw keeps the value found in the file.
type StatementTransaction struct {
	FitID   string          `json:"fitId"`
	Kind    TransactionKind `json:"kind"`
	Date    string          `json:"date"`
	DateRaw string          `json:"dateRaw"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    string          `json:"memo"`
}

// Statement is a parsed statement file.
type Statement struct {
	Header       StatementHeader
	Transactions []StatementTransaction
}

// IsCredit reports whether the transaction is an inflow.
func (t StatementTransaction) IsCredit() bool {
	return t.Kind == KindCredit
}

// IsDebit reports whether the transaction is an outflow.
func (t StatementTransaction) IsDebit() bool {
	return t.Kind == KindDebit
}

// Magnitude returns the absolute amount.
func (t StatementTransaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// PostedAt parses the compact raw date. ok is false when the raw value does
// not start with a valid YYYYMMDD date.
func (t StatementTransaction) PostedAt() (time.Time, bool) {
	if len(t.DateRaw) < len(CompactDateLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(CompactDateLayout, t.DateRaw[:len(CompactDateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

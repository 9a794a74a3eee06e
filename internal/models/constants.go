package models

// Transaction kinds as reported after sign reconciliation.
const (
	KindCredit TransactionKind = "CREDIT"
	KindDebit  TransactionKind = "DEBIT"
)

// Import history statuses.
const (
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
	ImportProcessing ImportStatus = "processing"
)

// Ledger record kinds.
const (
	RecordPayable    RecordKind = "payable"
	RecordReceivable RecordKind = "receivable"
)

// Counterparty roles.
const (
	RoleClient   CounterpartyRole = "client"
	RoleSupplier CounterpartyRole = "supplier"
)

// DisplayDateLayout is the DD/MM/YYYY layout used for every user facing date.
const DisplayDateLayout = "02/01/2006"

// CompactDateLayout is the leading YYYYMMDD part of an OFX date.
const CompactDateLayout = "20060102"

// File permissions
const (
	PermissionFile      = 0600
	PermissionDirectory = 0750
)

// PathSeparator joins the levels of a CategoryPath for display.
const PathSeparator = " > "

// Package ofxparser reads OFX 1.x (SGML) and OFX 2.x (XML) bank statements.
//
// Tags are scanned with tolerant regular expressions instead of a full
// grammar: both the closed <TAG>value</TAG> form and the SGML open form
// <TAG>value followed by a newline or the next tag are accepted.
package ofxparser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/ofx-import/internal/currencyutils"
	"fjacquet/ofx-import/internal/dateutils"
	"fjacquet/ofx-import/internal/models"
)

// UnknownInstitution names the institution when the statement has no ORG.
const UnknownInstitution = "unknown"

// Header and transaction tags.
const (
	tagOrg      = "ORG"
	tagBankID   = "BANKID"
	tagAcctID   = "ACCTID"
	tagAcctType = "ACCTTYPE"
	tagCurDef   = "CURDEF"
	tagDtStart  = "DTSTART"
	tagDtEnd    = "DTEND"
	tagTrnType  = "TRNTYPE"
	tagDtPosted = "DTPOSTED"
	tagTrnAmt   = "TRNAMT"
	tagFitID    = "FITID"
	tagMemo     = "MEMO"
)

type tagPattern struct {
	closed *regexp.Regexp
	open   *regexp.Regexp
}

var tagPatterns = func() map[string]tagPattern {
	tags := []string{tagOrg, tagBankID, tagAcctID, tagAcctType, tagCurDef, tagDtStart, tagDtEnd,
		tagTrnType, tagDtPosted, tagTrnAmt, tagFitID, tagMemo}
	patterns := make(map[string]tagPattern, len(tags))
	for _, tag := range tags {
		patterns[tag] = tagPattern{
			closed: regexp.MustCompile(`(?i)<` + tag + `>([^<]*)</` + tag + `>`),
			open:   regexp.MustCompile(`(?i)<` + tag + `>([^\n<]+)`),
		}
	}
	return patterns
}()

var transactionBlock = regexp.MustCompile(`(?is)<STMTTRN>(.*?)</STMTTRN>`)

// Source transaction types that force the amount sign.
var (
	debitTypes  = map[string]bool{"DEBIT": true, "PAYMENT": true, "CHECK": true, "FEE": true}
	creditTypes = map[string]bool{"CREDIT": true, "DEP": true, "DEPOSIT": true}
)

// DropReason explains why a transaction block was left out.
type DropReason string

const (
	DropMissingFitID  DropReason = "missing FITID"
	DropInvalidAmount DropReason = "unparseable TRNAMT"
)

// DropFunc is told about every skipped transaction block.
type DropFunc func(fitID, rawAmount string, reason DropReason)

// tagValue returns the trimmed value of tag in content, "" when absent.
func tagValue(content, tag string) string {
	p, ok := tagPatterns[tag]
	if !ok {
		return ""
	}
	if m := p.closed.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := p.open.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseString parses decoded statement text. It never fails: missing header
// tags become empty strings and unusable transaction blocks are skipped.
func ParseString(content string) models.Statement {
	return parseContent(content, nil)
}

func parseContent(content string, onDrop DropFunc) models.Statement {
	institution := tagValue(content, tagOrg)
	if institution == "" {
		institution = UnknownInstitution
	}

	stmt := models.Statement{
		Header: models.StatementHeader{
			InstitutionName: institution,
			InstitutionID:   tagValue(content, tagBankID),
			AccountID:       tagValue(content, tagAcctID),
			AccountType:     tagValue(content, tagAcctType),
			Currency:        tagValue(content, tagCurDef),
			PeriodStart:     dateutils.FormatCompactDate(tagValue(content, tagDtStart)),
			PeriodEnd:       dateutils.FormatCompactDate(tagValue(content, tagDtEnd)),
		},
	}

	for _, m := range transactionBlock.FindAllStringSubmatch(content, -1) {
		if tx, reason, ok := parseTransaction(m[1]); ok {
			stmt.Transactions = append(stmt.Transactions, tx)
		} else if onDrop != nil {
			onDrop(tagValue(m[1], tagFitID), tagValue(m[1], tagTrnAmt), reason)
		}
	}
	return stmt
}

func parseTransaction(block string) (models.StatementTransaction, DropReason, bool) {
	fitID := tagValue(block, tagFitID)
	if fitID == "" {
		return models.StatementTransaction{}, DropMissingFitID, false
	}
	amount, err := currencyutils.ParseAmount(tagValue(block, tagTrnAmt))
	if err != nil {
		return models.StatementTransaction{}, DropInvalidAmount, false
	}

	trnType := strings.ToUpper(tagValue(block, tagTrnType))
	amount, kind := reconcileKind(trnType, amount)

	dateRaw := tagValue(block, tagDtPosted)
	return models.StatementTransaction{
		FitID:   fitID,
		Kind:    kind,
		Date:    dateutils.FormatCompactDate(dateRaw),
		DateRaw: dateRaw,
		Amount:  amount,
		Memo:    tagValue(block, tagMemo),
	}, "", true
}

// reconcileKind makes the amount sign agree with the kind. Debit-like types,
// and XFER with a positive amount, are forced negative; credit-like types are
// forced positive; anything else keeps its sign and derives the kind from it.
func reconcileKind(trnType string, amount decimal.Decimal) (decimal.Decimal, models.TransactionKind) {
	switch {
	case debitTypes[trnType] || (trnType == "XFER" && amount.IsPositive()):
		return amount.Abs().Neg(), models.KindDebit
	case creditTypes[trnType]:
		return amount.Abs(), models.KindCredit
	case amount.IsNegative():
		return amount, models.KindDebit
	default:
		return amount, models.KindCredit
	}
}

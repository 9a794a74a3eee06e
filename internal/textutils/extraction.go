// Package textutils extracts counterparties and rule keywords from
// transaction memos.
package textutils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Shape names the memo layout a pattern recognized.
type Shape string

// Known memo shapes.
const (
	ShapeIncomingTransfer Shape = "incoming_transfer"
	ShapeOutgoingTransfer Shape = "outgoing_transfer"
	ShapeCardPurchase     Shape = "card_purchase"
	ShapeUnknown          Shape = "unknown"
)

// MinKeywordLength is the shortest keyword, in runes, worth learning.
const MinKeywordLength = 3

// word is a Unicode aware \w.
const word = `[\p{L}\p{N}_]+`

type pattern struct {
	shape Shape
	re    *regexp.Regexp
}

// counterpartyPatterns are tried in order; the first hit wins. Names stop at
// a DD/MM date token or the end of the memo.
var counterpartyPatterns = []pattern{
	{ShapeIncomingTransfer, regexp.MustCompile(`(?i)REM:\s*([A-Za-zÀ-ú\s]+?)(?:\s+\d{2}/\d{2}|$)`)},
	{ShapeOutgoingTransfer, regexp.MustCompile(`(?i)DES:\s*([A-Za-zÀ-ú\s]+?)(?:\s+\d{2}/\d{2}|$)`)},
	{ShapeCardPurchase, regexp.MustCompile(`(?i)(?:COMPRA\s+` + word + `\s+` + word + `\s+` + word + `\s+)(.*)`)},
}

// Keyword patterns: card purchase "COMPRA <network> <mode> <installments> <store>"
// and outgoing transfer "DES: <name> [DD/MM]".
var (
	cardKeywordPattern     = regexp.MustCompile(`(?i)(?:COMPRA\s+` + word + `\s+` + word + `\s+` + word + `\s+)([\p{L}\p{N}_*\s]+)`)
	transferKeywordPattern = regexp.MustCompile(`(?i)DES:\s*([\p{L}\p{N}_\s*]+?)(?:\s+\d{2}/\d{2}|$)`)
)

// ExtractCounterparty guesses the counterparty name from a memo. It returns
// "" when no pattern applies.
func ExtractCounterparty(memo string) string {
	for _, p := range counterpartyPatterns {
		if m := p.re.FindStringSubmatch(memo); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// MemoShape returns the shape of the first counterparty pattern matching memo.
func MemoShape(memo string) Shape {
	for _, p := range counterpartyPatterns {
		if p.re.MatchString(memo) {
			return p.shape
		}
	}
	return ShapeUnknown
}

// ExtractKeywords returns candidate rule keywords: the first token of a card
// purchase store segment, then the first token of an outgoing transfer name.
// Candidates shorter than MinKeywordLength runes are discarded.
func ExtractKeywords(memo string) []string {
	var keywords []string

	if m := cardKeywordPattern.FindStringSubmatch(memo); len(m) > 1 {
		store := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(store) >= MinKeywordLength {
			if token := firstToken(store); utf8.RuneCountInString(token) >= MinKeywordLength {
				keywords = append(keywords, token)
			}
		}
	}

	if m := transferKeywordPattern.FindStringSubmatch(memo); len(m) > 1 {
		if token := firstToken(strings.TrimSpace(m[1])); utf8.RuneCountInString(token) >= MinKeywordLength {
			keywords = append(keywords, token)
		}
	}

	return keywords
}

func firstToken(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// NormalizeKeyword folds a keyword for case-insensitive comparison.
func NormalizeKeyword(keyword string) string {
	return strings.ToUpper(strings.TrimSpace(keyword))
}

// ContainsFold reports whether s contains substr, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

package importer

import (
	"github.com/google/uuid"

	"fjacquet/ofx-import/internal/models"
)

// Flatten expands the selected rows into ledger records. A split row yields
// one record per entry, any other row one record for the absolute amount.
// The sign of the statement amount decides payable versus receivable.
func Flatten(rows []models.ReviewRow, header models.StatementHeader, accountID string) []models.LedgerRecord {
	var records []models.LedgerRecord
	for _, row := range rows {
		if !row.Selected {
			continue
		}
		tx := row.Transaction
		base := models.LedgerRecord{
			Kind:        models.KindForAmount(tx.Amount),
			FitID:       tx.FitID,
			Date:        tx.Date,
			DueDate:     tx.Date,
			Description: tx.Memo,
			AccountID:   accountID,
			Institution: header.InstitutionName,
		}

		if row.Split && len(row.Splits) > 0 {
			for _, entry := range row.Splits {
				rec := base
				rec.ID = uuid.NewString()
				rec.Amount = entry.Value.Abs()
				rec.Path = entry.Path
				rec.Counterparty = entry.Counterparty
				rec.SplitOf = tx.FitID
				records = append(records, rec)
			}
			continue
		}

		rec := base
		rec.ID = uuid.NewString()
		rec.Amount = tx.Magnitude()
		rec.Path = row.Path
		rec.Counterparty = row.Counterparty
		records = append(records, rec)
	}
	return records
}

// countKinds returns the number of payable and receivable records.
func countKinds(records []models.LedgerRecord) (payables, receivables int) {
	for _, r := range records {
		if r.Kind == models.RecordPayable {
			payables++
		} else {
			receivables++
		}
	}
	return payables, receivables
}

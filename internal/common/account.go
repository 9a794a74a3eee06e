package common

import (
	"path/filepath"
	"strings"

	"fjacquet/ofx-import/internal/models"
)

// AccountIdentifier is an account ID together with where it was found.
type AccountIdentifier struct {
	ID     string
	Source string // "header", "filename"
}

// ResolveAccount returns the statement account ID, falling back to the
// base file name without extension when the header carries none. The result
// keys duplicate detection, so it must be stable for re-imports of a file.
func ResolveAccount(header models.StatementHeader, fileName string) AccountIdentifier {
	if id := strings.TrimSpace(header.AccountID); id != "" {
		return AccountIdentifier{ID: id, Source: "header"}
	}
	base := filepath.Base(fileName)
	return AccountIdentifier{
		ID:     strings.TrimSuffix(base, filepath.Ext(base)),
		Source: "filename",
	}
}

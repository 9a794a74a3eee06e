// Package common holds CSV and account helpers shared by the store and the CLI.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fjacquet/ofx-import/internal/models"
)

// DefaultDelimiter separates CSV columns unless a caller overrides it.
const DefaultDelimiter = ','

// ReadCSV decodes rows from r. An empty input yields no rows.
func ReadCSV[TRow any](r io.Reader) ([]TRow, error) {
	var rows []TRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// ReadCSVFile decodes every row of filePath. A missing file yields no rows.
func ReadCSVFile[TRow any](filePath string) ([]TRow, error) {
	file, err := os.Open(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadCSV[TRow](file)
}

// WriteCSV encodes rows with a header line using the given delimiter.
func WriteCSV[TRow any](w io.Writer, rows []TRow, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// AppendCSVFile appends rows to filePath, writing the header only when the
// file is new or empty. Parent directories are created as needed.
func AppendCSVFile[TRow any](filePath string, rows []TRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(filePath), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	withHeader := true
	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		withHeader = false
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, models.PermissionFile) // #nosec G304
	if err != nil {
		return fmt.Errorf("error opening CSV file: %w", err)
	}

	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(file))
	if withHeader {
		err = gocsv.MarshalCSV(rows, writer)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, writer)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("error appending CSV data: %w", err)
	}
	return nil
}

package ofxparser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/parser"
	"fjacquet/ofx-import/internal/parsererror"
)

// FormatName is reported in format errors.
const FormatName = "OFX"

const shapeScanLimit = 8192

// Adapter is the file boundary of the OFX parser.
type Adapter struct {
	parser.BaseParser
	defaultCurrency string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDefaultCurrency fills an empty CURDEF.
func WithDefaultCurrency(currency string) Option {
	return func(a *Adapter) {
		a.defaultCurrency = strings.ToUpper(strings.TrimSpace(currency))
	}
}

// NewAdapter returns an OFX parser.
func NewAdapter(logger logging.Logger, opts ...Option) *Adapter {
	a := &Adapter{BaseParser: parser.NewBaseParser(logger)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ parser.FileParser = (*Adapter)(nil)

// ValidateFormat rejects files that are not OFX statements: a wrong extension
// or content with neither an <OFX> root nor an OFXHEADER line.
func (a *Adapter) ValidateFormat(filePath string) error {
	if !strings.EqualFold(filepath.Ext(filePath), ".ofx") {
		return &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: FormatName,
			Msg:            fmt.Sprintf("unsupported file extension %q", filepath.Ext(filePath)),
		}
	}

	file, err := os.Open(filePath) // #nosec G304 -- user supplied statement path
	if err != nil {
		return &parsererror.ValidationError{FilePath: filePath, Reason: "cannot open file", Err: err}
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, shapeScanLimit)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return &parsererror.ValidationError{FilePath: filePath, Reason: "cannot read file", Err: err}
	}
	return checkShape(filePath, head[:n])
}

func checkShape(filePath string, head []byte) error {
	if len(bytes.TrimSpace(head)) == 0 {
		return &parsererror.ValidationError{FilePath: filePath, Reason: "empty file", Err: parsererror.ErrEmptyInput}
	}
	upper := bytes.ToUpper(head)
	if bytes.Contains(upper, []byte("<OFX")) || bytes.Contains(upper, []byte("OFXHEADER")) {
		return nil
	}
	return &parsererror.InvalidFormatError{
		FilePath:             filePath,
		ExpectedFormat:       FormatName,
		ActualContentSnippet: parsererror.Snippet(string(head), 40),
		Msg:                  "no OFX root element or OFXHEADER found",
	}
}

// Parse decodes statement bytes from r and parses them. It fails only when
// r cannot be read, the input is empty or its charset cannot be decoded.
func (a *Adapter) Parse(r io.Reader) (models.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Statement{}, fmt.Errorf("failed to read statement: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Statement{}, parsererror.ErrEmptyInput
	}

	content, used, err := decode(data)
	if err != nil {
		return models.Statement{}, &parsererror.DataExtractionError{
			FieldName: "CHARSET",
			Reason:    fmt.Sprintf("cannot decode content as %s: %v", used, err),
		}
	}

	return a.ParseString(content, used), nil
}

// ParseString parses decoded content, applying the adapter defaults and
// logging skipped blocks. charsetName is only used for logging.
func (a *Adapter) ParseString(content, charsetName string) models.Statement {
	logger := a.GetLogger()
	stmt := parseContent(content, func(fitID, rawAmount string, reason DropReason) {
		logger.Debug("Skipping transaction block",
			logging.F(logging.FieldFitID, fitID),
			logging.F("trnamt", rawAmount),
			logging.F(logging.FieldReason, string(reason)))
	})
	if stmt.Header.Currency == "" {
		stmt.Header.Currency = a.defaultCurrency
	}

	logger.Info("Parsed OFX statement",
		logging.F(logging.FieldInstitution, stmt.Header.InstitutionName),
		logging.F(logging.FieldAccount, stmt.Header.AccountID),
		logging.F(logging.FieldCharset, charsetName),
		logging.F(logging.FieldCount, len(stmt.Transactions)))
	return stmt
}

// ParseFile validates and parses a statement file.
func (a *Adapter) ParseFile(filePath string) (models.Statement, error) {
	if err := a.ValidateFormat(filePath); err != nil {
		return models.Statement{}, err
	}

	file, err := os.Open(filePath) // #nosec G304 -- user supplied statement path
	if err != nil {
		return models.Statement{}, fmt.Errorf("failed to open statement %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	stmt, err := a.Parse(file)
	if err != nil {
		return models.Statement{}, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return stmt, nil
}

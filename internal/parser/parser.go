// Package parser defines the statement parser contracts and the base that
// concrete parsers embed.
package parser

import (
	"io"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
)

// Parser turns statement content into a Statement. Malformed but tolerable
// content is not an error; only unreadable input is.
type Parser interface {
	Parse(r io.Reader) (models.Statement, error)
}

// Validator checks that a file is of the expected format before parsing.
type Validator interface {
	ValidateFormat(filePath string) error
}

// FileParser is a Parser that also works directly on files.
type FileParser interface {
	Parser
	Validator
	ParseFile(filePath string) (models.Statement, error)
}

// LoggerConfigurable is implemented by parsers whose logger can be swapped.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	inner := errors.New("invalid decimal")
	err := &ParseError{Parser: "OFX", Field: "TRNAMT", Value: "abc", Err: inner}

	assert.Equal(t, "OFX: failed to parse TRNAMT='abc': invalid decimal", err.Error())
	assert.ErrorIs(t, err, inner)

	var target *ParseError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, "TRNAMT", target.Field)
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation failed for a.ofx: empty file",
		(&ValidationError{FilePath: "a.ofx", Reason: "empty file"}).Error())

	err := &ValidationError{FilePath: "a.ofx", Reason: "read failed", Err: ErrEmptyInput}
	assert.Equal(t, "validation failed for a.ofx: read failed: empty statement input", err.Error())
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name:     "with snippet",
			err:      &InvalidFormatError{FilePath: "x.csv", ExpectedFormat: "OFX", ActualContentSnippet: "a;b;c", Msg: "wrong extension"},
			expected: "invalid format in file 'x.csv': wrong extension. Expected: OFX. Content snippet: 'a;b;c'",
		},
		{
			name:     "without snippet",
			err:      &InvalidFormatError{FilePath: "x.ofx", ExpectedFormat: "OFX", Msg: "missing OFX root"},
			expected: "invalid format in file 'x.ofx': missing OFX root. Expected: OFX",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataExtractionError(t *testing.T) {
	err := &DataExtractionError{FilePath: "x.ofx", FieldName: "CHARSET", Reason: "unsupported charset", RawDataSnippet: "KOI9"}
	assert.Equal(t, "data extraction failed in file 'x.ofx' for field 'CHARSET': unsupported charset. Raw data snippet: 'KOI9'", err.Error())

	err.RawDataSnippet = ""
	assert.Equal(t, "data extraction failed in file 'x.ofx' for field 'CHARSET': unsupported charset", err.Error())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet("abc", 5))
	assert.Equal(t, "ab...", Snippet("abcdef", 2))
}

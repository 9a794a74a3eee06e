package ofxparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclaredCharset(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"sgml 1252", "OFXHEADER:100\nENCODING:USASCII\nCHARSET:1252\n", "windows-1252"},
		{"sgml none falls to encoding", "ENCODING:UTF-8\nCHARSET:NONE\n", "utf-8"},
		{"sgml usascii", "ENCODING:USASCII\nCHARSET:NONE\n", "us-ascii"},
		{"xml prolog", `<?xml version="1.0" encoding="ISO-8859-1"?><OFX>`, "iso-8859-1"},
		{"nothing declared", "<OFX></OFX>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, declaredCharset([]byte(tt.content)))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("utf-8 passes through", func(t *testing.T) {
		out, name, err := decode([]byte("\xEF\xBB\xBF<MEMO>PADARIA SÃO JOSÉ"))
		require.NoError(t, err)
		assert.Equal(t, "utf-8", name)
		assert.Equal(t, "<MEMO>PADARIA SÃO JOSÉ", out)
	})

	t.Run("undeclared latin1", func(t *testing.T) {
		out, name, err := decode([]byte("<MEMO>JOS\xC9"))
		require.NoError(t, err)
		assert.Equal(t, "iso-8859-1", name)
		assert.Equal(t, "<MEMO>JOSÉ", out)
	})

	t.Run("declared windows-1252", func(t *testing.T) {
		out, name, err := decode([]byte("CHARSET:1252\n<MEMO>\x80 10"))
		require.NoError(t, err)
		assert.Equal(t, "windows-1252", name)
		assert.Equal(t, "CHARSET:1252\n<MEMO>€ 10", out)
	})

	t.Run("unknown declaration falls back", func(t *testing.T) {
		_, name, err := decode([]byte("CHARSET:KOI9\n<MEMO>\xC9"))
		require.NoError(t, err)
		assert.Equal(t, "iso-8859-1", name)
	})
}

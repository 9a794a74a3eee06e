package ofxparser

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	sgmlCharset  = regexp.MustCompile(`(?im)^\s*CHARSET:\s*([A-Za-z0-9_\-]+)`)
	sgmlEncoding = regexp.MustCompile(`(?im)^\s*ENCODING:\s*([A-Za-z0-9_\-]+)`)
	xmlEncoding  = regexp.MustCompile(`(?i)<\?xml[^>]*encoding=["']([A-Za-z0-9_\-]+)["']`)
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsetAliases maps OFX header values that are not WHATWG labels.
var charsetAliases = map[string]string{
	"1252":       "windows-1252",
	"8859-1":     "iso-8859-1",
	"ISO-8859-1": "iso-8859-1",
	"USASCII":    "us-ascii",
}

const headerScanLimit = 2048

// declaredCharset returns the charset named by the SGML header or the XML
// prolog, "" when none is declared or it is NONE.
func declaredCharset(data []byte) string {
	head := data
	if len(head) > headerScanLimit {
		head = head[:headerScanLimit]
	}
	for _, re := range []*regexp.Regexp{sgmlCharset, xmlEncoding, sgmlEncoding} {
		if m := re.FindSubmatch(head); m != nil {
			label := strings.ToUpper(string(m[1]))
			if label == "NONE" {
				continue
			}
			if alias, ok := charsetAliases[label]; ok {
				return alias
			}
			return strings.ToLower(label)
		}
	}
	return ""
}

// decode converts raw statement bytes to a UTF-8 string. Valid UTF-8 is
// returned as is. Otherwise the declared charset is used when it is known,
// and ISO-8859-1 when nothing usable is declared. The returned name is the
// charset that was applied.
func decode(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	label := declaredCharset(data)
	var enc encoding.Encoding = charmap.ISO8859_1
	name := "iso-8859-1"
	if label != "" {
		if e, canonical := charset.Lookup(label); e != nil && canonical != "utf-8" {
			enc, name = e, canonical
		}
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, err
	}
	return string(out), name, nil
}

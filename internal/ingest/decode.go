package ingest

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	encodingUTF8   = "utf-8"
	encodingLatin1 = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns raw as text. Invalid UTF-8 is read as ISO-8859-1, which
// cannot fail since every byte maps to a code point.
func decode(raw []byte) (text, encoding string) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), encodingUTF8
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// unreachable for ISO-8859-1; keep the replacement-decoded text
		out, _ = unicode.UTF8.NewDecoder().Bytes(raw)
	}
	return string(out), encodingLatin1
}

// decodePermissive decodes as UTF-8 replacing invalid sequences.
func decodePermissive(raw []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// splitLines splits on \r\n, \n and bare \r. A trailing terminator does not
// produce an empty final line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

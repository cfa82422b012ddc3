// Package textenc converts raw bank-export bytes to UTF-8.
package textenc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names accepted by Decode.
const (
	Auto        = "auto"
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Report describes how an input was decoded.
type Report struct {
	Encoding     string // encoding actually used
	Replacements int    // characters that could not be decoded
}

// Decode converts data to UTF-8. With Auto, valid UTF-8 is kept as is and
// anything else is read as Windows-1252, the encoding of Swedbank exports.
// Malformed input is replaced with U+FFFD and counted, never rejected.
func Decode(data []byte, enc string) ([]byte, Report, error) {
	switch normalize(enc) {
	case Auto:
		data = bytes.TrimPrefix(data, utf8BOM)
		if utf8.Valid(data) {
			return data, Report{Encoding: UTF8}, nil
		}
		return decodeWindows1252(data)
	case UTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if utf8.Valid(data) {
			return data, Report{Encoding: UTF8}, nil
		}
		fixed := bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))
		return fixed, Report{Encoding: UTF8, Replacements: countInvalidUTF8(data)}, nil
	case Windows1252:
		return decodeWindows1252(data)
	default:
		return nil, Report{}, fmt.Errorf("unsupported encoding %q", enc)
	}
}

// Supported lists the encoding names Decode accepts.
func Supported() []string {
	return []string{Auto, UTF8, Windows1252}
}

func decodeWindows1252(data []byte) ([]byte, Report, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, Report{}, fmt.Errorf("decoding windows-1252: %w", err)
	}
	return out, Report{
		Encoding:     Windows1252,
		Replacements: bytes.Count(out, []byte(string(utf8.RuneError))),
	}, nil
}

func normalize(enc string) string {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", Auto:
		return Auto
	case UTF8, "utf8":
		return UTF8
	case Windows1252, "cp1252", "latin1":
		return Windows1252
	default:
		return enc
	}
}

func countInvalidUTF8(data []byte) int {
	n := 0
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			n++
		}
		data = data[size:]
	}
	return n
}

package source

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned by Decode when the text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw file bytes into the UTF-8 text the lexer consumes.
// A UTF-8 byte-order mark is stripped, UTF-16 input (detected by its BOM)
// is transcoded. The returned slice may alias raw; raw itself is never written.
func Decode(raw []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		raw = raw[len(bomUTF8):]
		flags |= FileHadBOM
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		// ExpectBOM: порядок байт берётся из самого BOM
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return nil, flags, fmt.Errorf("decode UTF-16: %w", err)
		}
		raw = out
		flags |= FileHadBOM | FileUTF16
	}

	if _, n, err := transform.Bytes(encoding.UTF8Validator, raw); err != nil {
		return nil, flags, fmt.Errorf("%w near byte %d", ErrInvalidUTF8, n)
	}
	if bytes.Contains(raw, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	return raw, flags, nil
}

package fileutil

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies how a subtitle file's bytes map to text.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

// String names the encoding for logs and error messages.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8-bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding sniffs the byte order mark. Files without one are treated
// as plain UTF-8.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

// Decode converts file bytes to plain UTF-8 text without a BOM.
func Decode(data []byte) (string, Encoding, error) {
	enc := DetectEncoding(data)
	switch enc {
	case EncodingUTF8:
		return string(data), enc, nil
	case EncodingUTF8BOM:
		return string(data[len(bomUTF8):]), enc, nil
	case EncodingUTF16LE:
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", enc, fmt.Errorf("decode utf-16le: %w", err)
		}
		return string(decoded), enc, nil
	case EncodingUTF16BE:
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", enc, fmt.Errorf("decode utf-16be: %w", err)
		}
		return string(decoded), enc, nil
	}
	return "", enc, fmt.Errorf("unknown encoding %d", enc)
}

// Encode converts plain UTF-8 text back into the byte representation of the
// given encoding, restoring the BOM where the encoding carries one.
func Encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(text), nil
	case EncodingUTF8BOM:
		out := make([]byte, 0, len(bomUTF8)+len(text))
		out = append(out, bomUTF8...)
		return append(out, text...), nil
	case EncodingUTF16LE:
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode utf-16le: %w", err)
		}
		return encoded, nil
	case EncodingUTF16BE:
		encoded, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode utf-16be: %w", err)
		}
		return encoded, nil
	}
	return nil, fmt.Errorf("unknown encoding %d", enc)
}

package ingest

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// PlainTextExtractor decodes text files.
// It accepts UTF-8 (with or without BOM) and UTF-16 (BOM or heuristic
// detection), and falls back to Latin-1 for anything else.
type PlainTextExtractor struct{}

var _ Extractor = PlainTextExtractor{}

func (PlainTextExtractor) ContentType() string { return "txt" }

func (PlainTextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	text, err := decodeText(data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func decodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		data = data[3:]
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return decodeUTF16(data[2:], binary.LittleEndian)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return decodeUTF16(data[2:], binary.BigEndian)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	// BOM-less UTF-16 shows up as NUL bytes on one side of each pair.
	if order, ok := guessUTF16(data); ok {
		return decodeUTF16(data, order)
	}

	// Latin-1 maps every byte to the code point of the same value.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

func decodeUTF16(data []byte, order binary.ByteOrder) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("%w: odd-length UTF-16 payload", ErrUndecodableText)
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = order.Uint16(data[2*i:])
	}
	return string(utf16.Decode(units)), nil
}

// guessUTF16 detects BOM-less UTF-16 by counting NUL bytes at even and
// odd offsets. ASCII-heavy UTF-16 text has a NUL in every other byte.
func guessUTF16(data []byte) (binary.ByteOrder, bool) {
	if len(data) < 4 || len(data)%2 != 0 {
		return nil, false
	}
	var evenZeros, oddZeros int
	for i, b := range data {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenZeros++
		} else {
			oddZeros++
		}
	}
	pairs := len(data) / 2
	if oddZeros*2 >= pairs {
		return binary.LittleEndian, true
	}
	if evenZeros*2 >= pairs {
		return binary.BigEndian, true
	}
	return nil, false
}

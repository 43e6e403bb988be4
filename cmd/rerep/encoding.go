package main

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"

	"go.dw1.io/regcompat"
)

// codec converts between a file encoding and the Range searched. UTF-8 is
// searched in place; UTF-16 is decoded to runes and searched wide.
type codec struct {
	wide   bool
	endian unicode.Endianness
}

var codecs = map[string]codec{
	"utf-8":    {},
	"utf8":     {},
	"utf-16le": {wide: true, endian: unicode.LittleEndian},
	"utf-16be": {wide: true, endian: unicode.BigEndian},
}

var (
	bomLE = []byte{0xff, 0xfe}
	bomBE = []byte{0xfe, 0xff}
)

// decode returns data as a Range. bom reports whether the input started with
// a byte order mark, which encode then writes back.
func (c codec) decode(data []byte) (r regcompat.Range, bom bool, err error) {
	if !c.wide {
		return regcompat.Bytes(data), false, nil
	}

	bom = bytes.HasPrefix(data, bomLE) || bytes.HasPrefix(data, bomBE)
	text, err := unicode.UTF16(c.endian, unicode.UseBOM).NewDecoder().Bytes(data)
	if err != nil {
		return regcompat.Range{}, false, err
	}

	return regcompat.Runes(bytes.Runes(text)), bom, nil
}

func (c codec) encode(s string, bom bool) ([]byte, error) {
	if !c.wide {
		return []byte(s), nil
	}

	policy := unicode.IgnoreBOM
	if bom {
		policy = unicode.UseBOM
	}

	return unicode.UTF16(c.endian, policy).NewEncoder().Bytes([]byte(s))
}

// Package tlv implements the Tag-Length-Value wire primitive used by NAMQR
// payload strings: a 2-digit ASCII tag, a 2-digit zero-padded decimal length,
// and a value of exactly that many characters. Templates nest the same
// grammar inside a unit's value, each template owning its own tag space.
package tlv

import (
	"errors"
	"fmt"
)

const (
	// TagLen is the fixed number of characters in a tag.
	TagLen = 2
	// LenLen is the fixed number of characters in a length field.
	LenLen = 2
	// HeaderLen is the minimum size of a decodable unit (tag + length).
	HeaderLen = TagLen + LenLen
	// MaxValueLen is the hard ceiling a 2-digit decimal length can express.
	MaxValueLen = 99
)

var (
	ErrValueTooLong = errors.New("tlv: value exceeds 99 characters")
	ErrInvalidTag   = errors.New("tlv: tag must be exactly 2 ASCII digits")
)

// Unit is a single decoded Tag-Length-Value element.
// Length is always the character count of Value.
type Unit struct {
	Tag    string
	Length int
	Value  string
}

// EncodeUnit serializes one unit. It fails if the tag is not exactly two
// ASCII digits or the value cannot be represented by a 2-digit length.
func EncodeUnit(tag, value string) (string, error) {
	if !isDigits(tag) || len(tag) != TagLen {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	if len(value) > MaxValueLen {
		return "", fmt.Errorf("%w: tag %s carries %d characters", ErrValueTooLong, tag, len(value))
	}
	return fmt.Sprintf("%s%02d%s", tag, len(value), value), nil
}

// DecodeUnit decodes the unit starting at offset. The third return value is
// false when fewer than four characters remain, the length field is not
// numeric, or the declared length runs past the end of the input. It never
// indexes out of bounds; callers feed it raw scanned data.
func DecodeUnit(data string, offset int) (Unit, int, bool) {
	if offset < 0 || offset+HeaderLen > len(data) {
		return Unit{}, offset, false
	}

	tag := data[offset : offset+TagLen]
	if !isDigits(tag) {
		return Unit{}, offset, false
	}

	lengthStr := data[offset+TagLen : offset+HeaderLen]
	if !isDigits(lengthStr) {
		return Unit{}, offset, false
	}
	length := int(lengthStr[0]-'0')*10 + int(lengthStr[1]-'0')

	valueStart := offset + HeaderLen
	if valueStart+length > len(data) {
		return Unit{}, offset, false
	}

	unit := Unit{
		Tag:    tag,
		Length: length,
		Value:  data[valueStart : valueStart+length],
	}
	return unit, valueStart + length, true
}

// DecodeAll walks the input from offset zero and collects every unit it can
// decode, stopping silently at the first undecodable position. Trailing
// garbage is tolerated here; completeness is a validator concern.
func DecodeAll(data string) []Unit {
	units, _ := DecodeAllWithRest(data)
	return units
}

// DecodeAllWithRest decodes like DecodeAll and also reports the offset where
// decoding stopped. A fully well-formed string consumes len(data); anything
// less means an undecodable region starts at the returned offset.
func DecodeAllWithRest(data string) ([]Unit, int) {
	units := make([]Unit, 0, 16)
	offset := 0
	for offset < len(data) {
		unit, next, ok := DecodeUnit(data, offset)
		if !ok {
			break
		}
		units = append(units, unit)
		offset = next
	}
	return units, offset
}

// DecodeNested decodes a template's inner value into a flat tag-to-value map.
// Duplicate sub-tags keep the last occurrence.
func DecodeNested(value string) map[string]string {
	m := make(map[string]string)
	for _, unit := range DecodeAll(value) {
		m[unit.Tag] = unit.Value
	}
	return m
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Package crc16 implements the NAMQR checksum: ISO/IEC 13239 CRC-16 with
// polynomial 0x1021, initial register 0xFFFF, MSB-first shifts and no final
// XOR. The checksum covers the payload up to and including the literal
// "6304" marker (the CRC unit's own tag and length) but never the 4-character
// checksum value itself. That prefix convention is mandated by the standard
// and must not be changed.
package crc16

import (
	"fmt"
	"strings"
)

const (
	polynomial = 0x1021
	initial    = 0xFFFF

	// Marker is the tag-plus-length prefix of the trailing CRC unit.
	Marker = "6304"
	// Size is the number of hex characters in the checksum value.
	Size = 4
)

// Result reports the outcome of verifying a payload's trailing checksum.
type Result struct {
	IsValid  bool
	Expected string
	Actual   string
}

// Checksum computes the CRC over every byte of data and returns it as four
// uppercase hex digits.
func Checksum(data string) string {
	crc := uint16(initial)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ polynomial
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

// Append computes the checksum of data and returns data with the checksum
// value appended. The caller must have already appended the "6304" marker.
func Append(data string) string {
	return data + Checksum(data)
}

// Verify locates the last occurrence of the "6304" marker, recomputes the
// checksum over everything up to and including it, and compares the result
// against the four characters that follow. The last occurrence is
// authoritative because the CRC unit is always the final unit of a payload;
// an earlier "6304" can only be incidental content inside some value.
func Verify(qr string) Result {
	idx := strings.LastIndex(qr, Marker)
	if idx < 0 {
		return Result{}
	}

	prefix := qr[:idx+len(Marker)]
	actual := qr[idx+len(Marker):]
	expected := Checksum(prefix)

	return Result{
		IsValid:  len(actual) == Size && actual == expected,
		Expected: expected,
		Actual:   actual,
	}
}

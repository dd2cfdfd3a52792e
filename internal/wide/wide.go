// Package wide converts between Go strings and the NUL-terminated UTF-16
// buffers the cluster API expects. It is pure data transformation and is
// usable on every platform, which keeps the packages above it testable off
// Windows.
package wide

import (
	"errors"
	"unicode/utf16"
)

// ErrInteriorNUL is returned when a string cannot be marshaled because it
// contains a NUL byte before its end. A NUL would silently truncate the
// string at the native boundary.
var ErrInteriorNUL = errors.New("wide: string contains interior NUL")

// FromString encodes s as UTF-16 and appends the terminating NUL.
func FromString(s string) ([]uint16, error) {
	for _, r := range s {
		if r == 0 {
			return nil, ErrInteriorNUL
		}
	}
	buf := utf16.Encode([]rune(s))
	return append(buf, 0), nil
}

// ToString decodes a UTF-16 buffer up to its first NUL. Unpaired surrogates
// decode to U+FFFD rather than failing; names coming back from the cluster
// service are not guaranteed well-formed.
func ToString(buf []uint16) string {
	for i, c := range buf {
		if c == 0 {
			buf = buf[:i]
			break
		}
	}
	return string(utf16.Decode(buf))
}

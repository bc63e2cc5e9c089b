// Package fingerprint derives the short, filesystem-safe token that names a
// URL's cache record and image files.
package fingerprint

import (
	"fmt"
	"unicode/utf16"
)

const (
	offsetBasis uint32 = 0x811c9dc5
	prime       uint32 = 16777619
)

// Of returns the 32-bit FNV-1a hash of url as 8 lowercase hex characters.
//
// The hash runs over UTF-16 code units rather than bytes so that names stay
// compatible with images written by earlier deployments. For ASCII input the
// result is identical to FNV-1a over the raw bytes.
func Of(url string) string {
	h := offsetBasis
	for _, unit := range utf16.Encode([]rune(url)) {
		h ^= uint32(unit)
		h *= prime
	}
	return fmt.Sprintf("%08x", h)
}

// Valid reports whether s has the shape of a fingerprint.
func Valid(s string) bool {
	if len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

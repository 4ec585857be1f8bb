// Package objectid generates and validates the 24-character hexadecimal
// identifiers assigned to stored records.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// New returns a fresh 24-character lowercase hex identifier.
// The leading four bytes encode the creation time, so ids sort
// roughly by age; the remaining eight bytes are random.
func New() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic("objectid: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// Valid reports whether s is a syntactically well-formed identifier:
// exactly 24 hexadecimal characters. Validity is independent of whether
// a record with this id exists.
func Valid(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}

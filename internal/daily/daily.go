// internal/daily/daily.go
//
// Daily deal selection.
// Every player gets the same shuffle on a given UTC date: the seed is
// HMAC-SHA256(salt, YYYY-MM-DD), first 8 bytes big-endian.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ValidDate reports whether s is a YYYY-MM-DD date key.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Seed returns the deal seed for date.
func Seed(date time.Time, salt string) uint64 {
	return SeedFor(DateKey(date), salt)
}

// SeedFor is Seed for an already formatted date key.
func SeedFor(dateKey, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

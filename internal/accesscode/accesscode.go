// Package accesscode generates and normalizes the short codes respondents use
// to open their report.
package accesscode

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/fmpulse/fmpulse/internal/errors"
)

// Length of an access code.
const Length = 4

// alphabet leaves out characters that are easy to confuse when read from an
// email (I/1, O/0).
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// New generates a random access code.
func New() (string, error) {
	var b strings.Builder
	for range Length {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", errors.Wrap(err, "read random index")
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

// Normalize upper-cases the code and strips everything that is not a letter or
// a digit. Lookups are case-insensitive and users paste codes with surrounding
// whitespace or dashes.
func Normalize(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether the normalized code has the expected shape.
func Valid(code string) bool {
	return len(Normalize(code)) == Length
}

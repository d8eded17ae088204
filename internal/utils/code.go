package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

var codeMax = big.NewInt(1000000)

// NewCode produces a uniformly random 6-digit numeric code, zero-padded
// ("000000" through "999999").  crypto/rand keeps each code independent of
// prior outputs; rand.Int rejects biased draws so the distribution is
// uniform.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// CodeEqual compares a stored and a submitted code in constant time.
func CodeEqual(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

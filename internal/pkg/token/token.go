package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// NumericCode returns a uniformly random string of n decimal digits.
// Leading zeros are kept, so the length is always n.
func NumericCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate code digit: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// Intn returns a uniform random integer in [0, max).
func Intn(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("random int: %w", err)
	}
	return n.Int64(), nil
}

package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestNumericCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NumericCode(6)
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestNumericCode_InvalidLength(t *testing.T) {
	_, err := NumericCode(0)
	assert.Error(t, err)
}

func TestIntn_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := Intn(10)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(0))
		assert.Less(t, n, int64(10))
	}
}

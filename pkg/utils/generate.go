package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateOTP creates a numeric OTP of the given length. The first digit is
// never zero so the code always keeps its length when handled as a number.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			n = big.NewInt(0)
		}
		sb.WriteByte(byte('0' + lo + n.Int64()))
	}

	return sb.String()
}

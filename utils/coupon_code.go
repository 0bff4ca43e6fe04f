// utils/coupon_code.go
package utils

import "math/rand"

const (
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	codeDigits  = "0123456789"
	codeSymbols = "!@#$%^&*()"

	// CouponCodeLength is the fixed length of generated codes.
	CouponCodeLength = 8
)

// GenerateCouponCode produces a fixed-length code guaranteed to contain at
// least one letter, one digit and one symbol, with the remaining positions
// drawn from the combined alphabet and the whole string shuffled.
func GenerateCouponCode() string {
	combined := codeLetters + codeDigits + codeSymbols

	code := make([]byte, 0, CouponCodeLength)
	code = append(code, codeLetters[rand.Intn(len(codeLetters))])
	code = append(code, codeDigits[rand.Intn(len(codeDigits))])
	code = append(code, codeSymbols[rand.Intn(len(codeSymbols))])
	for len(code) < CouponCodeLength {
		code = append(code, combined[rand.Intn(len(combined))])
	}

	rand.Shuffle(len(code), func(i, j int) {
		code[i], code[j] = code[j], code[i]
	})
	return string(code)
}

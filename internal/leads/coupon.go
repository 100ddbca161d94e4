package leads

import (
	"crypto/rand"
	"math/big"
)

const couponAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCouponCode returns a code like SNATCH-7K2Q9X. Codes are random
// rather than sequential so they can't be guessed from an earlier one.
func GenerateCouponCode() string {
	buf := make([]byte, 6)
	max := big.NewInt(int64(len(couponAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken;
			// fall back to a fixed character rather than panicking mid-request.
			buf[i] = 'X'
			continue
		}
		buf[i] = couponAlphabet[n.Int64()]
	}
	return "SNATCH-" + string(buf)
}

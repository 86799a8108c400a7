package logutil

import (
	"crypto/rand"
	"math/big"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(n int) string {
	max := big.NewInt(int64(len(idAlphabet)))

	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken. A constant is still a usable trace ID.
			b[i] = idAlphabet[0]
			continue
		}
		b[i] = idAlphabet[num.Int64()]
	}

	return string(b)
}

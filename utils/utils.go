package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateToken returns a random base62 string of the given length,
// used for fixture unique links and crest object keys.
func GenerateToken(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is not recoverable here.
			panic(err)
		}
		b[i] = tokenCharset[n.Int64()]
	}
	return string(b)
}

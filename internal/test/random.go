package test

import (
	"math/rand/v2"
)

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 !#$%&*+-./:;=?@_~"

// RandomSecret returns a printable ASCII password with a length in
// [minLen, maxLen]. It may contain spaces and punctuation.
func RandomSecret(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = secretAlphabet[rand.IntN(len(secretAlphabet))]
	}
	return string(buf)
}

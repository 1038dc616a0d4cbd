package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// joinCodeCharset is digits plus lowercase letters
const joinCodeCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateJoinCode returns a uniformly random code of the given length over
// digits and lowercase letters.
func GenerateJoinCode(length int) (string, error) {
	max := big.NewInt(int64(len(joinCodeCharset)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeCharset[n.Int64()]
	}
	return string(code), nil
}

// IsJoinCode reports whether code has the shape GenerateJoinCode produces
func IsJoinCode(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(joinCodeCharset, r) {
			return false
		}
	}
	return true
}

// MatchJoinCode compares a stored code with one supplied by a user,
// ignoring case and surrounding whitespace. Malformed codes never match.
func MatchJoinCode(stored, supplied string) bool {
	supplied = strings.ToLower(strings.TrimSpace(supplied))
	return IsJoinCode(supplied, len(stored)) && stored == supplied
}

// Package randcode generates the random identifiers used across the
// service: group join codes, opaque invite tokens, and numeric OTPs.
package randcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// JoinCode returns a short uppercase alphanumeric code suitable for
// self-service group joins. Uniqueness is the caller's concern.
func JoinCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Token returns a hex-encoded random token of the given byte length,
// used for single-use invitation links.
func Token(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// OTP returns a 6-digit numeric one-time password as a string.
func OTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

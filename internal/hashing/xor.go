package hashing

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrLengthMismatch = errors.New("xor operands differ in length")

// XorBytes returns a XOR b. Both slices must have the same length.
func XorBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// XorHex XORs two equal-length hex strings and returns the result in hex.
func XorHex(a, b string) (string, error) {
	if len(a) != len(b) {
		return "", fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	ab, err := hex.DecodeString(a)
	if err != nil {
		return "", fmt.Errorf("decode left operand: %w", err)
	}
	bb, err := hex.DecodeString(b)
	if err != nil {
		return "", fmt.Errorf("decode right operand: %w", err)
	}
	x, err := XorBytes(ab, bb)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(x), nil
}

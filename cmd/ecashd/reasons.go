package main

import (
	"errors"

	"ecash/internal/ecash"
)

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ecash.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ecash.ErrMalformedCoin):
		return "malformed_coin"
	case errors.Is(err, ecash.ErrHashMismatch):
		return "hash_mismatch"
	case errors.Is(err, ecash.ErrInvalidProof):
		return "invalid_proof"
	case errors.Is(err, ecash.ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "other"
	}
}

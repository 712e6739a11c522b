package ecash

import "errors"

var (
	// ErrInvalidParameter rejects bad construction inputs. The caller must not proceed.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidSignature means the bank signature on a coin does not verify.
	ErrInvalidSignature = errors.New("invalid coin signature")
	// ErrMalformedCoin means the canonical coin string has the wrong tag or shape.
	ErrMalformedCoin = errors.New("malformed coin")
	// ErrHashMismatch is tamper evidence: a share or digest does not match its commitment.
	ErrHashMismatch = errors.New("hash mismatch")
	// ErrInvalidProof means the coin's well-formedness proof is missing or does not verify.
	ErrInvalidProof = errors.New("invalid well-formedness proof")
)

// issuer.go - The bank side of coin issuance.

package ecash

import (
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"ecash/internal/blindsig"
)

// Issuer signs blinded coin digests with the bank key. It only ever sees
// blinded values, never a coin, its digest or its owner.
//
// The key is created once at startup and handed to the Issuer; it is never
// mutated, so an Issuer may be shared between goroutines.
type Issuer struct {
	key *blindsig.PrivateKey
	log zerolog.Logger
}

// NewIssuer returns an Issuer signing with key.
func NewIssuer(key *blindsig.PrivateKey, logger zerolog.Logger) (*Issuer, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: missing bank key", ErrInvalidParameter)
	}
	return &Issuer{
		key: key,
		log: logger.With().Str("component", "issuer").Logger(),
	}, nil
}

// PublicKey is the verification key wallets copy into their coins.
func (is *Issuer) PublicKey() *blindsig.PublicKey {
	return is.key.Public()
}

// Sign produces a blind signature over a blinded coin digest.
func (is *Issuer) Sign(blinded []byte) ([]byte, error) {
	if len(blinded) == 0 {
		return nil, fmt.Errorf("%w: empty blinded value", ErrInvalidParameter)
	}
	sig, err := blindsig.Sign(is.key, blinded)
	if err != nil {
		is.log.Warn().Err(err).Msg("refusing to sign blinded value")
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	is.log.Debug().Str("blinded_prefix", shortHex(blinded)).Msg("signed blinded coin")
	return sig, nil
}

// Issue runs the wallet/bank exchange for a freshly created coin: blind, sign,
// unblind. The issuer only receives the blinded value.
func Issue(c *Coin, is *Issuer) error {
	blinded, err := c.Blind()
	if err != nil {
		return err
	}
	blindSig, err := is.Sign(blinded)
	if err != nil {
		return err
	}
	return c.Unblind(blindSig)
}

func shortHex(b []byte) string {
	if len(b) > 8 {
		b = b[:8]
	}
	return hex.EncodeToString(b)
}

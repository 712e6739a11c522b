// merchant.go - Coin acceptance: signature check and per-slot challenge.

package ecash

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RIS is the revealed identity string: one share per slot, chosen by the merchant.
type RIS []string

// ProofVerifier checks a coin's well-formedness proof against its public commitments.
type ProofVerifier interface {
	Verify(proof []byte, leftHashes, rightHashes []string) error
}

// Acceptor is a merchant accepting coins. Acceptors keep no state between
// coins; a single Acceptor may serve concurrent redemptions if its Chooser can.
type Acceptor struct {
	name         string
	params       Params
	chooser      Chooser
	verifier     ProofVerifier
	requireProof bool
	log          zerolog.Logger
}

// AcceptorOption configures an Acceptor.
type AcceptorOption func(*Acceptor)

// WithChooser replaces the default CryptoChooser.
func WithChooser(c Chooser) AcceptorOption {
	return func(a *Acceptor) { a.chooser = c }
}

// WithProofVerifier checks coin proofs with v. When required is set, coins
// without a proof are rejected.
func WithProofVerifier(v ProofVerifier, required bool) AcceptorOption {
	return func(a *Acceptor) {
		a.verifier = v
		a.requireProof = required
	}
}

// NewAcceptor returns a merchant named name.
func NewAcceptor(name string, params Params, logger zerolog.Logger, opts ...AcceptorOption) (*Acceptor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	a := &Acceptor{
		name:    name,
		params:  params,
		chooser: CryptoChooser{},
		log:     logger.With().Str("component", "merchant").Str("merchant", name).Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.chooser == nil {
		return nil, fmt.Errorf("%w: nil chooser", ErrInvalidParameter)
	}
	return a, nil
}

// Name identifies the merchant in deposits and logs.
func (a *Acceptor) Name() string {
	return a.name
}

// AcceptCoin verifies coin and challenges it, returning the revealed shares.
// Nothing is recorded; presenting the same coin again yields a fresh,
// independently chosen RIS.
func (a *Acceptor) AcceptCoin(coin *Coin) (RIS, error) {
	ris, err := a.acceptCoin(coin)
	if err != nil {
		a.log.Warn().Err(err).Str("guid", coin.GUID).Msg("coin rejected")
		return nil, err
	}
	a.log.Info().Str("guid", coin.GUID).Int64("amount", coin.Amount).Msg("coin accepted")
	return ris, nil
}

func (a *Acceptor) acceptCoin(coin *Coin) (RIS, error) {
	// 1) Bank signature over the coin digest.
	if !coin.VerifySignature() {
		return nil, ErrInvalidSignature
	}

	// 2) Public commitments from the canonical string. The digest must be
	// reproducible from them, otherwise the commitments were swapped after signing.
	canonical := coin.Canonical()
	parsed, err := ParseCoin(canonical, a.params.Slots)
	if err != nil {
		return nil, err
	}
	if parsed.GUID != coin.GUID {
		return nil, fmt.Errorf("%w: guid mismatch", ErrMalformedCoin)
	}
	if got := a.params.Hasher.Sum([]byte(canonical)); got != coin.Hash {
		return nil, fmt.Errorf("%w: coin digest does not match its commitments", ErrHashMismatch)
	}
	if len(coin.IdentityBits) != a.params.Slots {
		return nil, fmt.Errorf("%w: %d share pairs, expected %d", ErrMalformedCoin, len(coin.IdentityBits), a.params.Slots)
	}

	if a.verifier != nil {
		switch {
		case len(coin.Proof) > 0:
			if err := a.verifier.Verify(coin.Proof, parsed.LeftHashes, parsed.RightHashes); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
			}
		case a.requireProof:
			return nil, fmt.Errorf("%w: coin carries no proof", ErrInvalidProof)
		}
	}

	// 3) Challenge every slot.
	ris := make(RIS, a.params.Slots)
	for i := 0; i < a.params.Slots; i++ {
		useLeft, err := a.chooser.UseLeft(i)
		if err != nil {
			return nil, fmt.Errorf("slot %d challenge: %w", i, err)
		}
		val, expected := coin.IdentityBits[i].Right, parsed.RightHashes[i]
		if useLeft {
			val, expected = coin.IdentityBits[i].Left, parsed.LeftHashes[i]
		}
		actual, err := hashShare(a.params.Hasher, val)
		if err != nil || actual != expected {
			return nil, fmt.Errorf("%w: slot %d", ErrHashMismatch, i)
		}
		ris[i] = val
	}
	return ris, nil
}

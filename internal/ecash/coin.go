// coin.go - Coin entity, canonical string encoding and blinding.
//
// The canonical string BankTag-amount-guid-leftHashes-rightHashes is what the
// bank signs (through its digest). The owner and the shares never appear in it.

package ecash

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"ecash/internal/blindsig"
)

// Prover attests that an identity commitment is well formed.
type Prover interface {
	Prove(id *IdentityCommitment, tag []byte) ([]byte, error)
}

// Coin is a value-bearing token. Its identity material is fixed at creation;
// only the blinded value and signature change afterwards.
type Coin struct {
	Amount int64
	GUID   string
	// Bank public key, copied so any verifier can check the signature offline.
	BankN string
	BankE string

	IdentityBits []SharePair
	LeftHashes   []string
	RightHashes  []string

	// Hash is the hex digest of the canonical string; the signed message.
	Hash      string
	Blinded   []byte
	Signature []byte
	// Proof is an optional well-formedness proof over LeftHashes/RightHashes.
	Proof []byte

	owner string
	blind *blindsig.State
}

type coinOptions struct {
	prover Prover
	guid   string
}

// CoinOption configures NewCoin.
type CoinOption func(*coinOptions)

// WithProver attaches a well-formedness proof produced by p.
func WithProver(p Prover) CoinOption {
	return func(o *coinOptions) { o.prover = p }
}

// WithGUID fixes the coin identifier instead of drawing a random one.
func WithGUID(guid string) CoinOption {
	return func(o *coinOptions) { o.guid = guid }
}

// NewGUID returns a random identifier in the dash-free form used by coins.
func NewGUID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewCoin creates a coin of amount for owner, to be signed by the bank holding pub.
func NewCoin(owner string, amount int64, pub *blindsig.PublicKey, params Params, opts ...CoinOption) (*Coin, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidParameter, amount)
	}
	if pub == nil || pub.N == nil {
		return nil, fmt.Errorf("%w: missing bank public key", ErrInvalidParameter)
	}
	var o coinOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.guid == "" {
		o.guid = NewGUID()
	}
	if strings.ContainsAny(o.guid, "-,") {
		return nil, fmt.Errorf("%w: guid %q contains a separator", ErrInvalidParameter, o.guid)
	}

	id, err := BuildIdentity(owner, params)
	if err != nil {
		return nil, err
	}

	c := &Coin{
		Amount:       amount,
		GUID:         o.guid,
		BankN:        pub.Modulus(),
		BankE:        pub.Exponent(),
		IdentityBits: id.Bits,
		LeftHashes:   id.LeftHashes,
		RightHashes:  id.RightHashes,
		owner:        owner,
	}
	c.Hash = params.Hasher.Sum([]byte(c.Canonical()))

	if o.prover != nil {
		tag, err := IdentityTag(owner)
		if err != nil {
			return nil, err
		}
		if c.Proof, err = o.prover.Prove(id, tag); err != nil {
			return nil, fmt.Errorf("well-formedness proof: %w", err)
		}
	}
	return c, nil
}

// Owner returns the identity the coin was created for. It is only known to
// the wallet that created the coin.
func (c *Coin) Owner() string {
	return c.owner
}

// Canonical returns BankTag-amount-guid-leftHashes-rightHashes.
func (c *Coin) Canonical() string {
	return strings.Join([]string{
		BankTag,
		strconv.FormatInt(c.Amount, 10),
		c.GUID,
		strings.Join(c.LeftHashes, ","),
		strings.Join(c.RightHashes, ","),
	}, "-")
}

func (c *Coin) String() string {
	return c.Canonical()
}

// PublicKey returns the bank key embedded in the coin.
func (c *Coin) PublicKey() (*blindsig.PublicKey, error) {
	return blindsig.ParsePublicKey(c.BankN, c.BankE)
}

func (c *Coin) digest() ([]byte, error) {
	d, err := hex.DecodeString(c.Hash)
	if err != nil || len(d) == 0 {
		return nil, fmt.Errorf("%w: bad coin hash", ErrMalformedCoin)
	}
	return d, nil
}

// Blind hides the coin digest from the bank and keeps the blinding state.
// The returned value is all the bank gets to see.
func (c *Coin) Blind() ([]byte, error) {
	pub, err := c.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCoin, err)
	}
	d, err := c.digest()
	if err != nil {
		return nil, err
	}
	blinded, st, err := blindsig.Blind(pub, d)
	if err != nil {
		return nil, fmt.Errorf("blinding coin %s: %w", c.GUID, err)
	}
	c.Blinded = blinded
	c.blind = st
	return blinded, nil
}

// Unblind turns the bank's blind signature into the coin signature.
func (c *Coin) Unblind(blindSig []byte) error {
	if c.blind == nil {
		return fmt.Errorf("%w: coin %s was never blinded", ErrInvalidParameter, c.GUID)
	}
	pub, err := c.PublicKey()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCoin, err)
	}
	sig, err := blindsig.Unblind(pub, blindSig, c.blind)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	c.Signature = sig
	c.blind = nil
	return nil
}

// VerifySignature checks Signature against Hash under the embedded bank key.
func (c *Coin) VerifySignature() bool {
	pub, err := c.PublicKey()
	if err != nil {
		return false
	}
	d, err := c.digest()
	if err != nil {
		return false
	}
	return blindsig.Verify(pub, d, c.Signature)
}

// ParsedCoin is the public content of a canonical coin string.
type ParsedCoin struct {
	Amount      int64
	GUID        string
	LeftHashes  []string
	RightHashes []string
}

// ParseCoin decodes a canonical coin string carrying exactly slots commitments
// on each side.
func ParseCoin(s string, slots int) (*ParsedCoin, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: expected 5 fields, got %d", ErrMalformedCoin, len(parts))
	}
	if parts[0] != BankTag {
		return nil, fmt.Errorf("%w: bank tag %q, expected %q", ErrMalformedCoin, parts[0], BankTag)
	}
	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("%w: bad amount %q", ErrMalformedCoin, parts[1])
	}
	if parts[2] == "" {
		return nil, fmt.Errorf("%w: empty guid", ErrMalformedCoin)
	}
	left, err := parseHashList(parts[3], slots)
	if err != nil {
		return nil, fmt.Errorf("%w: left hashes: %v", ErrMalformedCoin, err)
	}
	right, err := parseHashList(parts[4], slots)
	if err != nil {
		return nil, fmt.Errorf("%w: right hashes: %v", ErrMalformedCoin, err)
	}
	return &ParsedCoin{
		Amount:      amount,
		GUID:        parts[2],
		LeftHashes:  left,
		RightHashes: right,
	}, nil
}

func parseHashList(s string, slots int) ([]string, error) {
	hashes := strings.Split(s, ",")
	if len(hashes) != slots {
		return nil, fmt.Errorf("got %d entries, expected %d", len(hashes), slots)
	}
	for i, h := range hashes {
		if _, err := hex.DecodeString(h); err != nil || h == "" {
			return nil, fmt.Errorf("entry %d is not a hex digest", i)
		}
	}
	return hashes, nil
}

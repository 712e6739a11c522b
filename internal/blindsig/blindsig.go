// blindsig.go - RSA blind signatures for coin issuance (RFC 9474).
//
// The requester encodes its message with EMSA-PSS and multiplies it by r^e
// before handing it to the signer, so the signer never learns the message.
// Removing r yields an ordinary RSASSA-PSS signature that anyone holding
// (n, e) can check.
//
// All operations use the RSABSSA-SHA384-PSS-Deterministic variant: the
// message is signed as given, with a random PSS salt.

package blindsig

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/cloudflare/circl/blindsign/blindrsa"
)

// MinKeyBits is the smallest modulus accepted by GenerateKey.
const MinKeyBits = 1024

const variant = blindrsa.SHA384PSSDeterministic

var (
	ErrBlindedSize = errors.New("blinded value does not match the modulus size")
	ErrInvalidKey  = errors.New("invalid public key")
	ErrNotBlinded  = errors.New("missing blinding state")
)

// PublicKey is the bank's public verification key.
type PublicKey struct {
	N *big.Int
	E int
}

// Modulus returns n in decimal.
func (pk *PublicKey) Modulus() string { return pk.N.String() }

// Exponent returns e in decimal.
func (pk *PublicKey) Exponent() string { return strconv.Itoa(pk.E) }

// Size is the modulus length in bytes; blinded values and signatures have this length.
func (pk *PublicKey) Size() int { return (pk.N.BitLen() + 7) / 8 }

func (pk *PublicKey) rsaKey() (*rsa.PublicKey, error) {
	if pk == nil || pk.N == nil || pk.N.Sign() <= 0 {
		return nil, ErrInvalidKey
	}
	return &rsa.PublicKey{N: pk.N, E: pk.E}, nil
}

// ParsePublicKey rebuilds a public key from its decimal (n, e) form.
func ParsePublicKey(n, e string) (*PublicKey, error) {
	nInt, ok := new(big.Int).SetString(n, 10)
	if !ok || nInt.Sign() <= 0 {
		return nil, fmt.Errorf("%w: bad modulus", ErrInvalidKey)
	}
	eInt, err := strconv.Atoi(e)
	if err != nil || eInt < 3 || eInt%2 == 0 {
		return nil, fmt.Errorf("%w: bad exponent %q", ErrInvalidKey, e)
	}
	return &PublicKey{N: nInt, E: eInt}, nil
}

// PrivateKey holds the signing capability. It is read-only after generation.
type PrivateKey struct {
	PublicKey
	signer blindrsa.Signer
}

// GenerateKey creates a fresh signing key with a modulus of the given size.
func GenerateKey(bits int) (*PrivateKey, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("key size %d below minimum %d", bits, MinKeyBits)
	}
	k, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("rsa key generation failed: %w", err)
	}
	return &PrivateKey{
		PublicKey: PublicKey{N: k.N, E: k.E},
		signer:    blindrsa.NewSigner(k),
	}, nil
}

// Public returns the verification half of the key.
func (k *PrivateKey) Public() *PublicKey {
	return &k.PublicKey
}

// State is the requester's secret for one blinding. It must not be reused.
type State struct {
	st blindrsa.State
}

// Blind encodes and hides msg. It returns the blinded value for the signer and
// the state needed to unblind the answer, which the requester keeps.
func Blind(pub *PublicKey, msg []byte) ([]byte, *State, error) {
	key, err := pub.rsaKey()
	if err != nil {
		return nil, nil, err
	}
	client, err := blindrsa.NewClient(variant, key)
	if err != nil {
		return nil, nil, fmt.Errorf("blind client: %w", err)
	}
	blinded, st, err := client.Blind(rand.Reader, msg)
	if err != nil {
		return nil, nil, fmt.Errorf("blinding failed: %w", err)
	}
	return blinded, &State{st: st}, nil
}

// Sign signs a blinded value. The signer never sees the underlying message.
func Sign(key *PrivateKey, blinded []byte) ([]byte, error) {
	if len(blinded) != key.Size() || new(big.Int).SetBytes(blinded).Cmp(key.N) >= 0 {
		return nil, ErrBlindedSize
	}
	sig, err := key.signer.BlindSign(blinded)
	if err != nil {
		return nil, fmt.Errorf("blind signing failed: %w", err)
	}
	return sig, nil
}

// Unblind strips the blinding from a blind signature and checks the result.
func Unblind(pub *PublicKey, blindSig []byte, st *State) ([]byte, error) {
	if st == nil {
		return nil, ErrNotBlinded
	}
	key, err := pub.rsaKey()
	if err != nil {
		return nil, err
	}
	client, err := blindrsa.NewClient(variant, key)
	if err != nil {
		return nil, fmt.Errorf("blind client: %w", err)
	}
	sig, err := client.Finalize(st.st, blindSig)
	if err != nil {
		return nil, fmt.Errorf("unblinding failed: %w", err)
	}
	return sig, nil
}

// Verify reports whether sig is a valid signature on msg under pub.
func Verify(pub *PublicKey, msg, sig []byte) bool {
	key, err := pub.rsaKey()
	if err != nil || len(sig) == 0 {
		return false
	}
	v, err := blindrsa.NewVerifier(variant, key)
	if err != nil {
		return false
	}
	return v.Verify(msg, sig) == nil
}

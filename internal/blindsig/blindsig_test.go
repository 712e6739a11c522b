package blindsig

import (
	"crypto/sha256"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyOnce sync.Once
	testKey *PrivateKey
	keyErr  error
)

func sharedKey(t *testing.T) *PrivateKey {
	t.Helper()
	keyOnce.Do(func() { testKey, keyErr = GenerateKey(MinKeyBits) })
	require.NoError(t, keyErr)
	return testKey
}

func blindSign(t *testing.T, key *PrivateKey, msg []byte) []byte {
	t.Helper()
	blinded, st, err := Blind(key.Public(), msg)
	require.NoError(t, err)
	blindSig, err := Sign(key, blinded)
	require.NoError(t, err)
	sig, err := Unblind(key.Public(), blindSig, st)
	require.NoError(t, err)
	return sig
}

func TestBlindSignRoundTrip(t *testing.T) {
	key := sharedKey(t)

	msg := sha256.Sum256([]byte("coin"))
	blinded, st, err := Blind(key.Public(), msg[:])
	require.NoError(t, err)
	assert.Len(t, blinded, key.Size())
	assert.NotContains(t, string(blinded), string(msg[:]), "blinded value must not reveal the message")

	blindSig, err := Sign(key, blinded)
	require.NoError(t, err)

	sig, err := Unblind(key.Public(), blindSig, st)
	require.NoError(t, err)
	assert.Len(t, sig, key.Size())
	assert.True(t, Verify(key.Public(), msg[:], sig))

	other := sha256.Sum256([]byte("another coin"))
	assert.False(t, Verify(key.Public(), other[:], sig))
}

func TestBlindingIsRandomized(t *testing.T) {
	key := sharedKey(t)
	msg := []byte("same coin")

	a, _, err := Blind(key.Public(), msg)
	require.NoError(t, err)
	b, _, err := Blind(key.Public(), msg)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	bank := sharedKey(t)
	forger, err := GenerateKey(MinKeyBits)
	require.NoError(t, err)

	msg := sha256.Sum256([]byte("coin"))
	sig := blindSign(t, forger, msg[:])

	assert.True(t, Verify(forger.Public(), msg[:], sig))
	assert.False(t, Verify(bank.Public(), msg[:], sig))
	assert.False(t, Verify(bank.Public(), msg[:], nil))
	assert.False(t, Verify(nil, msg[:], sig))
}

func TestSignaturesAreNotMalleable(t *testing.T) {
	key := sharedKey(t)
	pub := key.Public()

	m1, m2 := []byte{0x02}, []byte{0x03}
	s1 := new(big.Int).SetBytes(blindSign(t, key, m1))
	s2 := new(big.Int).SetBytes(blindSign(t, key, m2))

	product := new(big.Int).Mul(s1, s2)
	product.Mod(product, pub.N)
	forged := product.FillBytes(make([]byte, pub.Size()))

	assert.False(t, Verify(pub, []byte{0x06}, forged), "product of signatures must not sign the product of messages")
	assert.False(t, Verify(pub, m1, forged))

	one := make([]byte, pub.Size())
	one[len(one)-1] = 1
	assert.False(t, Verify(pub, []byte{0x01}, one))
	assert.False(t, Verify(pub, []byte{0x01}, []byte{0x01}))
}

func TestUnblindNeedsState(t *testing.T) {
	key := sharedKey(t)
	_, err := Unblind(key.Public(), make([]byte, key.Size()), nil)
	assert.ErrorIs(t, err, ErrNotBlinded)
}

func TestPublicKeyText(t *testing.T) {
	key := sharedKey(t)

	pub, err := ParsePublicKey(key.Modulus(), key.Exponent())
	require.NoError(t, err)
	assert.Equal(t, 0, pub.N.Cmp(key.N))
	assert.Equal(t, key.E, pub.E)

	_, err = ParsePublicKey("not-a-number", "65537")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = ParsePublicKey(key.Modulus(), "4")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestKeyAndBlindedBounds(t *testing.T) {
	_, err := GenerateKey(512)
	assert.Error(t, err)

	key := sharedKey(t)
	_, err = Sign(key, key.N.Bytes())
	assert.ErrorIs(t, err, ErrBlindedSize)
	_, err = Sign(key, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrBlindedSize)
}

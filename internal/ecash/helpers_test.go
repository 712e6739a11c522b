package ecash

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ecash/internal/blindsig"
	"ecash/internal/hashing"
)

var (
	bankKeyOnce sync.Once
	bankKey     *blindsig.PrivateKey
	bankKeyErr  error
)

// testIssuer returns an issuer backed by a key shared across the package tests.
func testIssuer(t *testing.T) *Issuer {
	t.Helper()
	bankKeyOnce.Do(func() {
		bankKey, bankKeyErr = blindsig.GenerateKey(blindsig.MinKeyBits)
	})
	require.NoError(t, bankKeyErr, "bank key generation")
	is, err := NewIssuer(bankKey, zerolog.Nop())
	require.NoError(t, err)
	return is
}

func testParams(slots int) Params {
	return Params{Slots: slots, Hasher: hashing.MiMC{}}
}

// signedCoin creates and issues a coin for owner.
func signedCoin(t *testing.T, is *Issuer, owner string, amount int64, params Params) *Coin {
	t.Helper()
	c, err := NewCoin(owner, amount, is.PublicKey(), params)
	require.NoError(t, err)
	require.NoError(t, Issue(c, is))
	return c
}

func mustChoices(t *testing.T, s string) FixedChooser {
	t.Helper()
	f, err := ParseChoices(s)
	require.NoError(t, err, "ParseChoices(%q)", s)
	return f
}

func mustAcceptor(t *testing.T, name string, params Params, opts ...AcceptorOption) *Acceptor {
	t.Helper()
	a, err := NewAcceptor(name, params, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return a
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

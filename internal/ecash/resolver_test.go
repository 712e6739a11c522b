package ecash

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecash/internal/hashing"
)

func acceptWith(t *testing.T, c *Coin, params Params, choices string) RIS {
	t.Helper()
	ris, err := mustAcceptor(t, "merchant-"+choices, params, WithChooser(mustChoices(t, choices))).AcceptCoin(c)
	require.NoError(t, err)
	return ris
}

func TestDoubleSpenderIdentified(t *testing.T) {
	is := testIssuer(t)
	params := testParams(4)
	c := signedCoin(t, is, "alice", 20, params)

	ris1 := acceptWith(t, c, params, "LRLR")
	ris2 := acceptWith(t, c, params, "LLLR")

	v := DetermineCheater(c.GUID, ris1, ris2)
	assert.Equal(t, DoubleSpenderIdentified, v.Kind)
	assert.Equal(t, "alice", v.Owner)
	assert.Equal(t, 1, v.Slot)
	assert.Equal(t, c.GUID, v.GUID)
	assert.Contains(t, v.String(), "alice")
}

func TestMerchantReusedRIS(t *testing.T) {
	is := testIssuer(t)
	params := testParams(4)
	c := signedCoin(t, is, "alice", 20, params)

	ris1 := acceptWith(t, c, params, "LRLR")
	ris2 := acceptWith(t, c, params, "LRLR")

	v := DetermineCheater(c.GUID, ris1, ris2)
	assert.Equal(t, MerchantReusedRIS, v.Kind)
	assert.Equal(t, -1, v.Slot)
	assert.Empty(t, v.Owner)

	assert.Equal(t, MerchantReusedRIS, DetermineCheater(c.GUID, ris1, ris1).Kind)
}

func TestMerchantFraud(t *testing.T) {
	is := testIssuer(t)
	params := testParams(4)
	c := signedCoin(t, is, "alice", 20, params)
	ris := acceptWith(t, c, params, "LLLL")

	forged := append(RIS(nil), ris...)
	forged[2] = c.IdentityBits[3].Right
	v := DetermineCheater(c.GUID, ris, forged)
	assert.Equal(t, MerchantFraud, v.Kind)
	assert.Equal(t, 2, v.Slot)

	garbage := append(RIS(nil), ris...)
	garbage[0] = "not hex"
	assert.Equal(t, MerchantFraud, DetermineCheater(c.GUID, ris, garbage).Kind)

	assert.Equal(t, MerchantFraud, DetermineCheater(c.GUID, ris, ris[:3]).Kind)
}

func TestRandomDoubleSpendRevealsOwner(t *testing.T) {
	is := testIssuer(t)
	params := testParams(DefaultSlots * 2)
	for _, owner := range []string{"alice", "bob", "a-very-long-owner-name-xyz"} {
		c := signedCoin(t, is, owner, 5, params)
		ris1, err := mustAcceptor(t, "m1", params).AcceptCoin(c)
		require.NoError(t, err)
		ris2, err := mustAcceptor(t, "m2", params, WithChooser(NewSeededChooser(7))).AcceptCoin(c)
		require.NoError(t, err)

		v := DetermineCheater(c.GUID, ris1, ris2)
		require.Equal(t, DoubleSpenderIdentified, v.Kind, v.String())
		assert.Equal(t, owner, v.Owner)
	}
}

func TestVerdictKindString(t *testing.T) {
	assert.Equal(t, "double_spender_identified", DoubleSpenderIdentified.String())
	assert.Equal(t, "merchant_fraud", MerchantFraud.String())
	assert.Equal(t, "merchant_reused_ris", MerchantReusedRIS.String())
	assert.Equal(t, "verdict(9)", VerdictKind(9).String())
}

// reportsRevealing returns two one-slot reports whose shares XOR to tag.
func reportsRevealing(t *testing.T, tag []byte) (RIS, RIS) {
	t.Helper()
	share := strings.Repeat("5a", ShareSize)
	other, err := hashing.XorHex(share, hex.EncodeToString(tag))
	require.NoError(t, err)
	return RIS{share}, RIS{other}
}

func TestMalformedTagIsMerchantFraud(t *testing.T) {
	padded := func(s string) []byte {
		tag := make([]byte, ShareSize)
		copy(tag, s)
		return tag
	}
	cases := map[string][]byte{
		"empty owner":    padded(IdentPrefix),
		"interior NUL":   padded(IdentPrefix + "a\x00\x00b"),
		"short tag":      []byte(IdentPrefix + "alice"),
		"missing prefix": padded("alice"),
	}
	for name, tag := range cases {
		t.Run(name, func(t *testing.T) {
			ris1, ris2 := reportsRevealing(t, tag)
			v := DetermineCheater("guid", ris1, ris2)
			assert.Equal(t, MerchantFraud, v.Kind)
			assert.Empty(t, v.Owner)
			assert.Equal(t, 0, v.Slot)
		})
	}

	valid, err := IdentityTag("alice")
	require.NoError(t, err)
	ris1, ris2 := reportsRevealing(t, valid)
	v := DetermineCheater("guid", ris1, ris2)
	assert.Equal(t, DoubleSpenderIdentified, v.Kind)
	assert.Equal(t, "alice", v.Owner)
}

package ecash

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecash/internal/hashing"
)

func TestBuildIdentityInvariants(t *testing.T) {
	for _, h := range []hashing.Hasher{hashing.MiMC{}, hashing.SHA3{}} {
		t.Run(h.Name(), func(t *testing.T) {
			params := Params{Slots: 8, Hasher: h}
			id, err := BuildIdentity("alice", params)
			require.NoError(t, err)
			require.Len(t, id.Bits, 8)
			require.Len(t, id.LeftHashes, 8)
			require.Len(t, id.RightHashes, 8)

			for i, pair := range id.Bits {
				assert.Len(t, pair.Left, 2*ShareSize, "slot %d", i)
				assert.Len(t, pair.Right, 2*ShareSize, "slot %d", i)

				left, err := hashShare(h, pair.Left)
				require.NoError(t, err)
				assert.Equal(t, id.LeftHashes[i], left, "slot %d left hash", i)
				right, err := hashShare(h, pair.Right)
				require.NoError(t, err)
				assert.Equal(t, id.RightHashes[i], right, "slot %d right hash", i)

				x, err := hashing.XorHex(pair.Left, pair.Right)
				require.NoError(t, err)
				tag, err := hex.DecodeString(x)
				require.NoError(t, err)
				owner, ok := OwnerFromTag(tag)
				assert.True(t, ok, "slot %d", i)
				assert.Equal(t, "alice", owner, "slot %d", i)
			}
		})
	}
}

func TestBuildIdentitySharesAreFresh(t *testing.T) {
	id, err := BuildIdentity("alice", testParams(4))
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, pair := range id.Bits {
		require.False(t, seen[pair.Right], "right share repeated across slots")
		seen[pair.Right] = true
	}
}

func TestBuildIdentityRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		owner  string
		params Params
	}{
		{"empty owner", "", testParams(4)},
		{"zero slots", "alice", testParams(0)},
		{"no hasher", "alice", Params{Slots: 4}},
		{"owner too long", strings.Repeat("a", MaxOwnerLen+1), testParams(4)},
		{"owner with NUL", "al\x00ice", testParams(4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildIdentity(tc.owner, tc.params)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestIdentityTag(t *testing.T) {
	owner := strings.Repeat("z", MaxOwnerLen)
	tag, err := IdentityTag(owner)
	require.NoError(t, err)
	require.Len(t, tag, ShareSize)

	got, ok := OwnerFromTag(tag)
	assert.True(t, ok)
	assert.Equal(t, owner, got)

	_, ok = OwnerFromTag([]byte("NOPE:alice"))
	assert.False(t, ok, "tag without prefix")
}

func TestOwnerFromTagRejectsUnproducibleTags(t *testing.T) {
	empty := make([]byte, ShareSize)
	copy(empty, IdentPrefix)
	_, ok := OwnerFromTag(empty)
	assert.False(t, ok, "prefix with no owner")

	interior := make([]byte, ShareSize)
	copy(interior, IdentPrefix+"a\x00\x00b")
	_, ok = OwnerFromTag(interior)
	assert.False(t, ok, "owner with interior NUL")

	_, ok = OwnerFromTag([]byte(IdentPrefix + "alice"))
	assert.False(t, ok, "unpadded tag")
}

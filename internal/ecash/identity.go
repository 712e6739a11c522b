// identity.go - Identity commitments: XOR-split shares of the owner's identity tag.
//
// For every slot a random right share is drawn and the left share is derived as
// right XOR tag, where tag is IdentPrefix+owner padded to ShareSize. Either share
// alone is uniformly random; both together reveal the tag.

package ecash

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"ecash/internal/hashing"
)

// SharePair holds the two hex-encoded halves of one slot.
type SharePair struct {
	Left  string
	Right string
}

// IdentityCommitment is the secret share material of a coin and its public hashes.
type IdentityCommitment struct {
	Bits        []SharePair
	LeftHashes  []string
	RightHashes []string
}

// IdentityTag encodes IdentPrefix+owner as a ShareSize byte string padded with zeros.
func IdentityTag(owner string) ([]byte, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: empty owner", ErrInvalidParameter)
	}
	if len(owner) > MaxOwnerLen {
		return nil, fmt.Errorf("%w: owner longer than %d bytes", ErrInvalidParameter, MaxOwnerLen)
	}
	if strings.IndexByte(owner, 0) >= 0 {
		return nil, fmt.Errorf("%w: owner contains NUL", ErrInvalidParameter)
	}
	tag := make([]byte, ShareSize)
	copy(tag, IdentPrefix+owner)
	return tag, nil
}

// OwnerFromTag recovers the owner from a decoded tag. It reports false for any
// byte string IdentityTag could not have produced.
func OwnerFromTag(tag []byte) (string, bool) {
	if len(tag) != ShareSize || !bytes.HasPrefix(tag, []byte(IdentPrefix)) {
		return "", false
	}
	owner := bytes.TrimRight(tag[len(IdentPrefix):], "\x00")
	if len(owner) == 0 || bytes.IndexByte(owner, 0) >= 0 {
		return "", false
	}
	return string(owner), true
}

// BuildIdentity produces params.Slots share pairs for owner together with their
// hash commitments.
func BuildIdentity(owner string, params Params) (*IdentityCommitment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	tag, err := IdentityTag(owner)
	if err != nil {
		return nil, err
	}

	id := &IdentityCommitment{
		Bits:        make([]SharePair, params.Slots),
		LeftHashes:  make([]string, params.Slots),
		RightHashes: make([]string, params.Slots),
	}
	right := make([]byte, ShareSize)
	for i := 0; i < params.Slots; i++ {
		if _, err := rand.Read(right); err != nil {
			return nil, fmt.Errorf("share randomness: %w", err)
		}
		left, err := hashing.XorBytes(right, tag)
		if err != nil {
			return nil, err
		}
		id.Bits[i] = SharePair{
			Left:  hex.EncodeToString(left),
			Right: hex.EncodeToString(right),
		}
		id.LeftHashes[i] = params.Hasher.Sum(left)
		id.RightHashes[i] = params.Hasher.Sum(right)
	}
	return id, nil
}

// hashShare hashes the raw bytes of a hex share.
func hashShare(h hashing.Hasher, share string) (string, error) {
	b, err := hex.DecodeString(share)
	if err != nil {
		return "", err
	}
	return h.Sum(b), nil
}

package ecash

import (
	"fmt"

	"ecash/internal/hashing"
)

const (
	// IdentPrefix marks a decoded identity tag.
	IdentPrefix = "IDENT:"
	// BankTag opens every canonical coin string.
	BankTag = "ECASHBANK"
	// ShareSize is the byte length of every identity share and identity tag.
	ShareSize = 32
	// MaxOwnerLen is the longest owner identity that fits in a tag.
	MaxOwnerLen = ShareSize - len(IdentPrefix)
	// DefaultSlots is the default number of challenge slots per coin.
	DefaultSlots = 20
)

// Params are the protocol parameters shared by wallets, the bank and merchants.
type Params struct {
	// Slots is the number of identity share pairs in a coin (COIN_RIS_LENGTH).
	Slots int
	// Hasher produces the share commitments and the coin digest.
	Hasher hashing.Hasher
}

// DefaultParams returns DefaultSlots slots with MiMC commitments.
func DefaultParams() Params {
	return Params{
		Slots:  DefaultSlots,
		Hasher: hashing.MiMC{},
	}
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.Slots < 1 {
		return fmt.Errorf("%w: slots must be at least 1, got %d", ErrInvalidParameter, p.Slots)
	}
	if p.Hasher == nil {
		return fmt.Errorf("%w: no hash function", ErrInvalidParameter)
	}
	return nil
}

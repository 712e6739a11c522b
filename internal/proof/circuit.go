package proof

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"ecash/internal/ecash"
)

// shareBits is the bit width of a share and of the identity tag.
const shareBits = 8 * ecash.ShareSize

// CircuitWellFormed proves that every slot of a coin splits the same identity tag.
//
// For each slot i:
//   - MiMC(Left[i], ShareSize) == LeftHashes[i] and likewise on the right,
//     matching hashing.MiMC on a 32-byte share;
//   - Left[i] XOR Right[i] == Tag bit by bit;
//
// and the top bytes of Tag spell IdentPrefix. The tag itself stays private.
type CircuitWellFormed struct {
	// ====== PUBLIC VARIABLES ======
	LeftHashes  []frontend.Variable `gnark:",public"`
	RightHashes []frontend.Variable `gnark:",public"`

	// ====== PRIVATE VARIABLES ======
	Left  []frontend.Variable
	Right []frontend.Variable
	Tag   frontend.Variable
}

// NewCircuit allocates a circuit for coins with the given number of slots.
func NewCircuit(slots int) *CircuitWellFormed {
	return &CircuitWellFormed{
		LeftHashes:  make([]frontend.Variable, slots),
		RightHashes: make([]frontend.Variable, slots),
		Left:        make([]frontend.Variable, slots),
		Right:       make([]frontend.Variable, slots),
	}
}

// Define implements the circuit constraints.
func (c *CircuitWellFormed) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	// 1) Tag = IdentPrefix || padding
	tagBits := api.ToBinary(c.Tag, shareBits)
	prefixBits := tagBits[shareBits-8*len(ecash.IdentPrefix):]
	api.AssertIsEqual(api.FromBinary(prefixBits...), new(big.Int).SetBytes([]byte(ecash.IdentPrefix)))

	for i := range c.Left {
		// 2) Commitments
		hasher.Reset()
		hasher.Write(c.Left[i], ecash.ShareSize)
		api.AssertIsEqual(c.LeftHashes[i], hasher.Sum())

		hasher.Reset()
		hasher.Write(c.Right[i], ecash.ShareSize)
		api.AssertIsEqual(c.RightHashes[i], hasher.Sum())

		// 3) Left XOR Right == Tag
		leftBits := api.ToBinary(c.Left[i], shareBits)
		rightBits := api.ToBinary(c.Right[i], shareBits)
		for j := 0; j < shareBits; j++ {
			api.AssertIsEqual(api.Xor(leftBits[j], rightBits[j]), tagBits[j])
		}
	}
	return nil
}

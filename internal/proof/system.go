// Package proof produces and checks zero-knowledge proofs that a coin's identity
// commitments are well formed: every slot's two shares XOR to one tag that
// starts with ecash.IdentPrefix. A merchant only ever sees one share per slot,
// so without the proof it cannot tell whether a double spend would actually
// reveal the owner.
//
// Proofs are Groth16 over the BW6-761 scalar field and only apply to coins
// committed with hashing.MiMC.
package proof

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog"

	"ecash/internal/ecash"
)

var ErrSlotCount = errors.New("slot count does not match the circuit")

// System holds the compiled circuit and Groth16 keys for one slot count.
// It implements ecash.Prover and ecash.ProofVerifier and is safe for
// concurrent use once built.
type System struct {
	slots int
	ccs   constraint.ConstraintSystem
	pk    groth16.ProvingKey
	vk    groth16.VerifyingKey
	log   zerolog.Logger
}

// Compile compiles the well-formedness circuit for slots.
func Compile(slots int) (constraint.ConstraintSystem, error) {
	if slots < 1 {
		return nil, fmt.Errorf("%w: slots must be at least 1", ecash.ErrInvalidParameter)
	}
	ccs, err := frontend.Compile(ecc.BW6_761.ScalarField(), r1cs.NewBuilder, NewCircuit(slots))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	return ccs, nil
}

// NewSystem compiles the circuit and sets up its keys. With a non-empty keyDir
// the keys are loaded from, or saved to, that directory.
func NewSystem(slots int, keyDir string, logger zerolog.Logger) (*System, error) {
	log := logger.With().Str("component", "proof").Int("slots", slots).Logger()

	start := time.Now()
	ccs, err := Compile(slots)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("constraints", ccs.GetNbConstraints()).Dur("took", time.Since(start)).Msg("circuit compiled")

	var (
		pk groth16.ProvingKey
		vk groth16.VerifyingKey
	)
	start = time.Now()
	if keyDir == "" {
		pk, vk, err = groth16.Setup(ccs)
	} else {
		if err = os.MkdirAll(keyDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create key directory: %w", err)
		}
		pkPath, vkPath := KeyPaths(keyDir, slots)
		pk, vk, err = SetupOrLoadKeys(ccs, pkPath, vkPath)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("key_dir", keyDir).Dur("took", time.Since(start)).Msg("proving keys ready")

	return &System{slots: slots, ccs: ccs, pk: pk, vk: vk, log: log}, nil
}

// Slots is the slot count the system was compiled for.
func (s *System) Slots() int {
	return s.slots
}

// Prove attests that id splits tag in every slot.
func (s *System) Prove(id *ecash.IdentityCommitment, tag []byte) ([]byte, error) {
	if len(id.Bits) != s.slots || len(id.LeftHashes) != s.slots || len(id.RightHashes) != s.slots {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSlotCount, len(id.Bits), s.slots)
	}

	assignment := NewCircuit(s.slots)
	for i, pair := range id.Bits {
		var err error
		if assignment.Left[i], err = hexInt(pair.Left); err != nil {
			return nil, fmt.Errorf("slot %d left share: %w", i, err)
		}
		if assignment.Right[i], err = hexInt(pair.Right); err != nil {
			return nil, fmt.Errorf("slot %d right share: %w", i, err)
		}
		if assignment.LeftHashes[i], err = hexInt(id.LeftHashes[i]); err != nil {
			return nil, fmt.Errorf("slot %d left hash: %w", i, err)
		}
		if assignment.RightHashes[i], err = hexInt(id.RightHashes[i]); err != nil {
			return nil, fmt.Errorf("slot %d right hash: %w", i, err)
		}
	}
	assignment.Tag = new(big.Int).SetBytes(tag)

	start := time.Now()
	w, err := frontend.NewWitness(assignment, ecc.BW6_761.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(s.ccs, s.pk, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("proof marshaling failed: %w", err)
	}
	s.log.Debug().Dur("took", time.Since(start)).Msg("well-formedness proof generated")
	return buf.Bytes(), nil
}

// Verify checks a proof against a coin's public commitments.
func (s *System) Verify(proofBytes []byte, leftHashes, rightHashes []string) error {
	if len(leftHashes) != s.slots || len(rightHashes) != s.slots {
		return fmt.Errorf("%w: got %d/%d, want %d", ErrSlotCount, len(leftHashes), len(rightHashes), s.slots)
	}

	public := &CircuitWellFormed{
		LeftHashes:  make([]frontend.Variable, s.slots),
		RightHashes: make([]frontend.Variable, s.slots),
	}
	for i := 0; i < s.slots; i++ {
		var err error
		if public.LeftHashes[i], err = hexInt(leftHashes[i]); err != nil {
			return fmt.Errorf("slot %d left hash: %w", i, err)
		}
		if public.RightHashes[i], err = hexInt(rightHashes[i]); err != nil {
			return fmt.Errorf("slot %d right hash: %w", i, err)
		}
	}
	w, err := frontend.NewWitness(public, ecc.BW6_761.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}

	proof := groth16.NewProof(ecc.BW6_761)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("proof unmarshaling failed: %w", err)
	}
	if err := groth16.Verify(proof, s.vk, w); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}

func hexInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("%q is not hex", s)
	}
	return v, nil
}

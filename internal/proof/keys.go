// keys.go - Groth16 key persistence for the well-formedness circuit.
//
// Key files are named after the slot count, since a circuit compiled for one
// slot count cannot verify proofs for another.

package proof

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
)

// KeyPaths returns the proving and verifying key files for slots in dir.
func KeyPaths(dir string, slots int) (pkPath, vkPath string) {
	base := fmt.Sprintf("wellformed_%d", slots)
	return filepath.Join(dir, base+"_pk.bin"), filepath.Join(dir, base+"_vk.bin")
}

func writeKey(path string, key io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = key.WriteTo(f)
	return err
}

func readKey(path string, key io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = key.ReadFrom(f)
	return err
}

// SetupOrLoadKeys loads the key pair from pkPath/vkPath, or runs the Groth16
// setup for ccs and saves the result there.
func SetupOrLoadKeys(ccs constraint.ConstraintSystem, pkPath, vkPath string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk := groth16.NewProvingKey(ecc.BW6_761)
	vk := groth16.NewVerifyingKey(ecc.BW6_761)
	pkErr := readKey(pkPath, pk)
	vkErr := readKey(vkPath, vk)
	if pkErr == nil && vkErr == nil {
		return pk, vk, nil
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup failed: %w", err)
	}
	if err := writeKey(pkPath, pk); err != nil {
		return nil, nil, fmt.Errorf("saving proving key: %w", err)
	}
	if err := writeKey(vkPath, vk); err != nil {
		return nil, nil, fmt.Errorf("saving verifying key: %w", err)
	}
	return pk, vk, nil
}

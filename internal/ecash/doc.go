// Package ecash implements anonymous electronic cash on top of RSA blind signatures.
//
// Overview:
//   - A coin commits to its owner's identity through Slots pairs of secret shares.
//     Each pair XORs to IdentPrefix+owner; only the hashes of the shares enter the
//     signed canonical string.
//   - The bank signs the coin's digest blindly, so it cannot link a signature to
//     the withdrawal that produced it.
//   - A merchant verifies the bank signature and challenges the coin with one
//     random left/right choice per slot, collecting the revealed shares (the RIS).
//   - Two RIS reports for the same coin are compared by DetermineCheater. Differing
//     choices on any slot reveal the owner; identical reports mean the merchant
//     replayed an old RIS.
//
// Security Model:
//   - A single redemption reveals one share per slot and leaks nothing about the owner.
//   - Two honest redemptions agree on every slot with probability 2^-Slots.
//   - Commitments use hashing.MiMC by default, which lets the proof package attest
//     in zero knowledge that the unrevealed shares are consistent.
//
// The blind-signature primitive lives in internal/blindsig and the hash and XOR
// utilities in internal/hashing.
package ecash

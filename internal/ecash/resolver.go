// resolver.go - Double-spend resolution from two RIS reports of one coin.

package ecash

import (
	"encoding/hex"
	"fmt"

	"ecash/internal/hashing"
)

// VerdictKind is the outcome of comparing two redemption reports.
type VerdictKind int

const (
	// DoubleSpenderIdentified: the owner spent the coin twice and is revealed.
	DoubleSpenderIdentified VerdictKind = iota + 1
	// MerchantFraud: the reports differ but do not decode to an identity tag.
	MerchantFraud
	// MerchantReusedRIS: the reports are identical, so one was replayed.
	MerchantReusedRIS
)

func (k VerdictKind) String() string {
	switch k {
	case DoubleSpenderIdentified:
		return "double_spender_identified"
	case MerchantFraud:
		return "merchant_fraud"
	case MerchantReusedRIS:
		return "merchant_reused_ris"
	default:
		return fmt.Sprintf("verdict(%d)", int(k))
	}
}

// Verdict names who defrauded the system for a coin.
type Verdict struct {
	Kind VerdictKind
	GUID string
	// Owner is set for DoubleSpenderIdentified.
	Owner string
	// Slot is the first differing slot, or -1 if the reports agree everywhere.
	Slot int
}

func (v Verdict) String() string {
	switch v.Kind {
	case DoubleSpenderIdentified:
		return fmt.Sprintf("coin %s double-spent by %q (slot %d)", v.GUID, v.Owner, v.Slot)
	case MerchantFraud:
		return fmt.Sprintf("coin %s: merchant tampered with RIS values (slot %d)", v.GUID, v.Slot)
	case MerchantReusedRIS:
		return fmt.Sprintf("coin %s: merchant reused an RIS", v.GUID)
	default:
		return fmt.Sprintf("coin %s: %s", v.GUID, v.Kind)
	}
}

// DetermineCheater compares two RIS reports for coin guid. At the first slot
// where they differ the two shares are XORed; an IdentPrefix result names the
// owner, anything else is merchant fraud. Identical reports can only come from
// a replay. Reports of different lengths are treated as fabricated.
func DetermineCheater(guid string, ris1, ris2 RIS) Verdict {
	if len(ris1) != len(ris2) {
		return Verdict{Kind: MerchantFraud, GUID: guid, Slot: min(len(ris1), len(ris2))}
	}
	for i := range ris1 {
		if ris1[i] == ris2[i] {
			continue
		}
		x, err := hashing.XorHex(ris1[i], ris2[i])
		if err != nil {
			return Verdict{Kind: MerchantFraud, GUID: guid, Slot: i}
		}
		tag, err := hex.DecodeString(x)
		if err != nil {
			return Verdict{Kind: MerchantFraud, GUID: guid, Slot: i}
		}
		owner, ok := OwnerFromTag(tag)
		if !ok {
			return Verdict{Kind: MerchantFraud, GUID: guid, Slot: i}
		}
		return Verdict{Kind: DoubleSpenderIdentified, GUID: guid, Owner: owner, Slot: i}
	}
	return Verdict{Kind: MerchantReusedRIS, GUID: guid, Slot: -1}
}

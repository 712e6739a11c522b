// ledger.go - In-memory deposit ledger routing double deposits to the resolver.
//
// The ledger remembers the first RIS deposited for every coin. A second deposit
// of the same guid is not recorded; instead both reports are handed to
// DetermineCheater and the verdict is returned to the bank.
//
// The ledger lives in memory only and is safe for concurrent use.

package ecash

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Deposit is one merchant's redemption report.
type Deposit struct {
	GUID     string
	Merchant string
	RIS      RIS
}

// DepositLedger tracks redeemed coins by guid.
type DepositLedger struct {
	mu       sync.Mutex
	deposits map[string]Deposit
	verdicts []Verdict
	log      zerolog.Logger
}

// NewDepositLedger creates a new, empty ledger.
func NewDepositLedger(logger zerolog.Logger) *DepositLedger {
	return &DepositLedger{
		deposits: make(map[string]Deposit),
		log:      logger.With().Str("component", "ledger").Logger(),
	}
}

// Deposit records d. It returns a nil verdict for the first deposit of a coin
// and the resolver's verdict when the coin was already redeemed.
func (l *DepositLedger) Deposit(d Deposit) (*Verdict, error) {
	if d.GUID == "" || len(d.RIS) == 0 {
		return nil, fmt.Errorf("%w: deposit needs a guid and an RIS", ErrInvalidParameter)
	}

	l.mu.Lock()
	prev, seen := l.deposits[d.GUID]
	if !seen {
		l.deposits[d.GUID] = Deposit{GUID: d.GUID, Merchant: d.Merchant, RIS: append(RIS(nil), d.RIS...)}
		l.mu.Unlock()
		l.log.Debug().Str("guid", d.GUID).Str("merchant", d.Merchant).Msg("deposit recorded")
		return nil, nil
	}
	l.mu.Unlock()

	v := DetermineCheater(d.GUID, prev.RIS, d.RIS)
	l.mu.Lock()
	l.verdicts = append(l.verdicts, v)
	l.mu.Unlock()

	l.log.Warn().
		Str("guid", d.GUID).
		Str("first_merchant", prev.Merchant).
		Str("second_merchant", d.Merchant).
		Str("verdict", v.Kind.String()).
		Msg("double deposit detected")
	return &v, nil
}

// HasDeposit returns true if the coin has already been redeemed.
func (l *DepositLedger) HasDeposit(guid string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.deposits[guid]
	return ok
}

// Len returns the number of distinct redeemed coins.
func (l *DepositLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.deposits)
}

// Verdicts returns the verdicts produced so far, oldest first.
func (l *DepositLedger) Verdicts() []Verdict {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Verdict(nil), l.verdicts...)
}

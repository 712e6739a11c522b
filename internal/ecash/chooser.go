package ecash

import (
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand"
	"strings"
	"sync"
)

// Chooser decides, per slot, whether a merchant asks for the left share.
// Acceptances must draw independent choices for double-spend detection to work.
// An error aborts the acceptance.
type Chooser interface {
	UseLeft(slot int) (bool, error)
}

// CryptoChooser draws unbiased bits from Reader, crypto/rand when nil.
type CryptoChooser struct {
	Reader io.Reader
}

func (c CryptoChooser) UseLeft(int) (bool, error) {
	r := c.Reader
	if r == nil {
		r = rand.Reader
	}
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, fmt.Errorf("challenge randomness: %w", err)
	}
	return b[0]&1 == 1, nil
}

// SeededChooser draws bits from a seeded math/rand source. Use it for
// reproducible runs; it is safe for concurrent use.
type SeededChooser struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

func NewSeededChooser(seed int64) *SeededChooser {
	return &SeededChooser{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *SeededChooser) UseLeft(int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(2) == 0, nil
}

// FixedChooser replays a forced sequence of choices, true meaning left.
// Slots past the end wrap around.
type FixedChooser []bool

func (f FixedChooser) UseLeft(slot int) (bool, error) {
	if len(f) == 0 {
		return true, nil
	}
	return f[slot%len(f)], nil
}

// ParseChoices reads a sequence such as "LRLR" into a FixedChooser.
func ParseChoices(s string) (FixedChooser, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty choice sequence", ErrInvalidParameter)
	}
	f := make(FixedChooser, 0, len(s))
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'L':
			f = append(f, true)
		case 'R':
			f = append(f, false)
		default:
			return nil, fmt.Errorf("%w: choice %q is neither L nor R", ErrInvalidParameter, r)
		}
	}
	return f, nil
}

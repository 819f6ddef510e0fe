// Package reward defines the entries hidden under each tile and the deck
// they are dealt from.
package reward

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a Reward.
type Kind uint8

const (
	KindNone       Kind = iota // nothing revealed yet
	KindRoundBonus             // "+n": grows the round counter
	KindMultiplier             // "xn": grows the multiplier
	KindEnd                    // "END": concludes the round
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRoundBonus:
		return "round_bonus"
	case KindMultiplier:
		return "multiplier"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Reward is a tagged value: a round bonus, a multiplier bonus or the end
// marker. The zero value is "no reward".
type Reward struct {
	Kind Kind
	N    int // magnitude; zero for End and None
}

// ErrInvalidEntry is returned when a deck entry cannot be parsed.
var ErrInvalidEntry = errors.New("reward: invalid entry")

// RoundBonus returns a reward that grows the round counter by n.
func RoundBonus(n int) Reward {
	return Reward{Kind: KindRoundBonus, N: n}
}

// Multiplier returns a reward that grows the multiplier by n.
func Multiplier(n int) Reward {
	return Reward{Kind: KindMultiplier, N: n}
}

// End returns the terminal marker.
func End() Reward {
	return Reward{Kind: KindEnd}
}

// Parse converts the text form ("+2", "x1", "END") into a Reward.
// Magnitudes must be positive.
func Parse(s string) (Reward, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "END") {
		return End(), nil
	}
	if len(s) < 2 {
		return Reward{}, fmt.Errorf("%w %q", ErrInvalidEntry, s)
	}

	var kind Kind
	switch s[0] {
	case '+':
		kind = KindRoundBonus
	case 'x', 'X':
		kind = KindMultiplier
	default:
		return Reward{}, fmt.Errorf("%w %q: unknown prefix", ErrInvalidEntry, s)
	}

	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return Reward{}, fmt.Errorf("%w %q: %w", ErrInvalidEntry, s, err)
	}
	if n <= 0 {
		return Reward{}, fmt.Errorf("%w %q: magnitude must be positive", ErrInvalidEntry, s)
	}
	return Reward{Kind: kind, N: n}, nil
}

// IsZero reports whether no reward is set.
func (r Reward) IsZero() bool {
	return r.Kind == KindNone
}

// String returns the text form of the reward.
func (r Reward) String() string {
	switch r.Kind {
	case KindRoundBonus:
		return "+" + strconv.Itoa(r.N)
	case KindMultiplier:
		return "x" + strconv.Itoa(r.N)
	case KindEnd:
		return "END"
	default:
		return ""
	}
}

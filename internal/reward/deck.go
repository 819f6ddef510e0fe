package reward

import (
	"errors"
	"fmt"
)

// DefaultEntries is the fixed fifteen-entry layout in its text form.
var DefaultEntries = []string{
	"+2", "+1", "x1", "x1", "+2",
	"x1", "x1", "END", "+2", "+2",
	"x1", "+2", "+2", "+2", "+2",
}

// Deck validation errors.
var (
	ErrEmptyDeck    = errors.New("reward: deck is empty")
	ErrNoEnd        = errors.New("reward: deck has no END entry")
	ErrMultipleEnds = errors.New("reward: deck has more than one END entry")
)

// Shuffler is the random source used to permute a deck.
// *math/rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is an ordered sequence of rewards.
type Deck []Reward

// DefaultDeck returns the fixed fifteen-entry deck.
func DefaultDeck() Deck {
	d, err := ParseDeck(DefaultEntries)
	if err != nil {
		panic(fmt.Sprintf("reward: default deck: %v", err))
	}
	return d
}

// ParseDeck parses and validates a deck from its text entries.
func ParseDeck(entries []string) (Deck, error) {
	d := make(Deck, 0, len(entries))
	for i, e := range entries {
		r, err := Parse(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		d = append(d, r)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that the deck is non-empty, holds exactly one End and
// only positive magnitudes.
func (d Deck) Validate() error {
	if len(d) == 0 {
		return ErrEmptyDeck
	}
	ends := 0
	for i, r := range d {
		switch r.Kind {
		case KindEnd:
			ends++
		case KindRoundBonus, KindMultiplier:
			if r.N <= 0 {
				return fmt.Errorf("%w at %d: magnitude must be positive", ErrInvalidEntry, i)
			}
		default:
			return fmt.Errorf("%w at %d: empty reward", ErrInvalidEntry, i)
		}
	}
	switch {
	case ends == 0:
		return ErrNoEnd
	case ends > 1:
		return ErrMultipleEnds
	}
	return nil
}

// Shuffled returns a permutation of the deck drawn from s.
// The receiver is left untouched.
func (d Deck) Shuffled(s Shuffler) Deck {
	out := make(Deck, len(d))
	copy(out, d)
	if s != nil {
		s.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// Counts returns how many times each reward occurs in the deck.
func (d Deck) Counts() map[Reward]int {
	counts := make(map[Reward]int, len(d))
	for _, r := range d {
		counts[r]++
	}
	return counts
}

// Strings returns the text form of every entry.
func (d Deck) Strings() []string {
	out := make([]string, len(d))
	for i, r := range d {
		out[i] = r.String()
	}
	return out
}

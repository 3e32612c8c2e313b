// Package leaf rewrites strings with L-System grammars supporting simple,
// context-sensitive and stochastic productions.
package leaf

import (
	"context"
	"math/rand"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type LSystem struct {
	Parameters Parameters

	currentTier uint

	rng  Source
	tier []rune

	mu sync.Mutex
}

func New(parameters Parameters) *LSystem {
	// Prepare RNG
	randomNumberGenerator := rand.New(rand.NewSource(parameters.Seed))

	return NewWithSource(parameters, randomNumberGenerator)
}

// NewWithSource creates an LSystem drawing its stochastic outcomes from src,
// or from a generator seeded with parameters.Seed when src is nil.
func NewWithSource(parameters Parameters, src Source) *LSystem {
	if src == nil {
		src = rand.New(rand.NewSource(parameters.Seed))
	}
	return &LSystem{
		Parameters:  parameters,
		currentTier: 0,
		rng:         src,
		tier:        []rune(parameters.Axiom),
	}
}

// rewrite produces the next generation from input, only ever matching against input.
func rewrite(rules []Rule, input []rune, src Source, maxLength int) ([]rune, error) {
	output := make([]rune, 0, len(input))
	for i, letter := range input {
		// The first matching rule wins, no matching rule means identity
		matched := false
		for r := range rules {
			rule := &rules[r]
			if !rule.Matches(input, i) {
				continue
			}
			output = append(output, []rune(rule.Produce(src))...)
			matched = true
			break
		}
		if !matched {
			output = append(output, letter)
		}

		if maxLength > 0 && len(output) > maxLength {
			return nil, errors.Wrapf(ErrLengthExceeded, "more than %d symbols", maxLength)
		}
	}
	return output, nil
}

// Derivate runs one iteration of the l-system algorithm.
func (ls *LSystem) Derivate(ctx context.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	output, err := rewrite(ls.Parameters.Rules, ls.tier, ls.rng, ls.Parameters.MaxLength)
	if err != nil {
		return errors.Wrapf(err, "tier %d", ls.currentTier+1)
	}

	// Replace the tier
	ls.tier = output

	// Tier generated, ready to increment tier number
	ls.currentTier += 1

	return nil
}

// DerivateUntil runs iterations until a given number of tiers is achieved
func (ls *LSystem) DerivateUntil(ctx context.Context, maxTiers uint) error {
	for ls.CurrentTier() < maxTiers {
		err := ls.Derivate(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ls *LSystem) Export() string {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return string(ls.tier)
}

func (ls *LSystem) CurrentTier() uint {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return ls.currentTier
}

// Expand rewrites axiom over the given number of cycles.
func Expand(rules []Rule, axiom string, cycles int, src Source) (string, error) {
	return ExpandLimit(rules, axiom, cycles, src, 0)
}

// ExpandLimit is Expand failing with ErrLengthExceeded once a generation
// holds more than maxLength symbols. A maxLength of 0 disables the check.
//
// The axiom must be valid UTF-8.
func ExpandLimit(rules []Rule, axiom string, cycles int, src Source, maxLength int) (string, error) {
	if cycles < 0 {
		return "", errors.Wrapf(ErrInvalidInput, "cycle cannot be negative, got %d", cycles)
	}
	if !utf8.ValidString(axiom) {
		return "", errors.Wrapf(ErrInvalidInput, "axiom %q is not valid UTF-8", axiom)
	}

	ls := NewWithSource(Parameters{
		Axiom:     axiom,
		Rules:     rules,
		MaxLength: maxLength,
	}, src)
	if err := ls.DerivateUntil(context.Background(), uint(cycles)); err != nil {
		return "", err
	}
	return ls.Export(), nil
}

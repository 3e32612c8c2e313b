package leaf

import "strings"

// Source is the random source used by stochastic rules.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// RuleKind tags the variant of a compiled Rule.
type RuleKind uint8

const (
	// Inert rules never match.
	Inert RuleKind = iota
	// Simple rules replace their focus unconditionally.
	Simple
	// ContextSensitive rules replace their focus only when surrounded by the
	// given before/after context in the previous generation.
	ContextSensitive
	// Stochastic rules pick between two outcomes with a given probability.
	Stochastic
)

func (k RuleKind) String() string {
	switch k {
	case Inert:
		return "inert"
	case Simple:
		return "simple"
	case ContextSensitive:
		return "context-sensitive"
	case Stochastic:
		return "stochastic"
	default:
		return "unknown"
	}
}

// Rule is a compiled production.
//
// Rules are immutable once built; a rule set is an ordered []Rule where the
// first matching rule wins.
type Rule struct {
	Kind RuleKind

	// Pattern is the raw left hand side the rule was compiled from
	Pattern string

	// Focus is the symbol being replaced
	Focus rune

	// Context, only meaningful for ContextSensitive rules. An empty but
	// present context is distinct from an absent one.
	Before    []rune
	After     []rune
	HasBefore bool
	HasAfter  bool

	// Probability of the first outcome, only meaningful for Stochastic rules
	Probability float64

	// Replacements holds one or two right hand sides
	Replacements []string
}

// Matches reports whether the rule applies at index i of the generation.
func (r *Rule) Matches(gen []rune, i int) bool {
	if i < 0 || i >= len(gen) {
		return false
	}

	switch r.Kind {
	case Simple, Stochastic:
		return gen[i] == r.Focus
	case ContextSensitive:
		return r.matchesContext(gen, i)
	default:
		return false
	}
}

func (r *Rule) matchesContext(gen []rune, i int) bool {
	if gen[i] != r.Focus {
		return false
	}

	// Too close to either edge of the string, the rule can't apply
	if r.HasBefore && i < len(r.Before) {
		return false
	}
	if r.HasAfter && i+len(r.After) >= len(gen) {
		return false
	}

	// Check left going from right-to-left
	if r.HasBefore {
		for j := 1; j <= len(r.Before); j++ {
			if gen[i-j] != r.Before[len(r.Before)-j] {
				return false
			}
		}
	}

	// Check right going from left-to-right
	if r.HasAfter {
		for j, want := range r.After {
			if gen[i+1+j] != want {
				return false
			}
		}
	}

	// An inert context rule, with neither side, never matches
	return r.HasBefore || r.HasAfter
}

// Produce returns the replacement for a matched focus, drawing from src for
// stochastic rules. The empty string deletes the focus.
func (r *Rule) Produce(src Source) string {
	if len(r.Replacements) == 0 {
		return ""
	}
	if r.Kind != Stochastic {
		return r.Replacements[0]
	}

	if src.Float64() <= r.Probability {
		return r.Replacements[0]
	}
	if len(r.Replacements) > 1 {
		return r.Replacements[1]
	}
	return ""
}

// Rule stringifier, giving back the textual form of the rule
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Pattern)
	for _, rhs := range r.Replacements {
		b.WriteByte('=')
		b.WriteString(rhs)
	}
	return b.String()
}

// Parameters defines an L-System run.
type Parameters struct {
	Axiom string
	Rules []Rule
	Seed  int64

	// MaxLength caps the length of any generation, 0 disables the cap
	MaxLength int
}

// Warnings lists the non-fatal problems of a set of parameters.
func (p Parameters) Warnings() []error {
	var warnings []error
	if len(p.Rules) == 0 {
		warnings = append(warnings, ErrNoRules)
	}
	if p.Axiom == "" {
		warnings = append(warnings, ErrEmptyAxiom)
	}
	return warnings
}

// Package rules compiles textual productions such as "a=ab", "a<b>c=d" or
// "a(.5)=b=c" into leaf rules.
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	leaf "github.com/sadiwali/Leaf"
)

const (
	// Separator splits the left hand side from the replacements
	Separator = "="

	ContextLeft      = '<'
	ContextRight     = '>'
	ProbabilityOpen  = '('
	ProbabilityClose = ')'
)

var (
	ErrMissingLHS         = errors.New("missing left hand side")
	ErrMissingRHS         = errors.New("missing right hand side")
	ErrTooManyRHS         = errors.New("more than two right hand sides")
	ErrInvalidFocus       = errors.New("focus must be a single symbol")
	ErrInvalidProbability = errors.New("invalid probability")
	ErrInert              = errors.New("rule can never match")
)

// Error reports a rule that was skipped or compiled as inert.
type Error struct {
	Index int
	Text  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rule %d %q: %v", e.Index, e.Text, e.Err)
}

func (e *Error) Cause() error {
	return e.Err
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewRuleClassic(on rune, rewrite string) leaf.Rule {
	return leaf.Rule{
		Kind:         leaf.Simple,
		Pattern:      string(on),
		Focus:        on,
		Replacements: []string{rewrite},
	}
}

// NewRuleStochastic builds a rule yielding outcomes[0] with the given
// probability, and outcomes[1] (or nothing if absent) otherwise. Without any
// outcome the rule deletes its focus.
func NewRuleStochastic(on rune, probability float64, outcomes ...string) leaf.Rule {
	return leaf.Rule{
		Kind:         leaf.Stochastic,
		Pattern:      fmt.Sprintf("%c(%s)", on, strconv.FormatFloat(probability, 'f', -1, 64)),
		Focus:        on,
		Probability:  probability,
		Replacements: outcomes,
	}
}

// NewRuleContextSensitive builds a context-sensitive rule, a nil context
// meaning that side is unconstrained.
func NewRuleContextSensitive(on rune, rewrite string, left *string, right *string) leaf.Rule {
	r := leaf.Rule{
		Kind:         leaf.ContextSensitive,
		Focus:        on,
		Replacements: []string{rewrite},
	}

	var pattern strings.Builder
	if left != nil {
		r.HasBefore = true
		r.Before = []rune(*left)
		pattern.WriteString(*left)
		pattern.WriteRune(ContextLeft)
	}
	pattern.WriteRune(on)
	if right != nil {
		r.HasAfter = true
		r.After = []rune(*right)
		pattern.WriteRune(ContextRight)
		pattern.WriteString(*right)
	}
	r.Pattern = pattern.String()
	return r
}

// Compile parses every raw rule, in order. Malformed rules are skipped and
// reported, inert rules are kept and reported, neither stops compilation.
func Compile(raw []string) ([]leaf.Rule, []error) {
	compiled := make([]leaf.Rule, 0, len(raw))
	var warnings []error
	for i, text := range raw {
		r, err := Parse(text)
		if err != nil {
			warnings = append(warnings, &Error{Index: i, Text: text, Err: err})
			if r == nil {
				continue
			}
		}
		compiled = append(compiled, *r)
	}
	return compiled, warnings
}

// Parse compiles a single rule.
//
// A nil rule with an error means the rule is malformed, a non-nil rule with
// ErrInert means it was compiled but will never match.
func Parse(text string) (*leaf.Rule, error) {
	parts := strings.Split(text, Separator)
	lhs, rhs := parts[0], parts[1:]
	switch {
	case lhs == "":
		return nil, ErrMissingLHS
	case len(rhs) == 0:
		return nil, ErrMissingRHS
	case len(rhs) > 2:
		return nil, ErrTooManyRHS
	}

	// Identify the type of rule
	switch {
	case utf8.RuneCountInString(lhs) == 1:
		r, _ := utf8.DecodeRuneInString(lhs)
		rule := NewRuleClassic(r, rhs[0])
		return &rule, nil
	case strings.ContainsRune(lhs, ContextLeft) || strings.ContainsRune(lhs, ContextRight):
		return parseContextSensitive(lhs, rhs[0])
	case strings.ContainsRune(lhs, ProbabilityOpen) || strings.ContainsRune(lhs, ProbabilityClose):
		return parseStochastic(lhs, rhs)
	default:
		return &leaf.Rule{
			Kind:         leaf.Inert,
			Pattern:      lhs,
			Replacements: rhs,
		}, ErrInert
	}
}

func parseContextSensitive(lhs string, rewrite string) (*leaf.Rule, error) {
	indOfLeft := strings.IndexRune(lhs, ContextLeft)
	indOfRight := strings.IndexRune(lhs, ContextRight)
	if indOfLeft >= 0 && indOfRight >= 0 && indOfRight < indOfLeft {
		return nil, errors.Wrap(ErrInvalidFocus, "context right marker precedes left marker")
	}

	// Condition before and after symbol, nil when absent
	var before, after *string
	focusStart, focusEnd := 0, len(lhs)
	if indOfLeft >= 0 {
		b := lhs[:indOfLeft]
		before = &b
		focusStart = indOfLeft + 1
	}
	if indOfRight >= 0 {
		a := lhs[indOfRight+1:]
		after = &a
		focusEnd = indOfRight
	}

	focus := lhs[focusStart:focusEnd]
	if utf8.RuneCountInString(focus) != 1 {
		return nil, errors.Wrapf(ErrInvalidFocus, "got %q", focus)
	}
	if (before != nil && strings.ContainsRune(*before, ContextRight)) ||
		(after != nil && strings.ContainsRune(*after, ContextLeft)) {
		return nil, errors.Wrap(ErrInvalidFocus, "repeated context marker")
	}

	r, _ := utf8.DecodeRuneInString(focus)
	rule := NewRuleContextSensitive(r, rewrite, before, after)
	rule.Pattern = lhs
	return &rule, nil
}

func parseStochastic(lhs string, rhs []string) (*leaf.Rule, error) {
	indA := strings.IndexRune(lhs, ProbabilityOpen)
	indB := strings.IndexRune(lhs, ProbabilityClose)
	if indA < 0 || indB < indA || indB != len(lhs)-1 {
		return nil, errors.Wrapf(ErrInvalidProbability, "unbalanced parentheses in %q", lhs)
	}

	focus := lhs[:indA]
	if utf8.RuneCountInString(focus) != 1 {
		return nil, errors.Wrapf(ErrInvalidFocus, "got %q", focus)
	}

	var probability float64
	if text := lhs[indA+1 : indB]; text != "" {
		p, err := strconv.ParseFloat("0"+text, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidProbability, "%q", text)
		}
		probability = p
	}
	if probability < 0 || probability > 1 {
		return nil, errors.Wrapf(ErrInvalidProbability, "%v is outside [0,1]", probability)
	}

	r, _ := utf8.DecodeRuneInString(focus)
	rule := NewRuleStochastic(r, probability, rhs...)
	rule.Pattern = lhs
	return &rule, nil
}

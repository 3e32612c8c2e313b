package turtle

import "github.com/pkg/errors"

// DefaultStackCapacity is the deepest branch nesting allowed by default
const DefaultStackCapacity = 500

// Stack holds saved turtle states, never more than its capacity.
type Stack struct {
	entries  []State
	capacity int
}

func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultStackCapacity
	}
	return &Stack{capacity: capacity}
}

// Push saves a copy of st, failing with ErrStackOverflow when full.
func (s *Stack) Push(st State) error {
	if len(s.entries) >= s.capacity {
		return errors.Wrapf(ErrStackOverflow, "capacity of %d reached", s.capacity)
	}
	s.entries = append(s.entries, st)
	return nil
}

// Pop returns the last saved state, ok is false on an empty stack.
func (s *Stack) Pop() (st State, ok bool) {
	if len(s.entries) == 0 {
		return State{}, false
	}
	st = s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return st, true
}

func (s *Stack) Len() int {
	return len(s.entries)
}

func (s *Stack) Cap() int {
	return s.capacity
}

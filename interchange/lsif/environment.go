package lsif

import (
	"github.com/pkg/errors"
)

// Environment holds the named values expressions can refer to.
type Environment map[string]float64

// Get implements govaluate.Parameters.
func (env Environment) Get(name string) (interface{}, error) {
	v, ok := env[name]
	if !ok {
		return nil, errors.Errorf("call to undefined variable %q", name)
	}
	return v, nil
}

// with returns a copy of env with name set to v.
func (env Environment) with(name string, v float64) Environment {
	out := make(Environment, len(env)+1)
	for k, val := range env {
		out[k] = val
	}
	out[name] = v
	return out
}

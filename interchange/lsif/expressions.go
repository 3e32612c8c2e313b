package lsif

import (
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"
)

// Expression is a numeric expression, such as "360/7" or "voxelSize * 2".
type Expression string

// evaluate computes the expression in env, falling back to def when empty.
func (expr Expression) evaluate(env Environment, def float64) (float64, error) {
	asString := string(expr)
	if asString == "" {
		return def, nil
	}

	// Check if possible to simplify if it just a scalar
	if scalar, err := strconv.ParseFloat(asString, 64); err == nil {
		return scalar, nil
	}

	evaluable, err := govaluate.NewEvaluableExpression(asString)
	if err != nil {
		return 0, errors.Wrapf(err, "Error while parsing expression %q", asString)
	}

	resAsInterface, err := evaluable.Eval(env)
	if err != nil {
		return 0, errors.Wrapf(err, "Error while evaluating %q", asString)
	}

	resAsFloat, ok := resAsInterface.(float64)
	if !ok {
		return 0, errors.Errorf("expression %q is not numeric, got %v", asString, resAsInterface)
	}

	return resAsFloat, nil
}

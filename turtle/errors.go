package turtle

import "github.com/pkg/errors"

var (
	ErrStackOverflow    = errors.New("stack overflow")
	ErrReservedSymbol   = errors.New("rule-only symbol can't be drawn")
	ErrInvalidBinding   = errors.New("invalid geometry binding")
	ErrDuplicateBinding = errors.New("symbol already bound")
	ErrInvalidShape     = errors.New("shape has non finite or missing vertices")
)

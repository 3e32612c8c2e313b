// Package interchange imports & define an L-System, and how to draw it, from
// an interchange format
package interchange

import (
	leaf "github.com/sadiwali/Leaf"
	"github.com/sadiwali/Leaf/turtle"
)

// Format is anything that can be turned into runnable parameters.
type Format interface {
	Import() (Document, error)
}

// Document is an imported run: the grammar to expand, and optionally the
// turtle configuration used to draw the result.
type Document struct {
	Parameters leaf.Parameters
	Cycles     uint

	// Warnings raised while importing, such as skipped rules
	Warnings []error

	// Turtle is nil when the document doesn't ask for drawing
	Turtle *turtle.Config
}

package bake

import (
	"errors"
	"fmt"

	"github.com/agentic-research/autobake/api"
)

// Validation failures. Each names the first requirement the session
// failed; validation stops at the first hard failure.
var (
	ErrNoActiveObject       = errors.New("no active object selected")
	ErrNotAMesh             = errors.New("active object is not a mesh")
	ErrNoUVMap              = errors.New("active object has no UV map")
	ErrNoMaterial           = errors.New("active object has no material")
	ErrNodesDisabled        = errors.New("material does not use nodes")
	ErrNoPrincipledNode     = errors.New("no principled BSDF node found in material")
	ErrMaterialSlotMismatch = errors.New("material not found in object's slots")
)

// MapError is a failure scoped to one map type. A bake MapError stops
// the run; a save MapError marks the run failed but the remaining
// images still get their save attempt.
type MapError struct {
	Map api.MapType
	Op  string // "bake" or "save"
	Err error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Map, e.Err)
}

func (e *MapError) Unwrap() error {
	return e.Err
}
